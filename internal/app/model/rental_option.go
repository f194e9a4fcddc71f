package model

import (
	"time"

	"gorm.io/gorm"
)

// RentalOption is an axis along which a rental's variants differ, e.g.
// "Size". Titles are unique (case-insensitively) within one rental.
type RentalOption struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RentalID uint   `gorm:"index;not null" json:"rental_id"`
	Title    string `gorm:"not null" json:"title"`

	Values   []RentalOptionValue    `gorm:"foreignKey:OptionID" json:"values,omitempty"`
	Metadata map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RentalOption) TableName() string {
	return "rental_options"
}

// RentalOptionValue assigns a value for one option to one variant. A variant
// holds exactly one value per option of its rental.
type RentalOptionValue struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	OptionID  uint   `gorm:"index:idx_option_values_variant_option,unique;not null" json:"option_id"`
	VariantID uint   `gorm:"index:idx_option_values_variant_option,unique;not null" json:"variant_id"`
	Value     string `gorm:"not null" json:"value"`

	Metadata map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RentalOptionValue) TableName() string {
	return "rental_option_values"
}
