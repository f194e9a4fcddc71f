package model

import (
	"time"

	"gorm.io/gorm"
)

// RentalType is a shared lookup value referenced by rentals, upserted by
// value.
type RentalType struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Value string `gorm:"index;not null" json:"value"`

	Metadata map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RentalType) TableName() string {
	return "rental_types"
}
