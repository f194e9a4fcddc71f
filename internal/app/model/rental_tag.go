package model

import (
	"time"

	"gorm.io/gorm"
)

// RentalTag is a free-form label attached to rentals through the
// rental_taggings join table, upserted by value.
type RentalTag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Value string `gorm:"index;not null" json:"value"`

	Metadata map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RentalTag) TableName() string {
	return "rental_tags"
}
