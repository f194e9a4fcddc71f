package model

import (
	"time"

	"gorm.io/gorm"
)

// RentalCollection groups rentals under a handle-addressable name.
type RentalCollection struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Title  string `gorm:"not null" json:"title"`
	Handle string `gorm:"index;not null" json:"handle"` // unique among live rows (partial index, see db.Migrate)

	Rentals  []Rental               `gorm:"foreignKey:CollectionID" json:"rentals,omitempty"`
	Metadata map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RentalCollection) TableName() string {
	return "rental_collections"
}
