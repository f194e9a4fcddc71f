package model

import "time"

// Discount-condition join rows. The condition itself belongs to the host
// platform's discount module; this plugin only stores which catalog records
// a condition covers so lookups can join through them.

type DiscountConditionRental struct {
	ConditionID uint      `gorm:"primaryKey;index" json:"condition_id"`
	RentalID    uint      `gorm:"primaryKey;index" json:"rental_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (DiscountConditionRental) TableName() string {
	return "discount_condition_rentals"
}

type DiscountConditionRentalTag struct {
	ConditionID uint      `gorm:"primaryKey;index" json:"condition_id"`
	TagID       uint      `gorm:"primaryKey;index" json:"tag_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (DiscountConditionRentalTag) TableName() string {
	return "discount_condition_rental_tags"
}

type DiscountConditionRentalType struct {
	ConditionID uint      `gorm:"primaryKey;index" json:"condition_id"`
	TypeID      uint      `gorm:"primaryKey;index" json:"type_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (DiscountConditionRentalType) TableName() string {
	return "discount_condition_rental_types"
}

type DiscountConditionRentalCollection struct {
	ConditionID  uint      `gorm:"primaryKey;index" json:"condition_id"`
	CollectionID uint      `gorm:"primaryKey;index" json:"collection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (DiscountConditionRentalCollection) TableName() string {
	return "discount_condition_rental_collections"
}
