package model

import "time"

// RentalTaxRate links a rental to a tax rate owned by the host platform.
type RentalTaxRate struct {
	RentalID  uint      `gorm:"primaryKey;index" json:"rental_id"`
	RateID    uint      `gorm:"primaryKey;index" json:"rate_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (RentalTaxRate) TableName() string {
	return "rental_tax_rates"
}

// RentalTypeTaxRate links a rental type to a tax rate.
type RentalTypeTaxRate struct {
	TypeID    uint      `gorm:"primaryKey;index" json:"type_id"`
	RateID    uint      `gorm:"primaryKey;index" json:"rate_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (RentalTypeTaxRate) TableName() string {
	return "rental_type_tax_rates"
}
