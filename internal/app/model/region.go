package model

import (
	"time"

	"gorm.io/gorm"
)

// Region is consumed for price resolution only; it is managed by the host
// platform and mirrored here so region-scoped prices can resolve a currency.
type Region struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	CurrencyCode string `gorm:"type:varchar(3);not null" json:"currency_code"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Region) TableName() string {
	return "regions"
}

type ShippingProfileType string

const (
	ShippingProfileDefault  ShippingProfileType = "default"
	ShippingProfileGiftCard ShippingProfileType = "gift_card"
)

// ShippingProfile is referenced by rentals via profile_id. The catalog only
// needs the default and gift-card profiles to assign on creation.
type ShippingProfile struct {
	ID   uint                `gorm:"primarykey" json:"id"`
	Name string              `gorm:"not null" json:"name"`
	Type ShippingProfileType `gorm:"type:varchar(20);not null" json:"type"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ShippingProfile) TableName() string {
	return "shipping_profiles"
}
