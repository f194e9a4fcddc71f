package model

import (
	"time"

	"gorm.io/gorm"
)

// SalesChannel scopes where a rental is published. Association is gated by
// the sales-channels feature flag.
type SalesChannel struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	IsDisabled  bool   `gorm:"default:false" json:"is_disabled"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SalesChannel) TableName() string {
	return "sales_channels"
}
