package model

import (
	"time"

	"gorm.io/gorm"
)

// RentalVariant is a purchasable version of a rental, distinguished from its
// siblings by its option-value combination.
type RentalVariant struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RentalID uint   `gorm:"index;not null" json:"rental_id"`
	Title    string `gorm:"not null" json:"title"`

	// Identifiers, each unique among live rows when present (partial
	// indexes, see db.Migrate).
	SKU     *string `gorm:"index" json:"sku"`
	Barcode *string `gorm:"index" json:"barcode"`
	EAN     *string `gorm:"index" json:"ean"`
	UPC     *string `gorm:"index" json:"upc"`

	VariantRank       int  `gorm:"default:0" json:"variant_rank"`
	InventoryQuantity int  `gorm:"default:0" json:"inventory_quantity"`
	AllowBackorder    bool `gorm:"default:false" json:"allow_backorder"`
	ManageInventory   bool `gorm:"default:true" json:"manage_inventory"`

	Weight *float64 `json:"weight"`
	Length *float64 `json:"length"`
	Height *float64 `json:"height"`
	Width  *float64 `json:"width"`

	HSCode        *string `json:"hs_code"`
	OriginCountry *string `json:"origin_country"`
	MidCode       *string `json:"mid_code"`
	Material      *string `json:"material"`

	Options  []RentalOptionValue    `gorm:"foreignKey:VariantID" json:"options,omitempty"`
	Prices   []MoneyAmount          `gorm:"foreignKey:VariantID" json:"prices,omitempty"`
	Rental   *Rental                `gorm:"foreignKey:RentalID" json:"rental,omitempty"`
	Metadata map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RentalVariant) TableName() string {
	return "rental_variants"
}

// MoneyAmount is one price of a variant, scoped to either a region or a
// currency. Rows without a price list are "default" prices: at most one per
// (variant, region) and one per (variant, currency).
type MoneyAmount struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	VariantID    uint   `gorm:"index;not null" json:"variant_id"`
	CurrencyCode string `gorm:"type:varchar(3);not null" json:"currency_code"`
	RegionID     *uint  `gorm:"index" json:"region_id"`
	Amount       int64  `gorm:"not null" json:"amount"`
	MinQuantity  *int   `json:"min_quantity"`
	MaxQuantity  *int   `json:"max_quantity"`
	PriceListID  *uint  `gorm:"index" json:"price_list_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MoneyAmount) TableName() string {
	return "money_amounts"
}
