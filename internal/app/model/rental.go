package model

import (
	"time"

	"gorm.io/gorm"
)

type RentalStatus string

const (
	RentalStatusDraft     RentalStatus = "draft"
	RentalStatusProposed  RentalStatus = "proposed"
	RentalStatusPublished RentalStatus = "published"
	RentalStatusRejected  RentalStatus = "rejected"
)

// Rental is the aggregate root of the catalog. Variants, options and images
// live and die with it; tags, type, collection and sales channels are shared
// references.
type Rental struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"not null" json:"title"`
	Subtitle     string       `json:"subtitle"`
	Description  string       `gorm:"type:text" json:"description"`
	Handle       string       `gorm:"index;not null" json:"handle"` // unique among live rows (partial index, see db.Migrate)
	Status       RentalStatus `gorm:"type:varchar(20);default:draft" json:"status"`
	IsGiftcard   bool         `gorm:"default:false" json:"is_giftcard"`
	Discountable bool         `gorm:"default:true" json:"discountable"`
	Thumbnail    string       `json:"thumbnail"`
	ExternalID   *string      `gorm:"index" json:"external_id"`
	ProfileID    *uint        `gorm:"index" json:"profile_id"` // shipping profile

	// Dimensions
	Weight *float64 `json:"weight"`
	Length *float64 `json:"length"`
	Height *float64 `json:"height"`
	Width  *float64 `json:"width"`

	// Customs
	HSCode        *string `json:"hs_code"`
	OriginCountry *string `json:"origin_country"`
	MidCode       *string `json:"mid_code"`
	Material      *string `json:"material"`

	CollectionID *uint             `gorm:"index" json:"collection_id"`
	Collection   *RentalCollection `gorm:"foreignKey:CollectionID" json:"collection,omitempty"`
	TypeID       *uint             `gorm:"index" json:"type_id"`
	Type         *RentalType       `gorm:"foreignKey:TypeID" json:"type,omitempty"`

	Images        []RentalImage          `gorm:"foreignKey:RentalID" json:"images,omitempty"`
	Options       []RentalOption         `gorm:"foreignKey:RentalID" json:"options,omitempty"`
	Variants      []RentalVariant        `gorm:"foreignKey:RentalID" json:"variants,omitempty"`
	Tags          []RentalTag            `gorm:"many2many:rental_taggings" json:"tags,omitempty"`
	SalesChannels []SalesChannel         `gorm:"many2many:rental_sales_channels" json:"sales_channels,omitempty"`
	Metadata      map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Rental) TableName() string {
	return "rentals"
}

// RentalImage is an ordered image attached to a rental.
type RentalImage struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	RentalID uint   `gorm:"index;not null" json:"rental_id"`
	URL      string `gorm:"not null" json:"url"`
	Rank     int    `gorm:"default:0" json:"rank"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RentalImage) TableName() string {
	return "rental_images"
}
