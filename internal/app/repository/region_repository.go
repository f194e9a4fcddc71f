package repository

import (
	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"gorm.io/gorm"
)

// RegionRepository resolves regions for price scoping. Regions are
// managed elsewhere; the catalog only reads them.
type RegionRepository interface {
	FindByID(id uint) (*model.Region, error)
	List() ([]model.Region, error)
}

type regionRepository struct {
	db *gorm.DB
}

func NewRegionRepository(db *gorm.DB) RegionRepository {
	return &regionRepository{db: db}
}

func (r *regionRepository) FindByID(id uint) (*model.Region, error) {
	var region model.Region
	if err := r.db.First(&region, id).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *regionRepository) List() ([]model.Region, error) {
	var regions []model.Region
	if err := r.db.Order("name ASC").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

// ShippingProfileRepository hands out the two built-in profiles that
// rentals are assigned on creation.
type ShippingProfileRepository interface {
	FindDefault() (*model.ShippingProfile, error)
	FindGiftCardDefault() (*model.ShippingProfile, error)
}

type shippingProfileRepository struct {
	db *gorm.DB
}

func NewShippingProfileRepository(db *gorm.DB) ShippingProfileRepository {
	return &shippingProfileRepository{db: db}
}

func (r *shippingProfileRepository) findByType(profileType model.ShippingProfileType) (*model.ShippingProfile, error) {
	var profile model.ShippingProfile
	if err := r.db.Where("type = ?", profileType).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *shippingProfileRepository) FindDefault() (*model.ShippingProfile, error) {
	return r.findByType(model.ShippingProfileDefault)
}

func (r *shippingProfileRepository) FindGiftCardDefault() (*model.ShippingProfile, error) {
	return r.findByType(model.ShippingProfileGiftCard)
}
