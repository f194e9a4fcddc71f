package repository

import (
	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

type TaxRateRepository interface {
	AddToRental(rentalID uint, rateIDs []uint) error
	RemoveFromRental(rentalID uint, rateIDs []uint) error
	ListRatesByRental(rentalID uint) ([]uint, error)
	AddToType(typeID uint, rateIDs []uint) error
	RemoveFromType(typeID uint, rateIDs []uint) error
	ListRatesByType(typeID uint) ([]uint, error)
	WithTx(tx *gorm.DB) TaxRateRepository
}

type taxRateRepository struct {
	db *gorm.DB
}

func NewTaxRateRepository(db *gorm.DB) TaxRateRepository {
	return &taxRateRepository{db: db}
}

func (r *taxRateRepository) WithTx(tx *gorm.DB) TaxRateRepository {
	return &taxRateRepository{db: tx}
}

// AddToRental inserts join rows, skipping pairs that already exist.
func (r *taxRateRepository) AddToRental(rentalID uint, rateIDs []uint) error {
	for _, rateID := range rateIDs {
		var count int64
		if err := r.db.Model(&model.RentalTaxRate{}).
			Where("rental_id = ? AND rate_id = ?", rentalID, rateID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row := model.RentalTaxRate{RentalID: rentalID, RateID: rateID}
		if err := r.db.Create(&row).Error; err != nil {
			logger.Error("Failed to add tax rate to rental", err, map[string]interface{}{
				"rental_id": rentalID,
				"rate_id":   rateID,
			})
			return err
		}
	}
	return nil
}

func (r *taxRateRepository) RemoveFromRental(rentalID uint, rateIDs []uint) error {
	return r.db.
		Where("rental_id = ? AND rate_id IN ?", rentalID, rateIDs).
		Delete(&model.RentalTaxRate{}).Error
}

func (r *taxRateRepository) ListRatesByRental(rentalID uint) ([]uint, error) {
	var rateIDs []uint
	err := r.db.Model(&model.RentalTaxRate{}).
		Where("rental_id = ?", rentalID).
		Pluck("rate_id", &rateIDs).Error
	return rateIDs, err
}

func (r *taxRateRepository) AddToType(typeID uint, rateIDs []uint) error {
	for _, rateID := range rateIDs {
		var count int64
		if err := r.db.Model(&model.RentalTypeTaxRate{}).
			Where("type_id = ? AND rate_id = ?", typeID, rateID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row := model.RentalTypeTaxRate{TypeID: typeID, RateID: rateID}
		if err := r.db.Create(&row).Error; err != nil {
			logger.Error("Failed to add tax rate to rental type", err, map[string]interface{}{
				"type_id": typeID,
				"rate_id": rateID,
			})
			return err
		}
	}
	return nil
}

func (r *taxRateRepository) RemoveFromType(typeID uint, rateIDs []uint) error {
	return r.db.
		Where("type_id = ? AND rate_id IN ?", typeID, rateIDs).
		Delete(&model.RentalTypeTaxRate{}).Error
}

func (r *taxRateRepository) ListRatesByType(typeID uint) ([]uint, error) {
	var rateIDs []uint
	err := r.db.Model(&model.RentalTypeTaxRate{}).
		Where("type_id = ?", typeID).
		Pluck("rate_id", &rateIDs).Error
	return rateIDs, err
}
