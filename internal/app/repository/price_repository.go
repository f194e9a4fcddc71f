package repository

import (
	"errors"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

// PriceScope identifies one default price slot of a variant: either a
// region or a bare currency, never both.
type PriceScope struct {
	RegionID     *uint
	CurrencyCode string
}

type PriceRepository interface {
	ListByVariant(variantID uint) ([]model.MoneyAmount, error)
	ListDefaultsByVariant(variantID uint) ([]model.MoneyAmount, error)
	FindDefaultByScope(variantID uint, scope PriceScope) (*model.MoneyAmount, error)
	Create(price *model.MoneyAmount) error
	Save(price *model.MoneyAmount) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) PriceRepository
}

type priceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) WithTx(tx *gorm.DB) PriceRepository {
	return &priceRepository{db: tx}
}

func (r *priceRepository) ListByVariant(variantID uint) ([]model.MoneyAmount, error) {
	var prices []model.MoneyAmount
	err := r.db.Where("variant_id = ?", variantID).Find(&prices).Error
	if err != nil {
		logger.Error("Failed to list prices by variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return nil, err
	}
	return prices, nil
}

// ListDefaultsByVariant returns the variant's prices that are not scoped to
// a price list.
func (r *priceRepository) ListDefaultsByVariant(variantID uint) ([]model.MoneyAmount, error) {
	var prices []model.MoneyAmount
	err := r.db.
		Where("variant_id = ? AND price_list_id IS NULL", variantID).
		Find(&prices).Error
	if err != nil {
		logger.Error("Failed to list default prices by variant", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return nil, err
	}
	return prices, nil
}

// FindDefaultByScope returns the single default price for the given scope,
// or nil when no row exists.
func (r *priceRepository) FindDefaultByScope(variantID uint, scope PriceScope) (*model.MoneyAmount, error) {
	query := r.db.
		Where("variant_id = ? AND price_list_id IS NULL", variantID)
	if scope.RegionID != nil {
		query = query.Where("region_id = ?", *scope.RegionID)
	} else {
		query = query.Where("region_id IS NULL AND currency_code = ?", scope.CurrencyCode)
	}

	var price model.MoneyAmount
	if err := query.First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

func (r *priceRepository) Create(price *model.MoneyAmount) error {
	if err := r.db.Create(price).Error; err != nil {
		logger.Error("Failed to create price in database", err, map[string]interface{}{
			"variant_id":    price.VariantID,
			"currency_code": price.CurrencyCode,
		})
		return err
	}
	return nil
}

func (r *priceRepository) Save(price *model.MoneyAmount) error {
	if err := r.db.Save(price).Error; err != nil {
		logger.Error("Failed to save price in database", err, map[string]interface{}{
			"price_id": price.ID,
		})
		return err
	}
	return nil
}

func (r *priceRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.MoneyAmount{}, id).Error; err != nil {
		logger.Error("Failed to delete price from database", err, map[string]interface{}{
			"price_id": id,
		})
		return err
	}
	return nil
}
