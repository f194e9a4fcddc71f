package repository

import (
	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

type OptionRepository interface {
	Create(option *model.RentalOption) error
	Save(option *model.RentalOption) error
	FindByID(id uint) (*model.RentalOption, error)
	FindByRental(rentalID uint) ([]model.RentalOption, error)
	Delete(id uint) error

	CreateValue(value *model.RentalOptionValue) error
	SaveValue(value *model.RentalOptionValue) error
	FindValue(variantID, optionID uint) (*model.RentalOptionValue, error)
	FindValuesByVariant(variantID uint) ([]model.RentalOptionValue, error)
	FindValuesByOption(optionID uint) ([]model.RentalOptionValue, error)
	DeleteValue(variantID, optionID uint) error

	WithTx(tx *gorm.DB) OptionRepository
}

type optionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepository{db: db}
}

func (r *optionRepository) WithTx(tx *gorm.DB) OptionRepository {
	return &optionRepository{db: tx}
}

func (r *optionRepository) Create(option *model.RentalOption) error {
	if err := r.db.Create(option).Error; err != nil {
		logger.Error("Failed to create rental option in database", err, map[string]interface{}{
			"rental_id": option.RentalID,
			"title":     option.Title,
		})
		return err
	}
	return nil
}

func (r *optionRepository) Save(option *model.RentalOption) error {
	if err := r.db.Save(option).Error; err != nil {
		logger.Error("Failed to save rental option in database", err, map[string]interface{}{
			"option_id": option.ID,
		})
		return err
	}
	return nil
}

func (r *optionRepository) FindByID(id uint) (*model.RentalOption, error) {
	var option model.RentalOption
	if err := r.db.Preload("Values").First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *optionRepository) FindByRental(rentalID uint) ([]model.RentalOption, error) {
	var options []model.RentalOption
	err := r.db.Preload("Values").
		Where("rental_id = ?", rentalID).
		Order("id ASC").
		Find(&options).Error
	if err != nil {
		logger.Error("Failed to find options by rental", err, map[string]interface{}{
			"rental_id": rentalID,
		})
		return nil, err
	}
	return options, nil
}

func (r *optionRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.RentalOption{}, id).Error; err != nil {
		logger.Error("Failed to delete rental option from database", err, map[string]interface{}{
			"option_id": id,
		})
		return err
	}
	return nil
}

func (r *optionRepository) CreateValue(value *model.RentalOptionValue) error {
	if err := r.db.Create(value).Error; err != nil {
		logger.Error("Failed to create option value in database", err, map[string]interface{}{
			"variant_id": value.VariantID,
			"option_id":  value.OptionID,
		})
		return err
	}
	return nil
}

func (r *optionRepository) SaveValue(value *model.RentalOptionValue) error {
	if err := r.db.Save(value).Error; err != nil {
		logger.Error("Failed to save option value in database", err, map[string]interface{}{
			"option_value_id": value.ID,
		})
		return err
	}
	return nil
}

func (r *optionRepository) FindValue(variantID, optionID uint) (*model.RentalOptionValue, error) {
	var value model.RentalOptionValue
	err := r.db.
		Where("variant_id = ? AND option_id = ?", variantID, optionID).
		First(&value).Error
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *optionRepository) FindValuesByVariant(variantID uint) ([]model.RentalOptionValue, error) {
	var values []model.RentalOptionValue
	err := r.db.Where("variant_id = ?", variantID).Find(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (r *optionRepository) FindValuesByOption(optionID uint) ([]model.RentalOptionValue, error) {
	var values []model.RentalOptionValue
	err := r.db.Where("option_id = ?", optionID).Find(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// DeleteValue removes the value row permanently. The (variant, option) pair
// is covered by a unique index, so a soft-deleted row would block re-adding
// the same pair; removal is idempotent.
func (r *optionRepository) DeleteValue(variantID, optionID uint) error {
	err := r.db.Unscoped().
		Where("variant_id = ? AND option_id = ?", variantID, optionID).
		Delete(&model.RentalOptionValue{}).Error
	if err != nil {
		logger.Error("Failed to delete option value from database", err, map[string]interface{}{
			"variant_id": variantID,
			"option_id":  optionID,
		})
		return err
	}
	return nil
}
