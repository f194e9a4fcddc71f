package repository

import (
	"errors"
	"strings"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

type TypeRepository interface {
	List(search string, limit, offset int) ([]model.RentalType, int64, error)
	FindByID(id uint) (*model.RentalType, error)
	UpsertByValue(value string) (*model.RentalType, error)
	FindByDiscountCondition(conditionID uint) ([]model.RentalType, error)
	WithTx(tx *gorm.DB) TypeRepository
}

type typeRepository struct {
	db *gorm.DB
}

func NewTypeRepository(db *gorm.DB) TypeRepository {
	return &typeRepository{db: db}
}

func (r *typeRepository) WithTx(tx *gorm.DB) TypeRepository {
	return &typeRepository{db: tx}
}

func (r *typeRepository) List(search string, limit, offset int) ([]model.RentalType, int64, error) {
	query := r.db.Model(&model.RentalType{})
	if search != "" {
		query = query.Where("LOWER(value) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("value ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var types []model.RentalType
	if err := query.Find(&types).Error; err != nil {
		logger.Error("Failed to list rental types", err, nil)
		return nil, 0, err
	}
	return types, total, nil
}

func (r *typeRepository) FindByID(id uint) (*model.RentalType, error) {
	var rentalType model.RentalType
	if err := r.db.First(&rentalType, id).Error; err != nil {
		return nil, err
	}
	return &rentalType, nil
}

// UpsertByValue reuses the live type with that value or creates a new one.
func (r *typeRepository) UpsertByValue(value string) (*model.RentalType, error) {
	var rentalType model.RentalType
	err := r.db.Where("value = ?", value).First(&rentalType).Error
	if err == nil {
		return &rentalType, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rentalType = model.RentalType{Value: value}
	if err := r.db.Create(&rentalType).Error; err != nil {
		logger.Error("Failed to create rental type", err, map[string]interface{}{
			"value": value,
		})
		return nil, err
	}
	return &rentalType, nil
}

func (r *typeRepository) FindByDiscountCondition(conditionID uint) ([]model.RentalType, error) {
	var types []model.RentalType
	err := r.db.Model(&model.RentalType{}).
		Joins("JOIN discount_condition_rental_types ON discount_condition_rental_types.type_id = rental_types.id").
		Where("discount_condition_rental_types.condition_id = ?", conditionID).
		Find(&types).Error
	if err != nil {
		logger.Error("Failed to find types by discount condition", err, map[string]interface{}{
			"condition_id": conditionID,
		})
		return nil, err
	}
	return types, nil
}
