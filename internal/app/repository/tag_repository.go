package repository

import (
	"errors"
	"strings"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

// TagUsage pairs a tag with the number of live rentals carrying it.
type TagUsage struct {
	model.RentalTag
	UsageCount int64 `json:"usage_count"`
}

type TagRepository interface {
	List(search string, limit, offset int) ([]model.RentalTag, int64, error)
	FindByID(id uint) (*model.RentalTag, error)
	UpsertByValue(value string) (*model.RentalTag, error)
	UpsertByValues(values []string) ([]model.RentalTag, error)
	ListByUsage(limit int) ([]TagUsage, error)
	FindByDiscountCondition(conditionID uint) ([]model.RentalTag, error)
	WithTx(tx *gorm.DB) TagRepository
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) List(search string, limit, offset int) ([]model.RentalTag, int64, error) {
	query := r.db.Model(&model.RentalTag{})
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

	var tags []model.RentalTag
	if err := query.Find(&tags).Error; err != nil {
		logger.Error("Failed to list rental tags", err, nil)
		return nil, 0, err
	}
	return tags, total, nil
}

func (r *tagRepository) FindByID(id uint) (*model.RentalTag, error) {
	var tag model.RentalTag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// UpsertByValue reuses the live tag with that value or creates a new one.
func (r *tagRepository) UpsertByValue(value string) (*model.RentalTag, error) {
	var tag model.RentalTag
	err := r.db.Where("value = ?", value).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = model.RentalTag{Value: value}
	if err := r.db.Create(&tag).Error; err != nil {
		logger.Error("Failed to create rental tag", err, map[string]interface{}{
			"value": value,
		})
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) UpsertByValues(values []string) ([]model.RentalTag, error) {
	tags := make([]model.RentalTag, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true

		tag, err := r.UpsertByValue(value)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// ListByUsage orders tags by how many live rentals carry them.
func (r *tagRepository) ListByUsage(limit int) ([]TagUsage, error) {
	// Count rentals.id, not rental_taggings.rental_id: the rentals join is
	// filtered to live rows, so its id is NULL for taggings that only point
	// at soft-deleted rentals and those drop out of the count.
	query := r.db.Model(&model.RentalTag{}).
		Select("rental_tags.*, COUNT(rentals.id) AS usage_count").
		Joins("LEFT JOIN rental_taggings ON rental_taggings.rental_tag_id = rental_tags.id").
		Joins("LEFT JOIN rentals ON rentals.id = rental_taggings.rental_id AND rentals.deleted_at IS NULL").
		Group("rental_tags.id").
		Order("usage_count DESC, rental_tags.value ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var usages []TagUsage
	if err := query.Find(&usages).Error; err != nil {
		logger.Error("Failed to list rental tags by usage", err, nil)
		return nil, err
	}
	return usages, nil
}

func (r *tagRepository) FindByDiscountCondition(conditionID uint) ([]model.RentalTag, error) {
	var tags []model.RentalTag
	err := r.db.Model(&model.RentalTag{}).
		Joins("JOIN discount_condition_rental_tags ON discount_condition_rental_tags.tag_id = rental_tags.id").
		Where("discount_condition_rental_tags.condition_id = ?", conditionID).
		Find(&tags).Error
	if err != nil {
		logger.Error("Failed to find tags by discount condition", err, map[string]interface{}{
			"condition_id": conditionID,
		})
		return nil, err
	}
	return tags, nil
}
