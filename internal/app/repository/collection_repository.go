package repository

import (
	"strings"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

type CollectionRepository interface {
	Create(collection *model.RentalCollection) error
	Save(collection *model.RentalCollection) error
	FindByID(id uint, withRentals bool) (*model.RentalCollection, error)
	FindByHandle(handle string) (*model.RentalCollection, error)
	List(search string, limit, offset int) ([]model.RentalCollection, int64, error)
	ExistsWithHandle(handle string, excludeID uint) (bool, error)
	FindByDiscountCondition(conditionID uint) ([]model.RentalCollection, error)
	Delete(id uint) error
	WithTx(tx *gorm.DB) CollectionRepository
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) WithTx(tx *gorm.DB) CollectionRepository {
	return &collectionRepository{db: tx}
}

func (r *collectionRepository) Create(collection *model.RentalCollection) error {
	if err := r.db.Create(collection).Error; err != nil {
		logger.Error("Failed to create collection in database", err, map[string]interface{}{
			"title":  collection.Title,
			"handle": collection.Handle,
		})
		return err
	}
	return nil
}

func (r *collectionRepository) Save(collection *model.RentalCollection) error {
	if err := r.db.Save(collection).Error; err != nil {
		logger.Error("Failed to save collection in database", err, map[string]interface{}{
			"collection_id": collection.ID,
		})
		return err
	}
	return nil
}

func (r *collectionRepository) FindByID(id uint, withRentals bool) (*model.RentalCollection, error) {
	query := r.db
	if withRentals {
		query = query.Preload("Rentals")
	}

	var collection model.RentalCollection
	if err := query.First(&collection, id).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) FindByHandle(handle string) (*model.RentalCollection, error) {
	var collection model.RentalCollection
	if err := r.db.Where("handle = ?", handle).First(&collection).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) List(search string, limit, offset int) ([]model.RentalCollection, int64, error) {
	query := r.db.Model(&model.RentalCollection{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(handle) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("title ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var collections []model.RentalCollection
	if err := query.Find(&collections).Error; err != nil {
		logger.Error("Failed to list collections", err, nil)
		return nil, 0, err
	}
	return collections, total, nil
}

func (r *collectionRepository) ExistsWithHandle(handle string, excludeID uint) (bool, error) {
	query := r.db.Model(&model.RentalCollection{}).Where("handle = ?", handle)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *collectionRepository) FindByDiscountCondition(conditionID uint) ([]model.RentalCollection, error) {
	var collections []model.RentalCollection
	err := r.db.Model(&model.RentalCollection{}).
		Joins("JOIN discount_condition_rental_collections ON discount_condition_rental_collections.collection_id = rental_collections.id").
		Where("discount_condition_rental_collections.condition_id = ?", conditionID).
		Find(&collections).Error
	if err != nil {
		logger.Error("Failed to find collections by discount condition", err, map[string]interface{}{
			"condition_id": conditionID,
		})
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.RentalCollection{}, id).Error; err != nil {
		logger.Error("Failed to delete collection from database", err, map[string]interface{}{
			"collection_id": id,
		})
		return err
	}
	return nil
}
