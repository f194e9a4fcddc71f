package repository

import (
	"strings"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

// RentalRelation names a loadable relation of the rental aggregate. Using a
// closed set keeps join plans explicit instead of parsing relation strings
// at runtime.
type RentalRelation string

const (
	RentalRelationVariants      RentalRelation = "variants"
	RentalRelationOptions       RentalRelation = "options"
	RentalRelationImages        RentalRelation = "images"
	RentalRelationTags          RentalRelation = "tags"
	RentalRelationType          RentalRelation = "type"
	RentalRelationCollection    RentalRelation = "collection"
	RentalRelationSalesChannels RentalRelation = "sales_channels"
)

// AllRentalRelations is the full hydration set used by single-record reads.
var AllRentalRelations = []RentalRelation{
	RentalRelationVariants,
	RentalRelationOptions,
	RentalRelationImages,
	RentalRelationTags,
	RentalRelationType,
	RentalRelationCollection,
	RentalRelationSalesChannels,
}

// RentalFilter drives list queries. FreeText switches to the join-based
// search path; every other field is an equality/membership predicate.
type RentalFilter struct {
	IDs             []uint
	Handle          string
	Status          []model.RentalStatus
	CollectionIDs   []uint
	TypeIDs         []uint
	TagIDs          []uint
	SalesChannelIDs []uint
	IsGiftcard      *bool
	Discountable    *bool
	FreeText        string
	IncludeDeleted  bool
	Limit           int
	Offset          int
	Relations       []RentalRelation
}

type RentalRepository interface {
	Create(rental *model.Rental) error
	BulkCreate(rentals []model.Rental, batchSize int) error
	Save(rental *model.Rental) error
	FindByID(id uint, relations []RentalRelation, includeDeleted bool) (*model.Rental, error)
	FindByHandle(handle string, relations []RentalRelation, includeDeleted bool) (*model.Rental, error)
	FindByExternalID(externalID string, relations []RentalRelation, includeDeleted bool) (*model.Rental, error)
	FindWithFilter(filter RentalFilter) ([]model.Rental, int64, error)
	ExistsWithHandle(handle string, excludeID uint) (bool, error)
	FilterIDsBySalesChannel(rentalIDs []uint, salesChannelID uint) ([]uint, error)
	CountInSalesChannels(rentalID uint, salesChannelIDs []uint) (int64, error)
	WithTx(tx *gorm.DB) RentalRepository
}

type rentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) WithTx(tx *gorm.DB) RentalRepository {
	return &rentalRepository{db: tx}
}

func (r *rentalRepository) Create(rental *model.Rental) error {
	if err := r.db.Create(rental).Error; err != nil {
		logger.Error("Failed to create rental in database", err, map[string]interface{}{
			"title":  rental.Title,
			"handle": rental.Handle,
		})
		return err
	}
	return nil
}

// BulkCreate inserts rentals in batches, nested variants and prices
// included. Used by the xlsx import.
func (r *rentalRepository) BulkCreate(rentals []model.Rental, batchSize int) error {
	if len(rentals) == 0 {
		return nil
	}
	if err := r.db.CreateInBatches(rentals, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create rentals", err, map[string]interface{}{
			"count": len(rentals),
		})
		return err
	}
	return nil
}

func (r *rentalRepository) Save(rental *model.Rental) error {
	if err := r.db.Save(rental).Error; err != nil {
		logger.Error("Failed to save rental in database", err, map[string]interface{}{
			"rental_id": rental.ID,
		})
		return err
	}
	return nil
}

// applyRelations attaches one preload per requested top-level relation, so
// every one-to-many collection loads through its own batched query instead
// of fanning out rows in a single join.
func applyRelations(query *gorm.DB, relations []RentalRelation) *gorm.DB {
	for _, relation := range relations {
		switch relation {
		case RentalRelationVariants:
			query = query.
				Preload("Variants", func(db *gorm.DB) *gorm.DB {
					return db.Order("rental_variants.variant_rank ASC, rental_variants.id ASC")
				}).
				Preload("Variants.Options").
				Preload("Variants.Prices")
		case RentalRelationOptions:
			query = query.Preload("Options").Preload("Options.Values")
		case RentalRelationImages:
			query = query.Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order("rental_images.rank ASC, rental_images.id ASC")
			})
		case RentalRelationTags:
			query = query.Preload("Tags")
		case RentalRelationType:
			query = query.Preload("Type")
		case RentalRelationCollection:
			query = query.Preload("Collection")
		case RentalRelationSalesChannels:
			query = query.Preload("SalesChannels")
		}
	}
	return query
}

func (r *rentalRepository) findOne(relations []RentalRelation, includeDeleted bool, cond string, args ...interface{}) (*model.Rental, error) {
	query := r.db
	if includeDeleted {
		query = query.Unscoped()
	}
	query = applyRelations(query, relations)

	var rental model.Rental
	if err := query.Where(cond, args...).First(&rental).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *rentalRepository) FindByID(id uint, relations []RentalRelation, includeDeleted bool) (*model.Rental, error) {
	return r.findOne(relations, includeDeleted, "rentals.id = ?", id)
}

func (r *rentalRepository) FindByHandle(handle string, relations []RentalRelation, includeDeleted bool) (*model.Rental, error) {
	return r.findOne(relations, includeDeleted, "rentals.handle = ?", handle)
}

func (r *rentalRepository) FindByExternalID(externalID string, relations []RentalRelation, includeDeleted bool) (*model.Rental, error) {
	return r.findOne(relations, includeDeleted, "rentals.external_id = ?", externalID)
}

// FindWithFilter resolves matching ids first (the free-text path joins
// variants and the collection), then reloads the rows with the requested
// relation preloads and merges them back in the id order of the first pass.
func (r *rentalRepository) FindWithFilter(filter RentalFilter) ([]model.Rental, int64, error) {
	logger.Debug("Finding rentals with filter", map[string]interface{}{
		"free_text": filter.FreeText,
		"status":    filter.Status,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})

	idQuery := r.db.Model(&model.Rental{})
	if filter.IncludeDeleted {
		idQuery = idQuery.Unscoped()
	}
	idQuery = r.applyFilter(idQuery, filter)

	var total int64
	if err := idQuery.Session(&gorm.Session{}).Distinct("rentals.id").Count(&total).Error; err != nil {
		logger.Error("Failed to count rentals with filter", err, nil)
		return nil, 0, err
	}

	idQuery = idQuery.
		Select("rentals.id").
		Group("rentals.id, rentals.created_at").
		Order("rentals.created_at DESC, rentals.id DESC")
	if filter.Limit > 0 {
		idQuery = idQuery.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		idQuery = idQuery.Offset(filter.Offset)
	}

	var ids []uint
	if err := idQuery.Pluck("rentals.id", &ids).Error; err != nil {
		logger.Error("Failed to resolve rental ids with filter", err, nil)
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []model.Rental{}, total, nil
	}

	loadQuery := r.db
	if filter.IncludeDeleted {
		loadQuery = loadQuery.Unscoped()
	}
	loadQuery = applyRelations(loadQuery, filter.Relations)

	var rows []model.Rental
	if err := loadQuery.Where("rentals.id IN ?", ids).Find(&rows).Error; err != nil {
		logger.Error("Failed to load rentals by ids", err, nil)
		return nil, 0, err
	}

	// Merge back preserving the ordering of the id pass.
	byID := make(map[uint]model.Rental, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	rentals := make([]model.Rental, 0, len(ids))
	for _, id := range ids {
		if rental, ok := byID[id]; ok {
			rentals = append(rentals, rental)
		}
	}

	logger.Debug("Rentals found with filter", map[string]interface{}{
		"count": len(rentals),
		"total": total,
	})
	return rentals, total, nil
}

func (r *rentalRepository) applyFilter(query *gorm.DB, filter RentalFilter) *gorm.DB {
	if filter.FreeText != "" {
		like := "%" + strings.ToLower(filter.FreeText) + "%"
		query = query.
			Joins("LEFT JOIN rental_variants ON rental_variants.rental_id = rentals.id AND rental_variants.deleted_at IS NULL").
			Joins("LEFT JOIN rental_collections ON rental_collections.id = rentals.collection_id AND rental_collections.deleted_at IS NULL").
			Where(
				"LOWER(rentals.title) LIKE ? OR LOWER(rentals.description) LIKE ? OR LOWER(rental_variants.title) LIKE ? OR LOWER(rental_variants.sku) LIKE ? OR LOWER(rental_collections.title) LIKE ?",
				like, like, like, like, like,
			)
	}

	if len(filter.IDs) > 0 {
		query = query.Where("rentals.id IN ?", filter.IDs)
	}
	if filter.Handle != "" {
		query = query.Where("rentals.handle = ?", filter.Handle)
	}
	if len(filter.Status) > 0 {
		query = query.Where("rentals.status IN ?", filter.Status)
	}
	if len(filter.CollectionIDs) > 0 {
		query = query.Where("rentals.collection_id IN ?", filter.CollectionIDs)
	}
	if len(filter.TypeIDs) > 0 {
		query = query.Where("rentals.type_id IN ?", filter.TypeIDs)
	}
	if filter.IsGiftcard != nil {
		query = query.Where("rentals.is_giftcard = ?", *filter.IsGiftcard)
	}
	if filter.Discountable != nil {
		query = query.Where("rentals.discountable = ?", *filter.Discountable)
	}
	if len(filter.TagIDs) > 0 {
		query = query.
			Joins("JOIN rental_taggings ON rental_taggings.rental_id = rentals.id").
			Where("rental_taggings.rental_tag_id IN ?", filter.TagIDs)
	}
	if len(filter.SalesChannelIDs) > 0 {
		query = query.
			Joins("JOIN rental_sales_channels ON rental_sales_channels.rental_id = rentals.id").
			Where("rental_sales_channels.sales_channel_id IN ?", filter.SalesChannelIDs)
	}
	return query
}

func (r *rentalRepository) ExistsWithHandle(handle string, excludeID uint) (bool, error) {
	query := r.db.Model(&model.Rental{}).Where("handle = ?", handle)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *rentalRepository) FilterIDsBySalesChannel(rentalIDs []uint, salesChannelID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Table("rental_sales_channels").
		Where("rental_id IN ? AND sales_channel_id = ?", rentalIDs, salesChannelID).
		Pluck("rental_id", &ids).Error
	if err != nil {
		logger.Error("Failed to filter rentals by sales channel", err, map[string]interface{}{
			"sales_channel_id": salesChannelID,
		})
		return nil, err
	}
	return ids, nil
}

func (r *rentalRepository) CountInSalesChannels(rentalID uint, salesChannelIDs []uint) (int64, error) {
	var count int64
	err := r.db.Table("rental_sales_channels").
		Where("rental_id = ? AND sales_channel_id IN ?", rentalID, salesChannelIDs).
		Count(&count).Error
	return count, err
}
