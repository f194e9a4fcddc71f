package repository

import (
	"strings"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

// VariantFilter drives variant list queries; FreeText joins the parent
// rental for title search, mirroring the rental repository's search path.
type VariantFilter struct {
	IDs            []uint
	RentalID       *uint
	SKU            string
	FreeText       string
	IncludeDeleted bool
	Limit          int
	Offset         int
	WithPrices     bool
	WithOptions    bool
	WithRental     bool
}

type VariantRepository interface {
	Create(variant *model.RentalVariant) error
	Save(variant *model.RentalVariant) error
	FindByID(id uint, withPrices, withOptions bool) (*model.RentalVariant, error)
	FindByRental(rentalID uint, withPrices, withOptions bool) ([]model.RentalVariant, error)
	FindWithFilter(filter VariantFilter) ([]model.RentalVariant, int64, error)
	CountByRental(rentalID uint) (int64, error)
	WithTx(tx *gorm.DB) VariantRepository
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) WithTx(tx *gorm.DB) VariantRepository {
	return &variantRepository{db: tx}
}

func (r *variantRepository) Create(variant *model.RentalVariant) error {
	if err := r.db.Create(variant).Error; err != nil {
		logger.Error("Failed to create variant in database", err, map[string]interface{}{
			"rental_id": variant.RentalID,
			"title":     variant.Title,
		})
		return err
	}
	return nil
}

func (r *variantRepository) Save(variant *model.RentalVariant) error {
	if err := r.db.Save(variant).Error; err != nil {
		logger.Error("Failed to save variant in database", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}
	return nil
}

func (r *variantRepository) baseQuery(withPrices, withOptions bool) *gorm.DB {
	query := r.db.Model(&model.RentalVariant{})
	if withPrices {
		query = query.Preload("Prices")
	}
	if withOptions {
		query = query.Preload("Options")
	}
	return query
}

func (r *variantRepository) FindByID(id uint, withPrices, withOptions bool) (*model.RentalVariant, error) {
	var variant model.RentalVariant
	if err := r.baseQuery(withPrices, withOptions).First(&variant, id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindByRental(rentalID uint, withPrices, withOptions bool) ([]model.RentalVariant, error) {
	var variants []model.RentalVariant
	err := r.baseQuery(withPrices, withOptions).
		Where("rental_id = ?", rentalID).
		Order("variant_rank ASC, id ASC").
		Find(&variants).Error
	if err != nil {
		logger.Error("Failed to find variants by rental", err, map[string]interface{}{
			"rental_id": rentalID,
		})
		return nil, err
	}
	return variants, nil
}

// FindWithFilter resolves ids first and reloads with preloads, preserving
// the id ordering, like the rental list path.
func (r *variantRepository) FindWithFilter(filter VariantFilter) ([]model.RentalVariant, int64, error) {
	idQuery := r.db.Model(&model.RentalVariant{})
	if filter.IncludeDeleted {
		idQuery = idQuery.Unscoped()
	}

	if filter.FreeText != "" {
		like := "%" + strings.ToLower(filter.FreeText) + "%"
		idQuery = idQuery.
			Joins("LEFT JOIN rentals ON rentals.id = rental_variants.rental_id AND rentals.deleted_at IS NULL").
			Where(
				"LOWER(rental_variants.title) LIKE ? OR LOWER(rental_variants.sku) LIKE ? OR LOWER(rentals.title) LIKE ?",
				like, like, like,
			)
	}
	if len(filter.IDs) > 0 {
		idQuery = idQuery.Where("rental_variants.id IN ?", filter.IDs)
	}
	if filter.RentalID != nil {
		idQuery = idQuery.Where("rental_variants.rental_id = ?", *filter.RentalID)
	}
	if filter.SKU != "" {
		idQuery = idQuery.Where("rental_variants.sku = ?", filter.SKU)
	}

	var total int64
	if err := idQuery.Session(&gorm.Session{}).Distinct("rental_variants.id").Count(&total).Error; err != nil {
		logger.Error("Failed to count variants with filter", err, nil)
		return nil, 0, err
	}

	idQuery = idQuery.
		Select("rental_variants.id").
		Group("rental_variants.id, rental_variants.variant_rank").
		Order("rental_variants.variant_rank ASC, rental_variants.id ASC")
	if filter.Limit > 0 {
		idQuery = idQuery.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		idQuery = idQuery.Offset(filter.Offset)
	}

	var ids []uint
	if err := idQuery.Pluck("rental_variants.id", &ids).Error; err != nil {
		logger.Error("Failed to resolve variant ids with filter", err, nil)
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []model.RentalVariant{}, total, nil
	}

	loadQuery := r.db
	if filter.IncludeDeleted {
		loadQuery = loadQuery.Unscoped()
	}
	if filter.WithPrices {
		loadQuery = loadQuery.Preload("Prices")
	}
	if filter.WithOptions {
		loadQuery = loadQuery.Preload("Options")
	}
	if filter.WithRental {
		loadQuery = loadQuery.Preload("Rental")
	}

	var rows []model.RentalVariant
	if err := loadQuery.Where("rental_variants.id IN ?", ids).Find(&rows).Error; err != nil {
		logger.Error("Failed to load variants by ids", err, nil)
		return nil, 0, err
	}

	byID := make(map[uint]model.RentalVariant, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	variants := make([]model.RentalVariant, 0, len(ids))
	for _, id := range ids {
		if variant, ok := byID[id]; ok {
			variants = append(variants, variant)
		}
	}
	return variants, total, nil
}

func (r *variantRepository) CountByRental(rentalID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.RentalVariant{}).
		Where("rental_id = ?", rentalID).
		Count(&count).Error
	return count, err
}
