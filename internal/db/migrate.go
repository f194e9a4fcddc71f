package db

import (
	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.ShippingProfile{},
		&model.Region{},
		&model.RentalCollection{},
		&model.RentalType{},
		&model.RentalTag{},
		&model.SalesChannel{},
		&model.Rental{},
		&model.RentalImage{},
		&model.RentalOption{},
		&model.RentalVariant{},
		&model.RentalOptionValue{},
		&model.MoneyAmount{},
		&model.RentalTaxRate{},
		&model.RentalTypeTaxRate{},
		&model.DiscountConditionRental{},
		&model.DiscountConditionRentalTag{},
		&model.DiscountConditionRentalType{},
		&model.DiscountConditionRentalCollection{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := createPartialUniqueIndexes(DB); err != nil {
		logger.Error("Failed to create partial unique indexes", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// createPartialUniqueIndexes enforces uniqueness among non-deleted rows
// only, so soft-deleted records never block reuse of a handle or SKU.
// Partial indexes are a postgres feature; the sqlite test database relies
// on the service-level checks instead.
func createPartialUniqueIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_rentals_handle ON rentals (handle) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_rental_collections_handle ON rental_collections (handle) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_rental_variants_sku ON rental_variants (sku) WHERE deleted_at IS NULL AND sku IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_rental_variants_barcode ON rental_variants (barcode) WHERE deleted_at IS NULL AND barcode IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_rental_variants_ean ON rental_variants (ean) WHERE deleted_at IS NULL AND ean IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_rental_variants_upc ON rental_variants (upc) WHERE deleted_at IS NULL AND upc IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_rental_types_value ON rental_types (value) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_rental_tags_value ON rental_tags (value) WHERE deleted_at IS NULL`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedShippingProfiles(); err != nil {
		logger.Error("Failed to seed shipping profiles", err)
		return err
	}
	if err := seedRegions(); err != nil {
		logger.Error("Failed to seed regions", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedShippingProfiles guarantees the default and gift-card profiles rentals
// are assigned on creation.
func seedShippingProfiles() error {
	profiles := []model.ShippingProfile{
		{Name: "Default Shipping Profile", Type: model.ShippingProfileDefault},
		{Name: "Gift Card Profile", Type: model.ShippingProfileGiftCard},
	}

	for _, profile := range profiles {
		var count int64
		if err := DB.Model(&model.ShippingProfile{}).
			Where("type = ?", profile.Type).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&profile).Error; err != nil {
			logger.Error("Failed to create shipping profile", err, map[string]interface{}{
				"type": profile.Type,
			})
			return err
		}
	}
	return nil
}

// seedRegions provides a minimal region set so region-scoped prices resolve
// during development. Production deployments mirror the host platform's
// regions instead.
func seedRegions() error {
	var count int64
	if err := DB.Model(&model.Region{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Regions already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	regions := []model.Region{
		{Name: "Europe", CurrencyCode: "eur"},
		{Name: "North America", CurrencyCode: "usd"},
		{Name: "United Kingdom", CurrencyCode: "gbp"},
	}

	for _, region := range regions {
		if err := DB.Create(&region).Error; err != nil {
			logger.Error("Failed to create region", err, map[string]interface{}{
				"region": region.Name,
			})
			return err
		}
	}

	logger.Info("Regions seeded successfully", map[string]interface{}{
		"total_regions": len(regions),
	})
	return nil
}
