package db

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter uint64

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	// Each new connection to a plain ":memory:" database gets its own empty
	// database, so use a uniquely named shared-cache in-memory database that
	// every pooled connection resolves to.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddUint64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	err = db.AutoMigrate(
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
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}
