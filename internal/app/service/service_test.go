package service

import (
	"testing"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"github.com/Jbmanllr/rental-catalog/internal/db"
	"github.com/Jbmanllr/rental-catalog/internal/events"
	"github.com/Jbmanllr/rental-catalog/internal/flags"
	"github.com/Jbmanllr/rental-catalog/internal/search"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture wires the full service stack over an in-memory database with the
// recording event bus and indexer.
type fixture struct {
	db       *gorm.DB
	bus      *events.MemoryBus
	indexer  *search.MemoryIndexer
	rentals  RentalService
	variants VariantService
	region   model.Region
}

func setupFixture(t *testing.T, featureFlags flags.Static) *fixture {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	profiles := []model.ShippingProfile{
		{Name: "Default Shipping Profile", Type: model.ShippingProfileDefault},
		{Name: "Gift Card Profile", Type: model.ShippingProfileGiftCard},
	}
	require.NoError(t, testDB.Create(&profiles).Error)

	region := model.Region{Name: "Europe", CurrencyCode: "eur"}
	require.NoError(t, testDB.Create(&region).Error)

	rentalRepo := repository.NewRentalRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	optionRepo := repository.NewOptionRepository(testDB)
	priceRepo := repository.NewPriceRepository(testDB)
	regionRepo := repository.NewRegionRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	typeRepo := repository.NewTypeRepository(testDB)
	channelRepo := repository.NewSalesChannelRepository(testDB)
	profileRepo := repository.NewShippingProfileRepository(testDB)

	bus := events.NewMemoryBus()
	indexer := search.NewMemoryIndexer()
	selection := NewPriceSelection(priceRepo, regionRepo)

	variants := NewVariantService(variantRepo, rentalRepo, optionRepo, priceRepo, regionRepo, selection, bus, testDB)
	rentals := NewRentalService(rentalRepo, variantRepo, optionRepo, tagRepo, typeRepo, channelRepo, profileRepo, variants, featureFlags, bus, indexer, testDB)

	return &fixture{
		db:       testDB,
		bus:      bus,
		indexer:  indexer,
		rentals:  rentals,
		variants: variants,
		region:   region,
	}
}
