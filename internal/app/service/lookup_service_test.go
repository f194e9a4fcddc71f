package service

import (
	"testing"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"github.com/Jbmanllr/rental-catalog/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLookupTest(t *testing.T) *gorm.DB {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return testDB
}

func TestTypeService_UpsertByValue(t *testing.T) {
	testDB := setupLookupTest(t)
	types := NewTypeService(repository.NewTypeRepository(testDB))

	first, err := types.UpsertByValue("tents")
	require.NoError(t, err)

	second, err := types.UpsertByValue("tents")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	listed, count, err := types.List("", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Len(t, listed, 1)
}

func TestTypeService_FindByDiscountCondition(t *testing.T) {
	testDB := setupLookupTest(t)
	types := NewTypeService(repository.NewTypeRepository(testDB))

	linked, err := types.UpsertByValue("tents")
	require.NoError(t, err)
	_, err = types.UpsertByValue("sleeping-bags")
	require.NoError(t, err)

	require.NoError(t, testDB.Create(&model.DiscountConditionRentalType{
		ConditionID: 7,
		TypeID:      linked.ID,
	}).Error)

	matched, err := types.FindByDiscountCondition(7)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, linked.ID, matched[0].ID)
}

func TestTagService_FindByDiscountCondition(t *testing.T) {
	testDB := setupLookupTest(t)
	tags := NewTagService(repository.NewTagRepository(testDB))

	created, err := tags.UpsertByValues([]string{"camping", "summer"})
	require.NoError(t, err)
	require.Len(t, created, 2)

	require.NoError(t, testDB.Create(&model.DiscountConditionRentalTag{
		ConditionID: 7,
		TagID:       created[0].ID,
	}).Error)

	matched, err := tags.FindByDiscountCondition(7)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, created[0].Value, matched[0].Value)
}

func TestTagService_Retrieve_NotFound(t *testing.T) {
	testDB := setupLookupTest(t)
	tags := NewTagService(repository.NewTagRepository(testDB))

	_, err := tags.Retrieve(9999)
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestTaxRateService_RentalJoins(t *testing.T) {
	testDB := setupLookupTest(t)
	taxRates := NewTaxRateService(repository.NewTaxRateRepository(testDB))

	rental := model.Rental{Title: "Tent", Handle: "tent"}
	require.NoError(t, testDB.Create(&rental).Error)

	require.NoError(t, taxRates.AddToRental(rental.ID, []uint{10, 11}))
	// Re-adding an existing pair must not duplicate it.
	require.NoError(t, taxRates.AddToRental(rental.ID, []uint{11, 12}))

	rates, err := taxRates.ListRatesByRental(rental.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{10, 11, 12}, rates)

	require.NoError(t, taxRates.RemoveFromRental(rental.ID, []uint{11}))

	rates, err = taxRates.ListRatesByRental(rental.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{10, 12}, rates)
}

func TestTaxRateService_TypeJoins(t *testing.T) {
	testDB := setupLookupTest(t)
	taxRates := NewTaxRateService(repository.NewTaxRateRepository(testDB))

	rentalType := model.RentalType{Value: "tents"}
	require.NoError(t, testDB.Create(&rentalType).Error)

	require.NoError(t, taxRates.AddToType(rentalType.ID, []uint{20}))

	rates, err := taxRates.ListRatesByType(rentalType.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{20}, rates)

	require.NoError(t, taxRates.RemoveFromType(rentalType.ID, []uint{20}))

	rates, err = taxRates.ListRatesByType(rentalType.ID)
	require.NoError(t, err)
	assert.Empty(t, rates)
}
