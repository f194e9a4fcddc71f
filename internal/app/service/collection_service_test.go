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

func setupCollectionServiceTest(t *testing.T) (CollectionService, *gorm.DB) {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewCollectionService(repository.NewCollectionRepository(testDB)), testDB
}

func TestCollectionService_Create(t *testing.T) {
	collections, _ := setupCollectionServiceTest(t)

	created, err := collections.Create(CreateCollectionInput{Title: "Summer Gear"})
	require.NoError(t, err)
	assert.Equal(t, "summer-gear", created.Handle)

	// Same title derives the same handle.
	_, err = collections.Create(CreateCollectionInput{Title: "Summer Gear"})
	assert.ErrorIs(t, err, ErrCollectionHandleExists)
}

func TestCollectionService_Update(t *testing.T) {
	collections, _ := setupCollectionServiceTest(t)

	first, err := collections.Create(CreateCollectionInput{Title: "Summer Gear"})
	require.NoError(t, err)
	second, err := collections.Create(CreateCollectionInput{Title: "Winter Gear"})
	require.NoError(t, err)

	newTitle := "Winter Equipment"
	updated, err := collections.Update(second.ID, UpdateCollectionInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Winter Equipment", updated.Title)
	assert.Equal(t, "winter-gear", updated.Handle)

	// Moving onto a taken handle fails.
	taken := first.Handle
	_, err = collections.Update(second.ID, UpdateCollectionInput{Handle: &taken})
	assert.ErrorIs(t, err, ErrCollectionHandleExists)

	_, err = collections.Update(9999, UpdateCollectionInput{Title: &newTitle})
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestCollectionService_RetrieveAndList(t *testing.T) {
	collections, _ := setupCollectionServiceTest(t)

	created, err := collections.Create(CreateCollectionInput{Title: "Summer Gear"})
	require.NoError(t, err)
	_, err = collections.Create(CreateCollectionInput{Title: "Winter Gear"})
	require.NoError(t, err)

	byHandle, err := collections.RetrieveByHandle("summer-gear")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byHandle.ID)

	found, total, err := collections.List("summer", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)
}

func TestCollectionService_Delete_Idempotent(t *testing.T) {
	collections, _ := setupCollectionServiceTest(t)

	created, err := collections.Create(CreateCollectionInput{Title: "Summer Gear"})
	require.NoError(t, err)

	require.NoError(t, collections.Delete(created.ID))
	require.NoError(t, collections.Delete(created.ID))

	_, err = collections.Retrieve(created.ID)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestCollectionService_FindByDiscountCondition(t *testing.T) {
	collections, testDB := setupCollectionServiceTest(t)

	created, err := collections.Create(CreateCollectionInput{Title: "Summer Gear"})
	require.NoError(t, err)
	_, err = collections.Create(CreateCollectionInput{Title: "Winter Gear"})
	require.NoError(t, err)

	row := model.DiscountConditionRentalCollection{ConditionID: 42, CollectionID: created.ID}
	require.NoError(t, testDB.Create(&row).Error)

	found, err := collections.FindByDiscountCondition(42)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)
}
