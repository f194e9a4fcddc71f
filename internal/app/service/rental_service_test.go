package service

import (
	"context"
	"testing"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"github.com/Jbmanllr/rental-catalog/internal/events"
	"github.com/Jbmanllr/rental-catalog/internal/flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTentRental(t *testing.T, f *fixture) *model.Rental {
	t.Helper()
	rental, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:   "Tent",
		Options: []string{"Size"},
		Variants: []RentalVariantInput{
			{
				CreateVariantInput: CreateVariantInput{
					Title:  "Small",
					Prices: []PriceInput{{CurrencyCode: "usd", Amount: 2000}},
				},
				OptionValues: []string{"S"},
			},
		},
	})
	require.NoError(t, err)
	return rental
}

func TestRentalService_Create(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	rental := createTentRental(t, f)

	assert.Equal(t, "tent", rental.Handle)
	assert.Equal(t, model.RentalStatusDraft, rental.Status)
	require.Len(t, rental.Options, 1)
	assert.Equal(t, "Size", rental.Options[0].Title)
	require.Len(t, rental.Variants, 1)

	variant := rental.Variants[0]
	assert.Equal(t, "Small", variant.Title)
	assert.Equal(t, 0, variant.InventoryQuantity)
	require.Len(t, variant.Prices, 1)
	assert.Equal(t, int64(2000), variant.Prices[0].Amount)
	assert.Equal(t, "usd", variant.Prices[0].CurrencyCode)
	require.Len(t, variant.Options, 1)
	assert.Equal(t, "S", variant.Options[0].Value)

	names := f.bus.Names()
	assert.Contains(t, names, events.RentalCreated)
	assert.Contains(t, names, events.VariantCreated)

	doc := f.indexer.Get(rental.ID)
	require.NotNil(t, doc)
	assert.Equal(t, "Tent", doc.Title)
}

func TestRentalService_Create_DuplicateHandle(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	createTentRental(t, f)

	_, err := f.rentals.Create(context.Background(), CreateRentalInput{Title: "Tent"})
	assert.ErrorIs(t, err, ErrHandleExists)
}

func TestRentalService_Create_GiftcardNotDiscountable(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	rental, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:      "Gift Card",
		IsGiftcard: true,
	})
	require.NoError(t, err)
	assert.False(t, rental.Discountable)
}

func TestRentalService_Create_UpsertsTagsAndType(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	first, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title: "Tent",
		Type:  "outdoor",
		Tags:  []string{"camping", "summer"},
	})
	require.NoError(t, err)
	require.NotNil(t, first.Type)

	second, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title: "Stove",
		Type:  "outdoor",
		Tags:  []string{"camping"},
	})
	require.NoError(t, err)
	require.NotNil(t, second.Type)

	// Same value resolves to the same rows.
	assert.Equal(t, first.Type.ID, second.Type.ID)
	require.Len(t, second.Tags, 1)
	assert.Equal(t, "camping", second.Tags[0].Value)

	var tagCount int64
	require.NoError(t, f.db.Model(&model.RentalTag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(2), tagCount)
}

func TestRentalService_Create_VariantFailureRollsBackRental(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	// Second variant duplicates the first one's combination, so the whole
	// aggregate must roll back.
	_, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:   "Tent",
		Options: []string{"Size"},
		Variants: []RentalVariantInput{
			{CreateVariantInput: CreateVariantInput{Title: "Small"}, OptionValues: []string{"S"}},
			{CreateVariantInput: CreateVariantInput{Title: "Small again"}, OptionValues: []string{"S"}},
		},
	})
	assert.ErrorIs(t, err, ErrDuplicateVariant)

	_, err = f.rentals.RetrieveByHandle("tent", RetrieveConfig{})
	assert.ErrorIs(t, err, ErrRentalNotFound)
	assert.Empty(t, f.bus.Names())
}

func TestRentalService_Create_SalesChannelsGated(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	_, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:           "Tent",
		SalesChannelIDs: []uint{1},
	})
	assert.ErrorIs(t, err, ErrSalesChannelsDisabled)
}

func TestRentalService_Create_WithSalesChannels(t *testing.T) {
	f := setupFixture(t, flags.Static{flags.SalesChannels: true})

	channel := model.SalesChannel{Name: "Webshop"}
	require.NoError(t, f.db.Create(&channel).Error)

	rental, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:           "Tent",
		SalesChannelIDs: []uint{channel.ID},
	})
	require.NoError(t, err)
	require.Len(t, rental.SalesChannels, 1)

	in, err := f.rentals.IsRentalInSalesChannels(rental.ID, []uint{channel.ID})
	require.NoError(t, err)
	assert.True(t, in)
}

func TestRentalService_UnknownSalesChannel(t *testing.T) {
	f := setupFixture(t, flags.Static{flags.SalesChannels: true})

	_, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:           "Tent",
		SalesChannelIDs: []uint{9999},
	})
	assert.ErrorIs(t, err, ErrSalesChannelNotFound)

	// The failed create must not leave a rental behind.
	_, err = f.rentals.RetrieveByHandle("tent", RetrieveConfig{})
	assert.ErrorIs(t, err, ErrRentalNotFound)

	// No phantom channel row either.
	var count int64
	require.NoError(t, f.db.Model(&model.SalesChannel{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	rental := createTentRental(t, f)
	_, err = f.rentals.Update(context.Background(), rental.ID, UpdateRentalInput{
		SalesChannelIDs: []uint{9999},
	})
	assert.ErrorIs(t, err, ErrSalesChannelNotFound)
}

func TestRentalService_Retrieve(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)

	byID, err := f.rentals.Retrieve(rental.ID, RetrieveConfig{})
	require.NoError(t, err)
	assert.Equal(t, rental.ID, byID.ID)

	byHandle, err := f.rentals.RetrieveByHandle("tent", RetrieveConfig{})
	require.NoError(t, err)
	assert.Equal(t, rental.ID, byHandle.ID)

	_, err = f.rentals.Retrieve(9999, RetrieveConfig{})
	assert.ErrorIs(t, err, ErrRentalNotFound)
}

func TestRentalService_ListAndCount_FreeTextMatchesTitleFilter(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)

	_, err := f.rentals.Create(context.Background(), CreateRentalInput{Title: "Canoe"})
	require.NoError(t, err)

	byText, total, err := f.rentals.ListAndCount(repository.RentalFilter{FreeText: "tent"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byText, 1)
	assert.Equal(t, rental.ID, byText[0].ID)

	// Free text also matches variant fields.
	bySKU, _, err := f.rentals.ListAndCount(repository.RentalFilter{FreeText: "small"})
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, rental.ID, bySKU[0].ID)
}

func TestRentalService_Update_PartialFields(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)

	newTitle := "Big Tent"
	updated, err := f.rentals.Update(context.Background(), rental.ID, UpdateRentalInput{
		Title: &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, "Big Tent", updated.Title)
	// Untouched fields survive.
	assert.Equal(t, "tent", updated.Handle)
	require.Len(t, updated.Variants, 1)
}

func TestRentalService_Update_ReplacesTagsAndImages(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	rental, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:  "Tent",
		Tags:   []string{"camping", "summer"},
		Images: []string{"https://img/one.jpg"},
	})
	require.NoError(t, err)

	updated, err := f.rentals.Update(context.Background(), rental.ID, UpdateRentalInput{
		Tags:   []string{"winter"},
		Images: []string{"https://img/two.jpg", "https://img/three.jpg"},
	})
	require.NoError(t, err)

	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "winter", updated.Tags[0].Value)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, "https://img/two.jpg", updated.Images[0].URL)
	assert.Equal(t, 0, updated.Images[0].Rank)
	assert.Equal(t, 1, updated.Images[1].Rank)
}

func TestRentalService_Update_ReconcilesVariants(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	rental, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:   "Tent",
		Options: []string{"Size"},
		Variants: []RentalVariantInput{
			{CreateVariantInput: CreateVariantInput{Title: "Small"}, OptionValues: []string{"S"}},
			{CreateVariantInput: CreateVariantInput{Title: "Medium"}, OptionValues: []string{"M"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, rental.Variants, 2)

	smallID := rental.Variants[0].ID
	optionID := rental.Options[0].ID

	// Keep Small (reordered last), drop Medium, add Large.
	updated, err := f.rentals.Update(context.Background(), rental.ID, UpdateRentalInput{
		Variants: []VariantReconcileInput{
			{
				Create: CreateVariantInput{
					Title:   "Large",
					Options: []VariantOptionInput{{OptionID: optionID, Value: "L"}},
				},
			},
			{ID: &smallID},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Variants, 2)
	assert.Equal(t, "Large", updated.Variants[0].Title)
	assert.Equal(t, 0, updated.Variants[0].VariantRank)
	assert.Equal(t, smallID, updated.Variants[1].ID)
	assert.Equal(t, 1, updated.Variants[1].VariantRank)
}

func TestRentalService_Update_ReplacesVariantWithSameOptionValues(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	rental := createTentRental(t, f)
	optionID := rental.Options[0].ID
	oldID := rental.Variants[0].ID

	// Wholesale replacement: the id-less entry reuses the dropped
	// variant's option values, which is valid in the resulting state.
	updated, err := f.rentals.Update(context.Background(), rental.ID, UpdateRentalInput{
		Variants: []VariantReconcileInput{
			{
				Create: CreateVariantInput{
					Title:   "Small v2",
					Options: []VariantOptionInput{{OptionID: optionID, Value: "S"}},
					Prices:  []PriceInput{{CurrencyCode: "usd", Amount: 2500}},
				},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Variants, 1)
	assert.NotEqual(t, oldID, updated.Variants[0].ID)
	assert.Equal(t, "Small v2", updated.Variants[0].Title)
	assert.Equal(t, 0, updated.Variants[0].VariantRank)
	require.Len(t, updated.Variants[0].Options, 1)
	assert.Equal(t, "S", updated.Variants[0].Options[0].Value)
}

func TestRentalService_Update_UnknownVariantID(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)

	missing := uint(9999)
	_, err := f.rentals.Update(context.Background(), rental.ID, UpdateRentalInput{
		Variants: []VariantReconcileInput{{ID: &missing}},
	})
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestRentalService_Delete_Idempotent(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	f.bus.Reset()

	require.NoError(t, f.rentals.Delete(context.Background(), rental.ID))
	require.NoError(t, f.rentals.Delete(context.Background(), rental.ID))

	deletedEvents := 0
	for _, name := range f.bus.Names() {
		if name == events.RentalDeleted {
			deletedEvents++
		}
	}
	assert.Equal(t, 1, deletedEvents)

	_, err := f.rentals.Retrieve(rental.ID, RetrieveConfig{})
	assert.ErrorIs(t, err, ErrRentalNotFound)

	// Deleted rows remain reachable with the deleted flag.
	withDeleted, err := f.rentals.Retrieve(rental.ID, RetrieveConfig{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, rental.ID, withDeleted.ID)

	assert.Nil(t, f.indexer.Get(rental.ID))
}

func TestRentalService_AddOption(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)

	updated, err := f.rentals.AddOption(context.Background(), rental.ID, "Color")
	require.NoError(t, err)
	require.Len(t, updated.Options, 2)

	// Every pre-existing variant gets the placeholder value.
	variant := updated.Variants[0]
	require.Len(t, variant.Options, 2)
	values := map[string]bool{}
	for _, ov := range variant.Options {
		values[ov.Value] = true
	}
	assert.True(t, values["Default Value"])

	_, err = f.rentals.AddOption(context.Background(), rental.ID, "Color")
	assert.ErrorIs(t, err, ErrOptionExists)
}

func TestRentalService_UpdateOption(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)

	updated, err := f.rentals.AddOption(context.Background(), rental.ID, "Color")
	require.NoError(t, err)

	var sizeID, colorID uint
	for _, opt := range updated.Options {
		switch opt.Title {
		case "Size":
			sizeID = opt.ID
		case "Color":
			colorID = opt.ID
		}
	}

	option, err := f.rentals.UpdateOption(rental.ID, colorID, "Colour")
	require.NoError(t, err)
	assert.Equal(t, "Colour", option.Title)

	// Case-insensitive collision with a different option.
	_, err = f.rentals.UpdateOption(rental.ID, colorID, "SIZE")
	assert.ErrorIs(t, err, ErrOptionExists)

	_, err = f.rentals.UpdateOption(rental.ID, 9999, "Anything")
	assert.ErrorIs(t, err, ErrOptionNotFound)

	_ = sizeID
}

func TestRentalService_DeleteOption(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	rental, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:   "Tent",
		Options: []string{"Size", "Color"},
		Variants: []RentalVariantInput{
			{CreateVariantInput: CreateVariantInput{Title: "Small Green"}, OptionValues: []string{"S", "Green"}},
			{CreateVariantInput: CreateVariantInput{Title: "Large Green"}, OptionValues: []string{"L", "Green"}},
		},
	})
	require.NoError(t, err)

	var sizeID, colorID uint
	for _, opt := range rental.Options {
		switch opt.Title {
		case "Size":
			sizeID = opt.ID
		case "Color":
			colorID = opt.ID
		}
	}

	// Sizes differ between variants, removing Size would collapse them.
	err = f.rentals.DeleteOption(context.Background(), rental.ID, sizeID)
	assert.ErrorIs(t, err, ErrOptionInUse)

	// All variants share the Color value, so it can go.
	require.NoError(t, f.rentals.DeleteOption(context.Background(), rental.ID, colorID))

	// Missing option is a no-op.
	require.NoError(t, f.rentals.DeleteOption(context.Background(), rental.ID, 9999))

	reloaded, err := f.rentals.Retrieve(rental.ID, RetrieveConfig{Relations: []repository.RentalRelation{
		repository.RentalRelationOptions,
	}})
	require.NoError(t, err)
	require.Len(t, reloaded.Options, 1)
	assert.Equal(t, "Size", reloaded.Options[0].Title)
}

func TestRentalService_ReorderVariants(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	rental, err := f.rentals.Create(context.Background(), CreateRentalInput{
		Title:   "Tent",
		Options: []string{"Size"},
		Variants: []RentalVariantInput{
			{CreateVariantInput: CreateVariantInput{Title: "Small"}, OptionValues: []string{"S"}},
			{CreateVariantInput: CreateVariantInput{Title: "Medium"}, OptionValues: []string{"M"}},
			{CreateVariantInput: CreateVariantInput{Title: "Large"}, OptionValues: []string{"L"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, rental.Variants, 3)

	ids := []uint{rental.Variants[2].ID, rental.Variants[0].ID, rental.Variants[1].ID}
	reordered, err := f.rentals.ReorderVariants(rental.ID, ids)
	require.NoError(t, err)

	require.Len(t, reordered.Variants, 3)
	assert.Equal(t, "Large", reordered.Variants[0].Title)
	assert.Equal(t, "Small", reordered.Variants[1].Title)
	assert.Equal(t, "Medium", reordered.Variants[2].Title)

	// Wrong length.
	_, err = f.rentals.ReorderVariants(rental.ID, ids[:2])
	assert.ErrorIs(t, err, ErrVariantOrderInvalid)

	// Unknown id.
	_, err = f.rentals.ReorderVariants(rental.ID, []uint{ids[0], ids[1], 9999})
	assert.ErrorIs(t, err, ErrVariantOrderInvalid)
}

func TestRentalService_ListTagsByUsage(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	_, err := f.rentals.Create(context.Background(), CreateRentalInput{Title: "Tent", Tags: []string{"camping", "summer"}})
	require.NoError(t, err)
	_, err = f.rentals.Create(context.Background(), CreateRentalInput{Title: "Stove", Tags: []string{"camping"}})
	require.NoError(t, err)

	usages, err := f.rentals.ListTagsByUsage(10)
	require.NoError(t, err)
	require.Len(t, usages, 2)
	assert.Equal(t, "camping", usages[0].Value)
	assert.Equal(t, int64(2), usages[0].UsageCount)
	assert.Equal(t, int64(1), usages[1].UsageCount)
}

func TestRentalService_ListTagsByUsage_ExcludesDeletedRentals(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	tent, err := f.rentals.Create(context.Background(), CreateRentalInput{Title: "Tent", Tags: []string{"camping"}})
	require.NoError(t, err)
	_, err = f.rentals.Create(context.Background(), CreateRentalInput{Title: "Stove", Tags: []string{"camping", "winter"}})
	require.NoError(t, err)

	require.NoError(t, f.rentals.Delete(context.Background(), tent.ID))

	usages, err := f.rentals.ListTagsByUsage(10)
	require.NoError(t, err)
	require.Len(t, usages, 2)
	assert.Equal(t, "camping", usages[0].Value)
	assert.Equal(t, int64(1), usages[0].UsageCount)
	assert.Equal(t, "winter", usages[1].Value)
	assert.Equal(t, int64(1), usages[1].UsageCount)
}
