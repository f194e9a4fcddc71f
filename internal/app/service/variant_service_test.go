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

func TestVariantService_Create_OptionCoverage(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	optionID := rental.Options[0].ID

	// No values at all.
	_, err := f.variants.Create(context.Background(), rental.ID, CreateVariantInput{
		Title: "Bare",
	})
	assert.ErrorIs(t, err, ErrOptionMismatch)

	// Value for a foreign option id.
	_, err = f.variants.Create(context.Background(), rental.ID, CreateVariantInput{
		Title:   "Wrong",
		Options: []VariantOptionInput{{OptionID: 9999, Value: "S"}},
	})
	assert.ErrorIs(t, err, ErrOptionMismatch)

	// Correct coverage.
	variant, err := f.variants.Create(context.Background(), rental.ID, CreateVariantInput{
		Title:   "Medium",
		Options: []VariantOptionInput{{OptionID: optionID, Value: "M"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Medium", variant.Title)
	// Rank defaults to the append position.
	assert.Equal(t, 1, variant.VariantRank)
}

func TestVariantService_Create_DuplicateCombination(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	optionID := rental.Options[0].ID

	_, err := f.variants.Create(context.Background(), rental.ID, CreateVariantInput{
		Title:   "Small again",
		Options: []VariantOptionInput{{OptionID: optionID, Value: "S"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateVariant)
}

func TestVariantService_Create_RegionPriceResolvesCurrency(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	optionID := rental.Options[0].ID

	variant, err := f.variants.Create(context.Background(), rental.ID, CreateVariantInput{
		Title:   "Medium",
		Options: []VariantOptionInput{{OptionID: optionID, Value: "M"}},
		Prices:  []PriceInput{{RegionID: &f.region.ID, Amount: 1500}},
	})
	require.NoError(t, err)

	require.Len(t, variant.Prices, 1)
	assert.Equal(t, f.region.CurrencyCode, variant.Prices[0].CurrencyCode)
	require.NotNil(t, variant.Prices[0].RegionID)
	assert.Equal(t, f.region.ID, *variant.Prices[0].RegionID)
}

func TestVariantService_Create_InvalidPriceScope(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	optionID := rental.Options[0].ID

	_, err := f.variants.Create(context.Background(), rental.ID, CreateVariantInput{
		Title:   "Medium",
		Options: []VariantOptionInput{{OptionID: optionID, Value: "M"}},
		Prices:  []PriceInput{{RegionID: &f.region.ID, CurrencyCode: "usd", Amount: 1500}},
	})
	assert.ErrorIs(t, err, ErrPriceScopeInvalid)
}

func TestVariantService_SetRegionPrice_Upserts(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	variantID := rental.Variants[0].ID

	_, err := f.variants.SetRegionPrice(variantID, f.region.ID, 1000)
	require.NoError(t, err)
	_, err = f.variants.SetRegionPrice(variantID, f.region.ID, 1800)
	require.NoError(t, err)

	var rows []model.MoneyAmount
	require.NoError(t, f.db.Where("variant_id = ? AND region_id = ?", variantID, f.region.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1800), rows[0].Amount)
}

func TestVariantService_GetRegionPrice_CurrencyFallback(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	variantID := rental.Variants[0].ID

	// No region-scoped row and the region's currency (eur) has no price
	// either: the variant only has usd.
	price, err := f.variants.GetRegionPrice(variantID, f.region.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, price)

	// Add a eur currency price; the region resolves to it.
	_, err = f.variants.SetCurrencyPrice(variantID, "eur", 2500)
	require.NoError(t, err)

	price, err = f.variants.GetRegionPrice(variantID, f.region.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, int64(2500), price.Amount)

	// A region-scoped price takes precedence over the currency fallback.
	_, err = f.variants.SetRegionPrice(variantID, f.region.ID, 2200)
	require.NoError(t, err)

	price, err = f.variants.GetRegionPrice(variantID, f.region.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, int64(2200), price.Amount)
}

func TestVariantService_UpdateVariantPrices_ReplacesSet(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	variantID := rental.Variants[0].ID

	// Start: usd 2000. Replace with usd 2100 + region price.
	err := f.variants.UpdateVariantPrices(variantID, []PriceInput{
		{CurrencyCode: "usd", Amount: 2100},
		{RegionID: &f.region.ID, Amount: 1900},
	})
	require.NoError(t, err)

	var rows []model.MoneyAmount
	require.NoError(t, f.db.Where("variant_id = ?", variantID).Order("amount ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1900), rows[0].Amount)
	assert.Equal(t, int64(2100), rows[1].Amount)

	// Replace again with only the region price: usd row is deleted.
	err = f.variants.UpdateVariantPrices(variantID, []PriceInput{
		{RegionID: &f.region.ID, Amount: 1700},
	})
	require.NoError(t, err)

	rows = nil
	require.NoError(t, f.db.Where("variant_id = ?", variantID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1700), rows[0].Amount)
	require.NotNil(t, rows[0].RegionID)
}

func TestVariantService_Update_MergesMetadataAndScalars(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	variantID := rental.Variants[0].ID

	sku := "TENT-S"
	qty := 7
	_, err := f.variants.Update(context.Background(), variantID, UpdateVariantInput{
		SKU:               &sku,
		InventoryQuantity: &qty,
		Metadata:          map[string]interface{}{"color": "green"},
	})
	require.NoError(t, err)

	updated, err := f.variants.Update(context.Background(), variantID, UpdateVariantInput{
		Metadata: map[string]interface{}{"season": "summer"},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.SKU)
	assert.Equal(t, "TENT-S", *updated.SKU)
	assert.Equal(t, 7, updated.InventoryQuantity)
	// Metadata merges key-wise instead of replacing.
	assert.Equal(t, "green", updated.Metadata["color"])
	assert.Equal(t, "summer", updated.Metadata["season"])
}

func TestVariantService_Update_NotFound(t *testing.T) {
	f := setupFixture(t, flags.Static{})

	_, err := f.variants.Update(context.Background(), 9999, UpdateVariantInput{})
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestVariantService_OptionValueCRUD(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	variantID := rental.Variants[0].ID
	optionID := rental.Options[0].ID

	value, err := f.variants.UpdateOptionValue(variantID, optionID, "XS")
	require.NoError(t, err)
	assert.Equal(t, "XS", value.Value)

	_, err = f.variants.UpdateOptionValue(variantID, 9999, "XS")
	assert.ErrorIs(t, err, ErrOptionValueNotFound)

	// Add against an existing pair returns the current row untouched.
	existing, err := f.variants.AddOptionValue(variantID, optionID, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "XS", existing.Value)

	// Delete is idempotent.
	require.NoError(t, f.variants.DeleteOptionValue(variantID, optionID))
	require.NoError(t, f.variants.DeleteOptionValue(variantID, optionID))
}

func TestVariantService_Delete_Idempotent(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	variantID := rental.Variants[0].ID
	f.bus.Reset()

	require.NoError(t, f.variants.Delete(context.Background(), variantID))
	require.NoError(t, f.variants.Delete(context.Background(), variantID))

	deleted := 0
	for _, name := range f.bus.Names() {
		if name == events.VariantDeleted {
			deleted++
		}
	}
	assert.Equal(t, 1, deleted)

	// Prices went with the variant.
	var priceCount int64
	require.NoError(t, f.db.Model(&model.MoneyAmount{}).Where("variant_id = ?", variantID).Count(&priceCount).Error)
	assert.Equal(t, int64(0), priceCount)
}

func TestVariantService_ListAndCount_FreeText(t *testing.T) {
	f := setupFixture(t, flags.Static{})
	rental := createTentRental(t, f)
	optionID := rental.Options[0].ID

	_, err := f.variants.Create(context.Background(), rental.ID, CreateVariantInput{
		Title:   "Medium",
		SKU:     strPtr("TENT-M"),
		Options: []VariantOptionInput{{OptionID: optionID, Value: "M"}},
	})
	require.NoError(t, err)

	// Matches parent rental title, so both variants come back.
	all, total, err := f.variants.ListAndCount(repository.VariantFilter{FreeText: "tent"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	// Matches the SKU only.
	bySKU, total, err := f.variants.ListAndCount(repository.VariantFilter{FreeText: "tent-m"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, bySKU, 1)
	assert.Equal(t, "Medium", bySKU[0].Title)
}

func strPtr(s string) *string { return &s }
