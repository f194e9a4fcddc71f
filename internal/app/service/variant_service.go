package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/Jbmanllr/rental-catalog/internal/events"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrVariantNotFound = apperrors.NewNotFound(apperrors.VariantNotFound, "variant not found")
	ErrOptionMismatch  = apperrors.NewInvalidData(apperrors.VariantOptionMismatch, "variant option values must cover exactly the rental's options")
	ErrDuplicateVariant = apperrors.NewDuplicate(apperrors.VariantDuplicateExists, "a variant with the same option values already exists")
	ErrOptionValueNotFound = apperrors.NewNotFound(apperrors.VariantOptionValueAbsent, "option value not found")
	ErrPriceScopeInvalid = apperrors.NewInvalidData(apperrors.VariantPriceScopeInvalid, "price must be scoped to a region or a currency, not both")
)

// VariantOptionInput assigns a value to one rental option.
type VariantOptionInput struct {
	OptionID uint
	Value    string
}

// PriceInput declares one default price: region-scoped or currency-scoped,
// never both.
type PriceInput struct {
	RegionID     *uint
	CurrencyCode string
	Amount       int64
	MinQuantity  *int
	MaxQuantity  *int
}

type CreateVariantInput struct {
	Title             string
	SKU               *string
	Barcode           *string
	EAN               *string
	UPC               *string
	VariantRank       *int
	InventoryQuantity *int
	AllowBackorder    *bool
	ManageInventory   *bool

	Weight *float64
	Length *float64
	Height *float64
	Width  *float64

	HSCode        *string
	OriginCountry *string
	MidCode       *string
	Material      *string

	Options  []VariantOptionInput
	Prices   []PriceInput
	Metadata map[string]interface{}
}

// UpdateVariantInput applies partial updates: nil means "leave unchanged".
// Options update per-option values, Prices replace the default price set
// wholesale, Metadata merges key-wise.
type UpdateVariantInput struct {
	Title             *string
	SKU               *string
	Barcode           *string
	EAN               *string
	UPC               *string
	InventoryQuantity *int
	AllowBackorder    *bool
	ManageInventory   *bool

	Weight *float64
	Length *float64
	Height *float64
	Width  *float64

	HSCode        *string
	OriginCountry *string
	MidCode       *string
	Material      *string

	Options  []VariantOptionInput
	Prices   []PriceInput
	Metadata map[string]interface{}
}

type VariantService interface {
	Create(ctx context.Context, rentalID uint, input CreateVariantInput) (*model.RentalVariant, error)
	Update(ctx context.Context, variantID uint, input UpdateVariantInput) (*model.RentalVariant, error)
	Delete(ctx context.Context, variantID uint) error
	Retrieve(variantID uint) (*model.RentalVariant, error)
	ListAndCount(filter repository.VariantFilter) ([]model.RentalVariant, int64, error)

	UpdateVariantPrices(variantID uint, prices []PriceInput) error
	GetRegionPrice(variantID uint, regionID uint, quantity *int) (*model.MoneyAmount, error)
	SetRegionPrice(variantID uint, regionID uint, amount int64) (*model.MoneyAmount, error)
	SetCurrencyPrice(variantID uint, currencyCode string, amount int64) (*model.MoneyAmount, error)

	AddOptionValue(variantID, optionID uint, value string) (*model.RentalOptionValue, error)
	UpdateOptionValue(variantID, optionID uint, value string) (*model.RentalOptionValue, error)
	DeleteOptionValue(variantID, optionID uint) error

	// CreateInTx runs the full create path inside the caller's transaction
	// without emitting events. The rental must have Options and Variants
	// loaded.
	CreateInTx(tx *gorm.DB, rental *model.Rental, input CreateVariantInput) (*model.RentalVariant, error)
}

type variantService struct {
	variantRepo repository.VariantRepository
	rentalRepo  repository.RentalRepository
	optionRepo  repository.OptionRepository
	priceRepo   repository.PriceRepository
	regionRepo  repository.RegionRepository
	selection   PriceSelection
	bus         events.Bus
	db          *gorm.DB
}

func NewVariantService(
	variantRepo repository.VariantRepository,
	rentalRepo repository.RentalRepository,
	optionRepo repository.OptionRepository,
	priceRepo repository.PriceRepository,
	regionRepo repository.RegionRepository,
	selection PriceSelection,
	bus events.Bus,
	db *gorm.DB,
) VariantService {
	return &variantService{
		variantRepo: variantRepo,
		rentalRepo:  rentalRepo,
		optionRepo:  optionRepo,
		priceRepo:   priceRepo,
		regionRepo:  regionRepo,
		selection:   selection,
		bus:         bus,
		db:          db,
	}
}

func (s *variantService) Create(ctx context.Context, rentalID uint, input CreateVariantInput) (*model.RentalVariant, error) {
	logger.Info("Creating variant", map[string]interface{}{
		"rental_id": rentalID,
		"title":     input.Title,
	})

	rental, err := s.rentalRepo.FindByID(rentalID, []repository.RentalRelation{
		repository.RentalRelationOptions,
		repository.RentalRelationVariants,
	}, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during variant creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"rental_id": rentalID,
			})
		}
	}()

	variant, err := s.CreateInTx(tx, rental, input)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit variant creation", err, map[string]interface{}{
			"rental_id": rentalID,
		})
		return nil, err
	}

	s.emit(ctx, events.VariantCreated, map[string]interface{}{
		"id":        variant.ID,
		"rental_id": rentalID,
	})

	return s.variantRepo.FindByID(variant.ID, true, true)
}

// CreateInTx validates option coverage and combination uniqueness against
// the rental's loaded children, then persists the variant, its option
// values and its default prices.
func (s *variantService) CreateInTx(tx *gorm.DB, rental *model.Rental, input CreateVariantInput) (*model.RentalVariant, error) {
	if err := validateOptionCoverage(rental, input.Options); err != nil {
		return nil, err
	}
	if isDuplicateCombination(rental.Variants, input.Options) {
		return nil, ErrDuplicateVariant
	}

	rank := len(rental.Variants)
	if input.VariantRank != nil {
		rank = *input.VariantRank
	}

	variant := &model.RentalVariant{
		RentalID:      rental.ID,
		Title:         input.Title,
		SKU:           input.SKU,
		Barcode:       input.Barcode,
		EAN:           input.EAN,
		UPC:           input.UPC,
		VariantRank:   rank,
		Weight:        input.Weight,
		Length:        input.Length,
		Height:        input.Height,
		Width:         input.Width,
		HSCode:        input.HSCode,
		OriginCountry: input.OriginCountry,
		MidCode:       input.MidCode,
		Material:      input.Material,
		Metadata:      input.Metadata,
	}
	variant.ManageInventory = true
	if input.InventoryQuantity != nil {
		variant.InventoryQuantity = *input.InventoryQuantity
	}
	if input.AllowBackorder != nil {
		variant.AllowBackorder = *input.AllowBackorder
	}
	if input.ManageInventory != nil {
		variant.ManageInventory = *input.ManageInventory
	}

	variantRepo := s.variantRepo.WithTx(tx)
	if err := variantRepo.Create(variant); err != nil {
		return nil, err
	}

	optionRepo := s.optionRepo.WithTx(tx)
	for _, opt := range input.Options {
		value := &model.RentalOptionValue{
			OptionID:  opt.OptionID,
			VariantID: variant.ID,
			Value:     opt.Value,
		}
		if err := optionRepo.CreateValue(value); err != nil {
			return nil, err
		}
		// Keep the values on the struct so duplicate checks against
		// siblings created in the same transaction see them.
		variant.Options = append(variant.Options, *value)
	}

	priceRepo := s.priceRepo.WithTx(tx)
	for _, price := range input.Prices {
		row, err := s.resolvePriceRow(variant.ID, price)
		if err != nil {
			return nil, err
		}
		if err := priceRepo.Create(row); err != nil {
			return nil, err
		}
	}

	return variant, nil
}

// resolvePriceRow turns a price input into a money amount row. Region-scoped
// prices record the region's currency alongside the region id.
func (s *variantService) resolvePriceRow(variantID uint, input PriceInput) (*model.MoneyAmount, error) {
	if input.RegionID != nil && input.CurrencyCode != "" {
		return nil, ErrPriceScopeInvalid
	}
	if input.RegionID == nil && input.CurrencyCode == "" {
		return nil, ErrPriceScopeInvalid
	}

	currency := input.CurrencyCode
	if input.RegionID != nil {
		region, err := s.regionRepo.FindByID(*input.RegionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRegionNotFound
			}
			return nil, err
		}
		currency = region.CurrencyCode
	}

	return &model.MoneyAmount{
		VariantID:    variantID,
		CurrencyCode: currency,
		RegionID:     input.RegionID,
		Amount:       input.Amount,
		MinQuantity:  input.MinQuantity,
		MaxQuantity:  input.MaxQuantity,
	}, nil
}

func validateOptionCoverage(rental *model.Rental, inputs []VariantOptionInput) error {
	if len(inputs) != len(rental.Options) {
		return ErrOptionMismatch
	}
	required := make(map[uint]bool, len(rental.Options))
	for _, opt := range rental.Options {
		required[opt.ID] = true
	}
	seen := make(map[uint]bool, len(inputs))
	for _, in := range inputs {
		if !required[in.OptionID] || seen[in.OptionID] {
			return ErrOptionMismatch
		}
		seen[in.OptionID] = true
	}
	return nil
}

// isDuplicateCombination reports whether an existing variant carries the
// exact same option-value assignment. Variants must be loaded with Options.
func isDuplicateCombination(variants []model.RentalVariant, inputs []VariantOptionInput) bool {
	if len(inputs) == 0 {
		return false
	}
	wanted := make(map[uint]string, len(inputs))
	for _, in := range inputs {
		wanted[in.OptionID] = in.Value
	}

	for _, variant := range variants {
		if len(variant.Options) != len(wanted) {
			continue
		}
		match := true
		for _, existing := range variant.Options {
			if wanted[existing.OptionID] != existing.Value {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (s *variantService) Update(ctx context.Context, variantID uint, input UpdateVariantInput) (*model.RentalVariant, error) {
	variant, err := s.variantRepo.FindByID(variantID, true, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}

	changed := applyVariantScalars(variant, input)

	// Detach loaded children so Save only writes the variant row.
	variant.Options = nil
	variant.Prices = nil
	if err := s.variantRepo.Save(variant); err != nil {
		return nil, err
	}

	if input.Options != nil {
		for _, opt := range input.Options {
			if _, err := s.UpdateOptionValue(variantID, opt.OptionID, opt.Value); err != nil {
				return nil, err
			}
		}
		changed = append(changed, "options")
	}

	if input.Prices != nil {
		if err := s.UpdateVariantPrices(variantID, input.Prices); err != nil {
			return nil, err
		}
		changed = append(changed, "prices")
	}

	s.emit(ctx, events.VariantUpdated, map[string]interface{}{
		"id":     variantID,
		"fields": changed,
	})

	return s.variantRepo.FindByID(variantID, true, true)
}

// applyVariantScalars overwrites fields whose input pointer is set and
// returns the list of changed field names. Metadata merges key-wise; a nil
// value removes the key.
func applyVariantScalars(variant *model.RentalVariant, input UpdateVariantInput) []string {
	var changed []string

	applyString := func(field string, dst *string, src *string) {
		if src != nil {
			*dst = *src
			changed = append(changed, field)
		}
	}
	applyStringPtr := func(field string, dst **string, src *string) {
		if src != nil {
			*dst = src
			changed = append(changed, field)
		}
	}
	applyFloatPtr := func(field string, dst **float64, src *float64) {
		if src != nil {
			*dst = src
			changed = append(changed, field)
		}
	}

	applyString("title", &variant.Title, input.Title)
	applyStringPtr("sku", &variant.SKU, input.SKU)
	applyStringPtr("barcode", &variant.Barcode, input.Barcode)
	applyStringPtr("ean", &variant.EAN, input.EAN)
	applyStringPtr("upc", &variant.UPC, input.UPC)
	applyFloatPtr("weight", &variant.Weight, input.Weight)
	applyFloatPtr("length", &variant.Length, input.Length)
	applyFloatPtr("height", &variant.Height, input.Height)
	applyFloatPtr("width", &variant.Width, input.Width)
	applyStringPtr("hs_code", &variant.HSCode, input.HSCode)
	applyStringPtr("origin_country", &variant.OriginCountry, input.OriginCountry)
	applyStringPtr("mid_code", &variant.MidCode, input.MidCode)
	applyStringPtr("material", &variant.Material, input.Material)

	if input.InventoryQuantity != nil {
		variant.InventoryQuantity = *input.InventoryQuantity
		changed = append(changed, "inventory_quantity")
	}
	if input.AllowBackorder != nil {
		variant.AllowBackorder = *input.AllowBackorder
		changed = append(changed, "allow_backorder")
	}
	if input.ManageInventory != nil {
		variant.ManageInventory = *input.ManageInventory
		changed = append(changed, "manage_inventory")
	}

	if input.Metadata != nil {
		if variant.Metadata == nil {
			variant.Metadata = make(map[string]interface{}, len(input.Metadata))
		}
		for k, v := range input.Metadata {
			if v == nil {
				delete(variant.Metadata, k)
			} else {
				variant.Metadata[k] = v
			}
		}
		changed = append(changed, "metadata")
	}

	return changed
}

// UpdateVariantPrices replaces the variant's default price set with exactly
// the supplied list: rows whose scope is absent from the input are deleted,
// matching rows are updated, new scopes are inserted.
func (s *variantService) UpdateVariantPrices(variantID uint, prices []PriceInput) error {
	existing, err := s.priceRepo.ListDefaultsByVariant(variantID)
	if err != nil {
		return err
	}

	resolved := make([]*model.MoneyAmount, 0, len(prices))
	for _, price := range prices {
		row, err := s.resolvePriceRow(variantID, price)
		if err != nil {
			return err
		}
		resolved = append(resolved, row)
	}

	sameScope := func(a *model.MoneyAmount, b *model.MoneyAmount) bool {
		if a.RegionID != nil && b.RegionID != nil {
			return *a.RegionID == *b.RegionID
		}
		if a.RegionID == nil && b.RegionID == nil {
			return a.CurrencyCode == b.CurrencyCode
		}
		return false
	}

	for i := range existing {
		keep := false
		for _, row := range resolved {
			if sameScope(&existing[i], row) {
				keep = true
				break
			}
		}
		if !keep {
			if err := s.priceRepo.Delete(existing[i].ID); err != nil {
				return err
			}
		}
	}

	for _, row := range resolved {
		var current *model.MoneyAmount
		for i := range existing {
			if sameScope(&existing[i], row) {
				current = &existing[i]
				break
			}
		}
		if current != nil {
			current.Amount = row.Amount
			current.MinQuantity = row.MinQuantity
			current.MaxQuantity = row.MaxQuantity
			if err := s.priceRepo.Save(current); err != nil {
				return err
			}
		} else {
			if err := s.priceRepo.Create(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *variantService) GetRegionPrice(variantID uint, regionID uint, quantity *int) (*model.MoneyAmount, error) {
	if _, err := s.variantRepo.FindByID(variantID, false, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return s.selection.Calculate(variantID, PriceSelectionContext{
		RegionID: &regionID,
		Quantity: quantity,
	})
}

func (s *variantService) SetRegionPrice(variantID uint, regionID uint, amount int64) (*model.MoneyAmount, error) {
	return s.upsertDefaultPrice(variantID, repository.PriceScope{RegionID: &regionID}, amount)
}

func (s *variantService) SetCurrencyPrice(variantID uint, currencyCode string, amount int64) (*model.MoneyAmount, error) {
	return s.upsertDefaultPrice(variantID, repository.PriceScope{CurrencyCode: currencyCode}, amount)
}

func (s *variantService) upsertDefaultPrice(variantID uint, scope repository.PriceScope, amount int64) (*model.MoneyAmount, error) {
	existing, err := s.priceRepo.FindDefaultByScope(variantID, scope)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Amount = amount
		if err := s.priceRepo.Save(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	currency := scope.CurrencyCode
	if scope.RegionID != nil {
		region, err := s.regionRepo.FindByID(*scope.RegionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRegionNotFound
			}
			return nil, err
		}
		currency = region.CurrencyCode
	}

	price := &model.MoneyAmount{
		VariantID:    variantID,
		CurrencyCode: currency,
		RegionID:     scope.RegionID,
		Amount:       amount,
	}
	if err := s.priceRepo.Create(price); err != nil {
		return nil, err
	}
	return price, nil
}

func (s *variantService) AddOptionValue(variantID, optionID uint, value string) (*model.RentalOptionValue, error) {
	existing, err := s.optionRepo.FindValue(variantID, optionID)
	if err == nil {
		// Nothing-on-conflict add.
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := &model.RentalOptionValue{
		OptionID:  optionID,
		VariantID: variantID,
		Value:     value,
	}
	if err := s.optionRepo.CreateValue(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *variantService) UpdateOptionValue(variantID, optionID uint, value string) (*model.RentalOptionValue, error) {
	existing, err := s.optionRepo.FindValue(variantID, optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionValueNotFound
		}
		return nil, err
	}

	existing.Value = value
	if err := s.optionRepo.SaveValue(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *variantService) DeleteOptionValue(variantID, optionID uint) error {
	return s.optionRepo.DeleteValue(variantID, optionID)
}

func (s *variantService) Delete(ctx context.Context, variantID uint) error {
	variant, err := s.variantRepo.FindByID(variantID, true, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Idempotent: already gone.
			return nil
		}
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during variant deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"variant_id": variantID,
			})
		}
	}()

	if err := deleteVariantInTx(tx, variant); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit variant deletion", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return err
	}

	s.emit(ctx, events.VariantDeleted, map[string]interface{}{
		"id":        variant.ID,
		"rental_id": variant.RentalID,
		"metadata":  variant.Metadata,
	})
	return nil
}

// deleteVariantInTx soft-removes a variant together with its prices and
// option values. The variant must be loaded with Prices and Options.
func deleteVariantInTx(tx *gorm.DB, variant *model.RentalVariant) error {
	for _, price := range variant.Prices {
		if err := tx.Delete(&model.MoneyAmount{}, price.ID).Error; err != nil {
			return err
		}
	}
	for _, value := range variant.Options {
		if err := tx.Unscoped().Delete(&model.RentalOptionValue{}, value.ID).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&model.RentalVariant{}, variant.ID).Error
}

func (s *variantService) Retrieve(variantID uint) (*model.RentalVariant, error) {
	variant, err := s.variantRepo.FindByID(variantID, true, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return variant, nil
}

func (s *variantService) ListAndCount(filter repository.VariantFilter) ([]model.RentalVariant, int64, error) {
	return s.variantRepo.FindWithFilter(filter)
}

func (s *variantService) emit(ctx context.Context, event string, payload interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event, payload); err != nil {
		logger.Warn("Event emission failed", map[string]interface{}{
			"event": event,
		})
	}
}
