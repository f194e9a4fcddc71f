package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/Jbmanllr/rental-catalog/internal/events"
	"github.com/Jbmanllr/rental-catalog/internal/flags"
	"github.com/Jbmanllr/rental-catalog/internal/search"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"github.com/Jbmanllr/rental-catalog/pkg/util"
	"gorm.io/gorm"
)

const defaultOptionValue = "Default Value"

var (
	ErrRentalNotFound        = apperrors.NewNotFound(apperrors.RentalNotFound, "rental not found")
	ErrHandleExists          = apperrors.NewDuplicate(apperrors.RentalHandleExists, "a rental with this handle already exists")
	ErrOptionNotFound        = apperrors.NewNotFound(apperrors.RentalOptionNotFound, "rental option not found")
	ErrOptionExists          = apperrors.NewDuplicate(apperrors.RentalOptionExists, "an option with this title already exists")
	ErrOptionInUse           = apperrors.NewInvalidData(apperrors.RentalOptionInUse, "option values differ between variants, remove variants first")
	ErrVariantOrderInvalid   = apperrors.NewInvalidData(apperrors.RentalVariantOrderInvalid, "variant order must list every current variant exactly once")
	ErrSalesChannelsDisabled = apperrors.NewInvalidData(apperrors.RentalSalesChannelsOff, "sales channels are not enabled")
	ErrSalesChannelNotFound  = apperrors.NewNotFound(apperrors.SalesChannelNotFound, "sales channel not found")
)

// RetrieveConfig controls projection and visibility of single-record reads.
type RetrieveConfig struct {
	Relations      []repository.RentalRelation
	IncludeDeleted bool
}

// RentalVariantInput declares a variant at rental-creation time. Option
// values are positional against the rental's declared option list.
type RentalVariantInput struct {
	CreateVariantInput
	OptionValues []string
}

type CreateRentalInput struct {
	Title        string
	Subtitle     string
	Description  string
	Handle       string
	Status       model.RentalStatus
	IsGiftcard   bool
	Discountable *bool
	Thumbnail    string
	Images       []string
	ExternalID   *string
	CollectionID *uint
	Type         string
	Tags         []string
	SalesChannelIDs []uint

	Weight *float64
	Length *float64
	Height *float64
	Width  *float64

	HSCode        *string
	OriginCountry *string
	MidCode       *string
	Material      *string

	Options  []string
	Variants []RentalVariantInput
	Metadata map[string]interface{}
}

// VariantReconcileInput is one entry of an update's variant list. Entries
// without an ID are created; entries with an ID must belong to the rental.
type VariantReconcileInput struct {
	ID     *uint
	Create CreateVariantInput
	Update UpdateVariantInput
}

// UpdateRentalInput applies partial updates: nil means "leave unchanged".
// Tags, Images, SalesChannelIDs and Variants replace their collections
// wholesale when non-nil. Type upserts by value; an empty string clears it.
// CollectionID of 0 clears the collection.
type UpdateRentalInput struct {
	Title        *string
	Subtitle     *string
	Description  *string
	Handle       *string
	Status       *model.RentalStatus
	IsGiftcard   *bool
	Discountable *bool
	Thumbnail    *string
	ExternalID   *string
	CollectionID *uint
	Type         *string
	Tags         []string
	Images       []string
	SalesChannelIDs []uint

	Weight *float64
	Length *float64
	Height *float64
	Width  *float64

	HSCode        *string
	OriginCountry *string
	MidCode       *string
	Material      *string

	Variants []VariantReconcileInput
	Metadata map[string]interface{}
}

type RentalService interface {
	Retrieve(id uint, cfg RetrieveConfig) (*model.Rental, error)
	RetrieveByHandle(handle string, cfg RetrieveConfig) (*model.Rental, error)
	RetrieveByExternalID(externalID string, cfg RetrieveConfig) (*model.Rental, error)
	ListAndCount(filter repository.RentalFilter) ([]model.Rental, int64, error)
	Create(ctx context.Context, input CreateRentalInput) (*model.Rental, error)
	Update(ctx context.Context, id uint, input UpdateRentalInput) (*model.Rental, error)
	Delete(ctx context.Context, id uint) error

	AddOption(ctx context.Context, rentalID uint, title string) (*model.Rental, error)
	UpdateOption(rentalID, optionID uint, title string) (*model.RentalOption, error)
	DeleteOption(ctx context.Context, rentalID, optionID uint) error
	ReorderVariants(rentalID uint, orderedIDs []uint) (*model.Rental, error)

	IsRentalInSalesChannels(rentalID uint, salesChannelIDs []uint) (bool, error)
	FilterRentalsBySalesChannel(rentalIDs []uint, salesChannelID uint) ([]uint, error)
	ListTypes(searchTerm string, limit, offset int) ([]model.RentalType, int64, error)
	ListTagsByUsage(limit int) ([]repository.TagUsage, error)
}

type rentalService struct {
	rentalRepo  repository.RentalRepository
	variantRepo repository.VariantRepository
	optionRepo  repository.OptionRepository
	tagRepo     repository.TagRepository
	typeRepo    repository.TypeRepository
	channelRepo repository.SalesChannelRepository
	profileRepo repository.ShippingProfileRepository
	variants    VariantService
	flags       flags.Router
	bus         events.Bus
	indexer     search.Indexer
	db          *gorm.DB
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	variantRepo repository.VariantRepository,
	optionRepo repository.OptionRepository,
	tagRepo repository.TagRepository,
	typeRepo repository.TypeRepository,
	channelRepo repository.SalesChannelRepository,
	profileRepo repository.ShippingProfileRepository,
	variants VariantService,
	flagRouter flags.Router,
	bus events.Bus,
	indexer search.Indexer,
	db *gorm.DB,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		variantRepo: variantRepo,
		optionRepo:  optionRepo,
		tagRepo:     tagRepo,
		typeRepo:    typeRepo,
		channelRepo: channelRepo,
		profileRepo: profileRepo,
		variants:    variants,
		flags:       flagRouter,
		bus:         bus,
		indexer:     indexer,
		db:          db,
	}
}

func (s *rentalService) Retrieve(id uint, cfg RetrieveConfig) (*model.Rental, error) {
	rental, err := s.rentalRepo.FindByID(id, cfg.Relations, cfg.IncludeDeleted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) RetrieveByHandle(handle string, cfg RetrieveConfig) (*model.Rental, error) {
	rental, err := s.rentalRepo.FindByHandle(handle, cfg.Relations, cfg.IncludeDeleted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) RetrieveByExternalID(externalID string, cfg RetrieveConfig) (*model.Rental, error) {
	rental, err := s.rentalRepo.FindByExternalID(externalID, cfg.Relations, cfg.IncludeDeleted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) ListAndCount(filter repository.RentalFilter) ([]model.Rental, int64, error) {
	return s.rentalRepo.FindWithFilter(filter)
}

// Create persists the rental together with its options and variants in one
// transaction, so a failing variant rolls back the whole aggregate.
func (s *rentalService) Create(ctx context.Context, input CreateRentalInput) (*model.Rental, error) {
	logger.Info("Creating rental", map[string]interface{}{
		"title": input.Title,
	})

	handle := input.Handle
	if handle == "" {
		handle = util.ToHandle(input.Title)
	}
	exists, err := s.rentalRepo.ExistsWithHandle(handle, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrHandleExists
	}

	if len(input.SalesChannelIDs) > 0 && !s.flags.IsEnabled(flags.SalesChannels) {
		return nil, ErrSalesChannelsDisabled
	}

	discountable := true
	if input.Discountable != nil {
		discountable = *input.Discountable
	}
	if input.IsGiftcard {
		discountable = false
	}

	thumbnail := input.Thumbnail
	if thumbnail == "" && len(input.Images) > 0 {
		thumbnail = input.Images[0]
	}

	status := input.Status
	if status == "" {
		status = model.RentalStatusDraft
	}

	profileID := s.resolveProfileID(input.IsGiftcard)

	rental := &model.Rental{
		Title:         input.Title,
		Subtitle:      input.Subtitle,
		Description:   input.Description,
		Handle:        handle,
		Status:        status,
		IsGiftcard:    input.IsGiftcard,
		Discountable:  discountable,
		Thumbnail:     thumbnail,
		ExternalID:    input.ExternalID,
		ProfileID:     profileID,
		CollectionID:  input.CollectionID,
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
	for i, url := range input.Images {
		rental.Images = append(rental.Images, model.RentalImage{URL: url, Rank: i})
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during rental creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"title": input.Title,
			})
		}
	}()

	if input.Type != "" {
		rentalType, err := s.typeRepo.WithTx(tx).UpsertByValue(input.Type)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		rental.TypeID = &rentalType.ID
	}

	if len(input.Tags) > 0 {
		tags, err := s.tagRepo.WithTx(tx).UpsertByValues(input.Tags)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		rental.Tags = tags
	}

	if len(input.SalesChannelIDs) > 0 {
		channels, err := s.resolveSalesChannels(tx, input.SalesChannelIDs)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		rental.SalesChannels = channels
	}

	if err := s.rentalRepo.WithTx(tx).Create(rental); err != nil {
		tx.Rollback()
		return nil, err
	}

	optionRepo := s.optionRepo.WithTx(tx)
	for _, title := range input.Options {
		option := &model.RentalOption{RentalID: rental.ID, Title: title}
		if err := optionRepo.Create(option); err != nil {
			tx.Rollback()
			return nil, err
		}
		rental.Options = append(rental.Options, *option)
	}

	rental.Variants = nil
	for _, variantInput := range input.Variants {
		if len(variantInput.OptionValues) != len(rental.Options) {
			tx.Rollback()
			return nil, ErrOptionMismatch
		}
		create := variantInput.CreateVariantInput
		create.Options = nil
		for i, value := range variantInput.OptionValues {
			create.Options = append(create.Options, VariantOptionInput{
				OptionID: rental.Options[i].ID,
				Value:    value,
			})
		}
		variant, err := s.variants.CreateInTx(tx, rental, create)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		rental.Variants = append(rental.Variants, *variant)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit rental creation", err, map[string]interface{}{
			"title": input.Title,
		})
		return nil, err
	}

	s.emit(ctx, events.RentalCreated, map[string]interface{}{"id": rental.ID})
	for _, variant := range rental.Variants {
		s.emit(ctx, events.VariantCreated, map[string]interface{}{
			"id":        variant.ID,
			"rental_id": rental.ID,
		})
	}

	created, err := s.rentalRepo.FindByID(rental.ID, repository.AllRentalRelations, false)
	if err != nil {
		return nil, err
	}
	s.index(ctx, created)

	logger.Info("Rental created successfully", map[string]interface{}{
		"rental_id": created.ID,
		"handle":    created.Handle,
	})
	return created, nil
}

// resolveSalesChannels loads the referenced channels and fails when any id
// does not exist, so associations never materialize blank channel rows.
func (s *rentalService) resolveSalesChannels(tx *gorm.DB, ids []uint) ([]model.SalesChannel, error) {
	unique := make(map[uint]bool, len(ids))
	for _, id := range ids {
		unique[id] = true
	}

	channels, err := s.channelRepo.WithTx(tx).FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(channels) != len(unique) {
		return nil, ErrSalesChannelNotFound
	}
	return channels, nil
}

// resolveProfileID picks the gift-card or default shipping profile; a
// missing profile row leaves the reference unset.
func (s *rentalService) resolveProfileID(isGiftcard bool) *uint {
	if s.profileRepo == nil {
		return nil
	}
	var (
		profile *model.ShippingProfile
		err     error
	)
	if isGiftcard {
		profile, err = s.profileRepo.FindGiftCardDefault()
	} else {
		profile, err = s.profileRepo.FindDefault()
	}
	if err != nil {
		return nil
	}
	return &profile.ID
}

func (s *rentalService) Update(ctx context.Context, id uint, input UpdateRentalInput) (*model.Rental, error) {
	relations := []repository.RentalRelation{
		repository.RentalRelationVariants,
		repository.RentalRelationOptions,
		repository.RentalRelationTags,
		repository.RentalRelationImages,
	}
	if s.flags.IsEnabled(flags.SalesChannels) {
		relations = append(relations, repository.RentalRelationSalesChannels)
	}

	rental, err := s.rentalRepo.FindByID(id, relations, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}

	if input.SalesChannelIDs != nil && !s.flags.IsEnabled(flags.SalesChannels) {
		return nil, ErrSalesChannelsDisabled
	}

	if input.Handle != nil && *input.Handle != rental.Handle {
		exists, err := s.rentalRepo.ExistsWithHandle(*input.Handle, rental.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrHandleExists
		}
	}

	changed := applyRentalScalars(rental, input)

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during rental update, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"rental_id": id,
			})
		}
	}()

	if input.Type != nil {
		if *input.Type == "" {
			rental.TypeID = nil
		} else {
			rentalType, err := s.typeRepo.WithTx(tx).UpsertByValue(*input.Type)
			if err != nil {
				tx.Rollback()
				return nil, err
			}
			rental.TypeID = &rentalType.ID
		}
		rental.Type = nil
		changed = append(changed, "type")
	}

	if input.Tags != nil {
		tags, err := s.tagRepo.WithTx(tx).UpsertByValues(input.Tags)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Model(rental).Association("Tags").Replace(tags); err != nil {
			tx.Rollback()
			return nil, err
		}
		rental.Tags = tags
		changed = append(changed, "tags")
	}

	if input.Images != nil {
		if err := tx.Where("rental_id = ?", rental.ID).Delete(&model.RentalImage{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		images := make([]model.RentalImage, 0, len(input.Images))
		for i, url := range input.Images {
			images = append(images, model.RentalImage{RentalID: rental.ID, URL: url, Rank: i})
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
		rental.Images = images
		changed = append(changed, "images")
	}

	if input.SalesChannelIDs != nil {
		channels, err := s.resolveSalesChannels(tx, input.SalesChannelIDs)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := tx.Model(rental).Association("SalesChannels").Replace(channels); err != nil {
			tx.Rollback()
			return nil, err
		}
		rental.SalesChannels = channels
		changed = append(changed, "sales_channels")
	}

	if input.Variants != nil {
		if err := s.reconcileVariants(tx, rental, input.Variants); err != nil {
			tx.Rollback()
			return nil, err
		}
		changed = append(changed, "variants")
	}

	// Detach loaded collections so Save only writes the rental row.
	saved := *rental
	saved.Images = nil
	saved.Options = nil
	saved.Variants = nil
	saved.Tags = nil
	saved.SalesChannels = nil
	saved.Collection = nil
	saved.Type = nil
	if err := s.rentalRepo.WithTx(tx).Save(&saved); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit rental update", err, map[string]interface{}{
			"rental_id": id,
		})
		return nil, err
	}

	s.emit(ctx, events.RentalUpdated, map[string]interface{}{
		"id":     rental.ID,
		"fields": changed,
	})

	updated, err := s.rentalRepo.FindByID(rental.ID, repository.AllRentalRelations, false)
	if err != nil {
		return nil, err
	}
	s.index(ctx, updated)
	return updated, nil
}

// reconcileVariants matches the incoming list against the rental's current
// variants: entries without an id are created, entries with an id must
// exist, current variants absent from the list are removed. Every variant
// ends up with a rank equal to its position in the incoming list.
func (s *rentalService) reconcileVariants(tx *gorm.DB, rental *model.Rental, inputs []VariantReconcileInput) error {
	existing := make(map[uint]bool, len(rental.Variants))
	for i := range rental.Variants {
		existing[rental.Variants[i].ID] = true
	}

	keep := make(map[uint]bool, len(inputs))
	for _, in := range inputs {
		if in.ID == nil {
			continue
		}
		if !existing[*in.ID] {
			return ErrVariantNotFound
		}
		keep[*in.ID] = true
	}

	// Remove dropped variants before creating new ones: the duplicate
	// combination check for created entries runs against the aggregate's
	// resulting variant set, so replacing a variant with an id-less entry
	// carrying the same option values is valid.
	retained := make([]model.RentalVariant, 0, len(rental.Variants))
	for i := range rental.Variants {
		variant := rental.Variants[i]
		if !keep[variant.ID] {
			loaded, err := s.variantRepo.FindByID(variant.ID, true, true)
			if err != nil {
				return err
			}
			if err := deleteVariantInTx(tx, loaded); err != nil {
				return err
			}
			continue
		}
		retained = append(retained, variant)
	}
	rental.Variants = retained

	current := make(map[uint]*model.RentalVariant, len(rental.Variants))
	for i := range rental.Variants {
		current[rental.Variants[i].ID] = &rental.Variants[i]
	}

	variantRepo := s.variantRepo.WithTx(tx)
	for rank, in := range inputs {
		if in.ID == nil {
			create := in.Create
			r := rank
			create.VariantRank = &r
			variant, err := s.variants.CreateInTx(tx, rental, create)
			if err != nil {
				return err
			}
			rental.Variants = append(rental.Variants, *variant)
			continue
		}

		variant := current[*in.ID]
		applyVariantScalars(variant, in.Update)
		variant.VariantRank = rank

		detached := *variant
		detached.Options = nil
		detached.Prices = nil
		detached.Rental = nil
		if err := variantRepo.Save(&detached); err != nil {
			return err
		}
	}
	return nil
}

func applyRentalScalars(rental *model.Rental, input UpdateRentalInput) []string {
	var changed []string

	apply := func(field string, f func()) {
		f()
		changed = append(changed, field)
	}

	if input.Title != nil {
		apply("title", func() { rental.Title = *input.Title })
	}
	if input.Subtitle != nil {
		apply("subtitle", func() { rental.Subtitle = *input.Subtitle })
	}
	if input.Description != nil {
		apply("description", func() { rental.Description = *input.Description })
	}
	if input.Handle != nil {
		apply("handle", func() { rental.Handle = *input.Handle })
	}
	if input.Status != nil {
		apply("status", func() { rental.Status = *input.Status })
	}
	if input.IsGiftcard != nil {
		apply("is_giftcard", func() { rental.IsGiftcard = *input.IsGiftcard })
	}
	if input.Discountable != nil {
		apply("discountable", func() { rental.Discountable = *input.Discountable })
	}
	if rental.IsGiftcard {
		rental.Discountable = false
	}
	if input.Thumbnail != nil {
		apply("thumbnail", func() { rental.Thumbnail = *input.Thumbnail })
	}
	if input.ExternalID != nil {
		apply("external_id", func() { rental.ExternalID = input.ExternalID })
	}
	if input.CollectionID != nil {
		apply("collection_id", func() {
			if *input.CollectionID == 0 {
				rental.CollectionID = nil
			} else {
				rental.CollectionID = input.CollectionID
			}
			rental.Collection = nil
		})
	}
	if input.Weight != nil {
		apply("weight", func() { rental.Weight = input.Weight })
	}
	if input.Length != nil {
		apply("length", func() { rental.Length = input.Length })
	}
	if input.Height != nil {
		apply("height", func() { rental.Height = input.Height })
	}
	if input.Width != nil {
		apply("width", func() { rental.Width = input.Width })
	}
	if input.HSCode != nil {
		apply("hs_code", func() { rental.HSCode = input.HSCode })
	}
	if input.OriginCountry != nil {
		apply("origin_country", func() { rental.OriginCountry = input.OriginCountry })
	}
	if input.MidCode != nil {
		apply("mid_code", func() { rental.MidCode = input.MidCode })
	}
	if input.Material != nil {
		apply("material", func() { rental.Material = input.Material })
	}
	if input.Metadata != nil {
		apply("metadata", func() {
			if rental.Metadata == nil {
				rental.Metadata = make(map[string]interface{}, len(input.Metadata))
			}
			for k, v := range input.Metadata {
				if v == nil {
					delete(rental.Metadata, k)
				} else {
					rental.Metadata[k] = v
				}
			}
		})
	}
	return changed
}

// Delete soft-removes the rental with its variants, prices and options.
// A missing id is a no-op, so repeated deletes emit a single event.
func (s *rentalService) Delete(ctx context.Context, id uint) error {
	rental, err := s.rentalRepo.FindByID(id, []repository.RentalRelation{
		repository.RentalRelationVariants,
		repository.RentalRelationOptions,
	}, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during rental deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"rental_id": id,
			})
		}
	}()

	for i := range rental.Variants {
		if err := deleteVariantInTx(tx, &rental.Variants[i]); err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, option := range rental.Options {
		if err := tx.Delete(&model.RentalOption{}, option.ID).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Delete(&model.Rental{}, rental.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit rental deletion", err, map[string]interface{}{
			"rental_id": id,
		})
		return err
	}

	s.emit(ctx, events.RentalDeleted, map[string]interface{}{"id": rental.ID})
	if s.indexer != nil {
		if err := s.indexer.Remove(ctx, rental.ID); err != nil {
			logger.Warn("Failed to remove rental from search index", map[string]interface{}{
				"rental_id": rental.ID,
			})
		}
	}

	logger.Info("Rental deleted", map[string]interface{}{"rental_id": rental.ID})
	return nil
}

// AddOption creates a new option and back-fills every existing variant with
// a placeholder value so variants keep covering the full option set.
func (s *rentalService) AddOption(ctx context.Context, rentalID uint, title string) (*model.Rental, error) {
	rental, err := s.Retrieve(rentalID, RetrieveConfig{Relations: []repository.RentalRelation{
		repository.RentalRelationOptions,
		repository.RentalRelationVariants,
	}})
	if err != nil {
		return nil, err
	}

	for _, option := range rental.Options {
		if option.Title == title {
			return nil, ErrOptionExists
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during option creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"rental_id": rentalID,
			})
		}
	}()

	optionRepo := s.optionRepo.WithTx(tx)
	option := &model.RentalOption{RentalID: rental.ID, Title: title}
	if err := optionRepo.Create(option); err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, variant := range rental.Variants {
		value := &model.RentalOptionValue{
			OptionID:  option.ID,
			VariantID: variant.ID,
			Value:     defaultOptionValue,
		}
		if err := optionRepo.CreateValue(value); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit option creation", err, map[string]interface{}{
			"rental_id": rentalID,
		})
		return nil, err
	}

	return s.Retrieve(rentalID, RetrieveConfig{Relations: []repository.RentalRelation{
		repository.RentalRelationOptions,
		repository.RentalRelationVariants,
	}})
}

func (s *rentalService) UpdateOption(rentalID, optionID uint, title string) (*model.RentalOption, error) {
	options, err := s.optionRepo.FindByRental(rentalID)
	if err != nil {
		return nil, err
	}

	var target *model.RentalOption
	for i := range options {
		if options[i].ID == optionID {
			target = &options[i]
			continue
		}
		if strings.EqualFold(options[i].Title, title) {
			return nil, ErrOptionExists
		}
	}
	if target == nil {
		return nil, ErrOptionNotFound
	}

	target.Title = title
	target.Values = nil
	if err := s.optionRepo.Save(target); err != nil {
		return nil, err
	}
	return target, nil
}

// DeleteOption is a no-op for a missing option. When variants exist, the
// removal is only allowed if every variant holds the identical value for
// the option, otherwise dropping it could collapse two variants into the
// same combination.
func (s *rentalService) DeleteOption(ctx context.Context, rentalID, optionID uint) error {
	rental, err := s.Retrieve(rentalID, RetrieveConfig{Relations: []repository.RentalRelation{
		repository.RentalRelationOptions,
		repository.RentalRelationVariants,
	}})
	if err != nil {
		return err
	}

	var target *model.RentalOption
	for i := range rental.Options {
		if rental.Options[i].ID == optionID {
			target = &rental.Options[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	if len(rental.Variants) > 0 {
		var shared string
		for i, variant := range rental.Variants {
			value := ""
			for _, ov := range variant.Options {
				if ov.OptionID == optionID {
					value = ov.Value
					break
				}
			}
			if i == 0 {
				shared = value
			} else if value != shared {
				return ErrOptionInUse
			}
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during option deletion, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"rental_id": rentalID,
				"option_id": optionID,
			})
		}
	}()

	optionRepo := s.optionRepo.WithTx(tx)
	for _, variant := range rental.Variants {
		if err := optionRepo.DeleteValue(variant.ID, optionID); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := optionRepo.Delete(optionID); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit option deletion", err, map[string]interface{}{
			"rental_id": rentalID,
			"option_id": optionID,
		})
		return err
	}
	return nil
}

// ReorderVariants reassigns ranks so each variant's rank equals its
// position in orderedIDs. The list must name every current variant once.
func (s *rentalService) ReorderVariants(rentalID uint, orderedIDs []uint) (*model.Rental, error) {
	rental, err := s.Retrieve(rentalID, RetrieveConfig{Relations: []repository.RentalRelation{
		repository.RentalRelationVariants,
	}})
	if err != nil {
		return nil, err
	}

	if len(orderedIDs) != len(rental.Variants) {
		return nil, ErrVariantOrderInvalid
	}
	current := make(map[uint]*model.RentalVariant, len(rental.Variants))
	for i := range rental.Variants {
		current[rental.Variants[i].ID] = &rental.Variants[i]
	}
	seen := make(map[uint]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := current[id]; !ok || seen[id] {
			return nil, ErrVariantOrderInvalid
		}
		seen[id] = true
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during variant reorder, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"rental_id": rentalID,
			})
		}
	}()

	for rank, id := range orderedIDs {
		if err := tx.Model(&model.RentalVariant{}).
			Where("id = ?", id).
			Update("variant_rank", rank).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit variant reorder", err, map[string]interface{}{
			"rental_id": rentalID,
		})
		return nil, err
	}

	return s.Retrieve(rentalID, RetrieveConfig{Relations: []repository.RentalRelation{
		repository.RentalRelationVariants,
	}})
}

func (s *rentalService) IsRentalInSalesChannels(rentalID uint, salesChannelIDs []uint) (bool, error) {
	count, err := s.rentalRepo.CountInSalesChannels(rentalID, salesChannelIDs)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *rentalService) FilterRentalsBySalesChannel(rentalIDs []uint, salesChannelID uint) ([]uint, error) {
	return s.rentalRepo.FilterIDsBySalesChannel(rentalIDs, salesChannelID)
}

func (s *rentalService) ListTypes(searchTerm string, limit, offset int) ([]model.RentalType, int64, error) {
	return s.typeRepo.List(searchTerm, limit, offset)
}

func (s *rentalService) ListTagsByUsage(limit int) ([]repository.TagUsage, error) {
	return s.tagRepo.ListByUsage(limit)
}

func (s *rentalService) emit(ctx context.Context, event string, payload interface{}) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, event, payload); err != nil {
		logger.Warn("Event emission failed", map[string]interface{}{
			"event": event,
		})
	}
}

func (s *rentalService) index(ctx context.Context, rental *model.Rental) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.Index(ctx, search.DocumentFromRental(rental)); err != nil {
		logger.Warn("Failed to index rental", map[string]interface{}{
			"rental_id": rental.ID,
		})
	}
}
