package controller

import (
	"net/http"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"github.com/Jbmanllr/rental-catalog/internal/app/service"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/Jbmanllr/rental-catalog/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RentalController struct {
	rentalService  service.RentalService
	variantService service.VariantService
}

func NewRentalController(rentalService service.RentalService, variantService service.VariantService) *RentalController {
	return &RentalController{
		rentalService:  rentalService,
		variantService: variantService,
	}
}

type PriceRequest struct {
	RegionID     *uint  `json:"region_id"`
	CurrencyCode string `json:"currency_code"`
	Amount       int64  `json:"amount" binding:"required"`
	MinQuantity  *int   `json:"min_quantity"`
	MaxQuantity  *int   `json:"max_quantity"`
}

func (r PriceRequest) toInput() service.PriceInput {
	return service.PriceInput{
		RegionID:     r.RegionID,
		CurrencyCode: r.CurrencyCode,
		Amount:       r.Amount,
		MinQuantity:  r.MinQuantity,
		MaxQuantity:  r.MaxQuantity,
	}
}

type CreateRentalVariantRequest struct {
	Title             string                 `json:"title" binding:"required"`
	SKU               *string                `json:"sku"`
	Barcode           *string                `json:"barcode"`
	EAN               *string                `json:"ean"`
	UPC               *string                `json:"upc"`
	InventoryQuantity *int                   `json:"inventory_quantity"`
	AllowBackorder    *bool                  `json:"allow_backorder"`
	ManageInventory   *bool                  `json:"manage_inventory"`
	OptionValues      []string               `json:"option_values"`
	Prices            []PriceRequest         `json:"prices"`
	Metadata          map[string]interface{} `json:"metadata"`
}

func (r CreateRentalVariantRequest) toInput() service.RentalVariantInput {
	input := service.RentalVariantInput{
		CreateVariantInput: service.CreateVariantInput{
			Title:             r.Title,
			SKU:               r.SKU,
			Barcode:           r.Barcode,
			EAN:               r.EAN,
			UPC:               r.UPC,
			InventoryQuantity: r.InventoryQuantity,
			AllowBackorder:    r.AllowBackorder,
			ManageInventory:   r.ManageInventory,
			Metadata:          r.Metadata,
		},
		OptionValues: r.OptionValues,
	}
	for _, price := range r.Prices {
		input.Prices = append(input.Prices, price.toInput())
	}
	return input
}

type CreateRentalRequest struct {
	Title           string                       `json:"title" binding:"required"`
	Subtitle        string                       `json:"subtitle"`
	Description     string                       `json:"description"`
	Handle          string                       `json:"handle"`
	Status          model.RentalStatus           `json:"status"`
	IsGiftcard      bool                         `json:"is_giftcard"`
	Discountable    *bool                        `json:"discountable"`
	Thumbnail       string                       `json:"thumbnail"`
	Images          []string                     `json:"images"`
	ExternalID      *string                      `json:"external_id"`
	CollectionID    *uint                        `json:"collection_id"`
	Type            string                       `json:"type"`
	Tags            []string                     `json:"tags"`
	SalesChannelIDs []uint                       `json:"sales_channel_ids"`
	Options         []string                     `json:"options"`
	Variants        []CreateRentalVariantRequest `json:"variants"`
	Metadata        map[string]interface{}       `json:"metadata"`
}

type UpdateRentalVariantRequest struct {
	ID                *uint                  `json:"id"`
	Title             *string                `json:"title"`
	SKU               *string                `json:"sku"`
	Barcode           *string                `json:"barcode"`
	EAN               *string                `json:"ean"`
	UPC               *string                `json:"upc"`
	InventoryQuantity *int                   `json:"inventory_quantity"`
	AllowBackorder    *bool                  `json:"allow_backorder"`
	ManageInventory   *bool                  `json:"manage_inventory"`
	Options           []VariantOptionRequest `json:"options"`
	Prices            []PriceRequest         `json:"prices"`
	Metadata          map[string]interface{} `json:"metadata"`
}

type VariantOptionRequest struct {
	OptionID uint   `json:"option_id" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

type UpdateRentalRequest struct {
	Title           *string                      `json:"title"`
	Subtitle        *string                      `json:"subtitle"`
	Description     *string                      `json:"description"`
	Handle          *string                      `json:"handle"`
	Status          *model.RentalStatus          `json:"status"`
	IsGiftcard      *bool                        `json:"is_giftcard"`
	Discountable    *bool                        `json:"discountable"`
	Thumbnail       *string                      `json:"thumbnail"`
	ExternalID      *string                      `json:"external_id"`
	CollectionID    *uint                        `json:"collection_id"`
	Type            *string                      `json:"type"`
	Tags            []string                     `json:"tags"`
	Images          []string                     `json:"images"`
	SalesChannelIDs []uint                       `json:"sales_channel_ids"`
	Variants        []UpdateRentalVariantRequest `json:"variants"`
	Metadata        map[string]interface{}       `json:"metadata"`
}

// ListRentals returns a paginated rental list.
// GET /admin/rentals
func (ctrl *RentalController) ListRentals(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := parsePagination(c)
	filter := repository.RentalFilter{
		FreeText:        c.Query("q"),
		Handle:          c.Query("handle"),
		CollectionIDs:   parseUintList(c.Query("collection_id")),
		TypeIDs:         parseUintList(c.Query("type_id")),
		TagIDs:          parseUintList(c.Query("tag_id")),
		SalesChannelIDs: parseUintList(c.Query("sales_channel_id")),
		Limit:           limit,
		Offset:          offset,
		Relations:       parseRelations(c.DefaultQuery("expand", "variants,options,tags,collection,type")),
	}
	for _, status := range parseCSV(c.Query("status")) {
		filter.Status = append(filter.Status, model.RentalStatus(status))
	}

	rentals, count, err := ctrl.rentalService.ListAndCount(filter)
	if err != nil {
		log.Error("Failed to list rentals", err, nil)
		apperrors.HandleServiceError(c, err, "rental")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rentals": rentals,
		"count":   count,
		"offset":  offset,
		"limit":   limit,
	})
}

// GetRental returns one rental with all relations.
// GET /admin/rentals/:id
func (ctrl *RentalController) GetRental(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rental, err := ctrl.rentalService.Retrieve(id, service.RetrieveConfig{
		Relations: repository.AllRentalRelations,
	})
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental": rental})
}

// CreateRental creates a rental with its options and variants.
// POST /admin/rentals
func (ctrl *RentalController) CreateRental(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid rental creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	input := service.CreateRentalInput{
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Description:     req.Description,
		Handle:          req.Handle,
		Status:          req.Status,
		IsGiftcard:      req.IsGiftcard,
		Discountable:    req.Discountable,
		Thumbnail:       req.Thumbnail,
		Images:          req.Images,
		ExternalID:      req.ExternalID,
		CollectionID:    req.CollectionID,
		Type:            req.Type,
		Tags:            req.Tags,
		SalesChannelIDs: req.SalesChannelIDs,
		Options:         req.Options,
		Metadata:        req.Metadata,
	}
	for _, variant := range req.Variants {
		input.Variants = append(input.Variants, variant.toInput())
	}

	rental, err := ctrl.rentalService.Create(c.Request.Context(), input)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rental": rental})
}

// UpdateRental applies a partial update.
// POST /admin/rentals/:id
func (ctrl *RentalController) UpdateRental(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid rental update request", map[string]interface{}{
			"rental_id": id,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	input := service.UpdateRentalInput{
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Description:     req.Description,
		Handle:          req.Handle,
		Status:          req.Status,
		IsGiftcard:      req.IsGiftcard,
		Discountable:    req.Discountable,
		Thumbnail:       req.Thumbnail,
		ExternalID:      req.ExternalID,
		CollectionID:    req.CollectionID,
		Type:            req.Type,
		Tags:            req.Tags,
		Images:          req.Images,
		SalesChannelIDs: req.SalesChannelIDs,
		Metadata:        req.Metadata,
	}
	if req.Variants != nil {
		input.Variants = make([]service.VariantReconcileInput, 0, len(req.Variants))
		for _, v := range req.Variants {
			entry := service.VariantReconcileInput{ID: v.ID}
			if v.ID == nil {
				entry.Create = service.CreateVariantInput{
					SKU:               v.SKU,
					Barcode:           v.Barcode,
					EAN:               v.EAN,
					UPC:               v.UPC,
					InventoryQuantity: v.InventoryQuantity,
					AllowBackorder:    v.AllowBackorder,
					ManageInventory:   v.ManageInventory,
					Metadata:          v.Metadata,
				}
				if v.Title != nil {
					entry.Create.Title = *v.Title
				}
				for _, opt := range v.Options {
					entry.Create.Options = append(entry.Create.Options, service.VariantOptionInput{
						OptionID: opt.OptionID,
						Value:    opt.Value,
					})
				}
				for _, price := range v.Prices {
					entry.Create.Prices = append(entry.Create.Prices, price.toInput())
				}
			} else {
				entry.Update = service.UpdateVariantInput{
					Title:             v.Title,
					SKU:               v.SKU,
					Barcode:           v.Barcode,
					EAN:               v.EAN,
					UPC:               v.UPC,
					InventoryQuantity: v.InventoryQuantity,
					AllowBackorder:    v.AllowBackorder,
					ManageInventory:   v.ManageInventory,
					Metadata:          v.Metadata,
				}
			}
			input.Variants = append(input.Variants, entry)
		}
	}

	rental, err := ctrl.rentalService.Update(c.Request.Context(), id, input)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental": rental})
}

// DeleteRental soft-removes a rental. Repeating the call is a no-op.
// DELETE /admin/rentals/:id
func (ctrl *RentalController) DeleteRental(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.rentalService.Delete(c.Request.Context(), id); err != nil {
		apperrors.HandleServiceError(c, err, "rental")
		return
	}

	c.JSON(http.StatusOK, deletionResponse{ID: id, Object: "rental", Deleted: true})
}

type OptionRequest struct {
	Title string `json:"title" binding:"required"`
}

// AddOption declares a new option axis on the rental.
// POST /admin/rentals/:id/options
func (ctrl *RentalController) AddOption(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	rental, err := ctrl.rentalService.AddOption(c.Request.Context(), id, req.Title)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental option")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental": rental})
}

// UpdateOption renames an option.
// POST /admin/rentals/:id/options/:option_id
func (ctrl *RentalController) UpdateOption(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	optionID, ok := parseIDParam(c, "option_id")
	if !ok {
		return
	}

	var req OptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	option, err := ctrl.rentalService.UpdateOption(id, optionID, req.Title)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental option")
		return
	}

	c.JSON(http.StatusOK, gin.H{"option": option})
}

// DeleteOption removes an option; a no-op when it is already gone.
// DELETE /admin/rentals/:id/options/:option_id
func (ctrl *RentalController) DeleteOption(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	optionID, ok := parseIDParam(c, "option_id")
	if !ok {
		return
	}

	if err := ctrl.rentalService.DeleteOption(c.Request.Context(), id, optionID); err != nil {
		apperrors.HandleServiceError(c, err, "rental option")
		return
	}

	c.JSON(http.StatusOK, deletionResponse{ID: optionID, Object: "option", Deleted: true})
}

// CreateVariant adds a variant to an existing rental.
// POST /admin/rentals/:id/variants
func (ctrl *RentalController) CreateVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Title             string                 `json:"title" binding:"required"`
		SKU               *string                `json:"sku"`
		Barcode           *string                `json:"barcode"`
		EAN               *string                `json:"ean"`
		UPC               *string                `json:"upc"`
		InventoryQuantity *int                   `json:"inventory_quantity"`
		AllowBackorder    *bool                  `json:"allow_backorder"`
		ManageInventory   *bool                  `json:"manage_inventory"`
		Options           []VariantOptionRequest `json:"options"`
		Prices            []PriceRequest         `json:"prices"`
		Metadata          map[string]interface{} `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	input := service.CreateVariantInput{
		Title:             req.Title,
		SKU:               req.SKU,
		Barcode:           req.Barcode,
		EAN:               req.EAN,
		UPC:               req.UPC,
		InventoryQuantity: req.InventoryQuantity,
		AllowBackorder:    req.AllowBackorder,
		ManageInventory:   req.ManageInventory,
		Metadata:          req.Metadata,
	}
	for _, opt := range req.Options {
		input.Options = append(input.Options, service.VariantOptionInput{
			OptionID: opt.OptionID,
			Value:    opt.Value,
		})
	}
	for _, price := range req.Prices {
		input.Prices = append(input.Prices, price.toInput())
	}

	variant, err := ctrl.variantService.Create(c.Request.Context(), id, input)
	if err != nil {
		apperrors.HandleServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"variant": variant})
}

type ReorderVariantsRequest struct {
	VariantIDs []uint `json:"variant_ids" binding:"required"`
}

// ReorderVariants persists a new variant ordering.
// POST /admin/rentals/:id/variants/reorder
func (ctrl *RentalController) ReorderVariants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReorderVariantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	rental, err := ctrl.rentalService.ReorderVariants(id, req.VariantIDs)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental": rental})
}
