package controller

import (
	"net/http"
	"strconv"

	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"github.com/Jbmanllr/rental-catalog/internal/app/service"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/Jbmanllr/rental-catalog/internal/middleware"
	"github.com/gin-gonic/gin"
)

type VariantController struct {
	variantService service.VariantService
}

func NewVariantController(variantService service.VariantService) *VariantController {
	return &VariantController{variantService: variantService}
}

// ListVariants returns a paginated variant list across all rentals.
// GET /admin/variants
func (ctrl *VariantController) ListVariants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := parsePagination(c)
	filter := repository.VariantFilter{
		IDs:         parseUintList(c.Query("id")),
		SKU:         c.Query("sku"),
		FreeText:    c.Query("q"),
		Limit:       limit,
		Offset:      offset,
		WithPrices:  true,
		WithOptions: true,
		WithRental:  true,
	}
	if raw := c.Query("rental_id"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
			rentalID := uint(v)
			filter.RentalID = &rentalID
		}
	}

	variants, count, err := ctrl.variantService.ListAndCount(filter)
	if err != nil {
		log.Error("Failed to list variants", err, nil)
		apperrors.HandleServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
		"count":    count,
		"offset":   offset,
		"limit":    limit,
	})
}

// GetVariant returns one variant with prices and option values.
// GET /admin/variants/:id
func (ctrl *VariantController) GetVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variant, err := ctrl.variantService.Retrieve(id)
	if err != nil {
		apperrors.HandleServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"variant": variant})
}

// UpdateVariant applies a partial update to a variant.
// POST /admin/variants/:id
func (ctrl *VariantController) UpdateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRentalVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid variant update request", map[string]interface{}{
			"variant_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	input := service.UpdateVariantInput{
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
	if req.Prices != nil {
		input.Prices = make([]service.PriceInput, 0, len(req.Prices))
		for _, price := range req.Prices {
			input.Prices = append(input.Prices, price.toInput())
		}
	}

	variant, err := ctrl.variantService.Update(c.Request.Context(), id, input)
	if err != nil {
		apperrors.HandleServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"variant": variant})
}

// DeleteVariant removes a variant; a no-op when it is already gone.
// DELETE /admin/variants/:id
func (ctrl *VariantController) DeleteVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.variantService.Delete(c.Request.Context(), id); err != nil {
		apperrors.HandleServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, deletionResponse{ID: id, Object: "variant", Deleted: true})
}

type UpdatePricesRequest struct {
	Prices []PriceRequest `json:"prices" binding:"required"`
}

// UpdatePrices replaces the variant's default price set.
// POST /admin/variants/:id/prices
func (ctrl *VariantController) UpdatePrices(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	prices := make([]service.PriceInput, 0, len(req.Prices))
	for _, price := range req.Prices {
		prices = append(prices, price.toInput())
	}

	if err := ctrl.variantService.UpdateVariantPrices(id, prices); err != nil {
		apperrors.HandleServiceError(c, err, "variant price")
		return
	}

	variant, err := ctrl.variantService.Retrieve(id)
	if err != nil {
		apperrors.HandleServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"variant": variant})
}

type SetPriceRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

// GetRegionPrice resolves the effective price for a region, falling back
// to the region's currency.
// GET /admin/variants/:id/prices/region/:region_id
func (ctrl *VariantController) GetRegionPrice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}

	var quantity *int
	if raw := c.Query("quantity"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			quantity = &v
		}
	}

	price, err := ctrl.variantService.GetRegionPrice(id, regionID, quantity)
	if err != nil {
		apperrors.HandleServiceError(c, err, "variant price")
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}

// SetRegionPrice upserts the default region-scoped price.
// POST /admin/variants/:id/prices/region/:region_id
func (ctrl *VariantController) SetRegionPrice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	regionID, ok := parseIDParam(c, "region_id")
	if !ok {
		return
	}

	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	price, err := ctrl.variantService.SetRegionPrice(id, regionID, req.Amount)
	if err != nil {
		apperrors.HandleServiceError(c, err, "variant price")
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}

// SetCurrencyPrice upserts the default currency-scoped price.
// POST /admin/variants/:id/prices/currency/:currency_code
func (ctrl *VariantController) SetCurrencyPrice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	currencyCode := c.Param("currency_code")
	if currencyCode == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid currency_code parameter")
		return
	}

	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	price, err := ctrl.variantService.SetCurrencyPrice(id, currencyCode, req.Amount)
	if err != nil {
		apperrors.HandleServiceError(c, err, "variant price")
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}

type OptionValueRequest struct {
	OptionID uint   `json:"option_id" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

// AddOptionValue attaches a value for one of the parent rental's options.
// POST /admin/variants/:id/options
func (ctrl *VariantController) AddOptionValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req OptionValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	value, err := ctrl.variantService.AddOptionValue(id, req.OptionID, req.Value)
	if err != nil {
		apperrors.HandleServiceError(c, err, "option value")
		return
	}

	c.JSON(http.StatusOK, gin.H{"option_value": value})
}

// UpdateOptionValue changes the value a variant carries for an option.
// POST /admin/variants/:id/options/:option_id
func (ctrl *VariantController) UpdateOptionValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	optionID, ok := parseIDParam(c, "option_id")
	if !ok {
		return
	}

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	value, err := ctrl.variantService.UpdateOptionValue(id, optionID, req.Value)
	if err != nil {
		apperrors.HandleServiceError(c, err, "option value")
		return
	}

	c.JSON(http.StatusOK, gin.H{"option_value": value})
}

// DeleteOptionValue detaches an option value; a no-op when absent.
// DELETE /admin/variants/:id/options/:option_id
func (ctrl *VariantController) DeleteOptionValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	optionID, ok := parseIDParam(c, "option_id")
	if !ok {
		return
	}

	if err := ctrl.variantService.DeleteOptionValue(id, optionID); err != nil {
		apperrors.HandleServiceError(c, err, "option value")
		return
	}

	c.JSON(http.StatusOK, deletionResponse{ID: optionID, Object: "option-value", Deleted: true})
}
