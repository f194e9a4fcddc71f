package controller

import (
	"net/http"
	"strconv"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"github.com/Jbmanllr/rental-catalog/internal/app/service"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/gin-gonic/gin"
)

// StoreRentalController serves the public catalog. Only published rentals
// are visible here.
type StoreRentalController struct {
	rentalService  service.RentalService
	priceSelection service.PriceSelection
}

func NewStoreRentalController(rentalService service.RentalService, priceSelection service.PriceSelection) *StoreRentalController {
	return &StoreRentalController{
		rentalService:  rentalService,
		priceSelection: priceSelection,
	}
}

// storeVariant decorates a variant with the price resolved for the
// caller's region or currency.
type storeVariant struct {
	model.RentalVariant
	CalculatedPrice *int64 `json:"calculated_price"`
}

type storeRental struct {
	model.Rental
	Variants []storeVariant `json:"variants"`
}

// ListRentals lists published rentals. Supports the same free-text `q`
// filter as the admin list plus optional region_id/currency_code price
// decoration.
// GET /store/rentals
func (ctrl *StoreRentalController) ListRentals(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := repository.RentalFilter{
		FreeText:      c.Query("q"),
		Handle:        c.Query("handle"),
		CollectionIDs: parseUintList(c.Query("collection_id")),
		TypeIDs:       parseUintList(c.Query("type_id")),
		TagIDs:        parseUintList(c.Query("tag_id")),
		Status:        []model.RentalStatus{model.RentalStatusPublished},
		Limit:         limit,
		Offset:        offset,
		Relations: []repository.RentalRelation{
			repository.RentalRelationVariants,
			repository.RentalRelationOptions,
			repository.RentalRelationTags,
			repository.RentalRelationCollection,
			repository.RentalRelationType,
		},
	}

	rentals, count, err := ctrl.rentalService.ListAndCount(filter)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental")
		return
	}

	selCtx := ctrl.selectionContext(c)
	decorated := make([]storeRental, 0, len(rentals))
	for i := range rentals {
		entry, err := ctrl.decorate(&rentals[i], selCtx)
		if err != nil {
			apperrors.HandleServiceError(c, err, "rental")
			return
		}
		decorated = append(decorated, *entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"rentals": decorated,
		"count":   count,
		"offset":  offset,
		"limit":   limit,
	})
}

// GetRental returns one published rental by id.
// GET /store/rentals/:id
func (ctrl *StoreRentalController) GetRental(c *gin.Context) {
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
	if rental.Status != model.RentalStatusPublished {
		apperrors.NotFound(c, apperrors.RentalNotFound, "rental not found")
		return
	}

	entry, err := ctrl.decorate(rental, ctrl.selectionContext(c))
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental": entry})
}

// GetRentalByHandle returns one published rental by its handle.
// GET /store/rentals/handle/:handle
func (ctrl *StoreRentalController) GetRentalByHandle(c *gin.Context) {
	handle := c.Param("handle")
	if handle == "" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid handle parameter")
		return
	}

	rental, err := ctrl.rentalService.RetrieveByHandle(handle, service.RetrieveConfig{
		Relations: repository.AllRentalRelations,
	})
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental")
		return
	}
	if rental.Status != model.RentalStatusPublished {
		apperrors.NotFound(c, apperrors.RentalNotFound, "rental not found")
		return
	}

	entry, err := ctrl.decorate(rental, ctrl.selectionContext(c))
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental": entry})
}

func (ctrl *StoreRentalController) selectionContext(c *gin.Context) service.PriceSelectionContext {
	selCtx := service.PriceSelectionContext{
		CurrencyCode: c.Query("currency_code"),
	}
	if raw := c.Query("region_id"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 32); err == nil && v > 0 {
			regionID := uint(v)
			selCtx.RegionID = &regionID
		}
	}
	if raw := c.Query("quantity"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			selCtx.Quantity = &v
		}
	}
	return selCtx
}

func (ctrl *StoreRentalController) decorate(rental *model.Rental, selCtx service.PriceSelectionContext) (*storeRental, error) {
	entry := storeRental{Rental: *rental}
	entry.Variants = make([]storeVariant, 0, len(rental.Variants))

	for i := range rental.Variants {
		variant := storeVariant{RentalVariant: rental.Variants[i]}
		if selCtx.RegionID != nil || selCtx.CurrencyCode != "" {
			price, err := ctrl.priceSelection.Calculate(variant.ID, selCtx)
			if err != nil {
				return nil, err
			}
			if price != nil {
				amount := price.Amount
				variant.CalculatedPrice = &amount
			}
		}
		entry.Variants = append(entry.Variants, variant)
	}
	return &entry, nil
}
