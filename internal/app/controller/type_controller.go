package controller

import (
	"net/http"

	"github.com/Jbmanllr/rental-catalog/internal/app/service"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/gin-gonic/gin"
)

type TypeController struct {
	typeService service.TypeService
}

func NewTypeController(typeService service.TypeService) *TypeController {
	return &TypeController{typeService: typeService}
}

// ListTypes returns the known rental types, optionally filtered by a
// case-insensitive search term.
// GET /admin/rental-types
func (ctrl *TypeController) ListTypes(c *gin.Context) {
	limit, offset := parsePagination(c)

	types, count, err := ctrl.typeService.List(c.Query("q"), limit, offset)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental type")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rental_types": types,
		"count":        count,
		"offset":       offset,
		"limit":        limit,
	})
}

// GetType returns one rental type.
// GET /admin/rental-types/:id
func (ctrl *TypeController) GetType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rentalType, err := ctrl.typeService.Retrieve(id)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental type")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental_type": rentalType})
}
