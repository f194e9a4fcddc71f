package controller

import (
	"net/http"

	"github.com/Jbmanllr/rental-catalog/internal/app/service"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/Jbmanllr/rental-catalog/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CollectionController struct {
	collectionService service.CollectionService
}

func NewCollectionController(collectionService service.CollectionService) *CollectionController {
	return &CollectionController{collectionService: collectionService}
}

type CreateCollectionRequest struct {
	Title    string                 `json:"title" binding:"required"`
	Handle   string                 `json:"handle"`
	Metadata map[string]interface{} `json:"metadata"`
}

type UpdateCollectionRequest struct {
	Title    *string                `json:"title"`
	Handle   *string                `json:"handle"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ListCollections returns a paginated collection list.
// GET /admin/collections
func (ctrl *CollectionController) ListCollections(c *gin.Context) {
	limit, offset := parsePagination(c)

	collections, count, err := ctrl.collectionService.List(c.Query("q"), limit, offset)
	if err != nil {
		apperrors.HandleServiceError(c, err, "collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
		"count":       count,
		"offset":      offset,
		"limit":       limit,
	})
}

// GetCollection returns one collection with its rentals.
// GET /admin/collections/:id
func (ctrl *CollectionController) GetCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	collection, err := ctrl.collectionService.Retrieve(id)
	if err != nil {
		apperrors.HandleServiceError(c, err, "collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

// CreateCollection creates a collection, deriving the handle from the
// title when not supplied.
// POST /admin/collections
func (ctrl *CollectionController) CreateCollection(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid collection creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	collection, err := ctrl.collectionService.Create(service.CreateCollectionInput{
		Title:    req.Title,
		Handle:   req.Handle,
		Metadata: req.Metadata,
	})
	if err != nil {
		apperrors.HandleServiceError(c, err, "collection")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"collection": collection})
}

// UpdateCollection applies a partial update.
// POST /admin/collections/:id
func (ctrl *CollectionController) UpdateCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	collection, err := ctrl.collectionService.Update(id, service.UpdateCollectionInput{
		Title:    req.Title,
		Handle:   req.Handle,
		Metadata: req.Metadata,
	})
	if err != nil {
		apperrors.HandleServiceError(c, err, "collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

// DeleteCollection removes a collection; a no-op when already gone.
// DELETE /admin/collections/:id
func (ctrl *CollectionController) DeleteCollection(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.collectionService.Delete(id); err != nil {
		apperrors.HandleServiceError(c, err, "collection")
		return
	}

	c.JSON(http.StatusOK, deletionResponse{ID: id, Object: "collection", Deleted: true})
}
