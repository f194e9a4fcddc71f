package controller

import (
	"net/http"
	"strconv"

	"github.com/Jbmanllr/rental-catalog/internal/app/service"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/gin-gonic/gin"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// ListTags returns the known tags, optionally filtered by a
// case-insensitive search term.
// GET /admin/rental-tags
func (ctrl *TagController) ListTags(c *gin.Context) {
	limit, offset := parsePagination(c)

	tags, count, err := ctrl.tagService.List(c.Query("q"), limit, offset)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rental_tags": tags,
		"count":       count,
		"offset":      offset,
		"limit":       limit,
	})
}

// ListTagsByUsage returns tags ordered by how many live rentals carry
// them.
// GET /admin/rental-tags/usage
func (ctrl *TagController) ListTagsByUsage(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	tags, err := ctrl.tagService.ListByUsage(limit)
	if err != nil {
		apperrors.HandleServiceError(c, err, "rental tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rental_tags": tags})
}
