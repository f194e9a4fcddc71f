package controller

import (
	"strconv"
	"strings"

	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	apperrors "github.com/Jbmanllr/rental-catalog/internal/errors"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// parseIDParam reads a positive integer path parameter. It writes the error
// response itself so handlers can just return on !ok.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads limit/offset query parameters with clamped defaults.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// parseRelations maps a comma-separated expand parameter onto the typed
// relation set, ignoring unknown names.
func parseRelations(expand string) []repository.RentalRelation {
	if expand == "" {
		return nil
	}
	known := make(map[repository.RentalRelation]bool, len(repository.AllRentalRelations))
	for _, rel := range repository.AllRentalRelations {
		known[rel] = true
	}

	var relations []repository.RentalRelation
	for _, part := range strings.Split(expand, ",") {
		rel := repository.RentalRelation(strings.TrimSpace(part))
		if known[rel] {
			relations = append(relations, rel)
		}
	}
	return relations
}

func parseCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

func parseUintList(raw string) []uint {
	if raw == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		if v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32); err == nil {
			ids = append(ids, uint(v))
		}
	}
	return ids
}

// deletionResponse is the body returned by every delete endpoint.
type deletionResponse struct {
	ID      uint   `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
