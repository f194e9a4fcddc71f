package search

import (
	"context"

	"github.com/Jbmanllr/rental-catalog/internal/app/model"
)

// Document is the flattened rental shape kept in the search index.
type Document struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	Handle      string   `json:"handle"`
	Status      string   `json:"status"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Collection  string   `json:"collection,omitempty"`
	Type        string   `json:"type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	VariantSKUs []string `json:"variant_skus,omitempty"`
}

// Indexer maintains the rental search index. Implementations must
// tolerate repeated indexing of the same document.
type Indexer interface {
	Index(ctx context.Context, doc *Document) error
	Remove(ctx context.Context, id uint) error
}

// DocumentFromRental flattens a rental (with relations loaded) into
// its index document.
func DocumentFromRental(rental *model.Rental) *Document {
	doc := &Document{
		ID:          rental.ID,
		Title:       rental.Title,
		Subtitle:    rental.Subtitle,
		Description: rental.Description,
		Handle:      rental.Handle,
		Status:      string(rental.Status),
		Thumbnail:   rental.Thumbnail,
	}
	if rental.Collection != nil {
		doc.Collection = rental.Collection.Title
	}
	if rental.Type != nil {
		doc.Type = rental.Type.Value
	}
	for _, tag := range rental.Tags {
		doc.Tags = append(doc.Tags, tag.Value)
	}
	for _, variant := range rental.Variants {
		if variant.SKU != nil {
			doc.VariantSKUs = append(doc.VariantSKUs, *variant.SKU)
		}
	}
	return doc
}
