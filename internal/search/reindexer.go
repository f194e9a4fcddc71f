package search

import (
	"context"

	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
)

const reindexPageSize = 200

// Reindexer rebuilds the search index from the database, paging
// through all live rentals.
type Reindexer struct {
	rentalRepo repository.RentalRepository
	indexer    Indexer
}

func NewReindexer(rentalRepo repository.RentalRepository, indexer Indexer) *Reindexer {
	return &Reindexer{rentalRepo: rentalRepo, indexer: indexer}
}

func (r *Reindexer) ReindexAll(ctx context.Context) error {
	offset := 0
	indexed := 0
	for {
		rentals, _, err := r.rentalRepo.FindWithFilter(repository.RentalFilter{
			Limit:  reindexPageSize,
			Offset: offset,
			Relations: []repository.RentalRelation{
				repository.RentalRelationVariants,
				repository.RentalRelationTags,
				repository.RentalRelationType,
				repository.RentalRelationCollection,
			},
		})
		if err != nil {
			logger.Error("Failed to load rentals for reindex", err, map[string]interface{}{
				"offset": offset,
			})
			return err
		}
		if len(rentals) == 0 {
			break
		}

		for idx := range rentals {
			if err := r.indexer.Index(ctx, DocumentFromRental(&rentals[idx])); err != nil {
				return err
			}
			indexed++
		}
		offset += len(rentals)
	}

	logger.Info("Search reindex completed", map[string]interface{}{
		"indexed": indexed,
	})
	return nil
}
