package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisIndexer stores documents as JSON in a redis hash keyed by the
// index name. Indexing the same rental twice overwrites the entry.
type RedisIndexer struct {
	client    *redis.Client
	indexName string
}

func NewRedisIndexer(client *redis.Client, indexName string) *RedisIndexer {
	if indexName == "" {
		indexName = "rentals"
	}
	return &RedisIndexer{client: client, indexName: indexName}
}

func (i *RedisIndexer) key() string {
	return "search:" + i.indexName
}

func (i *RedisIndexer) Index(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	field := fmt.Sprintf("%d", doc.ID)
	if err := i.client.HSet(ctx, i.key(), field, data).Err(); err != nil {
		logger.Error("Failed to index rental document", err, map[string]interface{}{
			"rental_id": doc.ID,
			"index":     i.indexName,
		})
		return err
	}
	return nil
}

func (i *RedisIndexer) Remove(ctx context.Context, id uint) error {
	field := fmt.Sprintf("%d", id)
	if err := i.client.HDel(ctx, i.key(), field).Err(); err != nil {
		logger.Error("Failed to remove rental document from index", err, map[string]interface{}{
			"rental_id": id,
			"index":     i.indexName,
		})
		return err
	}
	return nil
}
