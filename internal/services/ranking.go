package services

import (
	"context"

	"github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/keys"
)

// InitialScore is the index score of a restaurant with no reviews yet.
const InitialScore = 0

// RankedIndex is the sorted set of restaurant ids scored by average rating.
type RankedIndex struct {
	client     *database.RedisClient
	key        string
	descending bool
}

// NewRankedIndex creates the index. descending lists highest-rated first.
func NewRankedIndex(client *database.RedisClient, schema keys.Schema, descending bool) *RankedIndex {
	return &RankedIndex{
		client:     client,
		key:        schema.RestaurantsByRating(),
		descending: descending,
	}
}

// Upsert overwrites the score of id.
func (x *RankedIndex) Upsert(ctx context.Context, id string, score float64) error {
	return x.client.ZAdd(ctx, x.key, id, score)
}

// QueueUpsert adds the upsert to a batch so it travels with other writes.
func (x *RankedIndex) QueueUpsert(b *database.Batch, id string, score float64) database.IntReply {
	return b.ZAdd(x.key, id, score)
}

// RangeByRank returns ids between two ranks, inclusive, in the configured order.
func (x *RankedIndex) RangeByRank(ctx context.Context, start, stop int64) ([]string, error) {
	return x.client.ZRange(ctx, x.key, start, stop, x.descending)
}

// Score returns the indexed score of id.
func (x *RankedIndex) Score(ctx context.Context, id string) (float64, bool, error) {
	return x.client.ZScore(ctx, x.key, id)
}
