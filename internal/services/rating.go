package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/keys"
	"github.com/yishak-cs/bites/internal/models"
)

// RatingAggregator republishes a restaurant's average rating into its record
// and into the ranked index after each review add.
//
// It works from the post-increment totalStars and ledger length returned by
// the writes that recorded the review, never from a fresh read, so the score
// it publishes always matches the totals it was derived from.
//
// Review removal does not pass through here: deleting a review leaves
// totalStars and avgStars untouched.
type RatingAggregator struct {
	client *database.RedisClient
	schema keys.Schema
	index  *RankedIndex
}

// NewRatingAggregator creates a new rating aggregator
func NewRatingAggregator(client *database.RedisClient, schema keys.Schema, index *RankedIndex) *RatingAggregator {
	return &RatingAggregator{
		client: client,
		schema: schema,
		index:  index,
	}
}

// AverageStars rounds totalStars/reviewCount to one decimal place.
func AverageStars(totalStars float64, reviewCount int64) float64 {
	if reviewCount <= 0 {
		return InitialScore
	}
	avg := decimal.NewFromFloat(totalStars).
		Div(decimal.NewFromInt(reviewCount)).
		Round(1)
	return avg.InexactFloat64()
}

// Apply writes the average derived from the given totals to the restaurant
// hash and the ranked index in one round trip, and returns it.
func (a *RatingAggregator) Apply(ctx context.Context, restaurantID string, totalStars float64, reviewCount int64) (float64, error) {
	avg := AverageStars(totalStars, reviewCount)

	var hset, zadd database.IntReply
	err := a.client.Pipelined(ctx, func(b *database.Batch) {
		hset = b.HSet(a.schema.Restaurant(restaurantID), models.FieldAvgStars, formatStars(avg))
		zadd = a.index.QueueUpsert(b, restaurantID, avg)
	})
	if ferr := escalate(fmt.Sprintf("publish rating of %s", restaurantID), hset, zadd); ferr != nil {
		return 0, ferr
	}
	if err != nil {
		return 0, err
	}

	return avg, nil
}

func formatStars(stars float64) string {
	return strconv.FormatFloat(stars, 'f', 1, 64)
}
