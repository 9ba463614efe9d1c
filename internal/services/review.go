package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/keys"
	"github.com/yishak-cs/bites/internal/models"
)

// ReviewService keeps the per-restaurant review ledger: a newest-first list of
// review ids plus one detail hash per review.
type ReviewService struct {
	client      *database.RedisClient
	schema      keys.Schema
	restaurants *RestaurantService
	ratings     *RatingAggregator
	validate    *validator.Validate
	now         func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(
	client *database.RedisClient,
	schema keys.Schema,
	restaurants *RestaurantService,
	ratings *RatingAggregator,
	validate *validator.Validate,
) *ReviewService {
	return &ReviewService{
		client:      client,
		schema:      schema,
		restaurants: restaurants,
		ratings:     ratings,
		validate:    validate,
		now:         time.Now,
	}
}

// Add records a review and republishes the restaurant's average rating.
//
// The ledger push, the detail record and the totalStars increment travel in
// one round trip. They must land together: if only some of them do, the
// result is reported as a consistency fault rather than a plain store error.
func (s *ReviewService) Add(ctx context.Context, restaurantID string, req models.CreateReviewRequest) (*models.Review, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}
	if err := s.restaurants.Exists(ctx, restaurantID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		Review:       req.Review,
		Rating:       req.Rating,
		Timestamp:    s.now().UnixMilli(),
	}

	var (
		push    database.IntReply
		details database.IntReply
		total   database.FloatReply
	)
	err := s.client.Pipelined(ctx, func(b *database.Batch) {
		push = b.LPush(s.schema.Reviews(restaurantID), review.ID)
		details = b.HSet(s.schema.ReviewDetails(review.ID), review)
		total = b.HIncrByFloat(s.schema.Restaurant(restaurantID), models.FieldTotalStars, review.Rating)
	})
	if ferr := escalate(fmt.Sprintf("add review %s to %s", review.ID, restaurantID), push, details, total); ferr != nil {
		return nil, ferr
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.ratings.Apply(ctx, restaurantID, total.Val(), push.Val()); err != nil {
		return nil, fmt.Errorf("review %s stored but rating not published: %w", review.ID, err)
	}

	return review, nil
}

// List returns one page of a restaurant's reviews, newest first.
func (s *ReviewService) List(ctx context.Context, restaurantID string, q models.PageQuery) ([]models.Review, error) {
	if err := validate(s.validate, q); err != nil {
		return nil, err
	}
	if err := s.restaurants.Exists(ctx, restaurantID); err != nil {
		return nil, err
	}

	start, stop, ok := pageRange(q)
	if !ok {
		return []models.Review{}, nil
	}
	ids, err := s.client.LRange(ctx, s.schema.Reviews(restaurantID), start, stop)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews of %s: %w", restaurantID, err)
	}
	if len(ids) == 0 {
		return []models.Review{}, nil
	}

	hashes := make([]database.HashReply, len(ids))
	err = s.client.Pipelined(ctx, func(b *database.Batch) {
		for i, id := range ids {
			hashes[i] = b.HGetAll(s.schema.ReviewDetails(id))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reviews of %s: %w", restaurantID, err)
	}

	reviews := make([]models.Review, 0, len(ids))
	for i, hash := range hashes {
		// A concurrent delete can land between the range read and this one.
		if len(hash.Val()) == 0 {
			log.Printf("Warning: review %s of %s vanished while listing", ids[i], restaurantID)
			continue
		}
		var review models.Review
		if err := hash.Scan(&review); err != nil {
			return nil, fmt.Errorf("failed to decode review %s: %w", ids[i], err)
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// Remove deletes every ledger entry for reviewID and its detail record.
// Nothing removed on either side is ErrNotFound; one side removed without the
// other is ErrConsistencyFault. totalStars and avgStars are left as they are.
//
// A review whose detail record names another restaurant is ErrNotFound and
// nothing is deleted.
func (s *ReviewService) Remove(ctx context.Context, restaurantID, reviewID string) error {
	if err := validateID("review", reviewID); err != nil {
		return err
	}
	if err := s.restaurants.Exists(ctx, restaurantID); err != nil {
		return err
	}

	detailsKey := s.schema.ReviewDetails(reviewID)
	owner, ok, err := s.client.HGet(ctx, detailsKey, models.FieldReviewRestaurantID)
	if err != nil {
		return fmt.Errorf("failed to read review %s: %w", reviewID, err)
	}
	if ok && owner != restaurantID {
		return fmt.Errorf("review %s of %s: %w", reviewID, restaurantID, models.ErrNotFound)
	}

	var lrem, del database.IntReply
	err = s.client.Pipelined(ctx, func(b *database.Batch) {
		lrem = b.LRem(s.schema.Reviews(restaurantID), reviewID)
		del = b.Del(detailsKey)
	})
	if ferr := escalate(fmt.Sprintf("delete review %s of %s", reviewID, restaurantID), lrem, del); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	removedFromLedger, removedDetails := lrem.Val() > 0, del.Val() > 0
	switch {
	case removedFromLedger && removedDetails:
		return nil
	case !removedFromLedger && !removedDetails:
		return fmt.Errorf("review %s of %s: %w", reviewID, restaurantID, models.ErrNotFound)
	default:
		log.Printf("CONSISTENCY FAULT: delete review %s of %s: ledger removed=%t details removed=%t",
			reviewID, restaurantID, removedFromLedger, removedDetails)
		return fmt.Errorf("review %s of %s partially deleted (ledger=%t, details=%t): %w",
			reviewID, restaurantID, removedFromLedger, removedDetails, models.ErrConsistencyFault)
	}
}
