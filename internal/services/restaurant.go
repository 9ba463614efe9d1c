package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/keys"
	"github.com/yishak-cs/bites/internal/models"
)

// RestaurantService is the restaurant directory: records, cuisine tags and ranked listing.
type RestaurantService struct {
	client   *database.RedisClient
	schema   keys.Schema
	index    *RankedIndex
	validate *validator.Validate
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(client *database.RedisClient, schema keys.Schema, index *RankedIndex, validate *validator.Validate) *RestaurantService {
	return &RestaurantService{
		client:   client,
		schema:   schema,
		index:    index,
		validate: validate,
	}
}

// Create stores a new restaurant, tags it with its cuisines and lists it in the
// ranked index at the initial score. The writes share one round trip but are
// not atomic across keys; a restaurant briefly visible without its cuisines or
// outside the index is acceptable.
func (s *RestaurantService) Create(ctx context.Context, req models.CreateRestaurantRequest) (*models.Restaurant, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, err
	}

	restaurant := &models.Restaurant{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Location: req.Location,
		Cuisines: dedupe(req.Cuisines),
	}
	restaurantKey := s.schema.Restaurant(restaurant.ID)

	err := s.client.Pipelined(ctx, func(b *database.Batch) {
		b.HSet(restaurantKey, map[string]interface{}{
			models.FieldID:         restaurant.ID,
			models.FieldName:       restaurant.Name,
			models.FieldLocation:   restaurant.Location,
			models.FieldTotalStars: 0,
			models.FieldViewCount:  0,
		})
		for _, cuisine := range restaurant.Cuisines {
			b.SAdd(s.schema.Cuisines(), cuisine)
			b.SAdd(s.schema.Cuisine(cuisine), restaurant.ID)
			b.SAdd(s.schema.RestaurantCuisines(restaurant.ID), cuisine)
		}
		s.index.QueueUpsert(b, restaurant.ID, InitialScore)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	log.Printf("Created restaurant %s (%q) with %d cuisines", restaurant.ID, restaurant.Name, len(restaurant.Cuisines))
	return restaurant, nil
}

// Get returns a restaurant with its cuisines. Every read counts as a view, so
// the view counter is incremented in the same round trip and the returned
// record already includes it.
func (s *RestaurantService) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	if err := s.Exists(ctx, id); err != nil {
		return nil, err
	}

	restaurantKey := s.schema.Restaurant(id)
	var (
		views    database.IntReply
		fields   database.HashReply
		cuisines database.ListReply
	)
	err := s.client.Pipelined(ctx, func(b *database.Batch) {
		views = b.HIncrBy(restaurantKey, models.FieldViewCount, 1)
		fields = b.HGetAll(restaurantKey)
		cuisines = b.SMembers(s.schema.RestaurantCuisines(id))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get restaurant %s: %w", id, err)
	}

	restaurant, err := decodeRestaurant(fields)
	if err != nil {
		return nil, err
	}
	restaurant.ViewCount = views.Val()
	restaurant.Cuisines = sortedCopy(cuisines.Val())
	return restaurant, nil
}

// Exists returns ErrNotFound when id has no backing record.
func (s *RestaurantService) Exists(ctx context.Context, id string) error {
	if err := validateID("restaurant", id); err != nil {
		return err
	}
	ok, err := s.client.Exists(ctx, s.schema.Restaurant(id))
	if err != nil {
		return fmt.Errorf("failed to check restaurant %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("restaurant %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// List returns one page of restaurants in ranked-index order.
func (s *RestaurantService) List(ctx context.Context, q models.PageQuery) ([]models.Restaurant, error) {
	if err := validate(s.validate, q); err != nil {
		return nil, err
	}

	start, stop, ok := pageRange(q)
	if !ok {
		return []models.Restaurant{}, nil
	}
	ids, err := s.index.RangeByRank(ctx, start, stop)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return s.resolve(ctx, ids)
}

// ListCuisines returns every cuisine tag in use, sorted.
func (s *RestaurantService) ListCuisines(ctx context.Context) ([]string, error) {
	cuisines, err := s.client.SMembers(ctx, s.schema.Cuisines())
	if err != nil {
		return nil, fmt.Errorf("failed to list cuisines: %w", err)
	}
	return sortedCopy(cuisines), nil
}

// ListByCuisine returns the restaurants tagged with cuisine.
func (s *RestaurantService) ListByCuisine(ctx context.Context, cuisine string) ([]models.Restaurant, error) {
	if err := validateID("cuisine", cuisine); err != nil {
		return nil, err
	}
	ids, err := s.client.SMembers(ctx, s.schema.Cuisine(cuisine))
	if err != nil {
		return nil, fmt.Errorf("failed to list cuisine %s: %w", cuisine, err)
	}
	sort.Strings(ids)
	return s.resolve(ctx, ids)
}

// resolve reads the hash of every id in one round trip, keeping the order of ids.
func (s *RestaurantService) resolve(ctx context.Context, ids []string) ([]models.Restaurant, error) {
	if len(ids) == 0 {
		return []models.Restaurant{}, nil
	}

	hashes := make([]database.HashReply, len(ids))
	err := s.client.Pipelined(ctx, func(b *database.Batch) {
		for i, id := range ids {
			hashes[i] = b.HGetAll(s.schema.Restaurant(id))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve restaurants: %w", err)
	}

	restaurants := make([]models.Restaurant, 0, len(ids))
	for i, hash := range hashes {
		if len(hash.Val()) == 0 {
			log.Printf("Warning: restaurant %s is indexed but has no record", ids[i])
			continue
		}
		restaurant, err := decodeRestaurant(hash)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, *restaurant)
	}
	return restaurants, nil
}

func decodeRestaurant(hash database.HashReply) (*models.Restaurant, error) {
	fields := hash.Val()
	if len(fields) == 0 {
		return nil, models.ErrNotFound
	}

	var restaurant models.Restaurant
	if err := hash.Scan(&restaurant); err != nil {
		return nil, fmt.Errorf("failed to decode restaurant: %w", err)
	}
	if raw, ok := fields[models.FieldAvgStars]; ok {
		avg, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode avgStars %q: %w", raw, err)
		}
		restaurant.AvgStars = &avg
	}
	return &restaurant, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sortedCopy(values []string) []string {
	out := append([]string{}, values...)
	sort.Strings(out)
	return out
}
