package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/keys"
	"github.com/yishak-cs/bites/internal/models"
)

// DefaultWeatherTTL bounds how stale a cached weather payload may be.
const DefaultWeatherTTL = time.Hour

// WeatherProvider looks up current weather at a coordinate.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lng float64) (json.RawMessage, error)
}

// WeatherService is a cache-aside wrapper around a WeatherProvider, keyed by restaurant.
// Expiry is left to the store's TTL.
type WeatherService struct {
	client   *database.RedisClient
	schema   keys.Schema
	provider WeatherProvider
	ttl      time.Duration
}

// NewWeatherService creates a new weather service
func NewWeatherService(client *database.RedisClient, schema keys.Schema, provider WeatherProvider, ttl time.Duration) *WeatherService {
	if ttl <= 0 {
		ttl = DefaultWeatherTTL
	}
	return &WeatherService{
		client:   client,
		schema:   schema,
		provider: provider,
		ttl:      ttl,
	}
}

// Get returns the weather at a restaurant's location, from cache when present.
// Failed provider lookups are never cached.
func (s *WeatherService) Get(ctx context.Context, restaurantID string) (models.Weather, error) {
	if err := validateID("restaurant", restaurantID); err != nil {
		return nil, err
	}

	weatherKey := s.schema.Weather(restaurantID)
	cached, ok, err := s.client.Get(ctx, weatherKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached weather: %w", err)
	}
	if ok {
		return models.Weather(cached), nil
	}

	location, ok, err := s.client.HGet(ctx, s.schema.Restaurant(restaurantID), models.FieldLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to read location of %s: %w", restaurantID, err)
	}
	if !ok {
		return nil, fmt.Errorf("coordinates of restaurant %s: %w", restaurantID, models.ErrNotFound)
	}
	lng, lat, err := ParseLocation(location)
	if err != nil {
		return nil, fmt.Errorf("coordinates of restaurant %s: %w: %v", restaurantID, models.ErrNotFound, err)
	}

	payload, err := s.provider.CurrentWeather(ctx, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("weather lookup for %s: %w", restaurantID, err)
	}

	if err := s.client.SetEx(ctx, weatherKey, string(payload), s.ttl); err != nil {
		log.Printf("Warning: failed to cache weather for %s: %v", restaurantID, err)
	}
	return models.Weather(payload), nil
}
