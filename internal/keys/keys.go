// Package keys maps domain identifiers to namespaced store keys.
package keys

import "strings"

// DefaultPrefix is the root namespace token shared by every key.
const DefaultPrefix = "bites"

const separator = ":"

// Schema builds keys under a single root namespace.
type Schema struct {
	prefix string
}

// New returns a Schema rooted at prefix, or DefaultPrefix when prefix is empty.
func New(prefix string) Schema {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Schema{prefix: prefix}
}

// Name joins the prefix and parts with the separator.
func (s Schema) Name(parts ...string) string {
	return s.prefix + separator + strings.Join(parts, separator)
}

func (s Schema) Restaurant(id string) string { return s.Name("restaurant", id) }
func (s Schema) Reviews(restaurantID string) string { return s.Name("review", restaurantID) }
func (s Schema) ReviewDetails(reviewID string) string { return s.Name("review_details", reviewID) }
func (s Schema) RestaurantsByRating() string { return s.Name("restaurants_by_rating") }
func (s Schema) Cuisines() string { return s.Name("cuisines") }
func (s Schema) Cuisine(name string) string { return s.Name("cuisine", name) }
func (s Schema) RestaurantCuisines(id string) string { return s.Name("restaurant_cuisines", id) }
func (s Schema) Weather(id string) string { return s.Name("weather", id) }
