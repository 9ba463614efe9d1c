package models

import "encoding/json"

// Restaurant is the hash record stored under restaurant:<id>.
// AvgStars is nil until the first review lands.
type Restaurant struct {
	ID         string   `json:"id" redis:"id"`
	Name       string   `json:"name" redis:"name"`
	Location   string   `json:"location" redis:"location"`
	ViewCount  int64    `json:"viewCount" redis:"viewCount"`
	TotalStars float64  `json:"totalStars" redis:"totalStars"`
	AvgStars   *float64 `json:"avgStars,omitempty" redis:"-"`
	Cuisines   []string `json:"cuisines,omitempty" redis:"-"`
}

// Hash field names on the restaurant record.
const (
	FieldID         = "id"
	FieldName       = "name"
	FieldLocation   = "location"
	FieldViewCount  = "viewCount"
	FieldTotalStars = "totalStars"
	FieldAvgStars   = "avgStars"
)

// CreateRestaurantRequest is the validated input of a directory insert.
type CreateRestaurantRequest struct {
	Name     string   `json:"name" validate:"required"`
	Location string   `json:"location" validate:"required,lnglat"`
	Cuisines []string `json:"cuisines" validate:"dive,required"`
}

// PageQuery selects a 1-based page of a ranked or ordered list.
type PageQuery struct {
	Page  int `validate:"min=1"`
	Limit int `validate:"min=1,max=100"`
}

// DefaultPageSize applies when the caller does not pick a limit.
const DefaultPageSize = 10

// Weather is the provider payload, stored and served verbatim.
type Weather = json.RawMessage
