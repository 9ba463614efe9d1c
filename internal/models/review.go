package models

// Review is the detail hash stored under review_details:<reviewId>.
type Review struct {
	ID           string  `json:"id" redis:"id"`
	RestaurantID string  `json:"restaurantId" redis:"restaurantId"`
	Review       string  `json:"review" redis:"review"`
	Rating       float64 `json:"rating" redis:"rating"`
	Timestamp    int64   `json:"timestamp" redis:"timestamp"`
}

// FieldReviewRestaurantID names the owning restaurant on the detail hash.
const FieldReviewRestaurantID = "restaurantId"

// CreateReviewRequest is the validated input of a review add.
type CreateReviewRequest struct {
	Review string  `json:"review" validate:"required,min=10"`
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}
