package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/models"
	"github.com/yishak-cs/bites/internal/services"
)

// APIHandler handles all API requests
type APIHandler struct {
	client      *database.RedisClient
	restaurants *services.RestaurantService
	reviews     *services.ReviewService
	weather     *services.WeatherService
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(
	client *database.RedisClient,
	restaurants *services.RestaurantService,
	reviews *services.ReviewService,
	weather *services.WeatherService,
) *APIHandler {
	return &APIHandler{
		client:      client,
		restaurants: restaurants,
		reviews:     reviews,
		weather:     weather,
	}
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", h.Health)

		api.GET("/restaurants", h.ListRestaurants)
		api.POST("/restaurants", h.CreateRestaurant)
		api.GET("/restaurants/:restaurantId", h.GetRestaurant)
		api.GET("/restaurants/:restaurantId/reviews", h.ListReviews)
		api.POST("/restaurants/:restaurantId/reviews", h.AddReview)
		api.DELETE("/restaurants/:restaurantId/reviews/:reviewId", h.DeleteReview)
		api.GET("/restaurants/:restaurantId/weather", h.GetWeather)

		api.GET("/cuisines", h.ListCuisines)
		api.GET("/cuisines/:cuisine", h.ListCuisineRestaurants)
	}
}

// Health reports whether the store is reachable
func (h *APIHandler) Health(c *gin.Context) {
	if err := h.client.Health(c.Request.Context()); err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusOK, gin.H{"status": "ok"})
}

// ListRestaurants handles requests for a page of the ranked restaurant list
func (h *APIHandler) ListRestaurants(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	restaurants, err := h.restaurants.List(c.Request.Context(), q)
	if err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusOK, restaurants)
}

// CreateRestaurant handles requests to add a restaurant to the directory
func (h *APIHandler) CreateRestaurant(c *gin.Context) {
	var req models.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid restaurant body")
		return
	}
	restaurant, err := h.restaurants.Create(c.Request.Context(), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusCreated, restaurant)
}

// GetRestaurant handles requests for one restaurant; each request counts as a view
func (h *APIHandler) GetRestaurant(c *gin.Context) {
	restaurant, err := h.restaurants.Get(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusOK, restaurant)
}

// ListReviews handles requests for a page of a restaurant's reviews, newest first
func (h *APIHandler) ListReviews(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	reviews, err := h.reviews.List(c.Request.Context(), c.Param("restaurantId"), q)
	if err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusOK, reviews)
}

// AddReview handles requests to review a restaurant
func (h *APIHandler) AddReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid review body")
		return
	}
	review, err := h.reviews.Add(c.Request.Context(), c.Param("restaurantId"), req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusCreated, review)
}

// DeleteReview handles requests to remove a review
func (h *APIHandler) DeleteReview(c *gin.Context) {
	reviewID := c.Param("reviewId")
	if err := h.reviews.Remove(c.Request.Context(), c.Param("restaurantId"), reviewID); err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusOK, gin.H{"id": reviewID})
}

// GetWeather handles requests for the weather at a restaurant
func (h *APIHandler) GetWeather(c *gin.Context) {
	payload, err := h.weather.Get(c.Request.Context(), c.Param("restaurantId"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusOK, payload)
}

// ListCuisines handles requests for every cuisine tag
func (h *APIHandler) ListCuisines(c *gin.Context) {
	cuisines, err := h.restaurants.ListCuisines(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusOK, cuisines)
}

// ListCuisineRestaurants handles requests for the restaurants of one cuisine
func (h *APIHandler) ListCuisineRestaurants(c *gin.Context) {
	restaurants, err := h.restaurants.ListByCuisine(c.Request.Context(), c.Param("cuisine"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	successResponse(c, http.StatusOK, restaurants)
}

func pageQuery(c *gin.Context) (models.PageQuery, bool) {
	q := models.PageQuery{Page: 1, Limit: models.DefaultPageSize}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "Invalid page")
			return q, false
		}
		q.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "Invalid limit")
			return q, false
		}
		q.Limit = limit
	}
	return q, true
}

func successResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"kind":    models.KindValidation,
		"error":   message,
	})
}

var statusByKind = map[string]int{
	models.KindValidation:          http.StatusBadRequest,
	models.KindNotFound:            http.StatusNotFound,
	models.KindStoreUnavailable:    http.StatusServiceUnavailable,
	models.KindUpstreamUnavailable: http.StatusBadGateway,
	models.KindConsistencyFault:    http.StatusInternalServerError,
	models.KindInternal:            http.StatusInternalServerError,
}

func errorResponse(c *gin.Context, err error) {
	kind := models.ErrorKind(err)
	status := statusByKind[kind]
	if status >= http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{
		"success": false,
		"kind":    kind,
		"error":   err.Error(),
	})
}
