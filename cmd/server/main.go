package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/handlers"
	"github.com/yishak-cs/bites/internal/keys"
	"github.com/yishak-cs/bites/internal/services"
	"github.com/yishak-cs/bites/internal/weather"
	"github.com/yishak-cs/bites/pkg/helper"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	config := helper.LoadConfigFromEnv()

	// One store handle for the whole process, shared by every service
	redisClient, err := database.NewRedisClient(config.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}()

	if config.WeatherAPIKey == "" {
		log.Println("Warning: WEATHER_API_KEY is not set, weather lookups will fail upstream")
	}

	// Initialize services
	schema := keys.New(config.KeyPrefix)
	validate := services.NewValidator()
	index := services.NewRankedIndex(redisClient, schema, config.RankDescending)
	ratings := services.NewRatingAggregator(redisClient, schema, index)
	restaurantService := services.NewRestaurantService(redisClient, schema, index, validate)
	reviewService := services.NewReviewService(redisClient, schema, restaurantService, ratings, validate)
	weatherService := services.NewWeatherService(
		redisClient,
		schema,
		weather.NewClient(config.WeatherAPIKey, config.WeatherBaseURL),
		config.WeatherTTL,
	)

	if config.SeedFile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		importer := services.NewCSVImporter(restaurantService, 8)
		if _, err := importer.ImportFile(ctx, config.SeedFile); err != nil {
			cancel()
			log.Printf("Import failed: %v", err)
			os.Exit(1)
		}
		cancel()
	}

	// Initialize API handlers
	apiHandler := handlers.NewAPIHandler(redisClient, restaurantService, reviewService, weatherService)

	// Setup Gin router
	router := gin.Default()
	router.Use(handlers.CORS())
	apiHandler.SetupRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "API endpoint not found"})
	})

	// Create server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// In-flight store calls abandoned by timed-out requests still complete
	// server-side; nothing is rolled back.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
