package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"hangar/cmd"
	"hangar/internal/container"
	"hangar/internal/core/logger"
	"hangar/internal/database"
	"hangar/internal/middleware"
	"hangar/internal/weather"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Execute migration CMD
	cmd.Execute(ctx)
}

func main() {
	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	weatherClient := weather.NewClient(
		os.Getenv("WEATHER_API_URL"),
		os.Getenv("WEATHER_API_KEY"),
		10*time.Second,
		zapLogger,
	)

	var gateway weather.Gateway = weatherClient
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		gateway = weather.NewCachedGateway(weatherClient, rdb, 5*time.Minute, zapLogger)
		log.Println("Weather snapshot cache enabled")
	}

	app := container.NewAppContainer(db, gateway)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	app.AssetHandler.RegisterRoutes(router)
	app.LedgerHandler.RegisterRoutes(router)
	app.UserHandler.RegisterRoutes(router)
	app.LoginHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
