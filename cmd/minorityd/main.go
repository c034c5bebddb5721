package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/minority/internal/common/clock"
	"github.com/KirkDiggler/minority/internal/handlers/httpapi"
	gameRepo "github.com/KirkDiggler/minority/internal/repositories/game"
	treasuryRepo "github.com/KirkDiggler/minority/internal/repositories/treasury"
	"github.com/KirkDiggler/minority/internal/services/events"
	gameService "github.com/KirkDiggler/minority/internal/services/game"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	_ = godotenv.Load()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	games, err := gameRepo.NewRedis(&gameRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create game repository: %v", err)
	}

	treasury, err := treasuryRepo.NewRedis(&treasuryRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create treasury repository: %v", err)
	}

	// Initialize event publisher
	publisher, err := events.NewRedis(&events.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create event publisher: %v", err)
	}

	// Initialize game service
	gameSvc, err := gameService.New(&gameService.Config{
		GameRepo:        games,
		TreasuryRepo:    treasury,
		EventPublisher:  publisher,
		Clock:           &clock.DefaultClock{},
		PlatformAccount: getEnv("PLATFORM_ACCOUNT", gameService.DefaultPlatformAccount),
	})
	if err != nil {
		log.Fatalf("Failed to create game service: %v", err)
	}

	// Initialize HTTP handler
	handler, err := httpapi.New(&httpapi.Config{
		GameService: gameSvc,
	})
	if err != nil {
		log.Fatalf("Failed to create HTTP handler: %v", err)
	}

	server := &http.Server{
		Addr:    getEnv("LISTEN_ADDR", ":8080"),
		Handler: handler.Routes(),
	}

	go func() {
		log.Printf("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	log.Println("Server has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
