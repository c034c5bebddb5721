package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/minority/internal/common/clock"
	"github.com/KirkDiggler/minority/internal/common/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Channel all game events are published on
	eventChannel = "minority:events"
)

// Config holds configuration for the Redis event publisher
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock provides event timestamps; defaults to the system clock
	Clock clock.Clock

	// UUIDGenerator provides event identifiers; defaults to random UUIDs
	UUIDGenerator uuid.UUID
}

// redisPublisher implements the Publisher interface using Redis Pub/Sub
type redisPublisher struct {
	client        *redis.Client
	clock         clock.Clock
	uuidGenerator uuid.UUID
}

// NewRedis creates a new Redis-backed event publisher
func NewRedis(cfg *Config) (*redisPublisher, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	publisherClock := cfg.Clock
	if publisherClock == nil {
		publisherClock = &clock.DefaultClock{}
	}

	uuidGenerator := cfg.UUIDGenerator
	if uuidGenerator == nil {
		uuidGenerator = uuid.New()
	}

	return &redisPublisher{
		client:        cfg.RedisClient,
		clock:         publisherClock,
		uuidGenerator: uuidGenerator,
	}, nil
}

// Publish emits one event to every subscribed observer
func (p *redisPublisher) Publish(ctx context.Context, input *PublishInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	if input.Type == "" {
		return errors.New("event type cannot be empty")
	}

	event := &Event{
		ID:        p.uuidGenerator.NewUUID(),
		Type:      input.Type,
		GameID:    input.GameID,
		PlayerID:  input.PlayerID,
		Round:     input.Round,
		Data:      input.Data,
		Timestamp: p.clock.Now(),
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, eventChannel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
