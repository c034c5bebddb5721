package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/KirkDiggler/minority/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	gameKeyPrefix      = "game:"
	userGamesKeyPrefix = "user_games:"
	gameCounterKey     = "game:next_id"
)

// ErrGameNotFound is returned when a game is not found
var ErrGameNotFound = errors.New("game not found")

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// CreateGame allocates the next game identifier and persists a fresh game.
// Identifiers come from a Redis counter, so they are monotonic and never
// reused.
func (r *redisRepository) CreateGame(ctx context.Context, input *CreateGameInput) (*models.Game, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Question == "" {
		return nil, errors.New("question cannot be empty")
	}

	if input.CreatorID == "" {
		return nil, errors.New("creator ID cannot be empty")
	}

	if input.EntryFee <= 0 {
		return nil, errors.New("entry fee must be positive")
	}

	gameID, err := r.client.Incr(ctx, gameCounterKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate game ID: %w", err)
	}

	game := &models.Game{
		ID:               uint64(gameID),
		Question:         input.Question,
		EntryFee:         input.EntryFee,
		CreatorID:        input.CreatorID,
		Phase:            models.GamePhaseZero,
		CurrentRound:     1,
		Players:          []string{},
		RemainingPlayers: []string{},
		RoundResults:     map[int]models.VoteSide{},
		HasJoined:        map[string]bool{},
		IsRemaining:      map[string]bool{},
		Commitments:      map[string]*models.Commitment{},
		Reveals:          map[string]*models.Reveal{},
		VoteHistory:      map[string][]models.VoteRecord{},
		CreatedAt:        input.Now,
		UpdatedAt:        input.Now,
	}

	if err := r.SaveGame(ctx, &SaveGameInput{Game: game}); err != nil {
		return nil, err
	}

	return game, nil
}

// SaveGame persists a game to Redis
func (r *redisRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}

	// Marshal the game to JSON
	gameJSON, err := json.Marshal(input.Game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	gameKey := fmt.Sprintf("%s%d", gameKeyPrefix, input.Game.ID)
	if err := r.client.Set(ctx, gameKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// GetGame retrieves a game by ID from Redis
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == 0 {
		return nil, errors.New("input and game ID cannot be empty")
	}

	gameKey := fmt.Sprintf("%s%d", gameKeyPrefix, input.GameID)
	gameJSON, err := r.client.Get(ctx, gameKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	// Unmarshal the game from JSON
	var game models.Game
	if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// GetGameCount returns the number of games created so far
func (r *redisRepository) GetGameCount(ctx context.Context, input *GetGameCountInput) (uint64, error) {
	count, err := r.client.Get(ctx, gameCounterKey).Uint64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get game count: %w", err)
	}

	return count, nil
}

// AddUserGame appends a game to a player's joined-games index
func (r *redisRepository) AddUserGame(ctx context.Context, input *AddUserGameInput) error {
	if input == nil || input.PlayerID == "" || input.GameID == 0 {
		return errors.New("input, player ID and game ID cannot be empty")
	}

	userKey := fmt.Sprintf("%s%s", userGamesKeyPrefix, input.PlayerID)
	if err := r.client.RPush(ctx, userKey, input.GameID).Err(); err != nil {
		return fmt.Errorf("failed to add game to user index: %w", err)
	}

	return nil
}

// GetUserGames retrieves the IDs of every game a player joined
func (r *redisRepository) GetUserGames(ctx context.Context, input *GetUserGamesInput) ([]uint64, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}

	userKey := fmt.Sprintf("%s%s", userGamesKeyPrefix, input.PlayerID)
	raw, err := r.client.LRange(ctx, userKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user games: %w", err)
	}

	gameIDs := make([]uint64, 0, len(raw))
	for _, entry := range raw {
		gameID, err := strconv.ParseUint(entry, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse game ID %q: %w", entry, err)
		}
		gameIDs = append(gameIDs, gameID)
	}

	return gameIDs, nil
}
