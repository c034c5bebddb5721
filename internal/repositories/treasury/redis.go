package treasury

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	balanceKeyPrefix = "balance:"
)

// ErrInsufficientFunds is returned when a transfer would overdraw an account
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidAmount is returned when an amount is zero or negative
var ErrInvalidAmount = errors.New("amount must be positive")

// Config holds configuration for the Redis treasury repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed treasury repository
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

// Deposit credits an account with externally provided funds
func (r *redisRepository) Deposit(ctx context.Context, input *DepositInput) error {
	if input == nil || input.Account == "" {
		return errors.New("input and account cannot be empty")
	}

	if input.Amount <= 0 {
		return ErrInvalidAmount
	}

	balanceKey := fmt.Sprintf("%s%s", balanceKeyPrefix, input.Account)
	if err := r.client.IncrBy(ctx, balanceKey, input.Amount).Err(); err != nil {
		return fmt.Errorf("failed to deposit to %s: %w", input.Account, err)
	}

	return nil
}

// Transfer moves funds between two accounts. The source account must hold
// at least the transferred amount.
func (r *redisRepository) Transfer(ctx context.Context, input *TransferInput) error {
	if input == nil || input.FromAccount == "" || input.ToAccount == "" {
		return errors.New("input and accounts cannot be empty")
	}

	if input.Amount <= 0 {
		return ErrInvalidAmount
	}

	fromKey := fmt.Sprintf("%s%s", balanceKeyPrefix, input.FromAccount)
	toKey := fmt.Sprintf("%s%s", balanceKeyPrefix, input.ToAccount)

	balance, err := r.client.Get(ctx, fromKey).Int64()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to get balance for %s: %w", input.FromAccount, err)
	}

	if balance < input.Amount {
		return ErrInsufficientFunds
	}

	pipe := r.client.Pipeline()
	pipe.DecrBy(ctx, fromKey, input.Amount)
	pipe.IncrBy(ctx, toKey, input.Amount)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to transfer from %s to %s: %w", input.FromAccount, input.ToAccount, err)
	}

	return nil
}

// GetBalance retrieves an account's balance
func (r *redisRepository) GetBalance(ctx context.Context, input *GetBalanceInput) (int64, error) {
	if input == nil || input.Account == "" {
		return 0, errors.New("input and account cannot be empty")
	}

	balanceKey := fmt.Sprintf("%s%s", balanceKeyPrefix, input.Account)
	balance, err := r.client.Get(ctx, balanceKey).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance for %s: %w", input.Account, err)
	}

	return balance, nil
}
