package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/minority/internal/repositories/game Repository

import (
	"context"

	"github.com/KirkDiggler/minority/internal/models"
)

// Repository defines the interface for game data persistence
type Repository interface {
	// CreateGame allocates the next game identifier and persists a fresh game
	CreateGame(ctx context.Context, input *CreateGameInput) (*models.Game, error)

	// SaveGame persists a game
	SaveGame(ctx context.Context, input *SaveGameInput) error

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error)

	// GetGameCount returns the number of games created so far
	GetGameCount(ctx context.Context, input *GetGameCountInput) (uint64, error)

	// AddUserGame appends a game to a player's joined-games index
	AddUserGame(ctx context.Context, input *AddUserGameInput) error

	// GetUserGames retrieves the IDs of every game a player joined
	GetUserGames(ctx context.Context, input *GetUserGamesInput) ([]uint64, error)
}
