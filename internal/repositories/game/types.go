package game

import (
	"time"

	"github.com/KirkDiggler/minority/internal/models"
)

type CreateGameInput struct {
	Question  string
	EntryFee  int64
	CreatorID string
	Now       time.Time
}

type SaveGameInput struct {
	Game *models.Game
}

type GetGameInput struct {
	GameID uint64
}

type GetGameCountInput struct {
}

type AddUserGameInput struct {
	PlayerID string
	GameID   uint64
}

type GetUserGamesInput struct {
	PlayerID string
}
