package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/minority/internal/models"
	gameService "github.com/KirkDiggler/minority/internal/services/game"
)

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	var gameErr gameService.GameError
	if !errors.As(err, &gameErr) {
		return http.StatusInternalServerError
	}

	switch gameErr {
	case gameService.ErrGameNotFound, gameService.ErrRoundNotResolved:
		return http.StatusNotFound
	case gameService.ErrUnauthorized:
		return http.StatusForbidden
	case gameService.ErrInvalidPhase,
		gameService.ErrRoundClosed,
		gameService.ErrDeadlinePassed,
		gameService.ErrDeadlineNotReached,
		gameService.ErrNoParticipation,
		gameService.ErrAlreadyJoined,
		gameService.ErrAlreadyCommitted,
		gameService.ErrAlreadyRevealed,
		gameService.ErrNoCommitment,
		gameService.ErrNotEligible,
		gameService.ErrRevealIncomplete:
		return http.StatusConflict
	case gameService.ErrRevealMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeBody parses the request body, replying with a 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// gameIDParam parses the gameID path parameter
func gameIDParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	gameID, err := strconv.ParseUint(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid game ID", http.StatusBadRequest)
		return 0, false
	}
	return gameID, true
}

// gameSummaryView is the public projection of a game; commitments,
// reveals and salts never leave the core
type gameSummaryView struct {
	ID              uint64           `json:"id"`
	Question        string           `json:"question"`
	EntryFee        int64            `json:"entry_fee"`
	CreatorID       string           `json:"creator_id"`
	Phase           models.GamePhase `json:"phase"`
	CurrentRound    int              `json:"current_round"`
	PrizePool       int64            `json:"prize_pool"`
	CommitDeadline  *time.Time       `json:"commit_deadline,omitempty"`
	RevealDeadline  *time.Time       `json:"reveal_deadline,omitempty"`
	TotalPlayers    int              `json:"total_players"`
	RemainingCount  int              `json:"remaining_count"`
	CommitCount     int              `json:"commit_count"`
	RevealCount     int              `json:"reveal_count"`
	WinnerCount     int              `json:"winner_count"`
	CreatedAt       time.Time        `json:"created_at"`
}

func gameSummary(game *models.Game) gameSummaryView {
	view := gameSummaryView{
		ID:             game.ID,
		Question:       game.Question,
		EntryFee:       game.EntryFee,
		CreatorID:      game.CreatorID,
		Phase:          game.Phase,
		CurrentRound:   game.CurrentRound,
		PrizePool:      game.PrizePool,
		TotalPlayers:   game.TotalPlayers,
		RemainingCount: len(game.RemainingPlayers),
		CommitCount:    game.CommitCount,
		RevealCount:    game.RevealCount,
		WinnerCount:    len(game.Winners),
		CreatedAt:      game.CreatedAt,
	}

	if !game.CommitDeadline.IsZero() {
		deadline := game.CommitDeadline
		view.CommitDeadline = &deadline
	}

	if !game.RevealDeadline.IsZero() {
		deadline := game.RevealDeadline
		view.RevealDeadline = &deadline
	}

	return view
}
