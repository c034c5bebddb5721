package httpapi

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KirkDiggler/minority/internal/models"
	gameService "github.com/KirkDiggler/minority/internal/services/game"
)

// playerHeader carries the attributed caller identity. Authenticating it
// is the front proxy's job, not this handler's.
const playerHeader = "X-Player-ID"

// Config holds configuration for the HTTP handler
type Config struct {
	// GameService handles all game operations
	GameService gameService.Service
}

// Handler exposes the game service as a JSON API
type Handler struct {
	gameService gameService.Service
}

// New creates a new HTTP handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	return &Handler{
		gameService: cfg.GameService,
	}, nil
}

// Routes builds the router for the API
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/games", func(r chi.Router) {
		r.Post("/", h.handleCreateGame)
		r.Get("/count", h.handleGetGameCount)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", h.handleGetGame)
			r.Post("/join", h.handleJoinGame)
			r.Post("/commit-phase", h.handleOpenCommitPhase)
			r.Post("/commits", h.handleSubmitCommit)
			r.Post("/reveal-phase", h.handleOpenRevealPhase)
			r.Post("/reveals", h.handleSubmitReveal)
			r.Post("/process", h.handleProcessRound)

			r.Get("/players", h.handleGetPlayers)
			r.Get("/remaining", h.handleGetRemainingPlayers)
			r.Get("/winners", h.handleGetWinners)
			r.Get("/rounds/{round}", h.handleGetRoundResult)
			r.Get("/players/{playerID}/history", h.handleGetVoteHistory)
			r.Get("/players/{playerID}/status", h.handleGetPlayerStatus)
		})
	})

	r.Get("/users/{playerID}/games", h.handleGetUserGames)

	return r
}

type createGameRequest struct {
	Question string `json:"question"`
	EntryFee int64  `json:"entry_fee"`
}

func (h *Handler) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	output, err := h.gameService.CreateGame(r.Context(), &gameService.CreateGameInput{
		Question:  req.Question,
		EntryFee:  req.EntryFee,
		CreatorID: r.Header.Get(playerHeader),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uint64{"game_id": output.GameID})
}

type joinGameRequest struct {
	Amount int64 `json:"amount"`
}

func (h *Handler) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var req joinGameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	output, err := h.gameService.JoinGame(r.Context(), &gameService.JoinGameInput{
		GameID:     gameID,
		PlayerID:   r.Header.Get(playerHeader),
		PaidAmount: req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prize_pool":   output.PrizePool,
		"player_count": output.PlayerCount,
	})
}

type openPhaseRequest struct {
	DurationSeconds int64 `json:"duration_seconds"`
}

func (h *Handler) handleOpenCommitPhase(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var req openPhaseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	output, err := h.gameService.OpenCommitPhase(r.Context(), &gameService.OpenCommitPhaseInput{
		GameID:   gameID,
		CallerID: r.Header.Get(playerHeader),
		Duration: time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"round":           output.Round,
		"commit_deadline": output.CommitDeadline,
	})
}

type submitCommitRequest struct {
	Digest string `json:"digest"`
}

func (h *Handler) handleSubmitCommit(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var req submitCommitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	digest, err := hex.DecodeString(req.Digest)
	if err != nil {
		http.Error(w, "digest must be hex encoded", http.StatusBadRequest)
		return
	}

	output, err := h.gameService.SubmitCommit(r.Context(), &gameService.SubmitCommitInput{
		GameID:   gameID,
		PlayerID: r.Header.Get(playerHeader),
		Digest:   digest,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"round":        output.Round,
		"commit_count": output.CommitCount,
	})
}

func (h *Handler) handleOpenRevealPhase(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var req openPhaseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	output, err := h.gameService.OpenRevealPhase(r.Context(), &gameService.OpenRevealPhaseInput{
		GameID:   gameID,
		CallerID: r.Header.Get(playerHeader),
		Duration: time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"round":           output.Round,
		"reveal_deadline": output.RevealDeadline,
	})
}

type submitRevealRequest struct {
	Vote string `json:"vote"`
	Salt string `json:"salt"`
}

func (h *Handler) handleSubmitReveal(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	var req submitRevealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	salt, err := hex.DecodeString(req.Salt)
	if err != nil {
		http.Error(w, "salt must be hex encoded", http.StatusBadRequest)
		return
	}

	output, err := h.gameService.SubmitReveal(r.Context(), &gameService.SubmitRevealInput{
		GameID:   gameID,
		PlayerID: r.Header.Get(playerHeader),
		Vote:     models.VoteSide(req.Vote),
		Salt:     salt,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"round":        output.Round,
		"reveal_count": output.RevealCount,
	})
}

func (h *Handler) handleProcessRound(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	output, err := h.gameService.ProcessRound(r.Context(), &gameService.ProcessRoundInput{
		GameID: gameID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) handleGetGameCount(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.GetGameCount(r.Context(), &gameService.GetGameCountInput{})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]uint64{"count": output.Count})
}

func (h *Handler) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	output, err := h.gameService.GetGame(r.Context(), &gameService.GetGameInput{GameID: gameID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, gameSummary(output.Game))
}

func (h *Handler) handleGetPlayers(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	output, err := h.gameService.GetPlayers(r.Context(), &gameService.GetPlayersInput{GameID: gameID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"players": output.Players})
}

func (h *Handler) handleGetRemainingPlayers(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	output, err := h.gameService.GetRemainingPlayers(r.Context(), &gameService.GetRemainingPlayersInput{GameID: gameID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"remaining_players": output.RemainingPlayers})
}

func (h *Handler) handleGetWinners(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	output, err := h.gameService.GetWinners(r.Context(), &gameService.GetWinnersInput{GameID: gameID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"winners": output.Winners})
}

func (h *Handler) handleGetRoundResult(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		http.Error(w, "invalid round", http.StatusBadRequest)
		return
	}

	output, err := h.gameService.GetRoundResult(r.Context(), &gameService.GetRoundResultInput{
		GameID: gameID,
		Round:  round,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]models.VoteSide{"minority_side": output.MinoritySide})
}

func (h *Handler) handleGetVoteHistory(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	output, err := h.gameService.GetVoteHistory(r.Context(), &gameService.GetVoteHistoryInput{
		GameID:   gameID,
		PlayerID: chi.URLParam(r, "playerID"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.VoteRecord{"history": output.History})
}

func (h *Handler) handleGetPlayerStatus(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameIDParam(w, r)
	if !ok {
		return
	}

	output, err := h.gameService.GetPlayerStatus(r.Context(), &gameService.GetPlayerStatusInput{
		GameID:   gameID,
		PlayerID: chi.URLParam(r, "playerID"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *Handler) handleGetUserGames(w http.ResponseWriter, r *http.Request) {
	output, err := h.gameService.GetUserGames(r.Context(), &gameService.GetUserGamesInput{
		PlayerID: chi.URLParam(r, "playerID"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]uint64{"game_ids": output.GameIDs})
}
