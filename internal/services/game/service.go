package game

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/KirkDiggler/minority/internal/common/clock"
	"github.com/KirkDiggler/minority/internal/models"
	gameRepo "github.com/KirkDiggler/minority/internal/repositories/game"
	treasuryRepo "github.com/KirkDiggler/minority/internal/repositories/treasury"
	"github.com/KirkDiggler/minority/internal/services/events"
)

// service implements the Service interface
type service struct {
	gameRepo        gameRepo.Repository
	treasuryRepo    treasuryRepo.Repository
	eventPublisher  events.Publisher
	clock           clock.Clock
	feeBasisPoints  int64
	winnerThreshold int
	platformAccount string
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}

	if cfg.TreasuryRepo == nil {
		return nil, ErrNilTreasuryRepo
	}

	if cfg.EventPublisher == nil {
		return nil, ErrNilEventPublisher
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	feeBasisPoints := cfg.FeeBasisPoints
	if feeBasisPoints == 0 {
		feeBasisPoints = DefaultFeeBasisPoints
	}

	winnerThreshold := cfg.WinnerThreshold
	if winnerThreshold == 0 {
		winnerThreshold = DefaultWinnerThreshold
	}

	platformAccount := cfg.PlatformAccount
	if platformAccount == "" {
		platformAccount = DefaultPlatformAccount
	}

	return &service{
		gameRepo:        cfg.GameRepo,
		treasuryRepo:    cfg.TreasuryRepo,
		eventPublisher:  cfg.EventPublisher,
		clock:           cfg.Clock,
		feeBasisPoints:  feeBasisPoints,
		winnerThreshold: winnerThreshold,
		platformAccount: platformAccount,
	}, nil
}

// CreateGame creates a new game with a question and entry fee
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if input.Question == "" {
		return nil, ErrEmptyQuestion
	}

	if input.EntryFee <= 0 {
		return nil, ErrInvalidEntryFee
	}

	if input.CreatorID == "" {
		return nil, ErrMissingPlayerID
	}

	game, err := s.gameRepo.CreateGame(ctx, &gameRepo.CreateGameInput{
		Question:  input.Question,
		EntryFee:  input.EntryFee,
		CreatorID: input.CreatorID,
		Now:       s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	s.publish(ctx, &events.PublishInput{
		Type:     events.EventTypeGameCreated,
		GameID:   game.ID,
		PlayerID: input.CreatorID,
		Round:    game.CurrentRound,
	})

	return &CreateGameOutput{
		GameID: game.ID,
	}, nil
}

// JoinGame stakes the entry fee and adds a player to a round-1 game
func (s *service) JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if input.PlayerID == "" {
		return nil, ErrMissingPlayerID
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if game.Phase != models.GamePhaseCommit {
		return nil, ErrInvalidPhase
	}

	// The roster is capped at the round-1 cohort
	if game.CurrentRound != 1 {
		return nil, ErrRoundClosed
	}

	if !game.CommitDeadline.IsZero() && s.clock.Now().After(game.CommitDeadline) {
		return nil, ErrDeadlinePassed
	}

	if game.HasJoined[input.PlayerID] {
		return nil, ErrAlreadyJoined
	}

	if input.PaidAmount != game.EntryFee {
		return nil, ErrWrongAmount
	}

	// The payment arrives with the call; custody it before touching the
	// roster so a failed deposit leaves no trace of the join
	err = s.treasuryRepo.Deposit(ctx, &treasuryRepo.DepositInput{
		Account: escrowAccount(game.ID),
		Amount:  game.EntryFee,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to custody entry fee: %w", err)
	}

	s.addPlayer(game, input.PlayerID)
	game.TotalPlayers++
	game.PrizePool += game.EntryFee
	game.UpdatedAt = s.clock.Now()

	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	// The index is a convenience lookup, not the roster of record; the
	// join already persisted, so an index failure must not unreport it
	err = s.gameRepo.AddUserGame(ctx, &gameRepo.AddUserGameInput{
		PlayerID: input.PlayerID,
		GameID:   game.ID,
	})
	if err != nil {
		log.Printf("failed to index game %d for player %s: %v", game.ID, input.PlayerID, err)
	}

	s.publish(ctx, &events.PublishInput{
		Type:     events.EventTypePlayerJoined,
		GameID:   game.ID,
		PlayerID: input.PlayerID,
		Round:    game.CurrentRound,
	})

	return &JoinGameOutput{
		PrizePool:   game.PrizePool,
		PlayerCount: len(game.Players),
	}, nil
}

// OpenCommitPhase opens the commit window for the current round
func (s *service) OpenCommitPhase(ctx context.Context, input *OpenCommitPhaseInput) (*OpenCommitPhaseOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if input.CallerID != game.CreatorID {
		return nil, ErrUnauthorized
	}

	if game.Phase != models.GamePhaseZero {
		return nil, ErrInvalidPhase
	}

	if input.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	now := s.clock.Now()
	game.Phase = models.GamePhaseCommit
	game.CommitDeadline = now.Add(input.Duration)
	game.UpdatedAt = now

	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	s.publish(ctx, &events.PublishInput{
		Type:   events.EventTypeCommitPhaseOpened,
		GameID: game.ID,
		Round:  game.CurrentRound,
		Data: map[string]string{
			"deadline": game.CommitDeadline.Format(timeFormat),
		},
	})

	return &OpenCommitPhaseOutput{
		Round:          game.CurrentRound,
		CommitDeadline: game.CommitDeadline,
	}, nil
}

// OpenRevealPhase closes the commit window and opens the reveal window
func (s *service) OpenRevealPhase(ctx context.Context, input *OpenRevealPhaseInput) (*OpenRevealPhaseOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if input.CallerID != game.CreatorID {
		return nil, ErrUnauthorized
	}

	if game.Phase != models.GamePhaseCommit {
		return nil, ErrInvalidPhase
	}

	if input.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	now := s.clock.Now()
	if now.Before(game.CommitDeadline) {
		return nil, ErrDeadlineNotReached
	}

	// A round nobody committed in cannot proceed
	if game.CommitCount == 0 {
		return nil, ErrNoParticipation
	}

	game.Phase = models.GamePhaseReveal
	game.RevealDeadline = now.Add(input.Duration)
	game.UpdatedAt = now

	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	s.publish(ctx, &events.PublishInput{
		Type:   events.EventTypeRevealPhaseOpened,
		GameID: game.ID,
		Round:  game.CurrentRound,
		Data: map[string]string{
			"deadline": game.RevealDeadline.Format(timeFormat),
		},
	})

	return &OpenRevealPhaseOutput{
		Round:          game.CurrentRound,
		RevealDeadline: game.RevealDeadline,
	}, nil
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

// getGame loads a game and maps the repository's not-found error
func (s *service) getGame(ctx context.Context, gameID uint64) (*models.Game, error) {
	game, err := s.gameRepo.GetGame(ctx, &gameRepo.GetGameInput{
		GameID: gameID,
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// saveGame persists a game
func (s *service) saveGame(ctx context.Context, game *models.Game) error {
	err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{
		Game: game,
	})
	if err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	return nil
}

// addPlayer appends a player to both rosters and keeps the O(1) lookup
// maps in lockstep. All roster growth goes through here.
func (s *service) addPlayer(game *models.Game, playerID string) {
	game.Players = append(game.Players, playerID)
	game.HasJoined[playerID] = true
	game.RemainingPlayers = append(game.RemainingPlayers, playerID)
	game.IsRemaining[playerID] = true
}

// replaceRoster swaps in a new surviving roster and rebuilds the O(1)
// lookup map to match it exactly. All roster shrinkage goes through here.
func (s *service) replaceRoster(game *models.Game, survivors []string) {
	game.RemainingPlayers = survivors
	game.IsRemaining = make(map[string]bool, len(survivors))
	for _, playerID := range survivors {
		game.IsRemaining[playerID] = true
	}
}

// publish emits an audit event. Emission is observational: a failed
// publish never fails the operation that triggered it.
func (s *service) publish(ctx context.Context, input *events.PublishInput) {
	if err := s.eventPublisher.Publish(ctx, input); err != nil {
		log.Printf("failed to publish %s event for game %d: %v", input.Type, input.GameID, err)
	}
}

// escrowAccount names the treasury account holding a game's pool
func escrowAccount(gameID uint64) string {
	return fmt.Sprintf("game:%d", gameID)
}

// playerAccount names the treasury account payouts for a player land in
func playerAccount(playerID string) string {
	return fmt.Sprintf("player:%s", playerID)
}
