package game

import (
	"time"

	"github.com/KirkDiggler/minority/internal/common/clock"
	"github.com/KirkDiggler/minority/internal/models"
	gameRepo "github.com/KirkDiggler/minority/internal/repositories/game"
	treasuryRepo "github.com/KirkDiggler/minority/internal/repositories/treasury"
	"github.com/KirkDiggler/minority/internal/services/events"
)

const (
	// DefaultFeeBasisPoints is the platform cut taken at settlement (2%)
	DefaultFeeBasisPoints = 200

	// DefaultWinnerThreshold ends the game once the minority shrinks to
	// this many players or fewer
	DefaultWinnerThreshold = 2

	// DefaultPlatformAccount receives the platform fee and forfeited pools
	DefaultPlatformAccount = "platform"
)

// Config holds configuration for the game service
type Config struct {
	// FeeBasisPoints is the platform cut in basis points; defaults to 200
	FeeBasisPoints int64

	// WinnerThreshold is the survivor count at or below which the game
	// terminates; defaults to 2
	WinnerThreshold int

	// PlatformAccount receives fees and forfeited pools
	PlatformAccount string

	// Repository dependencies
	GameRepo     gameRepo.Repository
	TreasuryRepo treasuryRepo.Repository

	// Service dependencies
	EventPublisher events.Publisher
	Clock          clock.Clock
}

// CreateGameInput contains parameters for creating a new game
type CreateGameInput struct {
	// Question is the binary question players will vote on
	Question string

	// EntryFee is the stake each player pays to join, in base units
	EntryFee int64

	// CreatorID is the attributed identity of the caller
	CreatorID string
}

// CreateGameOutput contains the result of creating a new game
type CreateGameOutput struct {
	// GameID is the unique identifier for the created game
	GameID uint64
}

// JoinGameInput contains parameters for joining a game
type JoinGameInput struct {
	// GameID is the game to join
	GameID uint64

	// PlayerID is the attributed identity of the caller
	PlayerID string

	// PaidAmount is the payment accompanying the call; it must equal the
	// game's entry fee exactly
	PaidAmount int64
}

// JoinGameOutput contains the result of joining a game
type JoinGameOutput struct {
	// PrizePool is the pool total after the join
	PrizePool int64

	// PlayerCount is the roster size after the join
	PlayerCount int
}

// OpenCommitPhaseInput contains parameters for opening a commit window
type OpenCommitPhaseInput struct {
	// GameID is the game to open the window for
	GameID uint64

	// CallerID is the attributed identity of the caller; must be the creator
	CallerID string

	// Duration is how long the commit window stays open
	Duration time.Duration
}

// OpenCommitPhaseOutput contains the result of opening a commit window
type OpenCommitPhaseOutput struct {
	// Round is the round the window was opened for
	Round int

	// CommitDeadline is when the window closes
	CommitDeadline time.Time
}

// SubmitCommitInput contains parameters for submitting a commitment
type SubmitCommitInput struct {
	// GameID is the game to commit in
	GameID uint64

	// PlayerID is the attributed identity of the caller
	PlayerID string

	// Digest is the opaque binding hash of the player's vote and salt
	Digest []byte
}

// SubmitCommitOutput contains the result of submitting a commitment
type SubmitCommitOutput struct {
	// Round is the round the commitment was stored for
	Round int

	// CommitCount is the number of commitments stored this round
	CommitCount int
}

// OpenRevealPhaseInput contains parameters for opening a reveal window
type OpenRevealPhaseInput struct {
	// GameID is the game to open the window for
	GameID uint64

	// CallerID is the attributed identity of the caller; must be the creator
	CallerID string

	// Duration is how long the reveal window stays open
	Duration time.Duration
}

// OpenRevealPhaseOutput contains the result of opening a reveal window
type OpenRevealPhaseOutput struct {
	// Round is the round the window was opened for
	Round int

	// RevealDeadline is when the window closes
	RevealDeadline time.Time
}

// SubmitRevealInput contains parameters for submitting a reveal
type SubmitRevealInput struct {
	// GameID is the game to reveal in
	GameID uint64

	// PlayerID is the attributed identity of the caller
	PlayerID string

	// Vote is the disclosed vote
	Vote models.VoteSide

	// Salt is the secret material the commitment digest binds
	Salt []byte
}

// SubmitRevealOutput contains the result of submitting a reveal
type SubmitRevealOutput struct {
	// Round is the round the reveal was stored for
	Round int

	// RevealCount is the number of reveals stored this round
	RevealCount int
}

// ProcessRoundInput contains parameters for resolving the current round
type ProcessRoundInput struct {
	// GameID is the game to resolve; anyone may call this
	GameID uint64
}

// ProcessRoundOutput contains the result of resolving a round
type ProcessRoundOutput struct {
	// Round is the round that was resolved
	Round int

	// MinoritySide is the side that survived
	MinoritySide models.VoteSide

	// VotesRemaining is the size of the surviving roster
	VotesRemaining int

	// Completed indicates the game terminated and settled
	Completed bool

	// NextRound is the round now awaiting a commit window; zero when the
	// game completed
	NextRound int

	// Settlement summarizes the payout; nil unless the game completed
	Settlement *SettlementSummary
}

// SettlementSummary reports what a terminal settlement did
type SettlementSummary struct {
	// TotalRounds is how many rounds the game ran
	TotalRounds int

	// FeeTaken is the amount transferred to the platform account
	FeeTaken int64

	// TotalDistributed is the amount successfully paid to winners
	TotalDistributed int64

	// UnpaidShares is the amount left stranded in the pool by failed
	// winner transfers
	UnpaidShares int64
}

// GetGameInput contains parameters for retrieving a game
type GetGameInput struct {
	GameID uint64
}

// GetGameCountInput contains parameters for counting games
type GetGameCountInput struct {
}

// GetGameCountOutput contains the number of games created so far
type GetGameCountOutput struct {
	Count uint64
}

// GetGameOutput contains the retrieved game
type GetGameOutput struct {
	Game *models.Game
}

// GetPlayersInput contains parameters for retrieving a game's players
type GetPlayersInput struct {
	GameID uint64
}

// GetPlayersOutput contains a game's players in join order
type GetPlayersOutput struct {
	Players []string
}

// GetRemainingPlayersInput contains parameters for retrieving survivors
type GetRemainingPlayersInput struct {
	GameID uint64
}

// GetRemainingPlayersOutput contains the players still eligible
type GetRemainingPlayersOutput struct {
	RemainingPlayers []string
}

// GetWinnersInput contains parameters for retrieving a game's winners
type GetWinnersInput struct {
	GameID uint64
}

// GetWinnersOutput contains the winners of a completed game
type GetWinnersOutput struct {
	Winners []string
}

// GetRoundResultInput contains parameters for retrieving a round result
type GetRoundResultInput struct {
	GameID uint64
	Round  int
}

// GetRoundResultOutput contains the recorded minority side for a round
type GetRoundResultOutput struct {
	MinoritySide models.VoteSide
}

// GetVoteHistoryInput contains parameters for retrieving a vote history
type GetVoteHistoryInput struct {
	GameID   uint64
	PlayerID string
}

// GetVoteHistoryOutput contains a player's revealed votes across rounds
type GetVoteHistoryOutput struct {
	History []models.VoteRecord
}

// GetPlayerStatusInput contains parameters for retrieving player flags
type GetPlayerStatusInput struct {
	GameID   uint64
	PlayerID string
}

// GetPlayerStatusOutput contains a player's membership and progress flags
type GetPlayerStatusOutput struct {
	// Joined indicates the player is in the all-time roster
	Joined bool

	// Remaining indicates the player is still eligible
	Remaining bool

	// Committed indicates the player committed this round
	Committed bool

	// Revealed indicates the player revealed this round
	Revealed bool
}

// GetUserGamesInput contains parameters for retrieving a player's games
type GetUserGamesInput struct {
	PlayerID string
}

// GetUserGamesOutput contains the IDs of every game a player joined
type GetUserGamesOutput struct {
	GameIDs []uint64
}
