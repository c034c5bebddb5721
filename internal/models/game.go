package models

import (
	"time"
)

// GamePhase represents the current phase of a game
type GamePhase string

const (
	// GamePhaseZero indicates a game that has been created but has no open
	// commit window yet (also the state between rounds)
	GamePhaseZero GamePhase = "zero"

	// GamePhaseCommit indicates the commit window is open
	GamePhaseCommit GamePhase = "commit"

	// GamePhaseReveal indicates the reveal window is open
	GamePhaseReveal GamePhase = "reveal"

	// GamePhaseProcessing indicates a round is being resolved; it is only
	// ever observed through published events, never persisted
	GamePhaseProcessing GamePhase = "processing"

	// GamePhaseCompleted indicates the game has finished and settled
	GamePhaseCompleted GamePhase = "completed"
)

// Game represents a minority-rule elimination game
type Game struct {
	// ID is the unique, monotonically assigned identifier for the game
	ID uint64

	// Question is the binary question players vote on, fixed at creation
	Question string

	// EntryFee is the stake each player pays to join, in base units
	EntryFee int64

	// CreatorID is the player with exclusive rights to advance phases
	CreatorID string

	// Phase is the current phase of the game
	Phase GamePhase

	// CurrentRound starts at 1 and increments each time the game
	// continues past a round
	CurrentRound int

	// PrizePool is the custodied stake still owned by the game
	PrizePool int64

	// CommitDeadline is the end of the current commit window; the zero
	// time means no deadline has been set
	CommitDeadline time.Time

	// RevealDeadline is the end of the current reveal window; the zero
	// time means no deadline has been set
	RevealDeadline time.Time

	// TotalPlayers is the all-time joiner count, fixed once round 1 closes
	TotalPlayers int

	// YesVotes is the revealed yes tally for the current round
	YesVotes int

	// NoVotes is the revealed no tally for the current round
	NoVotes int

	// Players contains every player that ever joined, in join order
	Players []string

	// RemainingPlayers contains the players still eligible, replaced
	// wholesale each round
	RemainingPlayers []string

	// Winners is populated only when the game completes
	Winners []string

	// RoundResults maps each resolved round to its minority side
	RoundResults map[int]VoteSide

	// HasJoined mirrors Players for O(1) membership tests
	HasJoined map[string]bool

	// IsRemaining mirrors RemainingPlayers for O(1) membership tests
	IsRemaining map[string]bool

	// Commitments holds the current round's commitments, cleared each round
	Commitments map[string]*Commitment

	// Reveals holds the current round's reveals, cleared each round
	Reveals map[string]*Reveal

	// VoteHistory records every revealed vote per player across all rounds
	VoteHistory map[string][]VoteRecord

	// CommitCount mirrors len(Commitments) for the current round
	CommitCount int

	// RevealCount mirrors len(Reveals) for the current round
	RevealCount int

	// CreatedAt is when the game was created
	CreatedAt time.Time

	// UpdatedAt is when the game was last updated
	UpdatedAt time.Time
}

// Cohort returns the players eligible to act in the current round:
// everyone who joined in round 1, survivors afterwards.
func (g *Game) Cohort() []string {
	if g.CurrentRound == 1 {
		return g.Players
	}
	return g.RemainingPlayers
}

// IsEligible reports whether a player may act in the current round.
func (g *Game) IsEligible(playerID string) bool {
	if g.CurrentRound == 1 {
		return g.HasJoined[playerID]
	}
	return g.IsRemaining[playerID]
}
