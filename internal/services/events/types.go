package events

import (
	"time"
)

// EventType represents the category of a published event
type EventType string

const (
	// EventTypeGameCreated is emitted when a game is created
	EventTypeGameCreated EventType = "game_created"

	// EventTypePlayerJoined is emitted when a player joins a game
	EventTypePlayerJoined EventType = "player_joined"

	// EventTypeCommitPhaseOpened is emitted when a commit window opens
	EventTypeCommitPhaseOpened EventType = "commit_phase_opened"

	// EventTypeCommitSubmitted is emitted when a commitment is stored
	EventTypeCommitSubmitted EventType = "commit_submitted"

	// EventTypeRevealPhaseOpened is emitted when a reveal window opens
	EventTypeRevealPhaseOpened EventType = "reveal_phase_opened"

	// EventTypeVoteRevealed is emitted when a reveal verifies and is stored
	EventTypeVoteRevealed EventType = "vote_revealed"

	// EventTypeRevealRejected is emitted when a reveal does not reproduce
	// its commitment, so observers can tell cheating attempts apart from
	// other rejections
	EventTypeRevealRejected EventType = "reveal_rejected"

	// EventTypeRoundProcessing is emitted when round resolution begins
	EventTypeRoundProcessing EventType = "round_processing"

	// EventTypeRoundResolved is emitted when a round resolves and the game
	// continues into the next round
	EventTypeRoundResolved EventType = "round_resolved"

	// EventTypeGameCompleted is emitted when a game terminates and settles,
	// carrying the settlement summary
	EventTypeGameCompleted EventType = "game_completed"
)

// Event is the envelope published for every notification
type Event struct {
	// ID is the unique identifier for the event
	ID string

	// Type is the event category
	Type EventType

	// GameID is the game the event belongs to
	GameID uint64

	// PlayerID is the player the event concerns, if any
	PlayerID string

	// Round is the round the event concerns, if any
	Round int

	// Data carries event-specific detail
	Data map[string]string

	// Timestamp is when the event was published
	Timestamp time.Time
}

// PublishInput contains parameters for publishing an event
type PublishInput struct {
	// Type is the event category
	Type EventType

	// GameID is the game the event belongs to
	GameID uint64

	// PlayerID is the player the event concerns (optional)
	PlayerID string

	// Round is the round the event concerns (optional)
	Round int

	// Data carries event-specific detail (optional)
	Data map[string]string
}
