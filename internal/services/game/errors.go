package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilInput           GameError = "input cannot be nil"
	ErrGameNotFound       GameError = "game not found"
	ErrEmptyQuestion      GameError = "question cannot be empty"
	ErrInvalidEntryFee    GameError = "entry fee must be positive"
	ErrMissingPlayerID    GameError = "player ID cannot be empty"
	ErrUnauthorized       GameError = "only the game creator may do this"
	ErrInvalidPhase       GameError = "operation not valid in current phase"
	ErrInvalidDuration    GameError = "duration must be positive"
	ErrAlreadyJoined      GameError = "player already joined this game"
	ErrWrongAmount        GameError = "payment does not match the entry fee"
	ErrRoundClosed        GameError = "joining is only possible in round 1"
	ErrDeadlinePassed     GameError = "the window deadline has passed"
	ErrDeadlineNotReached GameError = "the window deadline has not been reached"
	ErrNoParticipation    GameError = "no commitments were submitted this round"
	ErrNotEligible        GameError = "player is not eligible this round"
	ErrEmptyCommitment    GameError = "commitment cannot be empty"
	ErrAlreadyCommitted   GameError = "player already committed this round"
	ErrNoCommitment       GameError = "player has no commitment this round"
	ErrAlreadyRevealed    GameError = "player already revealed this round"
	ErrInvalidVote        GameError = "vote must be yes or no"
	ErrEmptyProof         GameError = "proof cannot be empty"
	ErrRevealMismatch     GameError = "reveal does not match the commitment"
	ErrRevealIncomplete   GameError = "reveal phase is not finished"
	ErrRoundNotResolved   GameError = "round has not been resolved"
	ErrFeeTransferFailed  GameError = "platform fee transfer failed"
	ErrNilConfig          GameError = "config cannot be nil"
	ErrNilGameRepo        GameError = "game repository cannot be nil"
	ErrNilTreasuryRepo    GameError = "treasury repository cannot be nil"
	ErrNilEventPublisher  GameError = "event publisher cannot be nil"
	ErrNilClock           GameError = "clock cannot be nil"
)
