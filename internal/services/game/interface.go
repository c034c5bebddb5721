package game

import "context"

// Service defines the interface for game operations
type Service interface {
	// CreateGame creates a new game with a question and entry fee
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// JoinGame stakes the entry fee and adds a player to a round-1 game
	JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error)

	// OpenCommitPhase opens the commit window for the current round
	OpenCommitPhase(ctx context.Context, input *OpenCommitPhaseInput) (*OpenCommitPhaseOutput, error)

	// SubmitCommit records a player's vote commitment for the current round
	SubmitCommit(ctx context.Context, input *SubmitCommitInput) (*SubmitCommitOutput, error)

	// OpenRevealPhase closes the commit window and opens the reveal window
	OpenRevealPhase(ctx context.Context, input *OpenRevealPhaseInput) (*OpenRevealPhaseOutput, error)

	// SubmitReveal verifies a reveal against its commitment and records the vote
	SubmitReveal(ctx context.Context, input *SubmitRevealInput) (*SubmitRevealOutput, error)

	// ProcessRound resolves the current round, eliminating the majority and
	// either starting the next round or settling the game
	ProcessRound(ctx context.Context, input *ProcessRoundInput) (*ProcessRoundOutput, error)

	// GetGame retrieves a game
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// GetGameCount retrieves the number of games created so far
	GetGameCount(ctx context.Context, input *GetGameCountInput) (*GetGameCountOutput, error)

	// GetPlayers retrieves every player that joined a game
	GetPlayers(ctx context.Context, input *GetPlayersInput) (*GetPlayersOutput, error)

	// GetRemainingPlayers retrieves the players still eligible
	GetRemainingPlayers(ctx context.Context, input *GetRemainingPlayersInput) (*GetRemainingPlayersOutput, error)

	// GetWinners retrieves the winners of a completed game
	GetWinners(ctx context.Context, input *GetWinnersInput) (*GetWinnersOutput, error)

	// GetRoundResult retrieves the recorded minority side for a round
	GetRoundResult(ctx context.Context, input *GetRoundResultInput) (*GetRoundResultOutput, error)

	// GetVoteHistory retrieves a player's revealed votes across all rounds
	GetVoteHistory(ctx context.Context, input *GetVoteHistoryInput) (*GetVoteHistoryOutput, error)

	// GetPlayerStatus retrieves a player's membership and progress flags
	GetPlayerStatus(ctx context.Context, input *GetPlayerStatusInput) (*GetPlayerStatusOutput, error)

	// GetUserGames retrieves the IDs of every game a player joined
	GetUserGames(ctx context.Context, input *GetUserGamesInput) (*GetUserGamesOutput, error)
}
