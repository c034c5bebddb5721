package game

import (
	"context"
	"fmt"

	gameRepo "github.com/KirkDiggler/minority/internal/repositories/game"
)

// GetGame retrieves a game
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	return &GetGameOutput{Game: game}, nil
}

// GetGameCount retrieves the number of games created so far
func (s *service) GetGameCount(ctx context.Context, input *GetGameCountInput) (*GetGameCountOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	count, err := s.gameRepo.GetGameCount(ctx, &gameRepo.GetGameCountInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get game count: %w", err)
	}

	return &GetGameCountOutput{Count: count}, nil
}

// GetPlayers retrieves every player that joined a game, in join order
func (s *service) GetPlayers(ctx context.Context, input *GetPlayersInput) (*GetPlayersOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	return &GetPlayersOutput{Players: game.Players}, nil
}

// GetRemainingPlayers retrieves the players still eligible
func (s *service) GetRemainingPlayers(ctx context.Context, input *GetRemainingPlayersInput) (*GetRemainingPlayersOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	return &GetRemainingPlayersOutput{RemainingPlayers: game.RemainingPlayers}, nil
}

// GetWinners retrieves the winners of a completed game
func (s *service) GetWinners(ctx context.Context, input *GetWinnersInput) (*GetWinnersOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	return &GetWinnersOutput{Winners: game.Winners}, nil
}

// GetRoundResult retrieves the recorded minority side for a round
func (s *service) GetRoundResult(ctx context.Context, input *GetRoundResultInput) (*GetRoundResultOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	minority, ok := game.RoundResults[input.Round]
	if !ok {
		return nil, ErrRoundNotResolved
	}

	return &GetRoundResultOutput{MinoritySide: minority}, nil
}

// GetVoteHistory retrieves a player's revealed votes across all rounds
func (s *service) GetVoteHistory(ctx context.Context, input *GetVoteHistoryInput) (*GetVoteHistoryOutput, error) {
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

	return &GetVoteHistoryOutput{History: game.VoteHistory[input.PlayerID]}, nil
}

// GetPlayerStatus retrieves a player's membership and progress flags
func (s *service) GetPlayerStatus(ctx context.Context, input *GetPlayerStatusInput) (*GetPlayerStatusOutput, error) {
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

	_, committed := game.Commitments[input.PlayerID]
	_, revealed := game.Reveals[input.PlayerID]

	return &GetPlayerStatusOutput{
		Joined:    game.HasJoined[input.PlayerID],
		Remaining: game.IsRemaining[input.PlayerID],
		Committed: committed,
		Revealed:  revealed,
	}, nil
}

// GetUserGames retrieves the IDs of every game a player joined
func (s *service) GetUserGames(ctx context.Context, input *GetUserGamesInput) (*GetUserGamesOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	if input.PlayerID == "" {
		return nil, ErrMissingPlayerID
	}

	gameIDs, err := s.gameRepo.GetUserGames(ctx, &gameRepo.GetUserGamesInput{
		PlayerID: input.PlayerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user games: %w", err)
	}

	return &GetUserGamesOutput{GameIDs: gameIDs}, nil
}
