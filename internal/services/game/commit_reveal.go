package game

import (
	"context"
	"encoding/hex"

	"github.com/KirkDiggler/minority/internal/commitment"
	"github.com/KirkDiggler/minority/internal/models"
	"github.com/KirkDiggler/minority/internal/services/events"
)

// SubmitCommit records a player's vote commitment for the current round
func (s *service) SubmitCommit(ctx context.Context, input *SubmitCommitInput) (*SubmitCommitOutput, error) {
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

	if s.clock.Now().After(game.CommitDeadline) {
		return nil, ErrDeadlinePassed
	}

	if !game.IsEligible(input.PlayerID) {
		return nil, ErrNotEligible
	}

	if len(input.Digest) == 0 {
		return nil, ErrEmptyCommitment
	}

	if _, ok := game.Commitments[input.PlayerID]; ok {
		return nil, ErrAlreadyCommitted
	}

	now := s.clock.Now()
	digest := make([]byte, len(input.Digest))
	copy(digest, input.Digest)

	game.Commitments[input.PlayerID] = &models.Commitment{
		Round:       game.CurrentRound,
		Digest:      digest,
		SubmittedAt: now,
	}
	game.CommitCount++
	game.UpdatedAt = now

	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	s.publish(ctx, &events.PublishInput{
		Type:     events.EventTypeCommitSubmitted,
		GameID:   game.ID,
		PlayerID: input.PlayerID,
		Round:    game.CurrentRound,
	})

	return &SubmitCommitOutput{
		Round:       game.CurrentRound,
		CommitCount: game.CommitCount,
	}, nil
}

// SubmitReveal verifies a reveal against its commitment and records the
// vote. A mismatching reveal is rejected whole: nothing about the
// attempt is retained beyond the rejection notification.
func (s *service) SubmitReveal(ctx context.Context, input *SubmitRevealInput) (*SubmitRevealOutput, error) {
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

	if game.Phase != models.GamePhaseReveal {
		return nil, ErrInvalidPhase
	}

	if s.clock.Now().After(game.RevealDeadline) {
		return nil, ErrDeadlinePassed
	}

	if !input.Vote.Valid() {
		return nil, ErrInvalidVote
	}

	if len(input.Salt) == 0 {
		return nil, ErrEmptyProof
	}

	stored, ok := game.Commitments[input.PlayerID]
	if !ok {
		return nil, ErrNoCommitment
	}

	if _, ok := game.Reveals[input.PlayerID]; ok {
		return nil, ErrAlreadyRevealed
	}

	if !commitment.Verify(stored.Digest, game.ID, game.CurrentRound, string(input.Vote), input.Salt) {
		s.publish(ctx, &events.PublishInput{
			Type:     events.EventTypeRevealRejected,
			GameID:   game.ID,
			PlayerID: input.PlayerID,
			Round:    game.CurrentRound,
			Data: map[string]string{
				"commitment": hex.EncodeToString(stored.Digest),
			},
		})
		return nil, ErrRevealMismatch
	}

	now := s.clock.Now()
	salt := make([]byte, len(input.Salt))
	copy(salt, input.Salt)

	game.Reveals[input.PlayerID] = &models.Reveal{
		Round:       game.CurrentRound,
		Vote:        input.Vote,
		Salt:        salt,
		SubmittedAt: now,
	}

	if input.Vote == models.VoteSideYes {
		game.YesVotes++
	} else {
		game.NoVotes++
	}
	game.RevealCount++
	game.VoteHistory[input.PlayerID] = append(game.VoteHistory[input.PlayerID], models.VoteRecord{
		Round: game.CurrentRound,
		Vote:  input.Vote,
	})
	game.UpdatedAt = now

	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	s.publish(ctx, &events.PublishInput{
		Type:     events.EventTypeVoteRevealed,
		GameID:   game.ID,
		PlayerID: input.PlayerID,
		Round:    game.CurrentRound,
	})

	return &SubmitRevealOutput{
		Round:       game.CurrentRound,
		RevealCount: game.RevealCount,
	}, nil
}
