package game

import (
	"context"
	"strconv"
	"time"

	"github.com/KirkDiggler/minority/internal/models"
	"github.com/KirkDiggler/minority/internal/services/events"
)

// ProcessRound resolves the current round. Anyone may call it once every
// eligible player revealed or the reveal deadline passed. The side with
// fewer revealed votes survives; a tie survives as yes. Two or fewer
// survivors end the game and trigger settlement, otherwise the game
// returns to the zero phase awaiting the next commit window.
func (s *service) ProcessRound(ctx context.Context, input *ProcessRoundInput) (*ProcessRoundOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	game, err := s.getGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	if game.Phase != models.GamePhaseReveal {
		return nil, ErrInvalidPhase
	}

	cohort := game.Cohort()
	now := s.clock.Now()
	if game.RevealCount < len(cohort) && now.Before(game.RevealDeadline) {
		return nil, ErrRevealIncomplete
	}

	round := game.CurrentRound

	// The processing phase is transient; observers see it through this
	// event while the persisted phase moves straight to its successor
	s.publish(ctx, &events.PublishInput{
		Type:   events.EventTypeRoundProcessing,
		GameID: game.ID,
		Round:  round,
		Data: map[string]string{
			"phase": string(models.GamePhaseProcessing),
		},
	})

	// Ties count as a yes minority
	minority := models.VoteSideYes
	if game.YesVotes > game.NoVotes {
		minority = models.VoteSideNo
	}

	game.RoundResults[round] = minority

	// Cohort members who revealed the minority side survive, in cohort
	// order; everyone else, including non-revealers, is dropped
	survivors := make([]string, 0, len(cohort))
	for _, playerID := range cohort {
		reveal, ok := game.Reveals[playerID]
		if ok && reveal.Vote == minority {
			survivors = append(survivors, playerID)
		}
	}

	s.replaceRoster(game, survivors)
	votesRemaining := len(survivors)

	if votesRemaining <= s.winnerThreshold {
		game.Winners = survivors
		game.Phase = models.GamePhaseCompleted
		game.UpdatedAt = now

		summary, err := s.settle(ctx, game)
		if err != nil {
			// Nothing was persisted; the round stays unresolved
			return nil, err
		}

		if err := s.saveGame(ctx, game); err != nil {
			return nil, err
		}

		s.publish(ctx, &events.PublishInput{
			Type:   events.EventTypeGameCompleted,
			GameID: game.ID,
			Round:  round,
			Data: map[string]string{
				"minority":     string(minority),
				"winners":      strconv.Itoa(len(game.Winners)),
				"total_rounds": strconv.Itoa(summary.TotalRounds),
				"fee_taken":    strconv.FormatInt(summary.FeeTaken, 10),
				"distributed":  strconv.FormatInt(summary.TotalDistributed, 10),
			},
		})

		return &ProcessRoundOutput{
			Round:          round,
			MinoritySide:   minority,
			VotesRemaining: votesRemaining,
			Completed:      true,
			Settlement:     summary,
		}, nil
	}

	// Continue into the next round with a fresh slate; the creator must
	// open the next commit window explicitly
	game.CurrentRound++
	game.YesVotes = 0
	game.NoVotes = 0
	game.CommitCount = 0
	game.RevealCount = 0
	game.Commitments = make(map[string]*models.Commitment, votesRemaining)
	game.Reveals = make(map[string]*models.Reveal, votesRemaining)
	game.CommitDeadline = time.Time{}
	game.RevealDeadline = time.Time{}
	game.Phase = models.GamePhaseZero
	game.UpdatedAt = now

	if err := s.saveGame(ctx, game); err != nil {
		return nil, err
	}

	s.publish(ctx, &events.PublishInput{
		Type:   events.EventTypeRoundResolved,
		GameID: game.ID,
		Round:  round,
		Data: map[string]string{
			"minority":  string(minority),
			"remaining": strconv.Itoa(votesRemaining),
		},
	})

	return &ProcessRoundOutput{
		Round:          round,
		MinoritySide:   minority,
		VotesRemaining: votesRemaining,
		NextRound:      game.CurrentRound,
	}, nil
}
