package game

import (
	"context"
	"fmt"
	"log"

	"github.com/KirkDiggler/minority/internal/models"
	treasuryRepo "github.com/KirkDiggler/minority/internal/repositories/treasury"
)

// settle converts a terminated game's pool into the platform fee and
// per-winner payouts. It runs exactly once per game, inside the
// round-processing call that completed it, and mutates the aggregate
// the caller persists afterwards.
//
// Settlement pays out what the escrow actually holds. On a clean run
// that equals the recorded pool; if a previous attempt moved funds but
// crashed before the save, the retry settles the remainder instead of
// failing on an overdrawn escrow.
//
// The platform fee transfer must succeed or the whole call aborts with
// nothing persisted. Winner transfers are independent: a failed one is
// skipped and its share stays in the pool with no reclaim path in the
// core.
func (s *service) settle(ctx context.Context, game *models.Game) (*SettlementSummary, error) {
	escrow := escrowAccount(game.ID)

	available, err := s.treasuryRepo.GetBalance(ctx, &treasuryRepo.GetBalanceInput{
		Account: escrow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read escrow for game %d: %w", game.ID, err)
	}

	pool := game.PrizePool
	if available < pool {
		log.Printf("escrow for game %d holds %d of recorded pool %d, settling the remainder", game.ID, available, pool)
		pool = available
	}
	game.PrizePool = pool

	// An all-eliminated game forfeits its entire pool to the platform
	if len(game.Winners) == 0 {
		if pool > 0 {
			err := s.treasuryRepo.Transfer(ctx, &treasuryRepo.TransferInput{
				FromAccount: escrow,
				ToAccount:   s.platformAccount,
				Amount:      pool,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFeeTransferFailed, err)
			}
			game.PrizePool = 0
		}

		return &SettlementSummary{
			TotalRounds: game.CurrentRound,
			FeeTaken:    pool,
		}, nil
	}

	fee := pool * s.feeBasisPoints / 10000
	if fee > 0 {
		err := s.treasuryRepo.Transfer(ctx, &treasuryRepo.TransferInput{
			FromAccount: escrow,
			ToAccount:   s.platformAccount,
			Amount:      fee,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFeeTransferFailed, err)
		}
		game.PrizePool -= fee
	}

	// Integer division; the remainder stays in the pool
	share := (pool - fee) / int64(len(game.Winners))

	var distributed int64
	var unpaid int64
	if share > 0 {
		for _, winner := range game.Winners {
			err := s.treasuryRepo.Transfer(ctx, &treasuryRepo.TransferInput{
				FromAccount: escrow,
				ToAccount:   playerAccount(winner),
				Amount:      share,
			})
			if err != nil {
				// Skipped share stays in the pool, undeducted
				log.Printf("payout to %s failed for game %d, share %d stranded: %v", winner, game.ID, share, err)
				unpaid += share
				continue
			}
			game.PrizePool -= share
			distributed += share
		}
	}

	return &SettlementSummary{
		TotalRounds:      game.CurrentRound,
		FeeTaken:         fee,
		TotalDistributed: distributed,
		UnpaidShares:     unpaid,
	}, nil
}
