package game

import (
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/minority/internal/models"
	treasuryRepo "github.com/KirkDiggler/minority/internal/repositories/treasury"
	"github.com/KirkDiggler/minority/internal/services/events"
)

// seedReveal replicates the effects of a verified reveal
func seedReveal(game *models.Game, playerID string, vote models.VoteSide) {
	game.Reveals[playerID] = &models.Reveal{Round: game.CurrentRound, Vote: vote}
	game.RevealCount++
	if vote == models.VoteSideYes {
		game.YesVotes++
	} else {
		game.NoVotes++
	}
	game.VoteHistory[playerID] = append(game.VoteHistory[playerID], models.VoteRecord{
		Round: game.CurrentRound,
		Vote:  vote,
	})
}

// roundGame builds a reveal-phase game with the given players' reveals.
// A missing entry in votes means the player committed but never revealed.
func (s *GameServiceTestSuite) roundGame(votes map[string]models.VoteSide, playerIDs ...string) *models.Game {
	game := s.newGame()
	seedPlayers(game, playerIDs...)
	game.Phase = models.GamePhaseReveal
	game.RevealDeadline = s.testTime.Add(time.Hour)
	for _, playerID := range playerIDs {
		seedCommit(game, playerID, []byte{0xAA})
		if vote, ok := votes[playerID]; ok {
			seedReveal(game, playerID, vote)
		}
	}
	return game
}

// expectEscrow wires the treasury to report the escrow's holdings
func (s *GameServiceTestSuite) expectEscrow(balance int64) {
	s.mockTreasury.EXPECT().GetBalance(s.ctx, &treasuryRepo.GetBalanceInput{
		Account: "game:7",
	}).Return(balance, nil)
}

func (s *GameServiceTestSuite) expectTransfer(from, to string, amount int64) {
	s.mockTreasury.EXPECT().Transfer(s.ctx, &treasuryRepo.TransferInput{
		FromAccount: from,
		ToAccount:   to,
		Amount:      amount,
	}).Return(nil)
}

// Three players at fee 100: two yes, one no. The lone no voter is the
// minority, the survivor count hits the threshold, and the game settles
// with a 2% fee on the 300 pool.
func (s *GameServiceTestSuite) TestProcessRoundCompletesAndSettles() {
	game := s.roundGame(map[string]models.VoteSide{
		"p1": models.VoteSideYes,
		"p2": models.VoteSideYes,
		"p3": models.VoteSideNo,
	}, "p1", "p2", "p3")
	s.expectGetGame(game)
	s.expectEscrow(300)
	s.expectTransfer("game:7", "platform", 6)
	s.expectTransfer("game:7", "player:p3", 294)
	s.expectSaveGame()

	output, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(1, output.Round)
	s.Equal(models.VoteSideNo, output.MinoritySide)
	s.Equal(1, output.VotesRemaining)
	s.True(output.Completed)
	s.Equal(0, output.NextRound)
	s.Require().NotNil(output.Settlement)
	s.Equal(1, output.Settlement.TotalRounds)
	s.Equal(int64(6), output.Settlement.FeeTaken)
	s.Equal(int64(294), output.Settlement.TotalDistributed)
	s.Equal(int64(0), output.Settlement.UnpaidShares)

	s.Require().NotNil(s.savedGame)
	s.Equal(models.GamePhaseCompleted, s.savedGame.Phase)
	s.Equal([]string{"p3"}, s.savedGame.Winners)
	s.Equal([]string{"p3"}, s.savedGame.RemainingPlayers)
	s.Equal(models.VoteSideNo, s.savedGame.RoundResults[1])
	s.Equal(int64(0), s.savedGame.PrizePool)
	s.Contains(s.published, events.EventTypeRoundProcessing)
	s.Contains(s.published, events.EventTypeGameCompleted)
}

// Six players split three against three: the tie survives as yes, three
// players remain, and the game resets for round two.
func (s *GameServiceTestSuite) TestProcessRoundTieAdvancesYes() {
	game := s.roundGame(map[string]models.VoteSide{
		"p1": models.VoteSideYes,
		"p2": models.VoteSideYes,
		"p3": models.VoteSideYes,
		"p4": models.VoteSideNo,
		"p5": models.VoteSideNo,
		"p6": models.VoteSideNo,
	}, "p1", "p2", "p3", "p4", "p5", "p6")
	s.expectGetGame(game)
	s.expectSaveGame()

	output, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(models.VoteSideYes, output.MinoritySide)
	s.Equal(3, output.VotesRemaining)
	s.False(output.Completed)
	s.Equal(2, output.NextRound)
	s.Nil(output.Settlement)

	s.Require().NotNil(s.savedGame)
	s.Equal(models.GamePhaseZero, s.savedGame.Phase)
	s.Equal(2, s.savedGame.CurrentRound)
	s.Equal([]string{"p1", "p2", "p3"}, s.savedGame.RemainingPlayers)
	s.False(s.savedGame.IsRemaining["p4"])
	s.Equal(0, s.savedGame.YesVotes)
	s.Equal(0, s.savedGame.NoVotes)
	s.Equal(0, s.savedGame.CommitCount)
	s.Equal(0, s.savedGame.RevealCount)
	s.Empty(s.savedGame.Commitments)
	s.Empty(s.savedGame.Reveals)
	s.True(s.savedGame.CommitDeadline.IsZero())
	s.True(s.savedGame.RevealDeadline.IsZero())
	// The all-time roster and pool are untouched by elimination
	s.Len(s.savedGame.Players, 6)
	s.Equal(int64(600), s.savedGame.PrizePool)
	s.Contains(s.published, events.EventTypeRoundResolved)
}

// A player who committed but never revealed is eliminated even when
// their hidden vote would have landed in the minority.
func (s *GameServiceTestSuite) TestProcessRoundDropsNonRevealers() {
	game := s.roundGame(map[string]models.VoteSide{
		"p1": models.VoteSideYes,
		"p2": models.VoteSideYes,
		"p3": models.VoteSideYes,
		"p4": models.VoteSideYes,
		// p5 and p6 never revealed
	}, "p1", "p2", "p3", "p4", "p5", "p6")
	game.RevealDeadline = s.testTime.Add(-time.Minute)
	s.expectGetGame(game)
	s.expectEscrow(600)
	s.expectTransfer("game:7", "platform", 600)
	s.expectSaveGame()

	// Four yes against zero no: yes is the majority, nobody revealed no,
	// and the silent players do not count as survivors either
	output, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(models.VoteSideNo, output.MinoritySide)
	s.Equal(0, output.VotesRemaining)
	s.True(output.Completed)

	s.Require().NotNil(s.savedGame)
	s.Empty(s.savedGame.Winners)
	s.Empty(s.savedGame.RemainingPlayers)
}

// With zero reveals the whole pool is forfeited to the platform
func (s *GameServiceTestSuite) TestProcessRoundNoRevealsForfeitsPool() {
	game := s.roundGame(nil, "p1", "p2", "p3")
	game.RevealDeadline = s.testTime.Add(-time.Minute)
	s.expectGetGame(game)
	s.expectEscrow(300)
	s.expectTransfer("game:7", "platform", 300)
	s.expectSaveGame()

	output, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(models.VoteSideYes, output.MinoritySide)
	s.Equal(0, output.VotesRemaining)
	s.True(output.Completed)
	s.Require().NotNil(output.Settlement)
	s.Equal(int64(300), output.Settlement.FeeTaken)
	s.Equal(int64(0), output.Settlement.TotalDistributed)

	s.Require().NotNil(s.savedGame)
	s.Equal(int64(0), s.savedGame.PrizePool)
	s.Empty(s.savedGame.Winners)
}

func (s *GameServiceTestSuite) TestProcessRoundWrongPhase() {
	game := s.newGame()
	s.expectGetGame(game)

	_, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrInvalidPhase)
}

// Before the reveal deadline the round only resolves once every cohort
// member revealed
func (s *GameServiceTestSuite) TestProcessRoundIncompleteReveals() {
	game := s.roundGame(map[string]models.VoteSide{
		"p1": models.VoteSideYes,
	}, "p1", "p2", "p3")
	s.expectGetGame(game)

	_, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrRevealIncomplete)
}

// A failed platform fee transfer aborts the whole call with nothing
// persisted; the round can be retried
func (s *GameServiceTestSuite) TestProcessRoundFeeTransferFailureAborts() {
	game := s.roundGame(map[string]models.VoteSide{
		"p1": models.VoteSideYes,
		"p2": models.VoteSideYes,
		"p3": models.VoteSideNo,
	}, "p1", "p2", "p3")
	s.expectGetGame(game)
	s.expectEscrow(300)

	s.mockTreasury.EXPECT().Transfer(s.ctx, gomock.Any()).Return(errors.New("redis down"))

	_, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.ErrorIs(err, ErrFeeTransferFailed)
	s.Nil(s.savedGame)
}

// A failed winner payout is skipped: the other winner is still paid and
// the stranded share stays in the pool
func (s *GameServiceTestSuite) TestProcessRoundSkipsFailedWinnerPayout() {
	game := s.roundGame(map[string]models.VoteSide{
		"p1": models.VoteSideYes,
		"p2": models.VoteSideYes,
		"p3": models.VoteSideNo,
		"p4": models.VoteSideNo,
		"p5": models.VoteSideNo,
	}, "p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10")
	// The rest of the roster never revealed; close the window
	game.RevealDeadline = s.testTime.Add(-time.Minute)
	s.expectGetGame(game)
	s.expectEscrow(1000)

	// Pool 1000, fee 20, two winners at 490 each
	s.expectTransfer("game:7", "platform", 20)
	s.mockTreasury.EXPECT().Transfer(s.ctx, &treasuryRepo.TransferInput{
		FromAccount: "game:7",
		ToAccount:   "player:p1",
		Amount:      490,
	}).Return(errors.New("account frozen"))
	s.expectTransfer("game:7", "player:p2", 490)
	s.expectSaveGame()

	output, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.True(output.Completed)
	s.Require().NotNil(output.Settlement)
	s.Equal(int64(20), output.Settlement.FeeTaken)
	s.Equal(int64(490), output.Settlement.TotalDistributed)
	s.Equal(int64(490), output.Settlement.UnpaidShares)

	s.Require().NotNil(s.savedGame)
	s.Equal([]string{"p1", "p2"}, s.savedGame.Winners)
	s.Equal(int64(490), s.savedGame.PrizePool)
}

// The reveal deadline instant itself already permits resolution, so a
// round with missing reveals resolves without waiting a tick longer
func (s *GameServiceTestSuite) TestProcessRoundAtExactRevealDeadline() {
	game := s.roundGame(map[string]models.VoteSide{
		"p1": models.VoteSideNo,
	}, "p1", "p2", "p3")
	game.RevealDeadline = s.testTime
	s.expectGetGame(game)
	s.expectEscrow(300)
	s.expectTransfer("game:7", "platform", 300)
	s.expectSaveGame()

	// One no against zero yes: yes is the minority and nobody revealed
	// it, so the game completes with a forfeited pool
	output, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.Equal(models.VoteSideYes, output.MinoritySide)
	s.Equal(0, output.VotesRemaining)
	s.True(output.Completed)
}

// An odd share division leaves the remainder in the pool rather than
// minting or losing it
func (s *GameServiceTestSuite) TestProcessRoundSettlementKeepsDivisionRemainder() {
	game := s.newGame()
	game.EntryFee = 50
	seedPlayers(game, "p1", "p2", "p3", "p4", "p5")
	game.Phase = models.GamePhaseReveal
	game.RevealDeadline = s.testTime.Add(time.Hour)
	for playerID, vote := range map[string]models.VoteSide{
		"p1": models.VoteSideYes,
		"p2": models.VoteSideYes,
		"p3": models.VoteSideYes,
		"p4": models.VoteSideNo,
		"p5": models.VoteSideNo,
	} {
		seedCommit(game, playerID, []byte{0xAA})
		seedReveal(game, playerID, vote)
	}
	s.expectGetGame(game)

	// Pool 250, fee 5, 245 across two winners: 122 each with 1 left over
	s.expectEscrow(250)
	s.expectTransfer("game:7", "platform", 5)
	s.expectTransfer("game:7", "player:p4", 122)
	s.expectTransfer("game:7", "player:p5", 122)
	s.expectSaveGame()

	output, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.True(output.Completed)
	s.Require().NotNil(output.Settlement)
	s.Equal(int64(5), output.Settlement.FeeTaken)
	s.Equal(int64(244), output.Settlement.TotalDistributed)
	s.Equal(int64(0), output.Settlement.UnpaidShares)

	s.Require().NotNil(s.savedGame)
	s.Equal(int64(1), s.savedGame.PrizePool)
}

// A settlement retried after a crash between the transfers and the save
// settles what the escrow still holds instead of overdrawing it
func (s *GameServiceTestSuite) TestProcessRoundRetryAfterDrainedEscrow() {
	game := s.roundGame(map[string]models.VoteSide{
		"p1": models.VoteSideYes,
		"p2": models.VoteSideYes,
		"p3": models.VoteSideNo,
	}, "p1", "p2", "p3")
	s.expectGetGame(game)

	// A previous attempt already moved everything out of escrow
	s.expectEscrow(0)
	s.expectSaveGame()

	output, err := s.gameService.ProcessRound(s.ctx, &ProcessRoundInput{GameID: s.testGameID})
	s.Require().NoError(err)
	s.True(output.Completed)
	s.Require().NotNil(output.Settlement)
	s.Equal(int64(0), output.Settlement.FeeTaken)
	s.Equal(int64(0), output.Settlement.TotalDistributed)

	s.Require().NotNil(s.savedGame)
	s.Equal(models.GamePhaseCompleted, s.savedGame.Phase)
	s.Equal([]string{"p3"}, s.savedGame.Winners)
	s.Equal(int64(0), s.savedGame.PrizePool)
}
