package game

import (
	"time"

	"github.com/KirkDiggler/minority/internal/commitment"
	"github.com/KirkDiggler/minority/internal/models"
	"github.com/KirkDiggler/minority/internal/services/events"
	"go.uber.org/mock/gomock"
)

// commitGame builds a round-1 game with an open commit window and players
func (s *GameServiceTestSuite) commitGame(playerIDs ...string) *models.Game {
	game := s.newGame()
	seedPlayers(game, playerIDs...)
	game.Phase = models.GamePhaseCommit
	game.CommitDeadline = s.testTime.Add(time.Hour)
	return game
}

// seedCommit replicates the effects of a stored commitment
func seedCommit(game *models.Game, playerID string, digest []byte) {
	game.Commitments[playerID] = &models.Commitment{
		Round:  game.CurrentRound,
		Digest: digest,
	}
	game.CommitCount++
}

func (s *GameServiceTestSuite) TestSubmitCommit() {
	game := s.commitGame(s.testPlayerID)
	s.expectGetGame(game)
	s.expectSaveGame()

	digest := commitment.Compute(s.testGameID, 1, "yes", []byte("salt"))

	output, err := s.gameService.SubmitCommit(s.ctx, &SubmitCommitInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Digest:   digest,
	})
	s.Require().NoError(err)
	s.Equal(1, output.Round)
	s.Equal(1, output.CommitCount)

	s.Require().NotNil(s.savedGame)
	stored := s.savedGame.Commitments[s.testPlayerID]
	s.Require().NotNil(stored)
	s.Equal(digest, stored.Digest)
	s.Equal(1, stored.Round)
	s.Equal(1, s.savedGame.CommitCount)
	s.Contains(s.published, events.EventTypeCommitSubmitted)
}

// The deadline instant itself is still inside the window
func (s *GameServiceTestSuite) TestSubmitCommitAtExactDeadline() {
	game := s.commitGame(s.testPlayerID)
	game.CommitDeadline = s.testTime
	s.expectGetGame(game)
	s.expectSaveGame()

	output, err := s.gameService.SubmitCommit(s.ctx, &SubmitCommitInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Digest:   []byte{1},
	})
	s.Require().NoError(err)
	s.Equal(1, output.CommitCount)
}

func (s *GameServiceTestSuite) TestSubmitCommitWrongPhase() {
	game := s.newGame()
	seedPlayers(game, s.testPlayerID)
	s.expectGetGame(game)

	_, err := s.gameService.SubmitCommit(s.ctx, &SubmitCommitInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Digest:   []byte{1},
	})
	s.ErrorIs(err, ErrInvalidPhase)
}

func (s *GameServiceTestSuite) TestSubmitCommitAfterDeadline() {
	game := s.commitGame(s.testPlayerID)
	game.CommitDeadline = s.testTime.Add(-time.Second)
	s.expectGetGame(game)

	_, err := s.gameService.SubmitCommit(s.ctx, &SubmitCommitInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Digest:   []byte{1},
	})
	s.ErrorIs(err, ErrDeadlinePassed)
}

func (s *GameServiceTestSuite) TestSubmitCommitRequiresEligibility() {
	game := s.commitGame(s.testPlayerID)
	s.expectGetGame(game)

	_, err := s.gameService.SubmitCommit(s.ctx, &SubmitCommitInput{
		GameID:   s.testGameID,
		PlayerID: "outsider",
		Digest:   []byte{1},
	})
	s.ErrorIs(err, ErrNotEligible)
}

func (s *GameServiceTestSuite) TestSubmitCommitEligibilityUsesSurvivorsAfterRoundOne() {
	game := s.commitGame("p1", "p2", "p3")
	game.CurrentRound = 2
	// p3 joined but was eliminated in round 1
	game.RemainingPlayers = []string{"p1", "p2"}
	game.IsRemaining = map[string]bool{"p1": true, "p2": true}
	s.expectGetGame(game)

	_, err := s.gameService.SubmitCommit(s.ctx, &SubmitCommitInput{
		GameID:   s.testGameID,
		PlayerID: "p3",
		Digest:   []byte{1},
	})
	s.ErrorIs(err, ErrNotEligible)
}

func (s *GameServiceTestSuite) TestSubmitCommitEmptyDigest() {
	game := s.commitGame(s.testPlayerID)
	s.expectGetGame(game)

	_, err := s.gameService.SubmitCommit(s.ctx, &SubmitCommitInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
	})
	s.ErrorIs(err, ErrEmptyCommitment)
}

func (s *GameServiceTestSuite) TestSubmitCommitTwiceFails() {
	game := s.commitGame(s.testPlayerID)
	seedCommit(game, s.testPlayerID, []byte{1})
	s.expectGetGame(game)

	_, err := s.gameService.SubmitCommit(s.ctx, &SubmitCommitInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Digest:   []byte{2},
	})
	s.ErrorIs(err, ErrAlreadyCommitted)
}

// revealGame builds a round-1 game with an open reveal window and a
// stored commitment per player for the given vote/salt pairs
func (s *GameServiceTestSuite) revealGame(votes map[string]models.VoteSide, salt []byte, playerIDs ...string) *models.Game {
	game := s.newGame()
	seedPlayers(game, playerIDs...)
	game.Phase = models.GamePhaseReveal
	game.RevealDeadline = s.testTime.Add(time.Hour)
	for _, playerID := range playerIDs {
		vote, ok := votes[playerID]
		if !ok {
			continue
		}
		seedCommit(game, playerID, commitment.Compute(game.ID, game.CurrentRound, string(vote), salt))
	}
	return game
}

func (s *GameServiceTestSuite) TestSubmitReveal() {
	salt := []byte("secret-salt")
	game := s.revealGame(map[string]models.VoteSide{s.testPlayerID: models.VoteSideYes}, salt, s.testPlayerID)
	s.expectGetGame(game)
	s.expectSaveGame()

	output, err := s.gameService.SubmitReveal(s.ctx, &SubmitRevealInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Vote:     models.VoteSideYes,
		Salt:     salt,
	})
	s.Require().NoError(err)
	s.Equal(1, output.RevealCount)

	s.Require().NotNil(s.savedGame)
	s.Equal(1, s.savedGame.YesVotes)
	s.Equal(0, s.savedGame.NoVotes)
	s.Equal(1, s.savedGame.RevealCount)
	s.Equal([]models.VoteRecord{{Round: 1, Vote: models.VoteSideYes}}, s.savedGame.VoteHistory[s.testPlayerID])
	s.Contains(s.published, events.EventTypeVoteRevealed)
}

// A reveal whose salt does not reproduce the stored commitment is
// rejected whole: distinct error, rejection notification, no tally or
// counter movement.
func (s *GameServiceTestSuite) TestSubmitRevealMismatch() {
	game := s.revealGame(map[string]models.VoteSide{s.testPlayerID: models.VoteSideYes}, []byte("real-salt"), s.testPlayerID)
	s.expectGetGame(game)

	_, err := s.gameService.SubmitReveal(s.ctx, &SubmitRevealInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Vote:     models.VoteSideYes,
		Salt:     []byte("wrong-salt"),
	})
	s.ErrorIs(err, ErrRevealMismatch)
	s.Contains(s.published, events.EventTypeRevealRejected)
	s.Nil(s.savedGame)
}

// Revealing a different vote than was committed is a mismatch too
func (s *GameServiceTestSuite) TestSubmitRevealCannotFlipVote() {
	salt := []byte("secret-salt")
	game := s.revealGame(map[string]models.VoteSide{s.testPlayerID: models.VoteSideYes}, salt, s.testPlayerID)
	s.expectGetGame(game)

	_, err := s.gameService.SubmitReveal(s.ctx, &SubmitRevealInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Vote:     models.VoteSideNo,
		Salt:     salt,
	})
	s.ErrorIs(err, ErrRevealMismatch)
}

func (s *GameServiceTestSuite) TestSubmitRevealWithoutCommitment() {
	game := s.revealGame(nil, nil, s.testPlayerID)
	s.expectGetGame(game)

	_, err := s.gameService.SubmitReveal(s.ctx, &SubmitRevealInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Vote:     models.VoteSideYes,
		Salt:     []byte("salt"),
	})
	s.ErrorIs(err, ErrNoCommitment)
}

func (s *GameServiceTestSuite) TestSubmitRevealTwiceFails() {
	salt := []byte("secret-salt")
	game := s.revealGame(map[string]models.VoteSide{s.testPlayerID: models.VoteSideYes}, salt, s.testPlayerID)
	game.Reveals[s.testPlayerID] = &models.Reveal{Round: 1, Vote: models.VoteSideYes, Salt: salt}
	game.RevealCount = 1
	s.expectGetGame(game)

	_, err := s.gameService.SubmitReveal(s.ctx, &SubmitRevealInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Vote:     models.VoteSideYes,
		Salt:     salt,
	})
	s.ErrorIs(err, ErrAlreadyRevealed)
}

func (s *GameServiceTestSuite) TestSubmitRevealAfterDeadline() {
	salt := []byte("secret-salt")
	game := s.revealGame(map[string]models.VoteSide{s.testPlayerID: models.VoteSideYes}, salt, s.testPlayerID)
	game.RevealDeadline = s.testTime.Add(-time.Second)
	s.expectGetGame(game)

	_, err := s.gameService.SubmitReveal(s.ctx, &SubmitRevealInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Vote:     models.VoteSideYes,
		Salt:     salt,
	})
	s.ErrorIs(err, ErrDeadlinePassed)
}

func (s *GameServiceTestSuite) TestSubmitRevealValidation() {
	salt := []byte("secret-salt")
	game := s.revealGame(map[string]models.VoteSide{s.testPlayerID: models.VoteSideYes}, salt, s.testPlayerID)
	s.mockGameRepo.EXPECT().GetGame(s.ctx, gomock.Any()).Return(game, nil).Times(2)

	_, err := s.gameService.SubmitReveal(s.ctx, &SubmitRevealInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Vote:     "maybe",
		Salt:     salt,
	})
	s.ErrorIs(err, ErrInvalidVote)

	_, err = s.gameService.SubmitReveal(s.ctx, &SubmitRevealInput{
		GameID:   s.testGameID,
		PlayerID: s.testPlayerID,
		Vote:     models.VoteSideYes,
	})
	s.ErrorIs(err, ErrEmptyProof)
}
