package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsduel/internal/model"
	"github.com/mcoot/rpsduel/internal/storage/memory"
	"github.com/mcoot/rpsduel/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
	alice   model.Player
	bob     model.Player
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
	s.alice = model.Player{ID: "alice", DisplayName: "Alice"}
	s.bob = model.Player{ID: "bob", DisplayName: "Bob"}
}

func (s *ServiceSuite) score(id model.PlayerID) int {
	score, err := s.storage.GetScore(s.ctx, id)
	s.Require().NoError(err)
	return score
}

func (s *ServiceSuite) TestTieCreditsBothPlayers() {
	_ = s.storage.SetScore(s.ctx, "alice", 3)

	err := s.service.ApplyRound(s.ctx, model.RoundResult{Players: [2]model.Player{s.alice, s.bob}})
	s.Require().NoError(err)

	s.Equal(4, s.score("alice"))
	s.Equal(1, s.score("bob"))
}

func (s *ServiceSuite) TestWinCreditsOnlyWinner() {
	winner := s.alice.ID
	err := s.service.ApplyRound(s.ctx, model.RoundResult{
		Players: [2]model.Player{s.alice, s.bob},
		Winner:  &winner,
	})
	s.Require().NoError(err)

	s.Equal(5, s.score("alice"))
	s.Equal(0, s.score("bob"))
}

func (s *ServiceSuite) TestBotNeverScores() {
	bot := model.BotPlayer()

	s.Require().NoError(s.service.ApplyRound(s.ctx, model.RoundResult{Players: [2]model.Player{s.alice, bot}}))
	botWins := bot.ID
	s.Require().NoError(s.service.ApplyRound(s.ctx, model.RoundResult{
		Players: [2]model.Player{s.alice, bot},
		Winner:  &botWins,
	}))

	s.Equal(1, s.score("alice"))
	s.Equal(0, s.score(model.BotPlayerID))
}

func (s *ServiceSuite) TestStorageErrorIsReturned() {
	failing := &failingScores{Storage: s.storage, err: errors.New("redis down")}
	service := New(failing, testutil.NopLogger())

	err := service.ApplyRound(s.ctx, model.RoundResult{Players: [2]model.Player{s.alice, s.bob}})
	s.ErrorContains(err, "redis down")
}

func (s *ServiceSuite) TestLeaderboardFillsNames() {
	_ = s.storage.SavePlayer(s.ctx, &s.alice)
	_ = s.storage.SetScore(s.ctx, "alice", 10)
	_ = s.storage.SetScore(s.ctx, "ghost", 3)

	entries, err := s.service.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("Alice", entries[0].DisplayName)
	s.Equal(10, entries[0].Score)
	s.Equal("ghost", entries[1].DisplayName)
}

type failingScores struct {
	*memory.Storage
	err error
}

func (f *failingScores) SetScore(ctx context.Context, id model.PlayerID, score int) error {
	return f.err
}
