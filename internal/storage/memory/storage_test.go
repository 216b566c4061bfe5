package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsduel/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice", IsGuest: true, CreatedAt: time.Now()}

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
	s.True(retrieved.IsGuest)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerReturnsCopy() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1", DisplayName: "Alice"}))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	retrieved.DisplayName = "Mallory"

	again, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", again.DisplayName)
}

func (s *StorageSuite) TestDeletePlayerClearsScore() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1"})
	_ = s.storage.SetScore(s.ctx, "player-1", 10)

	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	score, err := s.storage.GetScore(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(0, score)
}

func (s *StorageSuite) TestRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{PlayerID: "player-1", Username: "alice", PasswordHash: "hash"}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	byID, err := s.storage.GetRegisteredPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)

	byName, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), byName.PlayerID)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestScoreDefaultsToZero() {
	score, err := s.storage.GetScore(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(0, score)
}

func (s *StorageSuite) TestSetAndGetScore() {
	s.Require().NoError(s.storage.SetScore(s.ctx, "player-1", 6))

	score, err := s.storage.GetScore(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(6, score)
}

func (s *StorageSuite) TestTopScores() {
	_ = s.storage.SetScore(s.ctx, "a", 1)
	_ = s.storage.SetScore(s.ctx, "b", 10)
	_ = s.storage.SetScore(s.ctx, "c", 5)

	top, err := s.storage.TopScores(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(model.PlayerID("b"), top[0].PlayerID)
	s.Equal(10, top[0].Score)
	s.Equal(model.PlayerID("c"), top[1].PlayerID)

	all, err := s.storage.TopScores(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}
