package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsduel/internal/dependencies/mocks"
	"github.com/mcoot/rpsduel/internal/model"
	"github.com/mcoot/rpsduel/internal/services/match"
	"github.com/mcoot/rpsduel/internal/services/matchmaking"
	"github.com/mcoot/rpsduel/internal/services/scoring"
	"github.com/mcoot/rpsduel/internal/services/screen"
	"github.com/mcoot/rpsduel/internal/storage/memory"
	"github.com/mcoot/rpsduel/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	transport  *testutil.RecordingTransport
	scheduler  *mocks.MockScheduler
	random     *mocks.MockRandom
	matches    *match.Manager
	controller *Controller
	ctx        context.Context

	alice model.Player
	bob   model.Player
	carol model.Player
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.transport = testutil.NewRecordingTransport()
	s.scheduler = mocks.NewMockScheduler()
	s.random = mocks.NewMockRandom()
	s.matches = match.NewManager(
		match.DefaultConfig(),
		screen.New(s.transport, logger),
		scoring.New(s.storage, logger),
		s.scheduler,
		mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)),
		s.random,
		nil,
		logger,
	)

	controller, err := NewController(s.matches, nil, logger)
	s.Require().NoError(err)
	s.controller = controller
	s.ctx = context.Background()

	s.alice = model.Player{ID: "alice", DisplayName: "Alice"}
	s.bob = model.Player{ID: "bob", DisplayName: "Bob"}
	s.carol = model.Player{ID: "carol", DisplayName: "Carol"}
}

func (s *ControllerSuite) score(id model.PlayerID) int {
	score, err := s.storage.GetScore(s.ctx, id)
	s.Require().NoError(err)
	return score
}

func (s *ControllerSuite) TestFirstPlayerWaits() {
	status, err := s.controller.StartMatchmaking(s.ctx, s.alice)
	s.Require().NoError(err)

	s.True(status.Waiting)
	s.Equal(1, status.QueueSize)
	s.Nil(status.Match)
}

func (s *ControllerSuite) TestSecondPlayerStartsMatch() {
	_, err := s.controller.StartMatchmaking(s.ctx, s.alice)
	s.Require().NoError(err)

	status, err := s.controller.StartMatchmaking(s.ctx, s.bob)
	s.Require().NoError(err)

	s.False(status.Waiting)
	s.Require().NotNil(status.Match)
	s.Equal(s.alice, status.Match.Opponent)
	s.Equal(model.MatchKindPvP, status.Match.Kind)
	s.Equal(model.ScreenBattle, s.transport.LastScreen("alice"))
}

func (s *ControllerSuite) TestPlayerInMatchCannotQueue() {
	_, _ = s.controller.StartMatchmaking(s.ctx, s.alice)
	_, _ = s.controller.StartMatchmaking(s.ctx, s.bob)

	_, err := s.controller.StartMatchmaking(s.ctx, s.alice)
	s.ErrorIs(err, model.ErrAlreadyInMatch)
}

func (s *ControllerSuite) TestStopMatchmaking() {
	_, _ = s.controller.StartMatchmaking(s.ctx, s.alice)

	removed, err := s.controller.StopMatchmaking(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(removed)

	removed, err = s.controller.StopMatchmaking(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(removed)

	status, err := s.controller.StartMatchmaking(s.ctx, s.bob)
	s.Require().NoError(err)
	s.True(status.Waiting)
}

func (s *ControllerSuite) TestBotMatchLeavesPool() {
	_, _ = s.controller.StartMatchmaking(s.ctx, s.alice)

	view, err := s.controller.StartBotMatch(s.ctx, s.alice)
	s.Require().NoError(err)

	s.Equal(model.MatchKindBot, view.Kind)
	s.Equal(model.BotPlayer(), view.Opponent)
	s.False(s.controller.Status("alice").Waiting)

	// bob must not be paired with alice now that she is playing the bot
	status, err := s.controller.StartMatchmaking(s.ctx, s.bob)
	s.Require().NoError(err)
	s.True(status.Waiting)
}

func (s *ControllerSuite) TestBotMatchRejectedWhileInMatch() {
	_, _ = s.controller.StartBotMatch(s.ctx, s.alice)

	_, err := s.controller.StartBotMatch(s.ctx, s.alice)
	s.ErrorIs(err, model.ErrAlreadyInMatch)
}

func (s *ControllerSuite) TestPickActionWithoutMatch() {
	err := s.controller.PickAction(s.ctx, "alice", model.ActionRock)
	s.ErrorIs(err, model.ErrNotInMatch)
}

func (s *ControllerSuite) TestPairThatCannotStartIsRequeued() {
	// carol is already playing the bot when the matchmaker pairs her
	_, _ = s.controller.StartMatchmaking(s.ctx, s.carol)
	_, err := s.matches.StartBotMatch(s.ctx, s.carol)
	s.Require().NoError(err)

	status, err := s.controller.StartMatchmaking(s.ctx, s.alice)
	s.Require().NoError(err)

	s.True(status.Waiting)
	s.Nil(status.Match)
	s.False(s.controller.Status("carol").Waiting)
}

func (s *ControllerSuite) TestRequeueDuringHandoffIsRejected() {
	// alice queues again from another request while her party is being handed to the match manager
	type result struct{ err error }
	retry := make(chan result, 1)
	handoff := func(ctx context.Context, players []model.Player) {
		done := make(chan struct{})
		go func() {
			_, err := s.controller.StartMatchmaking(ctx, s.alice)
			retry <- result{err}
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(50 * time.Millisecond):
		}
		s.controller.onMatch(ctx, players)
	}
	mm, err := matchmaking.New(matchmaking.PartySize, handoff, nil, testutil.NopLogger())
	s.Require().NoError(err)
	s.controller.matchmaker = mm

	_, _ = s.controller.StartMatchmaking(s.ctx, s.alice)
	status, err := s.controller.StartMatchmaking(s.ctx, s.bob)
	s.Require().NoError(err)
	s.Require().NotNil(status.Match)

	select {
	case r := <-retry:
		s.ErrorIs(r.err, model.ErrAlreadyInMatch)
	case <-time.After(time.Second):
		s.Fail("requeue during handoff never returned")
	}
	s.True(s.matches.InMatch("alice"))
	s.False(s.controller.Status("alice").Waiting)
	s.Equal(0, s.controller.Status("alice").QueueSize)
}

// Scenario: two players queue, both pick rock, tie, a new round starts
func (s *ControllerSuite) TestTieScenario() {
	_, _ = s.controller.StartMatchmaking(s.ctx, s.alice)
	_, _ = s.controller.StartMatchmaking(s.ctx, s.bob)
	s.Require().NoError(s.controller.PickAction(s.ctx, "alice", model.ActionRock))
	s.Require().NoError(s.controller.PickAction(s.ctx, "bob", model.ActionRock))

	s.scheduler.Advance(6 * time.Second)
	s.Equal(1, s.score("alice"))
	s.Equal(1, s.score("bob"))

	s.scheduler.Advance(2 * time.Second)
	view, err := s.controller.CurrentMatch("alice")
	s.Require().NoError(err)
	s.Equal(2, view.Round)
	s.Equal(model.PhaseCountdown, view.Phase)
}

// Scenario: paper beats rock, the winner scores 5 and both return to the menu
func (s *ControllerSuite) TestWinScenario() {
	_, _ = s.controller.StartMatchmaking(s.ctx, s.alice)
	_, _ = s.controller.StartMatchmaking(s.ctx, s.bob)
	s.Require().NoError(s.controller.PickAction(s.ctx, "alice", model.ActionPaper))
	s.Require().NoError(s.controller.PickAction(s.ctx, "bob", model.ActionRock))

	s.scheduler.Advance(8 * time.Second)

	s.Equal(5, s.score("alice"))
	s.Equal(0, s.score("bob"))
	s.Equal(model.ScreenMainMenu, s.transport.LastScreen("alice"))
	s.Equal(model.ScreenMainMenu, s.transport.LastScreen("bob"))
	s.Nil(s.controller.Status("alice").Match)

	// Both can queue again
	_, err := s.controller.StartMatchmaking(s.ctx, s.alice)
	s.NoError(err)
}

// Scenario: a bot match where the player never picks still resolves
func (s *ControllerSuite) TestBotScenarioWithoutPick() {
	_, err := s.controller.StartBotMatch(s.ctx, s.alice)
	s.Require().NoError(err)
	s.random.QueueIntn(2, 1) // alice scissors, bot paper

	s.scheduler.Advance(6 * time.Second)

	view, err := s.controller.CurrentMatch("alice")
	s.Require().NoError(err)
	s.Equal(model.PhaseResultDisplay, view.Phase)
	s.Equal(model.ActionScissors, view.SelectedAction)
	s.Equal(5, s.score("alice"))
}
