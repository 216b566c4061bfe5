package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/rpsduel/internal/model"
	"github.com/mcoot/rpsduel/internal/storage"
)

const (
	// TiePoints is awarded to each human player when a round is tied
	TiePoints = 1
	// WinPoints is awarded to the human winner of a decisive round
	WinPoints = 5

	// DefaultLeaderboardSize is used when no limit is requested
	DefaultLeaderboardSize = 10
)

// Service applies round results to persisted scores
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new ScoringService
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "scoring")),
	}
}

// ApplyRound credits points for a resolved round. The bot never scores.
// Every eligible player is attempted even if an earlier write fails.
func (s *Service) ApplyRound(ctx context.Context, result model.RoundResult) error {
	var errs []error
	for _, p := range result.Players {
		if p.IsBotPlayer() {
			continue
		}

		var points int
		switch result.OutcomeFor(p.ID) {
		case model.OutcomeTie:
			points = TiePoints
		case model.OutcomeWon:
			points = WinPoints
		case model.OutcomeLost:
			continue
		}

		if _, err := s.add(ctx, p.ID, points); err != nil {
			s.logger.Error("failed to update score",
				slog.String("player_id", string(p.ID)),
				slog.String("match_id", string(result.MatchID)),
				slog.Int("points", points),
				slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Service) add(ctx context.Context, id model.PlayerID, points int) (int, error) {
	current, err := s.storage.GetScore(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get score: %w", err)
	}
	next := current + points
	if err := s.storage.SetScore(ctx, id, next); err != nil {
		return 0, fmt.Errorf("set score: %w", err)
	}
	return next, nil
}

// Score returns a player's current score
func (s *Service) Score(ctx context.Context, id model.PlayerID) (int, error) {
	return s.storage.GetScore(ctx, id)
}

// Leaderboard returns the highest scores with display names filled in
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	entries, err := s.storage.TopScores(ctx, limit)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].DisplayName = string(entries[i].PlayerID)
		player, err := s.storage.GetPlayer(ctx, entries[i].PlayerID)
		if err != nil {
			// Expired guests keep their score but lose their name
			if !errors.Is(err, model.ErrPlayerNotFound) {
				return nil, err
			}
			continue
		}
		entries[i].DisplayName = player.DisplayName
	}
	return entries, nil
}
