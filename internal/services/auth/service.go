package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rpsduel/internal/dependencies/clock"
	"github.com/mcoot/rpsduel/internal/dependencies/random"
	"github.com/mcoot/rpsduel/internal/dependencies/scheduler"
	"github.com/mcoot/rpsduel/internal/model"
	"github.com/mcoot/rpsduel/internal/storage"
)

var ErrInvalidSession = errors.New("invalid or expired session")

const (
	idAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	playerIDLength = 16
	tokenLength    = 32

	// MaxNameLength bounds display names and usernames
	MaxNameLength = 32
)

// Session is an authenticated player session
type Session struct {
	Token     string
	PlayerID  model.PlayerID
	Player    model.Player
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// SweepInterval is how often expired sessions are purged
	SweepInterval time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		SweepInterval:   10 * time.Minute,
	}
}

// Service handles player identity and in-memory sessions
type Service struct {
	storage storage.PlayerStore
	clock   clock.Clock
	random  random.Random
	cfg     Config
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates a new AuthService
func New(storage storage.PlayerStore, clock clock.Clock, random random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = DefaultConfig().SweepInterval
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		random:   random,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "auth")),
		sessions: make(map[string]*Session),
	}
}

// CreateGuestPlayer creates an anonymous player and session
func (s *Service) CreateGuestPlayer(ctx context.Context, displayName string) (*Session, error) {
	displayName, err := validateName(displayName)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		ID:          s.newPlayerID(),
		DisplayName: displayName,
		IsGuest:     true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}

	s.logger.Info("guest created", slog.String("player_id", string(player.ID)))
	return s.createSession(player), nil
}

// RegisterPlayer creates an account with a username and password
func (s *Service) RegisterPlayer(ctx context.Context, username, password, displayName string) (*Session, error) {
	username, err := validateName(username)
	if err != nil {
		return nil, err
	}
	if displayName == "" {
		displayName = username
	}
	displayName, err = validateName(displayName)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, model.ErrInvalidCredential
	}

	_, err = s.storage.GetRegisteredPlayerByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:          s.newPlayerID(),
		DisplayName: displayName,
		CreatedAt:   now,
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	if err := s.storage.SaveRegisteredPlayer(ctx, &model.RegisteredPlayer{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username))
	return s.createSession(player), nil
}

// Login checks a username and password and opens a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	rp, err := s.storage.GetRegisteredPlayerByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrInvalidCredential
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rp.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredential
	}

	player, err := s.storage.GetPlayer(ctx, rp.PlayerID)
	if err != nil {
		return nil, err
	}
	return s.createSession(player), nil
}

// ValidateSession returns the session for a token if it has not expired.
// Expired sessions stay in place until the sweeper removes them and their guests.
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}
	if s.clock.Now().After(session.ExpiresAt) {
		return nil, ErrInvalidSession
	}
	return session, nil
}

// Logout ends a session. A guest has no way back in, so the guest's identity is removed too.
func (s *Service) Logout(ctx context.Context, token string) {
	s.mu.Lock()
	session, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		s.forgetGuests(ctx, []*Session{session})
	}
}

// CleanExpiredSessions removes expired sessions and returns how many were removed.
// Guests whose session expired are deleted from storage along with their score.
func (s *Service) CleanExpiredSessions(ctx context.Context) int {
	now := s.clock.Now()
	var expired []*Session

	s.mu.Lock()
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			expired = append(expired, session)
		}
	}
	s.mu.Unlock()

	s.forgetGuests(ctx, expired)
	return len(expired)
}

func (s *Service) forgetGuests(ctx context.Context, sessions []*Session) {
	for _, session := range sessions {
		if !session.Player.IsGuest {
			continue
		}
		if err := s.storage.DeletePlayer(ctx, session.PlayerID); err != nil {
			s.logger.Error("failed to delete guest player",
				slog.String("player_id", string(session.PlayerID)),
				slog.String("error", err.Error()))
		}
	}
}

// StartSweeper purges expired sessions on the configured interval until the timer is stopped
func (s *Service) StartSweeper(sched scheduler.Scheduler) scheduler.Timer {
	return sched.Every(s.cfg.SweepInterval, func() {
		if n := s.CleanExpiredSessions(context.Background()); n > 0 {
			s.logger.Debug("expired sessions removed", slog.Int("count", n))
		}
	})
}

func (s *Service) createSession(player *model.Player) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     "sess_" + s.random.String(tokenLength, idAlphabet),
		PlayerID:  player.ID,
		Player:    *player,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

func (s *Service) newPlayerID() model.PlayerID {
	return model.PlayerID("p_" + s.random.String(playerIDLength, idAlphabet))
}

// validateName trims a name and rejects empty, overlong or reserved ones
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		return "", fmt.Errorf("%w: must be 1-%d characters", model.ErrInvalidName, MaxNameLength)
	}
	if strings.EqualFold(name, string(model.BotPlayerID)) {
		return "", model.ErrReservedName
	}
	return name, nil
}
