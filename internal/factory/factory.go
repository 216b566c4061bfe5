package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/rpsduel/internal/dependencies/clock"
	"github.com/mcoot/rpsduel/internal/dependencies/random"
	"github.com/mcoot/rpsduel/internal/dependencies/scheduler"
	"github.com/mcoot/rpsduel/internal/metrics"
	"github.com/mcoot/rpsduel/internal/services/auth"
	"github.com/mcoot/rpsduel/internal/services/game"
	"github.com/mcoot/rpsduel/internal/services/match"
	"github.com/mcoot/rpsduel/internal/services/scoring"
	"github.com/mcoot/rpsduel/internal/services/screen"
	"github.com/mcoot/rpsduel/internal/sse"
	"github.com/mcoot/rpsduel/internal/storage"
	"github.com/mcoot/rpsduel/internal/storage/memory"
	redisstorage "github.com/mcoot/rpsduel/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// HubCleanupInterval is how often SSE hubs without streams are dropped
const HubCleanupInterval = time.Minute

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Scheduler scheduler.Scheduler

	// Observability
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	// Transport
	HubManager   *sse.HubManager
	Publisher    *sse.Publisher
	ScreenRouter *screen.Router

	// Services
	AuthService    *auth.Service
	ScoringService *scoring.Service
	MatchManager   *match.Manager
	GameController *game.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// MatchConfig holds the round timings (optional)
	// If zero value, defaults to match.DefaultConfig()
	MatchConfig match.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Registry receives the application metrics (optional)
	// If nil, a fresh registry is created
	Registry *prometheus.Registry
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Use defaults for anything not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	matchCfg := cfg.MatchConfig
	if matchCfg.RoundDuration == 0 {
		matchCfg = match.DefaultConfig()
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return newWithDependencies(store, clock.New(), random.New(), scheduler.New(), reg, authCfg, matchCfg, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	sched scheduler.Scheduler,
	reg *prometheus.Registry,
	authCfg auth.Config,
	matchCfg match.Config,
	logger *slog.Logger,
) (*App, error) {
	m := metrics.New(reg)

	hubManager := sse.NewHubManager(logger)
	publisher := sse.NewPublisher(hubManager, logger)
	screenRouter := screen.New(publisher, logger)

	authService := auth.New(store, clk, rnd, authCfg, logger)
	scoringService := scoring.New(store, logger)
	matchManager := match.NewManager(matchCfg, screenRouter, scoringService, sched, clk, rnd, m, logger)
	gameController, err := game.NewController(matchManager, m, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Scheduler:      sched,
		Metrics:        m,
		Registry:       reg,
		HubManager:     hubManager,
		Publisher:      publisher,
		ScreenRouter:   screenRouter,
		AuthService:    authService,
		ScoringService: scoringService,
		MatchManager:   matchManager,
		GameController: gameController,
	}, nil
}

// StartHousekeeping starts the periodic session sweep and SSE hub cleanup.
// The returned func stops both.
func (a *App) StartHousekeeping() func() {
	sweeper := a.AuthService.StartSweeper(a.Scheduler)
	cleanup := a.Scheduler.Every(HubCleanupInterval, func() {
		a.HubManager.CleanupEmptyHubs()
	})
	return func() {
		sweeper.Stop()
		cleanup.Stop()
	}
}

// Close stops every match, disconnects every stream and closes the storage backend
func (a *App) Close() error {
	a.MatchManager.Close()
	a.HubManager.Close()
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
