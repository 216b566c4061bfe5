package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsduel/internal/api/handler"
	"github.com/mcoot/rpsduel/internal/api/middleware"
	"github.com/mcoot/rpsduel/internal/services/auth"
	"github.com/mcoot/rpsduel/internal/services/game"
	"github.com/mcoot/rpsduel/internal/services/scoring"
	"github.com/mcoot/rpsduel/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController *game.Controller
	ScoringService *scoring.Service
	Publisher      *sse.Publisher
	HubManager     *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.GameController, cfg.ScoringService, cfg.Publisher, cfg.HubManager)
	matchmakingHandler := handler.NewMatchmakingHandler(cfg.GameController)
	matchHandler := handler.NewMatchHandler(cfg.GameController)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.ScoringService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	// Protected player routes
	playerProtected := api.PathPrefix("/players/me").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/state", playerHandler.GetState).Methods(http.MethodGet)
	playerProtected.HandleFunc("/events", playerHandler.Events).Methods(http.MethodGet)
	playerProtected.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Matchmaking routes
	matchmaking := api.PathPrefix("/matchmaking").Subrouter()
	matchmaking.Use(authMiddleware)
	matchmaking.HandleFunc("", matchmakingHandler.Start).Methods(http.MethodPost)
	matchmaking.HandleFunc("", matchmakingHandler.Get).Methods(http.MethodGet)
	matchmaking.HandleFunc("", matchmakingHandler.Stop).Methods(http.MethodDelete)

	// Match routes
	matches := api.PathPrefix("/match").Subrouter()
	matches.Use(authMiddleware)
	matches.HandleFunc("", matchHandler.Get).Methods(http.MethodGet)
	matches.HandleFunc("/bot", matchHandler.StartBot).Methods(http.MethodPost)
	matches.HandleFunc("/action", matchHandler.PickAction).Methods(http.MethodPost)

	// Public routes
	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
