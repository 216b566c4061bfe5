package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/rpsduel/internal/api/middleware"
	"github.com/mcoot/rpsduel/internal/api/request"
	"github.com/mcoot/rpsduel/internal/api/response"
	"github.com/mcoot/rpsduel/internal/services/auth"
	"github.com/mcoot/rpsduel/internal/services/game"
	"github.com/mcoot/rpsduel/internal/services/scoring"
	"github.com/mcoot/rpsduel/internal/sse"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService *auth.Service
	game        game.ControllerInterface
	scoring     *scoring.Service
	publisher   *sse.Publisher
	hubs        *sse.HubManager
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(
	authService *auth.Service,
	gameController game.ControllerInterface,
	scoringService *scoring.Service,
	publisher *sse.Publisher,
	hubs *sse.HubManager,
) *PlayerHandler {
	return &PlayerHandler{
		authService: authService,
		game:        gameController,
		scoring:     scoringService,
		publisher:   publisher,
		hubs:        hubs,
	}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	session, err := h.authService.CreateGuestPlayer(r.Context(), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	score, err := h.scoring.Score(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Me{
		Player: response.PlayerFromModel(*player),
		Score:  score,
	})
}

// Logout handles POST /api/v1/players/me/logout.
// The player leaves the matchmaking pool; a running match plays out without them.
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		WriteError(w, NewUnauthorizedError())
		return
	}

	if _, err := h.game.StopMatchmaking(r.Context(), session.PlayerID); err != nil {
		WriteError(w, err)
		return
	}
	h.authService.Logout(r.Context(), session.Token)

	response.NoContent(w)
}

// GetState handles GET /api/v1/players/me/state
func (h *PlayerHandler) GetState(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerStateFromModel(h.publisher.Snapshot(player.ID)))
}

// Events handles GET /api/v1/players/me/events
func (h *PlayerHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	sse.ServeSSE(w, r, h.hubs, player.ID, h.publisher.Replay(player.ID))
}
