package handler

import (
	"net/http"

	"github.com/mcoot/rpsduel/internal/api/middleware"
	"github.com/mcoot/rpsduel/internal/api/response"
	"github.com/mcoot/rpsduel/internal/services/game"
)

// MatchmakingHandler handles the matchmaking pool endpoints
type MatchmakingHandler struct {
	controller *game.Controller
}

// NewMatchmakingHandler creates a new matchmaking handler
func NewMatchmakingHandler(controller *game.Controller) *MatchmakingHandler {
	return &MatchmakingHandler{controller: controller}
}

// Start handles POST /api/v1/matchmaking.
// Responds 200 when a match started, 202 while waiting for an opponent.
func (h *MatchmakingHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	status, err := h.controller.StartMatchmaking(r.Context(), *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	code := http.StatusAccepted
	if status.Match != nil {
		code = http.StatusOK
	}
	response.JSON(w, code, response.MatchmakingStatusFromGame(status, player.ID))
}

// Get handles GET /api/v1/matchmaking
func (h *MatchmakingHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.MatchmakingStatusFromGame(h.controller.Status(player.ID), player.ID))
}

// Stop handles DELETE /api/v1/matchmaking. Leaving when not queued is not an error.
func (h *MatchmakingHandler) Stop(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if _, err := h.controller.StopMatchmaking(r.Context(), player.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
