package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/rpsduel/internal/api/middleware"
	"github.com/mcoot/rpsduel/internal/api/request"
	"github.com/mcoot/rpsduel/internal/api/response"
	"github.com/mcoot/rpsduel/internal/model"
	"github.com/mcoot/rpsduel/internal/services/game"
)

// MatchHandler handles endpoints for the player's current match
type MatchHandler struct {
	controller *game.Controller
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(controller *game.Controller) *MatchHandler {
	return &MatchHandler{controller: controller}
}

// StartBot handles POST /api/v1/match/bot
func (h *MatchHandler) StartBot(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	view, err := h.controller.StartBotMatch(r.Context(), *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MatchFromModel(view, player.ID))
}

// Get handles GET /api/v1/match
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	view, err := h.controller.CurrentMatch(player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(view, player.ID))
}

// PickAction handles POST /api/v1/match/action
func (h *MatchHandler) PickAction(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.PickActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	action := model.ActionUnset
	if req.Action != nil {
		parsed, err := model.ParseAction(*req.Action)
		if err != nil {
			WriteError(w, err)
			return
		}
		action = parsed
	}

	if err := h.controller.PickAction(r.Context(), player.ID, action); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
