package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/rpsduel/internal/api/response"
	"github.com/mcoot/rpsduel/internal/services/scoring"
)

// MaxLeaderboardLimit caps the limit query parameter
const MaxLeaderboardLimit = 100

// LeaderboardHandler serves the score table
type LeaderboardHandler struct {
	scoring *scoring.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(scoringService *scoring.Service) *LeaderboardHandler {
	return &LeaderboardHandler{scoring: scoringService}
}

// Get handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit := scoring.DefaultLeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxLeaderboardLimit {
			WriteError(w, NewInvalidRequestError("limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	entries, err := h.scoring.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(entries))
}
