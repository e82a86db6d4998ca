package handlers

import (
	"net/http"

	"stoutscout_backend/internal/services"
	"stoutscout_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// LeaderboardHandler holds the leaderboard service.
type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// GetLeaderboard handles GET /api/leaderboard.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, offset := utils.ParseLimitOffset(c.Query("limit"), c.Query("offset"), 10)

	entries, err := h.leaderboardService.GetLeaderboard(limit, offset)
	if err != nil {
		utils.LogError(err, "GetLeaderboard: Error from leaderboardService.GetLeaderboard")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch leaderboard.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, entries)
}
