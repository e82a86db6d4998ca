package handlers

import (
	"net/http"

	"stoutscout_backend/internal/services"
	"stoutscout_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MilestoneHandler holds the milestone service.
type MilestoneHandler struct {
	milestoneService services.MilestoneService
}

// NewMilestoneHandler creates a new MilestoneHandler.
func NewMilestoneHandler(ms services.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{milestoneService: ms}
}

// GetMilestones handles GET /api/milestones.
func (h *MilestoneHandler) GetMilestones(c *gin.Context) {
	milestones, err := h.milestoneService.GetMilestones()
	if err != nil {
		utils.LogError(err, "GetMilestones: Error from milestoneService.GetMilestones")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch milestones.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, milestones)
}
