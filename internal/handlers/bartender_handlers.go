package handlers

import (
	"net/http"

	"stoutscout_backend/internal/services"
	"stoutscout_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BartenderHandler holds the staff listing service.
type BartenderHandler struct {
	staffService services.StaffService
}

// NewBartenderHandler creates a new BartenderHandler.
func NewBartenderHandler(ss services.StaffService) *BartenderHandler {
	return &BartenderHandler{staffService: ss}
}

// GetBartenders handles GET /api/bartenders, backing the pour-form picker.
func (h *BartenderHandler) GetBartenders(c *gin.Context) {
	limit, offset := utils.ParseLimitOffset(c.Query("limit"), c.Query("offset"), 50)

	bartenders, err := h.staffService.GetBartenders(limit, offset)
	if err != nil {
		utils.LogError(err, "GetBartenders: Error from staffService.GetBartenders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch bartenders.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, bartenders)
}
