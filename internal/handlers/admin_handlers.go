package handlers

import (
	"net/http"

	"stoutscout_backend/internal/services"
	"stoutscout_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler holds operational endpoints.
type AdminHandler struct {
	reconcileService services.ReconcileService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(rs services.ReconcileService) *AdminHandler {
	return &AdminHandler{reconcileService: rs}
}

// ReconcileTotals handles POST /api/admin/reconcile: an on-demand run of the
// total-pints drift repair. Manager only.
func (h *AdminHandler) ReconcileTotals(c *gin.Context) {
	repaired, err := h.reconcileService.ReconcileTotals()
	if err != nil {
		utils.LogError(err, "ReconcileTotals: Error from reconcileService.ReconcileTotals")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to reconcile totals.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Reconciliation complete",
		"patronsUpdated": repaired,
	})
}
