package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"stoutscout_backend/internal/services"
	"stoutscout_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PintHandler holds the pint service.
type PintHandler struct {
	pintService services.PintService
}

// NewPintHandler creates a new PintHandler.
func NewPintHandler(ps services.PintService) *PintHandler {
	return &PintHandler{pintService: ps}
}

// createPintsPayload accepts both POST /api/pints forms: a batch body with a
// pints array, or a single-pour body with top-level patronId/bartenderId.
// Pints is a pointer so an explicitly empty array still routes to the batch
// path and fails its non-empty validation.
type createPintsPayload struct {
	Pints       *[]services.LogPintRequest `json:"pints"`
	PatronID    string                     `json:"patronId"`
	BartenderID string                     `json:"bartenderId"`
}

// CreatePints handles POST /api/pints, dispatching on payload shape.
func (h *PintHandler) CreatePints(c *gin.Context) {
	var payload createPintsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.LogError(err, "CreatePints: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if payload.Pints != nil {
		h.createBatch(c, *payload.Pints)
		return
	}
	h.createSingle(c, payload.PatronID, payload.BartenderID)
}

func (h *PintHandler) createBatch(c *gin.Context, entries []services.LogPintRequest) {
	result, err := h.pintService.LogPints(entries)
	if err != nil {
		respondPintError(c, err, "CreatePints: Error from pintService.LogPints")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Successfully logged %d pints", result.Summary.TotalPints),
		"pints":   result.Pints,
		"summary": result.Summary,
	})
}

func (h *PintHandler) createSingle(c *gin.Context, patronID, bartenderID string) {
	if patronID == "" || bartenderID == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Patron ID and Bartender ID are required.", "Missing patronId or bartenderId"))
		return
	}

	pint, err := h.pintService.LogSinglePint(patronID, bartenderID)
	if err != nil {
		respondPintError(c, err, "CreatePints: Error from pintService.LogSinglePint")
		return
	}
	c.JSON(http.StatusCreated, pint)
}

// GetPints handles GET /api/pints with an optional patron filter.
func (h *PintHandler) GetPints(c *gin.Context) {
	limit, offset := utils.ParseLimitOffset(c.Query("limit"), c.Query("offset"), 50)

	var patronID *string
	if filter := c.Query("patronId"); filter != "" {
		patronID = &filter
	}

	pints, err := h.pintService.GetPints(patronID, limit, offset)
	if err != nil {
		utils.LogError(err, "GetPints: Error from pintService.GetPints")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch pints.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, pints)
}

// UpdatePint handles PATCH /api/pints/:id. The only supported correction is
// action "delete"; pints are never edited in place.
func (h *PintHandler) UpdatePint(c *gin.Context) {
	pintID := c.Param("id")

	var req struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdatePint: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if req.Action != "delete" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid action. Use \"delete\" to remove a pint.", "Unsupported action: "+req.Action))
		return
	}

	if err := h.pintService.DeletePint(pintID); err != nil {
		respondPintError(c, err, "UpdatePint: Error from pintService.DeletePint for ID "+pintID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pint deleted successfully"})
}

// respondPintError maps pint service errors onto the API error envelope.
func respondPintError(c *gin.Context, err error, logContext string) {
	utils.LogError(err, logContext)
	switch {
	case errors.Is(err, services.ErrPintValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrPatronNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "One or more patrons not found.", err.Error()))
	case errors.Is(err, services.ErrBartenderNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "One or more bartenders not found.", err.Error()))
	case errors.Is(err, services.ErrPintNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Pint not found.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process pints.", "Internal error"))
	}
}
