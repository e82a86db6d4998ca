package handlers

import (
	"errors"
	"net/http"

	"stoutscout_backend/internal/services"
	"stoutscout_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PatronHandler holds the patron service.
type PatronHandler struct {
	patronService services.PatronService
}

// NewPatronHandler creates a new PatronHandler.
func NewPatronHandler(ps services.PatronService) *PatronHandler {
	return &PatronHandler{patronService: ps}
}

// CreatePatron handles the creation of a new patron.
func (h *PatronHandler) CreatePatron(c *gin.Context) {
	var req services.CreatePatronRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreatePatron: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Name is required.", err.Error()))
		return
	}

	patron, err := h.patronService.CreatePatron(req)
	if err != nil {
		utils.LogError(err, "CreatePatron: Error from patronService.CreatePatron")
		if errors.Is(err, services.ErrPatronValidation) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create patron.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, patron)
}

// GetPatrons handles listing patrons with optional search and pagination.
func (h *PatronHandler) GetPatrons(c *gin.Context) {
	limit, offset := utils.ParseLimitOffset(c.Query("limit"), c.Query("offset"), 50)

	var searchTerm *string
	if search := c.Query("search"); search != "" {
		searchTerm = &search
	}

	patrons, err := h.patronService.GetPatrons(limit, offset, searchTerm)
	if err != nil {
		utils.LogError(err, "GetPatrons: Error from patronService.GetPatrons")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch patrons.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, patrons)
}

// GetPatronByID handles fetching a single patron with their recent pours.
func (h *PatronHandler) GetPatronByID(c *gin.Context) {
	patronID := c.Param("id")

	patron, err := h.patronService.GetPatronByID(patronID)
	if err != nil {
		utils.LogError(err, "GetPatronByID: Error from patronService.GetPatronByID for ID "+patronID)
		if errors.Is(err, services.ErrPatronNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Patron not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch patron.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, patron)
}

// UpdatePatron handles partial updates of a patron.
func (h *PatronHandler) UpdatePatron(c *gin.Context) {
	patronID := c.Param("id")

	var req services.UpdatePatronRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdatePatron: Failed to bind JSON for ID "+patronID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	patron, err := h.patronService.UpdatePatron(patronID, req)
	if err != nil {
		utils.LogError(err, "UpdatePatron: Error from patronService.UpdatePatron for ID "+patronID)
		if errors.Is(err, services.ErrPatronNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Patron not found.", err.Error()))
		} else if errors.Is(err, services.ErrPatronValidation) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update patron.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, patron)
}
