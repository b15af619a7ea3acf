package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackathon-hub/registration-api/internal/models"
	"github.com/hackathon-hub/registration-api/internal/services"
	apperrors "github.com/hackathon-hub/registration-api/pkg/errors"
)

// RegistrationHandler serves the hackathon registration form endpoints
type RegistrationHandler struct {
	service services.RegistrationServiceInterface
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(service services.RegistrationServiceInterface) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// GetForm handles GET /api/hackathons/:id/register-form
func (h *RegistrationHandler) GetForm(c *gin.Context) {
	hackathonID := c.Param("id")
	if hackathonID == "" {
		respondError(c, http.StatusBadRequest, "Missing hackathon ID", nil)
		return
	}

	resp, err := h.service.GetForm(c.Request.Context(), hackathonID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			respondError(c, http.StatusNotFound, "Registration form not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to load registration form", err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.JSON(http.StatusOK, resp)
}

// Submit handles POST /api/hackathons/:id/register-form
func (h *RegistrationHandler) Submit(c *gin.Context) {
	hackathonID := c.Param("id")
	if hackathonID == "" {
		respondError(c, http.StatusBadRequest, "Missing hackathon ID", nil)
		return
	}

	var req models.SubmitRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	meta := models.SubmissionMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	resp, err := h.service.Submit(c.Request.Context(), hackathonID, &req, meta)
	if err != nil {
		recordError(c, err)
		if resp == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(submitStatus(err), resp)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// submitStatus maps the error category of a rejected submission to its status code
func submitStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
