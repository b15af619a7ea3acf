package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackathon-hub/registration-api/internal/models"
	"github.com/hackathon-hub/registration-api/internal/services"
)

// CertificateHandler serves the certificate calibration tools
type CertificateHandler struct {
	service services.CertificateServiceInterface
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(service services.CertificateServiceInterface) *CertificateHandler {
	return &CertificateHandler{service: service}
}

// Calibrate handles POST /api/v1/certificates/calibrate
func (h *CertificateHandler) Calibrate(c *gin.Context) {
	var req models.CalibrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pos := h.service.Calibrate(&req)
	c.JSON(http.StatusOK, models.CalibrateResponse{X: pos.X, Y: pos.Y})
}

// Preview handles POST /api/v1/certificates/preview and returns a PNG
func (h *CertificateHandler) Preview(c *gin.Context) {
	var req models.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	data, err := h.service.Preview(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPreview) {
			respondError(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to render preview", err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", data)
}
