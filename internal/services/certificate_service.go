package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hackathon-hub/registration-api/internal/certificate"
	"github.com/hackathon-hub/registration-api/internal/models"
	apperrors "github.com/hackathon-hub/registration-api/pkg/errors"
	"github.com/hackathon-hub/registration-api/pkg/logger"
	"github.com/hackathon-hub/registration-api/pkg/metrics"
	"github.com/hackathon-hub/registration-api/pkg/tracing"
	"go.uber.org/zap"
)

// ErrInvalidPreview wraps every client-side problem with a preview request
var ErrInvalidPreview = apperrors.InvalidInputError("preview", "cannot be rendered")

// CertificateService calibrates name positions and renders certificate previews
type CertificateService struct {
	maxTemplateBytes  int64
	maxTemplatePixels int64
}

// NewCertificateService creates a certificate service
func NewCertificateService(maxTemplateBytes, maxTemplatePixels int64) *CertificateService {
	return &CertificateService{maxTemplateBytes: maxTemplateBytes, maxTemplatePixels: maxTemplatePixels}
}

// Calibrate converts a click on the template into a normalised position
func (s *CertificateService) Calibrate(req *models.CalibrateRequest) certificate.Position {
	return certificate.Calibrate(req.ClickX, req.ClickY, req.Width, req.Height)
}

// Preview renders the name onto the template and returns PNG bytes
func (s *CertificateService) Preview(ctx context.Context, req *models.PreviewRequest) ([]byte, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "certificate.Preview")
	defer span.End()

	style, err := certificate.ParseStyle(req.Font, req.Color)
	if err != nil {
		metrics.CertificatePreviews.WithLabelValues("invalid_style").Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreview, err)
	}

	tpl, err := certificate.DecodeTemplate(req.Template, s.maxTemplateBytes, s.maxTemplatePixels)
	if err != nil {
		metrics.CertificatePreviews.WithLabelValues("invalid_template").Inc()
		return nil, fmt.Errorf("%w: %w", ErrInvalidPreview, err)
	}

	img, err := certificate.Render(tpl, req.Name, certificate.Position{X: req.X, Y: req.Y}, style, req.Guide)
	if err != nil {
		if errors.Is(err, certificate.ErrEmptyName) {
			metrics.CertificatePreviews.WithLabelValues("invalid_name").Inc()
			return nil, fmt.Errorf("%w: %w", ErrInvalidPreview, err)
		}
		metrics.CertificatePreviews.WithLabelValues("error").Inc()
		tracing.RecordError(span, err)
		logger.LogError(ctx, err, "Failed to render certificate preview")
		return nil, err
	}

	data, err := certificate.EncodePNG(img)
	if err != nil {
		metrics.CertificatePreviews.WithLabelValues("error").Inc()
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.CertificatePreviews.WithLabelValues("success").Inc()
	logger.Debug("Certificate preview rendered",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))

	return data, nil
}
