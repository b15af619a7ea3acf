package services

import (
	"context"

	"github.com/hackathon-hub/registration-api/internal/certificate"
	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/internal/models"
)

// RegistrationServiceInterface defines the interface for registration form operations
type RegistrationServiceInterface interface {
	GetForm(ctx context.Context, hackathonID string) (*models.GetFormResponse, error)
	Submit(ctx context.Context, hackathonID string, req *models.SubmitRegistrationRequest, meta models.SubmissionMeta) (*models.SubmitRegistrationResponse, error)
}

// CertificateServiceInterface defines the interface for certificate calibration and previews
type CertificateServiceInterface interface {
	Calibrate(req *models.CalibrateRequest) certificate.Position
	Preview(ctx context.Context, req *models.PreviewRequest) ([]byte, error)
}

// FormStore loads form schemas; the form cache implements it
type FormStore interface {
	GetByHackathonID(ctx context.Context, hackathonID string) (*forms.FormSchema, error)
	Invalidate(hackathonID string)
}
