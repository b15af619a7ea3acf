package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hackathon-hub/registration-api/internal/certificate"
	"github.com/hackathon-hub/registration-api/internal/models"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) GetForm(ctx context.Context, hackathonID string) (*models.GetFormResponse, error) {
	args := m.Called(ctx, hackathonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GetFormResponse), args.Error(1)
}

func (m *MockRegistrationService) Submit(ctx context.Context, hackathonID string, req *models.SubmitRegistrationRequest, meta models.SubmissionMeta) (*models.SubmitRegistrationResponse, error) {
	args := m.Called(ctx, hackathonID, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitRegistrationResponse), args.Error(1)
}

type MockCertificateService struct {
	mock.Mock
}

func (m *MockCertificateService) Calibrate(req *models.CalibrateRequest) certificate.Position {
	args := m.Called(req)
	return args.Get(0).(certificate.Position)
}

func (m *MockCertificateService) Preview(ctx context.Context, req *models.PreviewRequest) ([]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
