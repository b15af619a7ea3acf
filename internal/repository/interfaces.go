package repository

import (
	"context"
	"errors"

	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/internal/models"
)

var (
	// ErrFormNotFound is returned when a hackathon has no registration form
	ErrFormNotFound = errors.New("registration form not found")
	// ErrDuplicateSubmission is returned when the respondent already registered for the form
	ErrDuplicateSubmission = errors.New("duplicate submission")
)

// FormRepositoryInterface reads and stores registration form schemas
type FormRepositoryInterface interface {
	// GetByHackathonID returns the form of a hackathon or ErrFormNotFound
	GetByHackathonID(ctx context.Context, hackathonID string) (*forms.FormSchema, error)

	// Upsert stores a form, replacing the previous form of the same hackathon
	Upsert(ctx context.Context, form *forms.FormSchema) (string, error)
}

// SubmissionRepositoryInterface stores registration submissions
type SubmissionRepositoryInterface interface {
	// Create inserts a submission; ErrDuplicateSubmission on a respondent key conflict
	Create(ctx context.Context, submission *models.Submission) error
}
