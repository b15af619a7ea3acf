package models

import (
	"time"

	"github.com/hackathon-hub/registration-api/internal/forms"
)

// Submission statuses
const (
	SubmissionPending  = "pending"
	SubmissionApproved = "approved"
	SubmissionRejected = "rejected"
)

// GetFormResponse is returned by GET /api/hackathons/:id/register-form
type GetFormResponse struct {
	Form   *forms.FormSchema `json:"form"`
	Status forms.GateState   `json:"status"`
	// Seconds until the gate changes state, omitted when no transition is pending
	NextTransitionIn *int64 `json:"nextTransitionIn,omitempty"`
}

// SubmitRegistrationRequest is the body of POST /api/hackathons/:id/register-form
type SubmitRegistrationRequest struct {
	FormID string        `json:"formId" binding:"required,uuid"`
	Data   forms.Answers `json:"data" binding:"required"`
}

// SubmitRegistrationResponse is returned after a registration attempt
type SubmitRegistrationResponse struct {
	Success           bool           `json:"success"`
	SubmissionID      string         `json:"submissionId,omitempty"`
	Status            string         `json:"status,omitempty"`
	Message           string         `json:"message,omitempty"`
	RedirectURL       string         `json:"redirectUrl,omitempty"`
	Error             string         `json:"error,omitempty"`
	Details           forms.ErrorMap `json:"details,omitempty"`
	AlreadyRegistered bool           `json:"alreadyRegistered,omitempty"`
	GateStatus        string         `json:"gateStatus,omitempty"`
}

// Submission is a stored registration
type Submission struct {
	ID            string
	FormID        string
	HackathonID   string
	RespondentKey string
	Data          forms.Answers
	Status        string
	ClientIP      string
	UserAgent     string
	CreatedAt     time.Time
}

// SubmissionMeta carries request metadata stored alongside a submission
type SubmissionMeta struct {
	ClientIP  string
	UserAgent string
}
