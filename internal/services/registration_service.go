package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hackathon-hub/registration-api/config"
	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/internal/models"
	"github.com/hackathon-hub/registration-api/internal/repository"
	apperrors "github.com/hackathon-hub/registration-api/pkg/errors"
	"github.com/hackathon-hub/registration-api/pkg/httpclient"
	"github.com/hackathon-hub/registration-api/pkg/logger"
	"github.com/hackathon-hub/registration-api/pkg/metrics"
	"github.com/hackathon-hub/registration-api/pkg/trigger"
	"go.uber.org/zap"
)

var (
	ErrFormNotFound      = apperrors.NotFoundError("registration form")
	ErrFormMismatch      = apperrors.NotFoundError("form for this hackathon")
	ErrFormUnavailable   = apperrors.ForbiddenError("registration form does not accept submissions")
	ErrValidationFailed  = apperrors.InvalidInputError("data", "registration data is invalid")
	ErrAlreadyRegistered = apperrors.ConflictError("respondent already registered")
)

// User-facing messages
const (
	msgFormNotFound      = "نموذج التسجيل غير متوفر"
	msgFormDisabled      = "التسجيل غير متاح حالياً"
	msgFormNotYetOpen    = "لم يبدأ التسجيل بعد"
	msgFormClosed        = "انتهى التسجيل"
	msgValidationFailed  = "يرجى تصحيح الأخطاء في النموذج"
	msgAlreadyRegistered = "لقد قمت بالتسجيل مسبقاً في هذا الهاكاثون"
	msgSubmitFailed      = "حدث خطأ أثناء إرسال التسجيل، يرجى المحاولة مرة أخرى"
	msgApproved          = "تم التسجيل بنجاح"
	msgPending           = "تم استلام طلب التسجيل وسيتم مراجعته"
)

var gateMessages = map[forms.GateState]string{
	forms.GateDisabled:   msgFormDisabled,
	forms.GateNotYetOpen: msgFormNotYetOpen,
	forms.GateClosed:     msgFormClosed,
}

// RegistrationService serves registration forms and accepts submissions
type RegistrationService struct {
	forms       FormStore
	submissions repository.SubmissionRepositoryInterface
	confirm     *trigger.Caller
	now         func() time.Time
}

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(
	formStore FormStore,
	submissions repository.SubmissionRepositoryInterface,
	cfg *config.Config,
	httpClient httpclient.Client,
) *RegistrationService {
	confirm := trigger.NewCaller("submission_created", cfg.EventTriggers.SubmissionCreatedTriggerURL, httpClient)

	return &RegistrationService{
		forms:       formStore,
		submissions: submissions,
		confirm:     confirm,
		now:         time.Now,
	}
}

// WithClock replaces the wall clock, for tests
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	s.now = now
	return s
}

// GetForm returns the form of a hackathon together with its current gate state
func (s *RegistrationService) GetForm(ctx context.Context, hackathonID string) (*models.GetFormResponse, error) {
	form, err := s.forms.GetByHackathonID(ctx, hackathonID)
	if err != nil {
		if errors.Is(err, repository.ErrFormNotFound) {
			metrics.FormLoads.WithLabelValues("not_found").Inc()
			return nil, ErrFormNotFound
		}
		metrics.FormLoads.WithLabelValues("error").Inc()
		logger.Error("Failed to load registration form",
			zap.String("hackathon_id", hackathonID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to load form: %w", err)
	}

	now := s.now()
	status := forms.FormStatus(form, now)
	metrics.FormLoads.WithLabelValues(string(status)).Inc()

	resp := &models.GetFormResponse{Form: form, Status: status}
	if form.IsActive {
		if wait, ok := forms.UntilNextTransition(now, form.OpenAt, form.CloseAt); ok {
			secs := int64(wait.Round(time.Second) / time.Second)
			resp.NextTransitionIn = &secs
		}
	}

	return resp, nil
}

// Submit validates and stores a registration.
// Answers of hidden fields are dropped before validation and storage.
func (s *RegistrationService) Submit(ctx context.Context, hackathonID string, req *models.SubmitRegistrationRequest, meta models.SubmissionMeta) (*models.SubmitRegistrationResponse, error) {
	start := time.Now()

	form, err := s.loadForm(ctx, hackathonID, req.FormID)
	if err != nil {
		switch {
		case errors.Is(err, ErrFormNotFound), errors.Is(err, ErrFormMismatch):
			metrics.RegistrationSubmissions.WithLabelValues("not_found").Inc()
			return &models.SubmitRegistrationResponse{Error: msgFormNotFound}, err
		default:
			metrics.RegistrationSubmissions.WithLabelValues("error").Inc()
			return nil, err
		}
	}

	status := forms.FormStatus(form, s.now())
	if !status.AcceptsSubmissions() {
		metrics.RegistrationSubmissions.WithLabelValues("gate_" + string(status)).Inc()
		logger.Info("Submission rejected by time gate",
			zap.String("hackathon_id", hackathonID),
			zap.String("gate_status", string(status)))
		return &models.SubmitRegistrationResponse{
			Error:      gateMessages[status],
			GateStatus: string(status),
		}, fmt.Errorf("%w: %s", ErrFormUnavailable, status)
	}

	answers := forms.PruneHidden(form, req.Data)
	if errs := forms.ValidateVisible(form, answers); !errs.Empty() {
		recordValidationFailures(form, errs)
		metrics.RegistrationSubmissions.WithLabelValues("invalid").Inc()
		return &models.SubmitRegistrationResponse{
			Error:   msgValidationFailed,
			Details: errs,
		}, ErrValidationFailed
	}

	submission := &models.Submission{
		ID:          uuid.NewString(),
		FormID:      form.ID,
		HackathonID: form.HackathonID,
		Data:        answers,
		Status:      models.SubmissionApproved,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}
	if form.Settings.RequireApproval {
		submission.Status = models.SubmissionPending
	}
	if !form.Settings.AllowMultipleSubmissions {
		submission.RespondentKey = forms.RespondentKey(form, answers)
	}

	if err := s.submissions.Create(ctx, submission); err != nil {
		if errors.Is(err, repository.ErrDuplicateSubmission) {
			metrics.RegistrationSubmissions.WithLabelValues("duplicate").Inc()
			logger.Info("Duplicate registration rejected",
				zap.String("hackathon_id", hackathonID),
				zap.String("form_id", form.ID))
			return &models.SubmitRegistrationResponse{
				Error:             msgAlreadyRegistered,
				AlreadyRegistered: true,
			}, ErrAlreadyRegistered
		}
		metrics.RegistrationSubmissions.WithLabelValues("db_error").Inc()
		logger.Error("Failed to store registration",
			zap.String("hackathon_id", hackathonID),
			zap.Error(err))
		return &models.SubmitRegistrationResponse{Error: msgSubmitFailed}, fmt.Errorf("failed to store submission: %w", err)
	}

	if form.Settings.SendConfirmationEmail {
		s.confirm.CallAsync(submission.ID)
	}

	metrics.RegistrationDuration.Observe(metrics.MeasureDuration(start))
	metrics.RegistrationSubmissions.WithLabelValues(submission.Status).Inc()
	logger.Info("Registration submitted",
		zap.String("hackathon_id", hackathonID),
		zap.String("submission_id", submission.ID),
		zap.String("status", submission.Status),
		zap.Int("answers", len(answers)),
		zap.Duration("duration", time.Since(start)))

	message := msgApproved
	if submission.Status == models.SubmissionPending {
		message = msgPending
	}

	return &models.SubmitRegistrationResponse{
		Success:      true,
		SubmissionID: submission.ID,
		Status:       submission.Status,
		Message:      message,
		RedirectURL:  form.Settings.RedirectURL,
	}, nil
}

// loadForm fetches the form and checks it is the one the client rendered.
// A mismatch may come from a stale cache entry after the form was replaced,
// so the cache is dropped and the lookup retried once.
func (s *RegistrationService) loadForm(ctx context.Context, hackathonID, formID string) (*forms.FormSchema, error) {
	var form *forms.FormSchema
	for attempt := 0; attempt < 2; attempt++ {
		var err error
		form, err = s.forms.GetByHackathonID(ctx, hackathonID)
		if err != nil {
			if errors.Is(err, repository.ErrFormNotFound) {
				return nil, ErrFormNotFound
			}
			logger.Error("Failed to load registration form",
				zap.String("hackathon_id", hackathonID),
				zap.Error(err))
			return nil, fmt.Errorf("failed to load form: %w", err)
		}
		if form.ID == formID {
			return form, nil
		}
		if attempt == 0 {
			s.forms.Invalidate(hackathonID)
		}
	}

	logger.Warn("Submission for a form that does not belong to the hackathon",
		zap.String("hackathon_id", hackathonID),
		zap.String("form_id", formID),
		zap.String("current_form_id", form.ID))
	return nil, ErrFormMismatch
}

func recordValidationFailures(form *forms.FormSchema, errs forms.ErrorMap) {
	for id := range errs {
		if field, ok := form.Field(id); ok {
			metrics.ValidationFailures.WithLabelValues(string(field.Type)).Inc()
		}
	}
}
