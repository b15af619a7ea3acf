package regclient

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/internal/models"
	"github.com/hackathon-hub/registration-api/pkg/logger"
	"go.uber.org/zap"
)

// RedirectAfter is how long the success message stays up before redirecting
const RedirectAfter = 3 * time.Second

const msgSubmitFailed = "حدث خطأ أثناء إرسال التسجيل، يرجى المحاولة مرة أخرى"

var (
	// ErrSubmitInFlight is returned when Submit is called while another submission is running
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrAlreadySubmitted is returned when Submit is called after a successful submission
	ErrAlreadySubmitted = errors.New("registration already submitted")
)

// Outcome is the result of one Submit call
type Outcome string

const (
	OutcomeSubmitted         Outcome = "submitted"
	OutcomeAlreadyRegistered Outcome = "already_registered"
	OutcomeInvalid           Outcome = "invalid"
	OutcomeFailed            Outcome = "failed"
)

// Result describes what happened to a submission attempt
type Result struct {
	Outcome       Outcome
	SubmissionID  string
	Status        string
	Message       string
	RedirectURL   string
	RedirectAfter time.Duration
	Errors        forms.ErrorMap
	// Err is the transport or decoding failure behind OutcomeFailed, if any
	Err error
}

// Session holds the answers of one respondent for one form
type Session struct {
	client      *Client
	hackathonID string

	mu      sync.Mutex
	form    *forms.FormSchema
	status  forms.GateState
	answers forms.Answers
	errors  forms.ErrorMap

	busy atomic.Bool
	done atomic.Bool
}

// Open loads the form of a hackathon and starts a session on it
func (c *Client) Open(ctx context.Context, hackathonID string) (*Session, error) {
	resp, err := c.GetForm(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	return NewSession(c, hackathonID, resp.Form, resp.Status), nil
}

// NewSession starts a session on an already loaded form
func NewSession(client *Client, hackathonID string, form *forms.FormSchema, status forms.GateState) *Session {
	return &Session{
		client:      client,
		hackathonID: hackathonID,
		form:        form,
		status:      status,
		answers:     forms.NewAnswers(form),
		errors:      forms.ErrorMap{},
	}
}

// Form returns the form the session is filling in
func (s *Session) Form() *forms.FormSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Status returns the gate state reported when the form was loaded
func (s *Session) Status() forms.GateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Set records the answer of a field and clears its error
func (s *Session) Set(fieldID string, answer forms.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[fieldID] = answer
	delete(s.errors, fieldID)
}

// Answers returns a copy of the current answers
func (s *Session) Answers() forms.Answers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// Errors returns a copy of the current field errors
func (s *Session) Errors() forms.ErrorMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(forms.ErrorMap, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// VisibleFields returns the fields shown for the current answers, in order
func (s *Session) VisibleFields() []*forms.FieldSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return forms.VisibleFields(s.form, s.answers)
}

// Done reports whether the registration was accepted
func (s *Session) Done() bool {
	return s.done.Load()
}

// Reload re-fetches the form, keeping answers of fields that still exist
func (s *Session) Reload(ctx context.Context) error {
	resp, err := s.client.GetForm(ctx, s.hackathonID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	answers := forms.NewAnswers(resp.Form)
	for id, answer := range s.answers {
		if field, ok := resp.Form.Field(id); ok && field.Type.IsList() == answer.IsList() {
			answers[id] = answer
		}
	}
	s.form = resp.Form
	s.status = resp.Status
	s.answers = answers
	s.errors = forms.ErrorMap{}

	return nil
}

// Submit validates the visible answers and, when they pass, sends them.
// Business outcomes are reported in Result; the error is only set when the
// call was refused before doing anything.
func (s *Session) Submit(ctx context.Context) (*Result, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer s.busy.Store(false)

	if s.done.Load() {
		return nil, ErrAlreadySubmitted
	}

	s.mu.Lock()
	form := s.form
	if errs := forms.ValidateVisible(form, s.answers); !errs.Empty() {
		s.errors = errs
		s.mu.Unlock()
		return &Result{Outcome: OutcomeInvalid, Errors: errs}, nil
	}
	s.errors = forms.ErrorMap{}
	payload := &models.SubmitRegistrationRequest{
		FormID: form.ID,
		Data:   forms.PruneHidden(form, s.answers),
	}
	s.mu.Unlock()

	resp, code, err := s.client.CreateSubmission(ctx, s.hackathonID, payload)
	if err != nil {
		logger.Warn("Registration submission failed",
			zap.String("hackathon_id", s.hackathonID),
			zap.Error(err))
		return &Result{Outcome: OutcomeFailed, Message: msgSubmitFailed, Err: err}, nil
	}

	switch {
	case code >= 200 && code < 300:
		s.done.Store(true)
		result := &Result{
			Outcome:      OutcomeSubmitted,
			SubmissionID: resp.SubmissionID,
			Status:       resp.Status,
			Message:      resp.Message,
			RedirectURL:  resp.RedirectURL,
		}
		if result.RedirectURL == "" {
			result.RedirectURL = form.Settings.RedirectURL
		}
		if result.RedirectURL != "" {
			result.RedirectAfter = RedirectAfter
		}
		return result, nil

	case code == http.StatusConflict && resp.AlreadyRegistered:
		return &Result{Outcome: OutcomeAlreadyRegistered, Message: resp.Error}, nil
	}

	result := &Result{Outcome: OutcomeFailed, Message: resp.Error}
	if result.Message == "" {
		result.Message = msgSubmitFailed
	}
	if !resp.Details.Empty() {
		result.Errors = resp.Details
		s.mu.Lock()
		s.errors = resp.Details
		s.mu.Unlock()
	}

	logger.Info("Registration rejected by server",
		zap.String("hackathon_id", s.hackathonID),
		zap.Int("status", code),
		zap.String("error", resp.Error))

	return result, nil
}
