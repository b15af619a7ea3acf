// Package regclient is a Go client for the registration form API. Session
// drives one respondent through filling in and submitting a form.
package regclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hackathon-hub/registration-api/internal/models"
	"github.com/hackathon-hub/registration-api/pkg/httpclient"
	"github.com/hackathon-hub/registration-api/pkg/logger"
	"github.com/hackathon-hub/registration-api/pkg/retry"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

var (
	// ErrFormUnavailable is returned when the form schema cannot be loaded
	ErrFormUnavailable = errors.New("registration form unavailable")
	errFormMissing     = errors.New("hackathon has no registration form")
)

// statusError is a non-2xx response that is worth retrying
type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("unexpected status %d", e.code) }

// Client talks to the registration endpoints of one API base URL
type Client struct {
	baseURL    string
	httpClient httpclient.Client
	retry      retry.Config
}

// NewClient creates a client. Schema loads are retried with retry.ClientConfig.
func NewClient(baseURL string, httpClient httpclient.Client) *Client {
	cfg := retry.ClientConfig()
	cfg.RetryableErrors = func(err error) bool {
		return !errors.Is(err, errFormMissing)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		retry:      cfg,
	}
}

// WithRetry replaces the retry policy of schema loads
func (c *Client) WithRetry(cfg retry.Config) *Client {
	if cfg.RetryableErrors == nil {
		cfg.RetryableErrors = c.retry.RetryableErrors
	}
	c.retry = cfg
	return c
}

func (c *Client) formURL(hackathonID string) string {
	return c.baseURL + "/api/hackathons/" + url.PathEscape(hackathonID) + "/register-form"
}

// GetForm loads the form of a hackathon together with its gate state.
// Every failure is reported as ErrFormUnavailable.
func (c *Client) GetForm(ctx context.Context, hackathonID string) (*models.GetFormResponse, error) {
	resp, err := retry.DoWithResult(ctx, c.retry, "regclient.GetForm", func() (*models.GetFormResponse, error) {
		return c.fetchForm(ctx, hackathonID)
	})
	if err != nil {
		logger.Warn("Failed to load registration form",
			zap.String("hackathon_id", hackathonID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFormUnavailable, err)
	}
	return resp, nil
}

func (c *Client) fetchForm(ctx context.Context, hackathonID string) (*models.GetFormResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.formURL(hackathonID), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, errFormMissing
	case res.StatusCode != http.StatusOK:
		return nil, &statusError{code: res.StatusCode}
	}

	var body models.GetFormResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode form: %w", err)
	}
	if body.Form == nil {
		return nil, errFormMissing
	}

	return &body, nil
}

// CreateSubmission posts one submission and returns the decoded body with the
// HTTP status. Submissions are never retried automatically.
func (c *Client) CreateSubmission(ctx context.Context, hackathonID string, payload *models.SubmitRegistrationRequest) (*models.SubmitRegistrationResponse, int, error) {
	start := time.Now()

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.formURL(hackathonID), bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send submission: %w", err)
	}
	defer res.Body.Close()

	var body models.SubmitRegistrationResponse
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&body); err != nil {
		// Non-JSON error pages still carry a usable status
		logger.Debug("Submission response is not JSON",
			zap.Int("status", res.StatusCode),
			zap.Error(err))
	}

	logger.Debug("Submission sent",
		zap.String("hackathon_id", hackathonID),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return &body, res.StatusCode, nil
}
