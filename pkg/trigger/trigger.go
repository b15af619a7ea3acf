package trigger

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/hackathon-hub/registration-api/pkg/circuitbreaker"
	"github.com/hackathon-hub/registration-api/pkg/httpclient"
	"github.com/hackathon-hub/registration-api/pkg/logger"
	"github.com/hackathon-hub/registration-api/pkg/metrics"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BuildURL appends the record id to the trigger URL as the `id` query parameter
func BuildURL(triggerURL, recordID string) (string, error) {
	u, err := url.Parse(triggerURL)
	if err != nil {
		return "", fmt.Errorf("invalid trigger url: %w", err)
	}
	q := u.Query()
	q.Set("id", recordID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Caller notifies an external function (e.g. the confirmation email sender)
// that a record was created. Calls go through a circuit breaker so a broken
// endpoint is not hammered once per submission.
type Caller struct {
	triggerURL string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewCaller creates a caller for triggerURL. An empty URL disables it.
func NewCaller(name, triggerURL string, httpClient httpclient.Client) *Caller {
	return &Caller{
		triggerURL: triggerURL,
		httpClient: httpClient,
		breaker:    circuitbreaker.New(circuitbreaker.DefaultConfig(name)),
	}
}

// CallAsync fires the trigger for recordID. Failures are logged and never
// reach the caller. The returned channel is closed once the call has finished.
func (c *Caller) CallAsync(recordID string) <-chan struct{} {
	done := make(chan struct{})

	if c.triggerURL == "" {
		close(done)
		return done
	}

	go func() {
		defer close(done)

		targetURL, err := BuildURL(c.triggerURL, recordID)
		if err != nil {
			metrics.TriggerCalls.WithLabelValues("error").Inc()
			logger.Error("Failed to build trigger URL", zap.Error(err), zap.String("record_id", recordID))
			return
		}

		status, err := circuitbreaker.Execute(c.breaker, func() (int, error) {
			return c.call(targetURL)
		})
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.TriggerCalls.WithLabelValues("circuit_open").Inc()
			logger.Warn("Trigger call skipped, circuit open",
				zap.String("record_id", recordID))
		case errors.Is(err, errBadStatus):
			metrics.TriggerCalls.WithLabelValues("bad_status").Inc()
			logger.Warn("Trigger URL returned non-success status",
				zap.String("record_id", recordID),
				zap.Error(err))
		case err != nil:
			metrics.TriggerCalls.WithLabelValues("error").Inc()
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("record_id", recordID))
		default:
			metrics.TriggerCalls.WithLabelValues("success").Inc()
			logger.Info("Trigger URL called successfully",
				zap.String("record_id", recordID),
				zap.Int("status_code", status))
		}
	}()

	return done
}

var errBadStatus = errors.New("trigger returned non-success status")

func (c *Caller) call(targetURL string) (int, error) {
	resp, err := c.httpClient.Get(targetURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
	}
	return resp.StatusCode, nil
}
