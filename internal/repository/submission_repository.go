package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hackathon-hub/registration-api/internal/models"
	"github.com/hackathon-hub/registration-api/pkg/metrics"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

// SubmissionRepository handles registration submission data access
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts a submission. The partial unique index on
// (form_id, respondent_key) rejects a second registration of the same respondent.
func (r *SubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	start := time.Now()
	operation := "createSubmission"

	data, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("failed to encode submission data: %w", err)
	}

	query := `
		INSERT INTO registration_submissions
			(id, form_id, hackathon_id, respondent_key, data, status, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err = r.pool.QueryRow(ctx, query,
		s.ID, s.FormID, s.HackathonID, nullIfEmpty(s.RespondentKey), data, s.Status, s.ClientIP, s.UserAgent,
	).Scan(&s.CreatedAt)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			observe(ctx, operation, "duplicate", duration, zap.String("form_id", s.FormID))
			return ErrDuplicateSubmission
		}
		observe(ctx, operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to create submission: %w", err)
	}

	observe(ctx, operation, "success", metrics.MeasureDuration(start),
		zap.String("submission_id", s.ID),
		zap.String("form_id", s.FormID))

	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
