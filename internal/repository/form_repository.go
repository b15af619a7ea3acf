package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// FormRepository handles registration form data access
type FormRepository struct {
	pool *pgxpool.Pool
}

// NewFormRepository creates a new form repository
func NewFormRepository(pool *pgxpool.Pool) *FormRepository {
	return &FormRepository{pool: pool}
}

// GetByHackathonID fetches the registration form of a hackathon
func (r *FormRepository) GetByHackathonID(ctx context.Context, hackathonID string) (*forms.FormSchema, error) {
	start := time.Now()
	operation := "getFormByHackathonID"

	query := `
		SELECT id::text, hackathon_id, title, description, cover_image, colors,
			is_active, fields, settings, open_at, close_at
		FROM registration_forms
		WHERE hackathon_id = $1
	`

	var form forms.FormSchema
	var colors, fields, settings []byte

	err := r.pool.QueryRow(ctx, query, hackathonID).Scan(
		&form.ID, &form.HackathonID, &form.Title, &form.Description, &form.CoverImage, &colors,
		&form.IsActive, &fields, &settings, &form.OpenAt, &form.CloseAt,
	)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		if errors.Is(err, pgx.ErrNoRows) {
			observe(ctx, operation, "not_found", duration, zap.String("hackathon_id", hackathonID))
			return nil, ErrFormNotFound
		}
		observe(ctx, operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to query registration form: %w", err)
	}

	if err := decodeFormJSON(&form, colors, fields, settings); err != nil {
		observe(ctx, operation, "error", metrics.MeasureDuration(start), zap.Error(err))
		return nil, err
	}

	observe(ctx, operation, "success", metrics.MeasureDuration(start),
		zap.String("form_id", form.ID),
		zap.Int("fields", len(form.Fields)))

	return &form, nil
}

// Upsert stores a form keyed by hackathon id and returns its id
func (r *FormRepository) Upsert(ctx context.Context, form *forms.FormSchema) (string, error) {
	start := time.Now()
	operation := "upsertForm"

	colors, err := json.Marshal(form.Colors)
	if err != nil {
		return "", fmt.Errorf("failed to encode colors: %w", err)
	}
	fields, err := json.Marshal(form.Fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode fields: %w", err)
	}
	settings, err := json.Marshal(form.Settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `
		INSERT INTO registration_forms
			(hackathon_id, title, description, cover_image, colors, is_active, fields, settings, open_at, close_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (hackathon_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			cover_image = EXCLUDED.cover_image,
			colors = EXCLUDED.colors,
			is_active = EXCLUDED.is_active,
			fields = EXCLUDED.fields,
			settings = EXCLUDED.settings,
			open_at = EXCLUDED.open_at,
			close_at = EXCLUDED.close_at,
			updated_at = now()
		RETURNING id::text
	`

	var id string
	err = r.pool.QueryRow(ctx, query,
		form.HackathonID, form.Title, form.Description, form.CoverImage, colors,
		form.IsActive, fields, settings, form.OpenAt, form.CloseAt,
	).Scan(&id)
	if err != nil {
		observe(ctx, operation, "error", metrics.MeasureDuration(start), zap.Error(err))
		return "", fmt.Errorf("failed to upsert registration form: %w", err)
	}

	observe(ctx, operation, "success", metrics.MeasureDuration(start),
		zap.String("form_id", id),
		zap.String("hackathon_id", form.HackathonID))

	return id, nil
}

func decodeFormJSON(form *forms.FormSchema, colors, fields, settings []byte) error {
	if err := json.Unmarshal(colors, &form.Colors); err != nil {
		return fmt.Errorf("failed to decode form colors: %w", err)
	}
	if err := json.Unmarshal(fields, &form.Fields); err != nil {
		return fmt.Errorf("failed to decode form fields: %w", err)
	}
	if err := json.Unmarshal(settings, &form.Settings); err != nil {
		return fmt.Errorf("failed to decode form settings: %w", err)
	}
	return nil
}
