// Command seed loads registration form definitions from JSON files into the database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/hackathon-hub/registration-api/config"
	"github.com/hackathon-hub/registration-api/internal/forms"
	"github.com/hackathon-hub/registration-api/internal/repository"
	"github.com/hackathon-hub/registration-api/pkg/db"
	"github.com/hackathon-hub/registration-api/pkg/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	files := flags.StringSliceP("file", "f", nil, "form definition JSON file (repeatable)")
	dryRun := flags.Bool("dry-run", false, "only check the files")
	_ = flags.Parse(os.Args[1:])

	if len(*files) == 0 {
		fmt.Fprintln(os.Stderr, "at least one --file is required")
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName + "-seed",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	defs := make([]*forms.FormSchema, 0, len(*files))
	for _, path := range *files {
		form, err := loadForm(path)
		if err != nil {
			logger.Error("Invalid form definition", zap.String("file", path), zap.Error(err))
			os.Exit(1)
		}
		defs = append(defs, form)
	}

	if *dryRun {
		logger.Info("Form definitions are valid", zap.Int("forms", len(defs)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:        cfg.Database.URL,
		MaxConns:   2,
		MinConns:   1,
		CACertPath: cfg.Database.CACertPath,
	})
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.NewFormRepository(pool)
	for _, form := range defs {
		id, err := repo.Upsert(ctx, form)
		if err != nil {
			logger.Error("Failed to store form",
				zap.String("hackathon_id", form.HackathonID),
				zap.Error(err))
			os.Exit(1)
		}
		logger.Info("Form stored",
			zap.String("hackathon_id", form.HackathonID),
			zap.String("form_id", id),
			zap.Int("fields", len(form.Fields)))
	}
}

// loadForm reads and checks one form definition
func loadForm(path string) (*forms.FormSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var form forms.FormSchema
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if form.HackathonID == "" {
		return nil, fmt.Errorf("%s: hackathonId is required", path)
	}
	if err := form.Check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &form, nil
}
