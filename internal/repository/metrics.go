package repository

import (
	"context"

	"github.com/hackathon-hub/registration-api/pkg/logger"
	"github.com/hackathon-hub/registration-api/pkg/metrics"
	"go.uber.org/zap"
)

func recordMetrics(operation, status string, duration float64) {
	metrics.DBOperationDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBOperationTotal.WithLabelValues(operation, status).Inc()
}

// observe records metrics and the API-call log line for one database operation
func observe(ctx context.Context, operation, status string, duration float64, fields ...zap.Field) {
	recordMetrics(operation, status, duration)
	logger.LogAPICall(ctx, "postgres", operation, status, duration, fields...)
}
