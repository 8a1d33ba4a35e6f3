package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/domain/entity"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/database"
	"github.com/AleBro23/MiddlewareInfocert-PUBLIC/internal/infrastructure/httpclient"
)

type apiLogRepository struct {
	db     *database.Database
	logger *zap.Logger
}

// NewAPILogRepository creates the audit-log saver. With the database
// disabled, Save degrades to a debug log line.
func NewAPILogRepository(db *database.Database, logger *zap.Logger) httpclient.APILogSaver {
	return &apiLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *apiLogRepository) Save(ctx context.Context, log *entity.APILog) error {
	if r.db == nil {
		r.logger.Debug("Audit database disabled, skipping API log",
			zap.String("backend", log.Backend),
			zap.String("endpoint", log.Endpoint),
		)
		return nil
	}

	query := `
		INSERT INTO api_logs (backend, endpoint, method, status_code, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		log.Backend,
		log.Endpoint,
		log.Method,
		log.StatusCode,
		log.Duration,
		log.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to save API log",
			zap.String("backend", log.Backend),
			zap.String("endpoint", log.Endpoint),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save API log: %w", err)
	}

	return nil
}
