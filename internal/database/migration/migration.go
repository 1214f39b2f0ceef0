package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"gymapi/internal/logger"
)

//go:embed sql/*.sql
var migrations embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// gooseLogger routes goose progress lines into the structured log.
type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info("db_migration_step", logger.Fields{"status": "success", "detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error("db_migration_failed", fmt.Errorf(format, v...), logger.Fields{"status": "error"})
}

// EnsureMigrated applies every pending embedded migration. Applied versions
// are tracked by goose, so running it on an up-to-date schema is a no-op.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logger.Logger, dbHost string) error {
	start := time.Now()
	log = log.Component("database").With(logger.Fields{"db_host": dbHost})

	log.Info("db_migration_start", logger.Fields{"status": "in_progress"})

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("pgx"); err != nil {
		log.Error("db_migration_failed", err, logger.Fields{"status": "error"})
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "sql"); err != nil {
		log.Error("db_migration_failed", err, logger.Fields{
			"status":      "error",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Info("db_migration_success", logger.Fields{
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}
