package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"gymapi/docs"
	"gymapi/internal/auth"
	"gymapi/internal/cascade"
	"gymapi/internal/config"
	"gymapi/internal/database"
	"gymapi/internal/database/migration"
	handlers "gymapi/internal/http/handler"
	"gymapi/internal/http/middleware"
	"gymapi/internal/logger"
	"gymapi/internal/otel"
	"gymapi/internal/realtime"
	"gymapi/internal/repository/postgres"
	"gymapi/internal/service"
	"gymapi/internal/storage"
)

const (
	realtimeBuffer  = 64
	shutdownTimeout = 10 * time.Second
	maxUploadBytes  = 20 << 20
)

// @title Gym API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gymapi: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	log, err := logger.New(cfg.Logger, loc)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error("tracing_shutdown_failed", err, nil)
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("init token issuer: %w", err)
	}

	hub := realtime.NewHub(realtimeBuffer, log)

	users := postgres.NewAuthUserPostgres(db)
	profiles := postgres.NewProfilePostgres(db)
	audit := postgres.NewAuditPostgres(db)
	deleter := cascade.NewDeleter(db, log)

	svc := handlers.Services{
		Auth:         service.NewAuthService(users, profiles, tokens, log),
		Users:        service.NewUserService(users, profiles, audit, deleter, cfg.Auth, cfg.Import, log),
		Athletes:     service.NewAthleteService(users, profiles, audit, deleter, cfg.Auth, log),
		Roles:        service.NewRoleService(postgres.NewRolePostgres(db), profiles, audit, log),
		Appointments: service.NewAppointmentService(postgres.NewAppointmentPostgres(db), profiles, hub, log),
		Progress:     service.NewProgressService(postgres.NewProgressPostgres(db), profiles, hub, log),
		Payments:     service.NewPaymentService(postgres.NewPaymentPostgres(db), postgres.PaymentTx(db), profiles, hub, log),
		Documents:    service.NewDocumentService(objStore, postgres.NewDocumentPostgres(db), profiles, hub, cfg.MinIO.PresignExpiry, log),
		Chat:         service.NewChatService(postgres.NewChatPostgres(db), profiles, hub, log),
		Statistics:   service.NewStatisticsService(postgres.NewStatisticsPostgres(db), profiles, log),
		Exercises:    service.NewExerciseService(postgres.NewExercisePostgres(db), hub, log),
		Settings:     service.NewSettingsService(postgres.NewSettingsPostgres(db), log),
	}

	metrics, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             maxUploadBytes,
		DisableStartupMessage: true,
	})

	// RequestID runs first so every log line and error body carries the id
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())

	handlers.RegisterRoutes(app, svc, handlers.Options{
		DB:         db,
		Hub:        hub,
		Metrics:    prometheus.DefaultGatherer,
		CronSecret: cfg.Cron.Secret,
		RateLimit:  cfg.RateLimit,
		Location:   loc,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info("server_started", logger.Fields{"addr": addr})
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server_stopping", nil)
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
