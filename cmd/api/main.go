package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clauselens/internal/backend"
	"clauselens/internal/config"
	"clauselens/internal/database"
	"clauselens/internal/database/migration"
	handlers "clauselens/internal/http/handler"
	"clauselens/internal/http/middleware"
	"clauselens/internal/letter"
	"clauselens/internal/logger"
	"clauselens/internal/otel"
	"clauselens/internal/repository/postgres"
	"clauselens/internal/service"
	"clauselens/internal/storage"
	"clauselens/internal/store"
)

// @title clauselens API
// @version 1.0
// @description Legal document risk analysis: uploads, ranked clauses, audio explanations and negotiation letters.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	log := logger.New(cfg.Log, loc)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		fatal(log, "failed to initialize tracing", err)
	}

	// PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		fatal(log, "failed to connect to database", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		fatal(log, "failed to migrate database", err)
	}

	// S3-compatible object storage (MinIO) for archived uploads
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		fatal(log, "failed to initialize object storage", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(log, "failed to register http metrics", err)
	}
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		fatal(log, "failed to register domain metrics", err)
	}

	svc := service.NewAnalysisService(service.Deps{
		Store:   store.New(),
		Storage: objStore,
		Repo:    postgres.NewAnalysisPostgres(db),
		Backend: backend.New(cfg.Backend),
		Letters: letter.NewRenderer(),
		Metrics: metrics,
		Logger:  log,
	}, service.Options{
		MaxBytes:         cfg.Upload.MaxBytes,
		DefaultPageCount: cfg.Upload.DefaultPageCount,
		Voice:            cfg.Backend.Voice,
		Location:         loc,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Leave room for the multipart envelope; the service enforces the exact cap.
		BodyLimit: int(cfg.Upload.MaxBytes) + 1<<20,
	})

	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, svc)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	handlers.RegisterSwagger(app, cfg.AppHost, cfg.AppScheme)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", "addr", addr, "backend_url", cfg.Backend.URL)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			fatal(log, "failed to start server", err)
		}
	case <-ctx.Done():
		log.Info("server_stopping")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", "error", err.Error())
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing_shutdown_failed", "error", err.Error())
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err.Error())
	os.Exit(1)
}
