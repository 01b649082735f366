package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/exam-form-service/internal/cache"
	"github.com/SAP-F-2025/exam-form-service/internal/config"
	"github.com/SAP-F-2025/exam-form-service/internal/handlers"
	"github.com/SAP-F-2025/exam-form-service/internal/repositories"
	"github.com/SAP-F-2025/exam-form-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-form-service/internal/services"
	"github.com/SAP-F-2025/exam-form-service/internal/sheets"
	"github.com/SAP-F-2025/exam-form-service/internal/storage"
	"github.com/SAP-F-2025/exam-form-service/internal/utils"
	"github.com/SAP-F-2025/exam-form-service/internal/validator"
	"github.com/SAP-F-2025/exam-form-service/internal/widgets"
	"github.com/SAP-F-2025/exam-form-service/pkg"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 10 * time.Minute
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger utils.Logger) error {
	registry := widgets.DefaultRegistry()
	v := validator.New(cfg.ClassOptions...).WithWidgets(registry)
	doc, err := services.LoadExamDocument(cfg.ExamPath, v)
	if err != nil {
		return err
	}
	logger.Info("Exam loaded", "path", cfg.ExamPath, "title", doc.Title, "sections", len(doc.Sections))

	sessions, closeSessions, err := newSessionRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	store, err := storage.NewSubmissionStore(cfg.SubmissionsDir)
	if err != nil {
		return err
	}

	sheet, err := newScoreSheet(ctx, cfg, logger)
	if err != nil {
		return err
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	var archive repositories.SubmissionRepository
	if cfg.DatabaseURL != "" {
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return err
		}
		archive = postgres.NewSubmissionPostgreSQL(db)
		logger.Info("Submission archive enabled")
	}

	answers := services.NewAnswerService(doc, sessions, registry, cfg.MaxDrawingBytes, logger.Slog())
	renderer := services.NewRenderService(doc, registry, v.Classes(), logger.Slog())
	submissions := services.NewSubmissionService(services.SubmissionDeps{
		Validator: v,
		Scoring:   services.NewScoringService(doc),
		Files:     store,
		Sheet:     sheet,
		Publisher: publisher,
		Archive:   archive,
		Logger:    logger.Slog(),
	})

	hm, err := handlers.NewHandlerManager(answers, renderer, submissions, logger, handlers.RouterOptions{
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
		CORSOrigins:  cfg.CORSOrigins,
		AssetsDir:    cfg.AssetsDir,
	})
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger, "/health"), gin.Recovery())
	hm.SetupRoutes(router)

	go sweepSessions(ctx, sessions, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Exam form server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newSessionRepository(ctx context.Context, cfg *config.Config, logger utils.Logger) (repositories.SessionRepository, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		client, err := pkg.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using redis session store")
		sessions := repositories.NewRedisSessionRepository(cache.NewRedisCache(client, logger.Slog()), cfg.SessionTTL)
		return sessions, func() { client.Close() }, nil
	case "memory", "":
		logger.Info("Using in-memory session store")
		return repositories.NewMemorySessionRepository(cfg.SessionTTL), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

func newScoreSheet(ctx context.Context, cfg *config.Config, logger utils.Logger) (sheets.ScoreSheet, error) {
	switch cfg.Sheets.Driver {
	case "google":
		sheet, err := sheets.NewGoogleSheetFromCredentials(ctx, cfg.Sheets.SpreadsheetName,
			cfg.Sheets.GoogleCredentialsFile, cfg.Sheets.GoogleCredentialsJSON)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Google Sheets", "spreadsheet", cfg.Sheets.SpreadsheetName)
		return sheet, nil
	case "xlsx", "":
		workbook, err := sheets.NewXLSXSheet(cfg.Sheets.XLSXDir, cfg.Sheets.SpreadsheetName)
		if err != nil {
			return nil, err
		}
		if err := workbook.EnsureWorksheets(cfg.ClassOptions); err != nil {
			return nil, err
		}
		logger.Info("Using local workbook", "path", workbook.Path())
		return workbook, nil
	default:
		return nil, fmt.Errorf("unknown sheets driver %q", cfg.Sheets.Driver)
	}
}

// sweepSessions drops expired sessions until ctx is done.
func sweepSessions(ctx context.Context, sessions repositories.SessionRepository, logger utils.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				logger.Warn("Failed to sweep expired sessions", "error", err)
			}
		}
	}
}
