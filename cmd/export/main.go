package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/SAP-F-2025/exam-form-service/internal/config"
	"github.com/SAP-F-2025/exam-form-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-form-service/internal/services"
	"github.com/SAP-F-2025/exam-form-service/internal/utils"
	"github.com/SAP-F-2025/exam-form-service/pkg"
)

// export rebuilds a score workbook from the submission archive.
func main() {
	out := flag.String("out", "results.xlsx", "workbook to write")
	classList := flag.String("classes", "", "comma separated classes (default CLASS_OPTIONS)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(cfg.Environment)

	classes := cfg.ClassOptions
	if *classList != "" {
		classes = nil
		for _, c := range strings.Split(*classList, ",") {
			if c = strings.TrimSpace(c); c != "" {
				classes = append(classes, c)
			}
		}
	}

	count, err := export(context.Background(), cfg, logger, *out, classes)
	if err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Export finished", "path", *out, "rows", count, "classes", classes)
}

func export(ctx context.Context, cfg *config.Config, logger utils.Logger, path string, classes []string) (int, error) {
	if cfg.DatabaseURL == "" {
		return 0, fmt.Errorf("DATABASE_URL is required to read the submission archive")
	}
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	svc := services.NewExportService(postgres.NewSubmissionPostgreSQL(db), logger.Slog())
	count, err := svc.ExportResults(ctx, f, classes)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return count, err
}
