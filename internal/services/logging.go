package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

type LogConfig struct {
	Service   string
	Component string
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
	}
}

// outcome maps an operation error to the level and status it is logged with.
// Student mistakes are warnings; only infrastructure trouble is an error.
func outcome(err error) (slog.Level, string) {
	switch {
	case err == nil:
		return slog.LevelInfo, "success"
	case IsValidation(err), IsBadRequest(err):
		return slog.LevelWarn, "rejected"
	case IsNotFound(err):
		return slog.LevelInfo, "not_found"
	case IsPipeline(err):
		return slog.LevelWarn, "partial"
	default:
		return slog.LevelError, "error"
	}
}

func (l *ServiceLogger) LogOperation(ctx context.Context, operation, sessionID, resource string, duration time.Duration, err error) {
	level, status := outcome(err)

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.String("resource", resource),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	var pipelineErr *PipelineError
	if errors.As(err, &pipelineErr) {
		for stage, stageErr := range pipelineErr.Failures {
			attrs = append(attrs, slog.String(stage+"_error", stageErr.Error()))
		}
	} else if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s %s", operation, status), attrs...)
}

// LogValidationError lists the rejected fields, at most five of them.
func (l *ServiceLogger) LogValidationError(ctx context.Context, operation, sessionID string, validationErrors ValidationErrors) {
	fields := make([]string, 0, 5)
	for i, ve := range validationErrors {
		if i == 5 {
			break
		}
		fields = append(fields, ve.Field+": "+ve.Message)
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed",
		slog.String("operation", operation),
		slog.String("session_id", sessionID),
		slog.Int("error_count", len(validationErrors)),
		slog.Any("fields", fields),
	)
}

// LogStage records the outcome of one side effect of the submission pipeline.
func (l *ServiceLogger) LogStage(ctx context.Context, stage string, fileName string, err error) {
	if err != nil {
		l.logger.LogAttrs(ctx, slog.LevelError, "Submission stage failed",
			slog.String("stage", stage),
			slog.String("file", fileName),
			slog.String("error", err.Error()),
		)
		return
	}
	l.logger.LogAttrs(ctx, slog.LevelDebug, "Submission stage done",
		slog.String("stage", stage),
		slog.String("file", fileName),
	)
}

func (l *ServiceLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

// OperationLog times one operation and logs its result when it ends.
type OperationLog struct {
	logger    *ServiceLogger
	ctx       context.Context
	operation string
	sessionID string
	start     time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string, sessionID string) *OperationLog {
	return &OperationLog{
		logger:    l,
		ctx:       ctx,
		operation: operation,
		sessionID: sessionID,
		start:     time.Now(),
	}
}

func (o *OperationLog) LogResult(resource string, err error) {
	o.logger.LogOperation(o.ctx, o.operation, o.sessionID, resource, time.Since(o.start), err)

	var validationErrors ValidationErrors
	if errors.As(err, &validationErrors) {
		o.logger.LogValidationError(o.ctx, o.operation, o.sessionID, validationErrors)
	}
}
