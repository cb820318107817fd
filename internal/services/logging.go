package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for gradebook operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, duration time.Duration, err error, args ...any) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		// Rejected input and unavailable storage are expected, not faults
		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsDataIntegrity(err):
			level = slog.LevelWarn
			status = "rejected"
		case IsImport(err):
			level = slog.LevelWarn
			status = "import_failed"
		case IsStorage(err):
			level = slog.LevelWarn
			status = "storage_warning"
		}
	} else if !l.config.EnableDebug {
		level = slog.LevelDebug
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var gbErr *GradebookError
		if errors.As(err, &gbErr) {
			for key, value := range gbErr.Context {
				attrs = append(attrs, slog.Any(key, value))
			}
		}
		var validationErr ValidationErrors
		if errors.As(err, &validationErr) {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), append(attrs, argsToAttrs(args)...)...)
}

// LogStorageWarning records a persistence failure that was downgraded to a warning
func (l *ServiceLogger) LogStorageWarning(ctx context.Context, operation string, bytes int, err error) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, "Gradebook not saved, changes kept in memory",
		slog.String("operation", operation),
		slog.Int("bytes", bytes),
		slog.String("error", err.Error()),
	)
}

// ===== HELPERS =====

// ContextualLogger times an operation and logs its result
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(err error, args ...any) {
	cl.logger.LogOperation(cl.ctx, cl.operation, time.Since(cl.startTime), err, args...)
}

func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	var validationErrs ValidationErrors
	var gbErr *GradebookError
	switch {
	case errors.As(err, &validationErrs):
		result["type"] = "validation"
		result["count"] = len(validationErrs)
	case IsDataIntegrity(err):
		result["type"] = "data_integrity"
	case IsImport(err):
		result["type"] = "import"
	case IsStorage(err):
		result["type"] = "storage"
	}

	if errors.As(err, &gbErr) {
		result["op"] = gbErr.Op
		if gbErr.Context != nil {
			result["context"] = gbErr.Context
		}
	}

	return result
}

func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}
