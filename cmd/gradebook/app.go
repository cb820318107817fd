package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/SAP-F-2025/gradebook/internal/config"
	"github.com/SAP-F-2025/gradebook/internal/events"
	"github.com/SAP-F-2025/gradebook/internal/services"
	"github.com/SAP-F-2025/gradebook/internal/storage"
	"github.com/SAP-F-2025/gradebook/internal/utils"
	"github.com/SAP-F-2025/gradebook/internal/validator"
	"github.com/SAP-F-2025/gradebook/pkg"
	"github.com/spf13/cobra"
)

// application owns the gradebook for the lifetime of one command.
type application struct {
	closed       bool
	cfg          *config.Config
	logger       utils.Logger
	store        storage.BlobStore
	publisher    events.EventPublisher
	gradebook    services.GradebookService
	importExport services.ImportExportService
}

func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLogger(os.Stderr, cfg.Environment, cfg.LogLevel)
	slogger := utils.ToSlogLogger(logger)

	store := pkg.NewBlobStore(ctx, cfg, slogger)

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Warn("Failed to create event publisher, events will not leave the process", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	}

	gradebook := services.NewGradebookService(store, publisher, slogger, validator.New(), services.GradebookOptions{
		StorageKey:    cfg.Storage.Key,
		DropLowest:    cfg.Scoring.DropLowest,
		PersistWhatIf: cfg.Scoring.PersistWhatIf,
	})

	if err := gradebook.Load(ctx); err != nil {
		if !services.IsStorage(err) {
			return nil, err
		}
		logger.Warn("Starting with an empty gradebook", "error", err)
	}

	return &application{
		cfg:          cfg,
		logger:       logger,
		store:        store,
		publisher:    publisher,
		gradebook:    gradebook,
		importExport: services.NewImportExportService(gradebook, slogger),
	}, nil
}

func (a *application) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if err := a.publisher.Close(); err != nil {
		a.logger.LogError(err, "Failed to close event publisher")
	}
	if err := a.store.Close(); err != nil {
		a.logger.LogError(err, "Failed to close storage")
	}
}

// logCommand records the finished command. Failures carry the classified error.
func (a *application) logCommand(cmd *cobra.Command, duration time.Duration, err error) {
	name := "gradebook"
	if cmd != nil {
		name = cmd.CommandPath()
	}
	if err != nil {
		a.logger.Debug("Command failed", "command", name, "details", services.FormatError(err))
	}
	a.logger.LogOperation(name, duration.String(), "failed", err != nil)
}

// warnIfUnsaved tells the user when the last change only lives in memory.
func (a *application) warnIfUnsaved(cmd *cobra.Command) {
	if err := a.gradebook.LastPersistError(); err != nil {
		cmd.PrintErrln("⚠️  Changes were not saved:", err)
	}
}
