package app

import (
	"context"
	"fmt"
	"log/slog"

	"kpisync/internal/config"
	"kpisync/internal/infrastructure/sheets"
	"kpisync/internal/infrastructure/slacksrc"
	"kpisync/internal/infrastructure/state"
	"kpisync/internal/logging"
	"kpisync/internal/usecase"
	"kpisync/pkg/logger"
)

// Application wires config to adapters and the sync pipeline.
type Application struct {
	cfg      config.Config
	Pipeline *usecase.Pipeline
	Slack    *slacksrc.Client
	stateDB  *state.Store
}

// New validates configuration and builds a runnable application. It
// fails before any remote side effect when configuration is incomplete.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slackClient := slacksrc.New(cfg.Slack.BotToken, baseLogger.With("component", "slack"))

	tableStore, err := sheets.New(ctx, cfg.Google.SpreadsheetID, cfg.Google.CredentialsFile,
		baseLogger.With("component", "sheets"))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	stateDB, err := state.Open(cfg.State.Path, logger.New("state"))
	if err != nil {
		return nil, fmt.Errorf("sync state: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Lister: slackClient,
		Source: slackClient,
		Store:  tableStore,
		State:  stateDB,
		Logger: baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		Pipeline: pipeline,
		Slack:    slackClient,
		stateDB:  stateDB,
	}, nil
}

// Close releases local resources.
func (a *Application) Close() error {
	if a.stateDB == nil {
		return nil
	}
	return a.stateDB.Close()
}
