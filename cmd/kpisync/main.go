package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"kpisync/internal/app"
	"kpisync/internal/config"
	"kpisync/internal/logging"
	"kpisync/pkg/logger"
)

// Exit codes: partial success is distinct from full success so callers
// can tell a clean run from one with per-channel failures.
const (
	exitOK      = 0
	exitPartial = 1
	exitFailure = 2
)

var (
	exitCode int
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "kpisync",
	Short: "Sync KPI reports from Slack person channels to Google Sheets",
	Long: `kpisync pulls messages from 個人_名前 Slack channels, extracts KPI
mentions from their text, and synchronizes them into a Google
Spreadsheet: one overview sheet plus one detail sheet per person.

Requires SLACK_BOT_TOKEN, GOOGLE_SPREADSHEET_ID and a service-account
credentials file (GOOGLE_CREDENTIALS_FILE). A .env file is honored.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// .env carries the Slack and Google credentials in development.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func newApp(ctx context.Context) (*app.Application, error) {
	cfg := config.Load()
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return app.New(ctx, cfg, logging.New(cfg.Logging.Level))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.New("kpisync").Printf("error: %v", err)
		if exitCode == exitOK {
			exitCode = exitFailure
		}
	}
	os.Exit(exitCode)
}
