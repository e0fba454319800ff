package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kpisync/internal/domain"
)

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Google: GoogleConfig{CredentialsFile: "does-not-exist.json"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation failure")
	}

	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if len(cfgErr.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", cfgErr.Problems)
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	creds := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(creds, []byte("{}"), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	cfg := Config{
		Slack:  SlackConfig{BotToken: "xoxb-test"},
		Google: GoogleConfig{SpreadsheetID: "sheet-id", CredentialsFile: creds},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yamlBody := "slack:\n  workspace: from-file\ngoogle:\n  spreadsheetId: file-sheet\nstate:\n  path: from-file.db\n"
	if err := os.WriteFile(configPath, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, configPath)
	t.Setenv(slackTokenEnv, "xoxb-env")
	t.Setenv(spreadsheetIDEnv, "env-sheet")
	t.Setenv(credentialsFileEnv, "")
	t.Setenv(stateDBEnv, "")

	cfg := Load()

	if cfg.Slack.Workspace != "from-file" {
		t.Fatalf("file value not applied: %q", cfg.Slack.Workspace)
	}
	if cfg.Slack.BotToken != "xoxb-env" {
		t.Fatalf("env value not applied: %q", cfg.Slack.BotToken)
	}
	if cfg.Google.SpreadsheetID != "env-sheet" {
		t.Fatalf("env must override file: %q", cfg.Google.SpreadsheetID)
	}
	if cfg.State.Path != "from-file.db" {
		t.Fatalf("unexpected state path: %q", cfg.State.Path)
	}
	if cfg.Google.CredentialsFile != "credentials.json" {
		t.Fatalf("default not kept: %q", cfg.Google.CredentialsFile)
	}
}
