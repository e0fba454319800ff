package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"kpisync/internal/domain"
)

const (
	configPathEnv      = "KPI_SYNC_CONFIG"
	slackTokenEnv      = "SLACK_BOT_TOKEN"
	slackWorkspaceEnv  = "SLACK_WORKSPACE"
	spreadsheetIDEnv   = "GOOGLE_SPREADSHEET_ID"
	credentialsFileEnv = "GOOGLE_CREDENTIALS_FILE"
	stateDBEnv         = "KPI_SYNC_STATE_DB"
)

// Config holds high-level settings required across the application.
type Config struct {
	Slack   SlackConfig   `yaml:"slack"`
	Google  GoogleConfig  `yaml:"google"`
	State   StateConfig   `yaml:"state"`
	Logging LoggingConfig `yaml:"logging"`
}

// SlackConfig identifies the workspace and its bot credential.
type SlackConfig struct {
	BotToken  string `yaml:"botToken"`
	Workspace string `yaml:"workspace"`
}

// GoogleConfig points at the target spreadsheet and its credentials.
type GoogleConfig struct {
	SpreadsheetID   string `yaml:"spreadsheetId"`
	CredentialsFile string `yaml:"credentialsFile"`
}

// StateConfig locates the local sync-state database.
type StateConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Validate reports every configuration problem at once, before anything
// with side effects runs.
func (c Config) Validate() error {
	var problems []string

	if c.Slack.BotToken == "" {
		problems = append(problems, slackTokenEnv+" is required")
	}
	if c.Google.SpreadsheetID == "" {
		problems = append(problems, spreadsheetIDEnv+" is required")
	}
	if _, err := os.Stat(c.Google.CredentialsFile); err != nil {
		problems = append(problems, "Google credentials file not found: "+c.Google.CredentialsFile)
	}

	if len(problems) > 0 {
		return &domain.ConfigError{Problems: problems}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(slackTokenEnv); v != "" {
		c.Slack.BotToken = v
	}
	if v := os.Getenv(slackWorkspaceEnv); v != "" {
		c.Slack.Workspace = v
	}
	if v := os.Getenv(spreadsheetIDEnv); v != "" {
		c.Google.SpreadsheetID = v
	}
	if v := os.Getenv(credentialsFileEnv); v != "" {
		c.Google.CredentialsFile = v
	}
	if v := os.Getenv(stateDBEnv); v != "" {
		c.State.Path = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Slack.BotToken != "" {
		base.Slack.BotToken = override.Slack.BotToken
	}
	if override.Slack.Workspace != "" {
		base.Slack.Workspace = override.Slack.Workspace
	}

	if override.Google.SpreadsheetID != "" {
		base.Google.SpreadsheetID = override.Google.SpreadsheetID
	}
	if override.Google.CredentialsFile != "" {
		base.Google.CredentialsFile = override.Google.CredentialsFile
	}

	if override.State.Path != "" {
		base.State.Path = override.State.Path
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Google:  GoogleConfig{CredentialsFile: "credentials.json"},
		State:   StateConfig{Path: "kpisync.db"},
		Logging: LoggingConfig{Level: "info"},
	}
}
