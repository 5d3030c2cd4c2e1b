// ABOUTME: Configuration loading and parsing for the Genie client
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete client configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Auth      AuthConfig      `yaml:"auth"`
	HTTP      HTTPConfig      `yaml:"http"`
	Poll      PollConfig      `yaml:"poll"`
	History   HistoryConfig   `yaml:"history"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorkspaceConfig identifies the workspace and Genie space.
type WorkspaceConfig struct {
	Host    string `yaml:"host"`
	SpaceID string `yaml:"space_id"`
}

// AuthConfig holds credentials. Either an OAuth client (id + secret) or a
// personal access token must be present.
type AuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	Token        string `yaml:"token"`
}

// HTTPConfig tunes the request executor.
type HTTPConfig struct {
	Timeout     time.Duration `yaml:"-"`
	RateRPS     float64       `yaml:"rate_rps"`
	RateBurst   int           `yaml:"rate_burst"`
	MaxAttempts int           `yaml:"max_attempts"`
	RetryAll    bool          `yaml:"retry_all"` // restore the upstream blanket retry policy

	TimeoutRaw string `yaml:"timeout"`
}

// PollConfig tunes the completion poller.
type PollConfig struct {
	Interval time.Duration `yaml:"-"`
	Timeout  time.Duration `yaml:"-"`

	IntervalRaw string `yaml:"interval"`
	TimeoutRaw  string `yaml:"timeout"`
}

// HistoryConfig holds the exchange-ledger database location.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded and
// duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.parseDurations(); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from the environment variables the upstream
// tooling uses: DATABRICKS_HOST, SPACE_ID, DATABRICKS_CLIENT_ID,
// DATABRICKS_CLIENT_SECRET, and optionally DATABRICKS_TOKEN.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Workspace: WorkspaceConfig{
			Host:    os.Getenv("DATABRICKS_HOST"),
			SpaceID: os.Getenv("SPACE_ID"),
		},
		Auth: AuthConfig{
			ClientID:     os.Getenv("DATABRICKS_CLIENT_ID"),
			ClientSecret: os.Getenv("DATABRICKS_CLIENT_SECRET"),
			Token:        os.Getenv("DATABRICKS_TOKEN"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// parseDurations converts raw duration strings into time.Duration fields.
func (c *Config) parseDurations() error {
	pairs := []struct {
		raw  string
		dst  *time.Duration
		name string
	}{
		{c.HTTP.TimeoutRaw, &c.HTTP.Timeout, "http.timeout"},
		{c.Poll.IntervalRaw, &c.Poll.Interval, "poll.interval"},
		{c.Poll.TimeoutRaw, &c.Poll.Timeout, "poll.timeout"},
	}
	for _, p := range pairs {
		if p.raw == "" {
			continue
		}
		d, err := time.ParseDuration(p.raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", p.name, p.raw, err)
		}
		*p.dst = d
	}
	return nil
}

// Validate checks that required fields are present and consistent.
func (c *Config) Validate() error {
	if c.Workspace.Host == "" {
		return fmt.Errorf("workspace.host is required")
	}
	if c.Workspace.SpaceID == "" {
		return fmt.Errorf("workspace.space_id is required")
	}
	hasOAuth := c.Auth.ClientID != "" && c.Auth.ClientSecret != ""
	if !hasOAuth && c.Auth.Token == "" {
		return fmt.Errorf("auth requires either client_id and client_secret, or token")
	}
	return nil
}
