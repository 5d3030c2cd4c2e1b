// ABOUTME: CLI entrypoint for the Genie space client
// ABOUTME: Wires config, credentials, transport, session, and the exchange ledger

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/PortoLucas1/dbx-apps-genie-api/internal/auth"
	"github.com/PortoLucas1/dbx-apps-genie-api/internal/config"
	"github.com/PortoLucas1/dbx-apps-genie-api/internal/genie"
	"github.com/PortoLucas1/dbx-apps-genie-api/internal/history"
	"github.com/PortoLucas1/dbx-apps-genie-api/internal/transport"
)

var version = "dev"

var (
	flagConfig string
	flagLast   bool
)

func main() {
	// Local development convenience, same as the upstream tooling.
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:     "genie",
		Short:   "Ask questions against a Databricks Genie space",
		Version: version,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file path (default: GENIE_CONFIG or environment variables)")

	root.AddCommand(
		newAskCmd(),
		newFollowCmd(),
		newFeedbackCmd(),
		newSpaceCmd(),
		newSamplesCmd(),
		newHistoryCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration from --config, GENIE_CONFIG, or plain
// environment variables, in that order.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = os.Getenv("GENIE_CONFIG")
	}
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

// setupLogger configures the default slog logger from config.
func setupLogger(cfg config.LoggingConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// buildSession assembles the full client stack from config and settings.
func buildSession() (*genie.Session, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	setupLogger(cfg.Logging)

	var tokens auth.TokenProvider
	if cfg.Auth.Token != "" {
		tokens = auth.StaticToken(cfg.Auth.Token)
	} else {
		tokens = auth.NewMinter(cfg.Workspace.Host, cfg.Auth.ClientID, cfg.Auth.ClientSecret)
	}

	var opts []transport.Option
	if cfg.HTTP.Timeout > 0 {
		opts = append(opts, transport.WithHTTPClient(&http.Client{Timeout: cfg.HTTP.Timeout}))
	}
	if cfg.HTTP.MaxAttempts > 0 {
		opts = append(opts, transport.WithRetry(cfg.HTTP.MaxAttempts, transport.DefaultBaseDelay))
	}
	if cfg.HTTP.RateRPS > 0 {
		burst := cfg.HTTP.RateBurst
		if burst <= 0 {
			burst = 1
		}
		opts = append(opts, transport.WithRateLimit(cfg.HTTP.RateRPS, burst))
	}
	if cfg.HTTP.RetryAll {
		opts = append(opts, transport.WithClassifier(transport.RetryAll))
	}

	exec := transport.New("https://"+cfg.Workspace.Host, tokens, opts...)
	client := genie.NewClient(exec, cfg.Workspace.SpaceID)
	session := genie.NewSession(client, cfg.Poll.Interval, cfg.Poll.Timeout)
	return session, cfg, nil
}

// openLedger opens the exchange ledger, preferring the config path, then
// the local settings file, then a default under the user config dir.
func openLedger(cfg *config.Config, settings *Settings) (*history.Store, error) {
	path := cfg.History.Path
	if path == "" && settings != nil {
		path = settings.History.Path
	}
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		path = dir + "/genie/history.db"
	}
	return history.NewStore(path)
}
