package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/repobrowser/internal/adapter/driven/github"
	"github.com/ericfisherdev/repobrowser/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errListFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "repobrowser",
		Short: "Browse the public GitHub repositories of a user",
		Long: `repobrowser lists the public repositories of a GitHub user and lets
you mark favorites. Run "serve" for the HTTP API or "list" for a one-shot
listing on the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("REPOBROWSER_CONFIG"), "path to a YAML config file (env REPOBROWSER_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts), newListCmd(opts))

	return cmd
}

// load reads configuration and applies flag overrides.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if o.logLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
			return nil, fmt.Errorf("log level flag has invalid value %q: %w", o.logLevel, err)
		}
		cfg.LogLevel = o.logLevel
	}

	return cfg, nil
}

// newLogger builds the process logger from cfg and installs it as the slog
// default.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := new(slog.LevelVar)
	level.Set(cfg.Level())

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func newFetcher(cfg *config.Config) *githubadapter.Client {
	var opts []githubadapter.Option
	if cfg.HTTPCache {
		opts = append(opts, githubadapter.WithHTTPCache())
	}
	if cfg.RateLimit {
		opts = append(opts, githubadapter.WithRateLimit())
	}
	return githubadapter.NewClient(cfg.BaseURL, opts...)
}
