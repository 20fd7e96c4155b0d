package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pomwalk/pkg/cache"
	"github.com/matzehuels/pomwalk/pkg/config"
	"github.com/matzehuels/pomwalk/pkg/errors"
	"github.com/matzehuels/pomwalk/pkg/httputil"
)

// =============================================================================
// Constants
// =============================================================================

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	// Logger receives diagnostics.
	Logger *log.Logger

	// Progress receives one line per downloaded file.
	Progress *log.Logger

	stdout io.Writer
	stderr io.Writer
	flags  globalFlags
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config          string
	repository      string
	localRepository string
	verbose         bool
}

// New creates a CLI that writes progress and results to stdout and
// diagnostics to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(stderr, level),
		Progress: newProgressLogger(stdout),
		stdout:   stdout,
		stderr:   stderr,
	}
}

// SetLogLevel updates the diagnostics logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the configuration file and applies the persistent flags
// the user set explicitly.
func (c *CLI) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(c.flags.config)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("repository") {
		cfg.Repository = c.flags.repository
	}
	if flags.Changed("local-repository") {
		cfg.LocalRepository = c.flags.localRepository
	}
	return cfg, cfg.Validate()
}

// =============================================================================
// Factories
// =============================================================================

// newClient creates the download client described by cfg.
func newClient(cfg config.Config) *httputil.Client {
	opts := []httputil.Option{
		httputil.WithRetries(cfg.HTTP.Retries),
		httputil.WithBreakerThreshold(cfg.HTTP.BreakerThreshold),
	}
	if cfg.HTTP.Timeout.Duration > 0 {
		opts = append(opts, httputil.WithTimeout(cfg.HTTP.Timeout.Duration))
	}
	if cfg.HTTP.UserAgent != "" {
		opts = append(opts, httputil.WithUserAgent(cfg.HTTP.UserAgent))
	}
	return httputil.NewClient(opts...)
}

// newNegativeCache opens the backend that remembers remote "not found"
// answers.
func newNegativeCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		c, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return cache.NewNullCache(), errors.Wrap(errors.ErrCodeTransport, err, "connect to redis at %s", cfg.Cache.RedisAddr)
		}
		return c, nil
	default:
		c, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return cache.NewNullCache(), errors.Wrap(errors.ErrCodeInternal, err, "open cache directory %s", cfg.Cache.Dir)
		}
		return c, nil
	}
}
