// Package config loads pomwalk settings from an optional TOML file.
//
// A missing file is not an error: [Load] returns [Default] so a bare
// invocation behaves the same with or without configuration. Values from the
// file are layered over the defaults; command-line flags are applied by the
// caller afterwards.
//
// Example file:
//
//	repository       = "https://repo.maven.apache.org/maven2"
//	local_repository = "~/.m2/repository"
//	managed_policy   = "first-wins"
//
//	[http]
//	timeout           = "60s"
//	retries           = 2
//	breaker_threshold = 5
//
//	[cache]
//	backend    = "redis"
//	ttl        = "24h"
//	redis_addr = "localhost:6379"
package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pomwalk/pkg/closure"
	"github.com/matzehuels/pomwalk/pkg/errors"
)

const appName = "pomwalk"

// DefaultRepository is the remote repository used when none is configured.
const DefaultRepository = "https://repo.maven.apache.org/maven2"

// Negative cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Duration is a time.Duration written as a string such as "90s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete set of settings.
type Config struct {
	Repository      string `toml:"repository"`
	LocalRepository string `toml:"local_repository"`
	ManagedPolicy   string `toml:"managed_policy"`
	HTTP            HTTP   `toml:"http"`
	Cache           Cache  `toml:"cache"`
}

// HTTP configures the download client.
type HTTP struct {
	Timeout          Duration `toml:"timeout"`
	Retries          int      `toml:"retries"`
	BreakerThreshold int      `toml:"breaker_threshold"`
	UserAgent        string   `toml:"user_agent"`
}

// Cache configures the negative lookup cache.
type Cache struct {
	Backend       string   `toml:"backend"`
	TTL           Duration `toml:"ttl"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

// Default returns the built-in settings. Home-relative paths are expanded;
// if the home directory is unknown they stay relative to the working
// directory.
func Default() Config {
	return Config{
		Repository:      DefaultRepository,
		LocalRepository: expandHome("~/.m2/repository"),
		ManagedPolicy:   "first-wins",
		HTTP: HTTP{
			Timeout:          Duration{60 * time.Second},
			BreakerThreshold: 5,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     Duration{24 * time.Hour},
			Dir:     cacheDir(),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/pomwalk/config.toml, falling back to
// ~/.config/pomwalk/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	return filepath.Join(expandHome("~/.config"), appName, "config.toml")
}

// Load reads path over the defaults. An empty path means [DefaultPath]; a
// missing file at the default path yields the defaults unchanged; an
// explicitly named file must exist. Parse and validation failures
// are [errors.ErrCodeInvalidConfig] errors.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case stderrors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg, nil
	default:
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}

	cfg.LocalRepository = expandHome(cfg.LocalRepository)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a walk.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.Repository); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "repository")
	}
	if strings.TrimSpace(c.LocalRepository) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "local_repository must not be empty")
	}
	if _, err := closure.ParsePolicy(c.ManagedPolicy); err != nil {
		return err
	}
	if c.HTTP.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http.timeout must not be negative")
	}
	if c.HTTP.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http.retries must not be negative")
	}
	if c.HTTP.BreakerThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http.breaker_threshold must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.dir is required for the file backend")
		}
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	case BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// cacheDir returns $XDG_CACHE_HOME/pomwalk, falling back to ~/.cache/pomwalk.
func cacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(expandHome("~/.cache"), appName)
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
