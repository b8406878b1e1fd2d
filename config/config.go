// Package config loads the ledger configuration.
//
// Configuration comes from a single YAML file named by the --config flag or
// the OKINOKO_CONFIG environment variable. Without either, Default applies.
// Command flags may override individual values after loading.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"okinoko_ledger/sdk"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "OKINOKO_CONFIG"

// DefaultProgramID matches contract.DefaultProgramID.
const DefaultProgramID = "5RzYB945gtiaM3k2WjiuhptSNQ8M3VmXQbBmJsSTCwC5"

// Store backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

type Config struct {
	// ProgramID is the base58 program id record addresses derive from.
	ProgramID string `yaml:"program_id"`

	Ledger LedgerConfig `yaml:"ledger"`
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
	Events EventsConfig `yaml:"events"`
	Log    LogConfig    `yaml:"log"`
}

type LedgerConfig struct {
	// StrictTextLimits enforces title/description bounds. Default: true.
	StrictTextLimits bool `yaml:"strict_text_limits"`

	// DefaultVotingSeconds applies to proposals created without a duration.
	// Absent means such proposals stay open until finalized.
	DefaultVotingSeconds *int64 `yaml:"default_voting_seconds,omitempty"`
}

type StoreConfig struct {
	// Backend is memory, badger or sqlite. Default: memory.
	Backend string `yaml:"backend"`

	// Path is the badger directory or sqlite file.
	Path string `yaml:"path"`

	// Snapshot is an optional json file the memory backend mirrors itself to.
	Snapshot string `yaml:"snapshot"`

	// PoolSize bounds sqlite connections. Default: 4.
	PoolSize int `yaml:"pool_size"`
}

type ServerConfig struct {
	// Listen is the HTTP listen address. Default: 127.0.0.1:8080
	Listen string `yaml:"listen"`

	// AllowOrigins enables CORS for these browser origins.
	AllowOrigins []string `yaml:"allow_origins"`
}

type EventsConfig struct {
	// RedisURL enables publishing events to a redis stream when set.
	RedisURL string `yaml:"redis_url"`
	Stream   string `yaml:"stream"`
}

type LogConfig struct {
	// Level is debug, info, warn or error. Default: info.
	Level string `yaml:"level"`
	// Format is text or json. Default: text.
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		ProgramID: DefaultProgramID,
		Ledger:    LedgerConfig{StrictTextLimits: true},
		Store:     StoreConfig{Backend: BackendMemory, PoolSize: 4},
		Server:    ServerConfig{Listen: "127.0.0.1:8080"},
		Events:    EventsConfig{Stream: "okinoko.ledger.events"},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// Path picks the config file: the flag value if set, else OKINOKO_CONFIG.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}

// Load reads path over the defaults. An empty path yields Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} in file paths.
func (c *Config) expandVariables() {
	c.Store.Path = expandVars(c.Store.Path)
	c.Store.Snapshot = expandVars(c.Store.Snapshot)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if _, err := sdk.ParsePubkey(c.ProgramID); err != nil {
		errs = append(errs, fmt.Errorf("program_id: %w", err))
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendBadger, BackendSQLite:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for the %s backend", c.Store.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be memory, badger or sqlite, got %q", c.Store.Backend))
	}
	if c.Store.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("store.pool_size must not be negative"))
	}

	if c.Server.Listen == "" {
		errs = append(errs, fmt.Errorf("server.listen is required"))
	}
	if c.Events.RedisURL != "" && c.Events.Stream == "" {
		errs = append(errs, fmt.Errorf("events.stream is required when events.redis_url is set"))
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds the process logger described by the log section.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
