// Package config loads the hrmslite configuration file.
//
// Load order: .env/.env.local (never overriding the process environment),
// ${VAR} expansion of the YAML text, unmarshal, HRMSLITE_* overrides,
// normalization, defaults, validation.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
)

// CurrentVersion is the only configuration version this build understands.
const CurrentVersion = "1.0"

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = "hrmslite.yaml"

// Config is the root configuration document.
type Config struct {
	Version string        `yaml:"version"`
	Service ServiceConfig `yaml:"service"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Journal JournalConfig `yaml:"journal"`
	Notify  NotifyConfig  `yaml:"notify"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ServiceConfig locates the remote record service.
type ServiceConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   string `yaml:"timeout"` // Go duration, e.g. "30s"
	UserAgent string `yaml:"user_agent,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint served by `watch`.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// JournalConfig controls the SQLite outcome journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotifyConfig controls forwarding of outcomes to NATS.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// WatchConfig controls the periodic roster refresh of `watch`.
type WatchConfig struct {
	Interval string `yaml:"interval"` // Go duration
}

// Env names that override file values.
const (
	EnvBaseURL  = "HRMSLITE_BASE_URL"
	EnvLogLevel = "HRMSLITE_LOG_LEVEL"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads each env file that exists. Existing variables win.
func loadEnvFiles() error {
	for _, p := range envFiles {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return ferrors.ConfigError("failed to load env file").WithCause(err).WithContext("path", p).Build()
		}
	}
	return nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	applyDefaults(cfg)
	return cfg
}

// Load reads path. An empty path yields the defaults, still subject to env
// overrides.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{Version: CurrentVersion}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, ferrors.ConfigError("configuration file not found").WithContext("path", path).Build()
			}
			return nil, ferrors.ConfigError("failed to read configuration file").WithCause(err).WithContext("path", path).Build()
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, ferrors.ConfigError("failed to parse configuration file").WithCause(err).WithContext("path", path).Build()
		}
		if cfg.Version == "" {
			cfg.Version = CurrentVersion
		}
	}

	applyEnvOverrides(cfg)
	normalize(cfg)
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve picks the configuration path: the explicit one, else DefaultPath
// when it exists, else "".
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Default()
	example.Journal.Enabled = true
	example.Notify.NATSURL = "nats://127.0.0.1:4222"

	data, err := yaml.Marshal(example)
	if err != nil {
		return ferrors.InternalError("failed to marshal example configuration").WithCause(err).Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.ConfigError("failed to write configuration file").WithCause(err).WithContext("path", path).Build()
	}
	return nil
}
