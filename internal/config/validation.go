package config

import (
	"net/url"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
)

// normalize case-folds enumerations and trims free-form strings.
func normalize(cfg *Config) {
	cfg.Service.BaseURL = strings.TrimSpace(cfg.Service.BaseURL)
	if cfg.Logging.Level != "" {
		cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	}
	if cfg.Logging.Format != "" {
		cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	}
	cfg.Notify.NATSURL = strings.TrimSpace(cfg.Notify.NATSURL)
}

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return ferrors.ConfigError("unsupported configuration version").
			WithContext("version", c.Version).
			WithContext("expected", CurrentVersion).
			Build()
	}

	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ferrors.ConfigError("service.base_url must be an absolute http(s) URL").
			WithContext("base_url", c.Service.BaseURL).
			Build()
	}

	if _, err := c.ServiceTimeout(); err != nil {
		return err
	}
	if _, err := c.WatchInterval(); err != nil {
		return err
	}

	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.ListenAddr) == "" {
		return ferrors.ConfigError("metrics.listen_addr is required when metrics are enabled").Build()
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return ferrors.ConfigError("journal.path is required when the journal is enabled").Build()
	}
	if c.Notify.Enabled && c.Notify.NATSURL == "" {
		return ferrors.ConfigError("notify.nats_url is required when notify is enabled").Build()
	}
	return nil
}

// ServiceTimeout parses service.timeout.
func (c *Config) ServiceTimeout() (time.Duration, error) {
	return parsePositive("service.timeout", c.Service.Timeout, time.Nanosecond)
}

// WatchInterval parses watch.interval.
func (c *Config) WatchInterval() (time.Duration, error) {
	return parsePositive("watch.interval", c.Watch.Interval, MinWatchInterval)
}

func parsePositive(field, raw string, minimum time.Duration) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, ferrors.ConfigError("invalid duration").
			WithCause(err).
			WithContext("field", field).
			WithContext("value", raw).
			Build()
	}
	if d < minimum {
		return 0, ferrors.ConfigError("duration too short").
			WithContext("field", field).
			WithContext("value", raw).
			WithContext("minimum", minimum.String()).
			Build()
	}
	return d, nil
}
