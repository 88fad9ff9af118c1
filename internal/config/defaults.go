package config

import (
	"time"

	"git.home.luguber.info/inful/hrmslite/internal/notify"
)

// Default values.
const (
	DefaultBaseURL       = "http://127.0.0.1:8000"
	DefaultTimeout       = "30s"
	DefaultMetricsAddr   = "127.0.0.1:9090"
	DefaultJournalPath   = "hrmslite-journal.db"
	DefaultWatchInterval = "1m"
)

// MinWatchInterval is the shortest accepted refresh interval.
const MinWatchInterval = time.Second

func applyDefaults(cfg *Config) {
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = DefaultBaseURL
	}
	if cfg.Service.Timeout == "" {
		cfg.Service.Timeout = DefaultTimeout
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = DefaultMetricsAddr
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = notify.DefaultSubject
	}
	if cfg.Watch.Interval == "" {
		cfg.Watch.Interval = DefaultWatchInterval
	}
}
