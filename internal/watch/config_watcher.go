package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/hrmslite/internal/config"
	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one reload.
const DefaultDebounce = 500 * time.Millisecond

// ReloadFunc receives each successfully reloaded configuration.
type ReloadFunc func(ctx context.Context, cfg *config.Config) error

// ConfigWatcher reloads the configuration file when it changes.
type ConfigWatcher struct {
	path     string
	onReload ReloadFunc
	logger   *slog.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	trigger chan struct{}
	stop    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewConfigWatcher watches path and calls onReload after each change.
func NewConfigWatcher(path string, onReload ReloadFunc, logger *slog.Logger) (*ConfigWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.ConfigError("failed to resolve config path").WithCause(err).WithContext("path", path).Build()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.InternalError("failed to create file watcher").WithCause(err).Build()
	}
	return &ConfigWatcher{
		path:     abs,
		onReload: onReload,
		logger:   logger,
		debounce: DefaultDebounce,
		watcher:  w,
		trigger:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}, nil
}

// SetDebounce overrides DefaultDebounce. Call before Start.
func (cw *ConfigWatcher) SetDebounce(d time.Duration) { cw.debounce = d }

// Start watches the directory holding the file; editors often replace files
// rather than write them in place.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(cw.path)
	if err := cw.watcher.Add(dir); err != nil {
		return ferrors.ConfigError("failed to watch config directory").WithCause(err).WithContext("dir", dir).Build()
	}
	cw.logger.Info("Watching configuration", slog.String("path", cw.path))

	cw.wg.Add(2)
	go cw.eventLoop(ctx)
	go cw.reloadLoop(ctx)
	return nil
}

// Stop ends both loops and closes the watcher.
func (cw *ConfigWatcher) Stop() error {
	var err error
	cw.once.Do(func() {
		close(cw.stop)
		err = cw.watcher.Close()
		cw.wg.Wait()
	})
	return err
}

func (cw *ConfigWatcher) eventLoop(ctx context.Context) {
	defer cw.wg.Done()
	name := filepath.Base(cw.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stop:
			return
		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Remove) {
				cw.logger.Warn("Config file removed", slog.String("path", ev.Name))
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				select {
				case cw.trigger <- struct{}{}:
				default:
				}
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("Config watcher error", logfields.Error(err))
		}
	}
}

func (cw *ConfigWatcher) reloadLoop(ctx context.Context) {
	defer cw.wg.Done()
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stop:
			return
		case <-cw.trigger:
			timer.Reset(cw.debounce)
		case <-timer.C:
			cw.reload(ctx)
		}
	}
}

func (cw *ConfigWatcher) reload(ctx context.Context) {
	cfg, err := config.Load(cw.path)
	if err != nil {
		cw.logger.Error("Configuration reload rejected", logfields.Error(err))
		return
	}
	if err := cw.onReload(ctx, cfg); err != nil {
		cw.logger.Error("Failed to apply configuration", logfields.Error(err))
		return
	}
	cw.logger.Info("Configuration reloaded", slog.String("path", cw.path))
}

// IntervalUpdater returns a ReloadFunc that reschedules s from watch.interval.
func IntervalUpdater(s *Scheduler) ReloadFunc {
	return func(_ context.Context, cfg *config.Config) error {
		d, err := cfg.WatchInterval()
		if err != nil {
			return err
		}
		return s.Reschedule(d)
	}
}
