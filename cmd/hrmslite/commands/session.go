package commands

import (
	"context"
	"log/slog"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/hrmslite/internal/config"
	"git.home.luguber.info/inful/hrmslite/internal/coordinator"
	"git.home.luguber.info/inful/hrmslite/internal/journal"
	"git.home.luguber.info/inful/hrmslite/internal/logfields"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
	"git.home.luguber.info/inful/hrmslite/internal/notify"
	"git.home.luguber.info/inful/hrmslite/internal/service"
)

// session wires the coordinator to the service client and to the optional
// journal, NATS forwarder and Prometheus recorder named in the configuration.
type session struct {
	cfg      *config.Config
	client   *service.Client
	coord    *coordinator.Coordinator
	registry *prom.Registry

	mu       sync.Mutex
	outcomes []coordinator.Outcome

	closers []func()
}

type sessionOptions struct {
	confirmer coordinator.Confirmer
	metrics   bool
	observers []coordinator.Observer
}

func openSession(g *Global, root *CLI, opts sessionOptions) (*session, error) {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return nil, err
	}
	return newSession(g.context(), g.logger(), cfg, opts)
}

func newSession(ctx context.Context, logger *slog.Logger, cfg *config.Config, opts sessionOptions) (*session, error) {
	timeout, err := cfg.ServiceTimeout()
	if err != nil {
		return nil, err
	}
	client, err := service.New(service.Options{
		BaseURL:   cfg.Service.BaseURL,
		Timeout:   timeout,
		UserAgent: cfg.Service.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	client.SetLogger(logger)

	s := &session{cfg: cfg, client: client}
	coordOpts := []coordinator.Option{
		coordinator.WithLogger(logger),
		coordinator.WithConfirmer(opts.confirmer),
		coordinator.WithObserver(coordinator.ObserverFunc(s.record)),
	}

	if opts.metrics && cfg.Metrics.Enabled {
		s.registry = metrics.NewRegistry()
		rec := metrics.NewPrometheusRecorder(s.registry)
		client.SetRecorder(rec)
		coordOpts = append(coordOpts, coordinator.WithRecorder(rec))
	}

	if cfg.Journal.Enabled {
		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			s.Close()
			return nil, err
		}
		store.SetLogger(logger)
		s.closers = append(s.closers, func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close journal", logfields.Error(err))
			}
		})
		coordOpts = append(coordOpts, coordinator.WithObserver(store))
	}

	if cfg.Notify.Enabled {
		fwd, err := notify.Connect(cfg.Notify.NATSURL, cfg.Notify.Subject, logger)
		if err != nil {
			s.Close()
			return nil, err
		}
		bus := notify.NewBus()
		ch, _ := notify.Subscribe[notify.Notice](bus, 64)
		done := make(chan struct{})
		go func() {
			defer close(done)
			fwd.Run(context.WithoutCancel(ctx), ch)
		}()
		s.closers = append(s.closers, func() {
			bus.Close()
			<-done
			fwd.Close()
		})
		coordOpts = append(coordOpts, coordinator.WithObserver(notify.Observer(bus, logger)))
	}

	for _, o := range opts.observers {
		coordOpts = append(coordOpts, coordinator.WithObserver(o))
	}
	s.coord = coordinator.New(client, coordOpts...)
	return s, nil
}

func (s *session) record(_ context.Context, o coordinator.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, o)
}

// last returns the most recent outcome for op.
func (s *session) last(op string) (coordinator.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.outcomes) - 1; i >= 0; i-- {
		if s.outcomes[i].Operation == op {
			return s.outcomes[i], true
		}
	}
	return coordinator.Outcome{}, false
}

// Close releases optional resources in reverse order of acquisition.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
