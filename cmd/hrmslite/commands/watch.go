package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/hrmslite/internal/config"
	"git.home.luguber.info/inful/hrmslite/internal/coordinator"
	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/logfields"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
	"git.home.luguber.info/inful/hrmslite/internal/watch"
)

// WatchCmd implements 'watch'.
type WatchCmd struct {
	Interval time.Duration `help:"Override watch.interval from the configuration"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx := g.context()
	printer := &rosterPrinter{out: g.out()}
	s, err := openSession(g, root, sessionOptions{
		metrics:   true,
		observers: []coordinator.Observer{printer},
	})
	if err != nil {
		return err
	}
	defer s.Close()
	printer.coord = s.coord

	interval, err := s.cfg.WatchInterval()
	if err != nil {
		return err
	}
	if w.Interval > 0 {
		interval = w.Interval
	}

	logger := g.logger()
	if s.registry != nil {
		srv, err := serveMetrics(s.cfg.Metrics.ListenAddr, s.registry, logger)
		if err != nil {
			return err
		}
		defer shutdownServer(srv, logger)
	}

	sched, err := watch.NewScheduler(s.coord, logger)
	if err != nil {
		return err
	}
	if err := sched.Start(ctx, interval); err != nil {
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			logger.Warn("Scheduler shutdown incomplete", logfields.Error(err))
		}
	}()

	if path := config.Resolve(root.Config); path != "" && w.Interval == 0 {
		cw, err := watch.NewConfigWatcher(path, watch.IntervalUpdater(sched), logger)
		if err != nil {
			return err
		}
		if err := cw.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = cw.Stop() }()
	}

	<-ctx.Done()
	return nil
}

// rosterPrinter prints one line per roster refresh.
type rosterPrinter struct {
	out   io.Writer
	coord *coordinator.Coordinator
	mu    sync.Mutex
}

func (p *rosterPrinter) Observe(_ context.Context, o coordinator.Outcome) {
	if o.Operation != coordinator.OpRefresh || p.coord == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	stamp := o.At.Format(time.TimeOnly)
	if o.Failed() {
		_, _ = fmt.Fprintf(p.out, "%s  %s\n", stamp, ferrors.UserMessage(o.Err))
		return
	}
	_, _ = fmt.Fprintf(p.out, "%s  %d employees\n", stamp, len(p.coord.Employees()))
}

func serveMetrics(addr string, reg *prom.Registry, logger *slog.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ferrors.ConfigError("failed to start metrics server").WithCause(err).WithContext("listen_addr", addr).Build()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", logfields.Error(err))
		}
	}()
	logger.Info("Serving metrics", slog.String("listen_addr", ln.Addr().String()))
	return srv, nil
}

func shutdownServer(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Metrics server shutdown failed", logfields.Error(err))
	}
}
