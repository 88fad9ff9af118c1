package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/logfields"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "hrmslite.outcomes"

// Publisher is the part of *nats.Conn a Forwarder needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Forwarder relays notices to a NATS subject.
type Forwarder struct {
	pub     Publisher
	subject string
	logger  *slog.Logger
	conn    *nats.Conn
}

// NewForwarder wraps an existing publisher.
func NewForwarder(pub Publisher, subject string, logger *slog.Logger) *Forwarder {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Forwarder{pub: pub, subject: subject, logger: logger}
}

// Connect dials the NATS server at url and returns a Forwarder owning the connection.
func Connect(url, subject string, logger *slog.Logger) (*Forwarder, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ferrors.ConfigError("notify.nats_url is required when notify is enabled").Build()
	}
	conn, err := nats.Connect(url,
		nats.Name("hrmslite"),
		nats.Timeout(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, ferrors.MessagingError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	f := NewForwarder(conn, subject, logger)
	f.conn = conn
	f.logger.Info("Forwarding notices to NATS", slog.String("url", url), slog.String("subject", f.subject))
	return f, nil
}

// Send publishes one notice.
func (f *Forwarder) Send(n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return ferrors.InternalError("failed to marshal notice").WithCause(err).Build()
	}
	if err := f.pub.Publish(f.subject, data); err != nil {
		return ferrors.MessagingError("failed to publish notice").
			WithCause(err).
			WithContext("subject", f.subject).
			Build()
	}
	return nil
}

// Run forwards notices from ch until it is closed or ctx ends. Publish
// failures are logged and do not stop the loop.
func (f *Forwarder) Run(ctx context.Context, ch <-chan Notice) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			if err := f.Send(n); err != nil {
				f.logger.Warn("Notice not forwarded", logfields.Operation(n.Operation), logfields.Error(err))
			}
		}
	}
}

// Close flushes and closes the connection opened by Connect.
func (f *Forwarder) Close() {
	if f.conn == nil {
		return
	}
	if err := f.conn.Drain(); err != nil {
		f.conn.Close()
	}
}
