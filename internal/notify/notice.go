package notify

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/hrmslite/internal/coordinator"
	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/logfields"
)

// Notice is the wire form of a coordinator outcome.
type Notice struct {
	Operation  string    `json:"operation"`
	EmployeeID string    `json:"employee_id,omitempty"`
	Result     string    `json:"result"`
	Text       string    `json:"text,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// FromOutcome converts o. The error is reduced to its operator-facing text.
func FromOutcome(o coordinator.Outcome) Notice {
	n := Notice{
		Operation:  o.Operation,
		EmployeeID: o.EmployeeID,
		Result:     string(o.Result),
		Text:       o.Text,
		At:         o.At,
	}
	if o.Err != nil {
		n.Error = ferrors.UserMessage(o.Err)
	}
	return n
}

// PublishTimeout bounds how long an observer waits for bus subscribers.
const PublishTimeout = time.Second

// Observer returns a coordinator observer that publishes every outcome on b.
// Delivery failures are logged and never reach the coordinator.
func Observer(b *Bus, logger *slog.Logger) coordinator.Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return coordinator.ObserverFunc(func(ctx context.Context, o coordinator.Outcome) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
		defer cancel()
		if err := b.Publish(ctx, FromOutcome(o)); err != nil {
			logger.Warn("Dropping notice", logfields.Operation(o.Operation), logfields.Error(err))
		}
	})
}
