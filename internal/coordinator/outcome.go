package coordinator

import (
	"context"
	"time"

	"git.home.luguber.info/inful/hrmslite/internal/metrics"
)

// Outcome describes one completed coordinator operation.
type Outcome struct {
	Operation  string              `json:"operation"`
	EmployeeID string              `json:"employee_id,omitempty"`
	Result     metrics.ResultLabel `json:"result"`
	// Text is the operator notice for this outcome; empty when nothing should be shown.
	Text string    `json:"text,omitempty"`
	Err  error     `json:"-"`
	At   time.Time `json:"at"`
}

// Failed reports whether the operation ended in an error.
func (o Outcome) Failed() bool { return o.Err != nil }

// Observer receives outcomes after the owning state change has been applied.
// Observers run synchronously on the caller's goroutine, outside the state lock.
type Observer interface {
	Observe(ctx context.Context, o Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, o Outcome)

func (f ObserverFunc) Observe(ctx context.Context, o Outcome) { f(ctx, o) }
