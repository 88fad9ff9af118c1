package coordinator

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"git.home.luguber.info/inful/hrmslite/internal/logfields"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
	"git.home.luguber.info/inful/hrmslite/internal/records"
)

// Remote is the record-service surface the coordinator depends on.
// *service.Client satisfies it.
type Remote interface {
	ListEmployees(ctx context.Context) ([]records.EmployeeRecord, error)
	AddEmployee(ctx context.Context, rec records.EmployeeRecord) error
	DeleteEmployee(ctx context.Context, id string) error
	MarkAttendance(ctx context.Context, mark records.MarkRequest) error
	ListAttendance(ctx context.Context, id string) ([]records.AttendanceRecord, error)
}

// Phase is the roster load state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseLoadFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseLoadFailed:
		return "load_failed"
	default:
		return "idle"
	}
}

// Coordinator is the client state owner. All methods are safe for concurrent use.
type Coordinator struct {
	remote    Remote
	confirmer Confirmer
	observers []Observer
	recorder  metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time

	mu         sync.Mutex
	roster     rosterCache
	attendance attendanceCache
	track      tracker
	lastLoad   Phase
	loadErr    string
	draft      records.EmployeeRecord
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithConfirmer sets the confirmer consulted before removals.
func WithConfirmer(c Confirmer) Option {
	return func(co *Coordinator) {
		if c != nil {
			co.confirmer = c
		}
	}
}

// WithObserver adds an outcome observer.
func WithObserver(o Observer) Option {
	return func(co *Coordinator) {
		if o != nil {
			co.observers = append(co.observers, o)
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(co *Coordinator) {
		if r != nil {
			co.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(co *Coordinator) {
		if l != nil {
			co.logger = l
		}
	}
}

// WithClock overrides the clock used to stamp attendance marks.
func WithClock(now func() time.Time) Option {
	return func(co *Coordinator) {
		if now != nil {
			co.now = now
		}
	}
}

// New creates a Coordinator over remote. Removals are declined until a
// Confirmer is supplied.
func New(remote Remote, opts ...Option) *Coordinator {
	c := &Coordinator{
		remote:     remote,
		confirmer:  NeverConfirm,
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
		now:        time.Now,
		roster:     newRosterCache(),
		attendance: attendanceCache{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot is a consistent, caller-owned copy of the coordinator state.
type Snapshot struct {
	Phase               Phase
	Employees           []records.EmployeeRecord
	Attendance          map[string][]records.AttendanceRecord
	RosterLoading       bool
	AttendanceLoadingID string
	LoadError           string
	Draft               records.EmployeeRecord
}

// PresentCount returns the Present count for id, and whether id has a cached history.
func (s Snapshot) PresentCount(id string) (int, bool) {
	list, ok := s.Attendance[id]
	if !ok {
		return 0, false
	}
	return records.PresentCount(list), true
}

// Snapshot copies the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	att := make(map[string][]records.AttendanceRecord, len(c.attendance))
	for id, list := range c.attendance {
		att[id] = slices.Clone(list)
	}
	return Snapshot{
		Phase:               c.phaseLocked(),
		Employees:           c.roster.list(),
		Attendance:          att,
		RosterLoading:       c.track.rosterLoading(),
		AttendanceLoadingID: c.track.attendanceID,
		LoadError:           c.loadErr,
		Draft:               c.draft,
	}
}

// Phase returns the roster load state.
func (c *Coordinator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phaseLocked()
}

func (c *Coordinator) phaseLocked() Phase {
	if c.track.rosterLoading() {
		return PhaseLoading
	}
	return c.lastLoad
}

// RosterLoading reports whether a roster refresh is in flight.
func (c *Coordinator) RosterLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.track.rosterLoading()
}

// AttendanceLoadingID returns the employee whose attendance fetch is currently
// reported as loading, or "".
func (c *Coordinator) AttendanceLoadingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.track.attendanceID
}

// LoadError returns the persistent roster load banner, or "".
func (c *Coordinator) LoadError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// SetDraft stores the add-employee form input.
func (c *Coordinator) SetDraft(rec records.EmployeeRecord) {
	c.mu.Lock()
	c.draft = rec
	c.mu.Unlock()
}

// Draft returns the add-employee form input.
func (c *Coordinator) Draft() records.EmployeeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// apply runs fn with the state lock held. Completion handlers use it for every mutation.
func (c *Coordinator) apply(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

func (c *Coordinator) emit(ctx context.Context, o Outcome) {
	o.At = c.now()
	c.recorder.IncOperationResult(o.Operation, o.Result)

	attrs := []slog.Attr{logfields.Operation(o.Operation)}
	if o.EmployeeID != "" {
		attrs = append(attrs, logfields.EmployeeID(o.EmployeeID))
	}
	attrs = append(attrs, slog.String("result", string(o.Result)))
	level := slog.LevelInfo
	if o.Err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, logfields.Error(o.Err))
	}
	c.logger.LogAttrs(ctx, level, "operation completed", attrs...)

	for _, obs := range c.observers {
		obs.Observe(ctx, o)
	}
}

// attendanceCache maps employee id to the last fetched history.
type attendanceCache map[string][]records.AttendanceRecord
