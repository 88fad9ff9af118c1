package coordinator

import (
	"context"
	"slices"
	"sync"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/records"
)

// fakeRemote is an in-memory record service that counts calls.
type fakeRemote struct {
	mu      sync.Mutex
	roster  []records.EmployeeRecord
	history map[string][]records.AttendanceRecord
	marks   []records.MarkRequest
	calls   map[string]int

	listErr   error
	addErr    error
	deleteErr error
	markErr   error
	fetchErr  error

	// fetchGate blocks ListAttendance for an id until the channel is closed.
	fetchGate    map[string]chan struct{}
	fetchStarted chan string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		history:   map[string][]records.AttendanceRecord{},
		calls:     map[string]int{},
		fetchGate: map[string]chan struct{}{},
	}
}

func (f *fakeRemote) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRemote) ListEmployees(context.Context) ([]records.EmployeeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.roster), nil
}

func (f *fakeRemote) AddEmployee(_ context.Context, rec records.EmployeeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["add"]++
	if f.addErr != nil {
		return f.addErr
	}
	for _, e := range f.roster {
		if e.EmployeeID == rec.EmployeeID {
			return ferrors.ConflictError("duplicate").WithContext("code", 409).Build()
		}
	}
	f.roster = append(f.roster, rec)
	return nil
}

func (f *fakeRemote) DeleteEmployee(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.roster = slices.DeleteFunc(f.roster, func(e records.EmployeeRecord) bool { return e.EmployeeID == id })
	return nil
}

func (f *fakeRemote) MarkAttendance(_ context.Context, mark records.MarkRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["mark"]++
	if f.markErr != nil {
		return f.markErr
	}
	f.marks = append(f.marks, mark)
	f.history[mark.EmployeeID] = append(f.history[mark.EmployeeID], records.AttendanceRecord{Date: mark.Date, Status: mark.Status})
	return nil
}

func (f *fakeRemote) ListAttendance(_ context.Context, id string) ([]records.AttendanceRecord, error) {
	f.mu.Lock()
	f.calls["fetch"]++
	gate := f.fetchGate[id]
	started := f.fetchStarted
	f.mu.Unlock()

	if started != nil {
		started <- id
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return slices.Clone(f.history[id]), nil
}
