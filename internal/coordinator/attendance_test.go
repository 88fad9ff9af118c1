package coordinator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
	"git.home.luguber.info/inful/hrmslite/internal/records"
)

func present(d string) records.AttendanceRecord {
	return records.AttendanceRecord{Date: d, Status: records.StatusPresent}
}

func absent(d string) records.AttendanceRecord {
	return records.AttendanceRecord{Date: d, Status: records.StatusAbsent}
}

func TestFetch_ReplacesNotAppends(t *testing.T) {
	remote := newFakeRemote()
	remote.history["E1"] = []records.AttendanceRecord{present("2024-01-01")}
	c, _ := newTestCoordinator(remote)

	require.NoError(t, c.Fetch(context.Background(), "E1"))
	require.NoError(t, c.Fetch(context.Background(), "E1"))

	got, ok := c.Attendance("E1")
	require.True(t, ok)
	assert.Equal(t, []records.AttendanceRecord{present("2024-01-01")}, got)

	remote.history["E1"] = []records.AttendanceRecord{absent("2024-01-02")}
	require.NoError(t, c.Fetch(context.Background(), "E1"))
	got, _ = c.Attendance("E1")
	assert.Equal(t, []records.AttendanceRecord{absent("2024-01-02")}, got)
}

func TestFetch_EmptyHistoryIsCached(t *testing.T) {
	c, _ := newTestCoordinator(newFakeRemote())

	_, ok := c.Attendance("E9")
	assert.False(t, ok)

	require.NoError(t, c.Fetch(context.Background(), "E9"))
	_, ok = c.Attendance("E9")
	assert.True(t, ok)
	n, ok := c.PresentCount("E9")
	assert.True(t, ok)
	assert.Zero(t, n)
}

func TestFetch_FailureKeepsPriorEntry(t *testing.T) {
	remote := newFakeRemote()
	remote.history["E1"] = []records.AttendanceRecord{present("2024-01-01")}
	c, log := newTestCoordinator(remote)
	require.NoError(t, c.Fetch(context.Background(), "E1"))

	remote.fetchErr = errors.New("timeout")
	err := c.Fetch(context.Background(), "E1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, MsgFetchFailed, ferrors.UserMessage(err))

	got, _ := c.Attendance("E1")
	assert.Equal(t, []records.AttendanceRecord{present("2024-01-01")}, got)
	assert.Empty(t, c.AttendanceLoadingID())
	assert.Equal(t, MsgFetchFailed, log.last().Text)
}

func TestPresentCount(t *testing.T) {
	remote := newFakeRemote()
	remote.history["E1"] = []records.AttendanceRecord{
		present("2024-01-01"), absent("2024-01-02"), present("2024-01-03"),
	}
	c, _ := newTestCoordinator(remote)

	_, ok := c.PresentCount("E1")
	assert.False(t, ok)

	require.NoError(t, c.Fetch(context.Background(), "E1"))
	n, ok := c.PresentCount("E1")
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = c.Snapshot().PresentCount("E1")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestMark_DoesNotTouchCache(t *testing.T) {
	remote := newFakeRemote()
	c, log := newTestCoordinator(remote)
	require.NoError(t, c.Fetch(context.Background(), "E1"))

	require.NoError(t, c.Mark(context.Background(), "E1", records.StatusPresent))

	got, ok := c.Attendance("E1")
	require.True(t, ok)
	assert.Empty(t, got)
	assert.Equal(t, 1, remote.count("fetch"))
	require.Len(t, remote.marks, 1)
	assert.Equal(t, records.MarkRequest{EmployeeID: "E1", Date: "2024-01-01", Status: records.StatusPresent}, remote.marks[0])
	assert.Equal(t, "Marked Present for E1", log.last().Text)

	require.NoError(t, c.Fetch(context.Background(), "E1"))
	got, _ = c.Attendance("E1")
	assert.Equal(t, []records.AttendanceRecord{present("2024-01-01")}, got)
}

func TestMark_UsesLocalCalendarDate(t *testing.T) {
	remote := newFakeRemote()
	late := time.Date(2024, 3, 9, 23, 59, 0, 0, time.FixedZone("UTC+5", 5*3600))
	c := New(remote, WithClock(func() time.Time { return late }))

	require.NoError(t, c.Mark(context.Background(), "E1", records.StatusAbsent))
	require.Len(t, remote.marks, 1)
	assert.Equal(t, "2024-03-09", remote.marks[0].Date)
}

func TestMark_Validation(t *testing.T) {
	remote := newFakeRemote()
	c, log := newTestCoordinator(remote)

	require.ErrorIs(t, c.Mark(context.Background(), "", records.StatusPresent), ErrMissingEmployeeID)
	require.ErrorIs(t, c.Mark(context.Background(), "E1", records.Status("Late")), ErrInvalidStatus)
	assert.Zero(t, remote.total())
	assert.Equal(t, metrics.ResultValidation, log.last().Result)
}

func TestMark_Failure(t *testing.T) {
	remote := newFakeRemote()
	remote.markErr = errors.New("503")
	c, _ := newTestCoordinator(remote)

	err := c.Mark(context.Background(), "E1", records.StatusPresent)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMarkFailed)
	assert.Equal(t, MsgMarkFailed, ferrors.UserMessage(err))
	_, ok := c.Attendance("E1")
	assert.False(t, ok)
}

func TestFetch_EmptyID(t *testing.T) {
	remote := newFakeRemote()
	c, _ := newTestCoordinator(remote)
	require.ErrorIs(t, c.Fetch(context.Background(), ""), ErrMissingEmployeeID)
	assert.Zero(t, remote.total())
}

func TestFetch_SlotFollowsLatestStart(t *testing.T) {
	remote := newFakeRemote()
	remote.history["A"] = []records.AttendanceRecord{present("2024-01-01")}
	remote.history["B"] = []records.AttendanceRecord{absent("2024-01-01"), present("2024-01-02")}
	gateA, gateB := make(chan struct{}), make(chan struct{})
	remote.fetchGate["A"] = gateA
	remote.fetchGate["B"] = gateB
	remote.fetchStarted = make(chan string, 2)
	c, _ := newTestCoordinator(remote)

	doneA, doneB := make(chan error, 1), make(chan error, 1)
	go func() { doneA <- c.Fetch(context.Background(), "A") }()
	require.Equal(t, "A", <-remote.fetchStarted)
	assert.Equal(t, "A", c.AttendanceLoadingID())

	go func() { doneB <- c.Fetch(context.Background(), "B") }()
	require.Equal(t, "B", <-remote.fetchStarted)
	assert.Equal(t, "B", c.AttendanceLoadingID())

	close(gateA)
	require.NoError(t, <-doneA)
	assert.Equal(t, "B", c.AttendanceLoadingID(), "completing A must not clear B's slot")
	got, ok := c.Attendance("A")
	require.True(t, ok)
	assert.Len(t, got, 1)

	close(gateB)
	require.NoError(t, <-doneB)
	assert.Empty(t, c.AttendanceLoadingID())
	got, ok = c.Attendance("B")
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestRefresh_LoadingFlagWhileInFlight(t *testing.T) {
	remote := &blockingRoster{fakeRemote: newFakeRemote(), started: make(chan struct{}), release: make(chan struct{})}
	c, _ := newTestCoordinator(remote)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-remote.started
	assert.True(t, c.RosterLoading())
	assert.Equal(t, PhaseLoading, c.Phase())

	close(remote.release)
	require.NoError(t, <-done)
	assert.False(t, c.RosterLoading())
	assert.Equal(t, PhaseLoaded, c.Phase())
}

type blockingRoster struct {
	*fakeRemote
	started chan struct{}
	release chan struct{}
}

func (b *blockingRoster) ListEmployees(ctx context.Context) ([]records.EmployeeRecord, error) {
	close(b.started)
	<-b.release
	return b.fakeRemote.ListEmployees(ctx)
}
