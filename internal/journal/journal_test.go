package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/hrmslite/internal/coordinator"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndList(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Append(ctx, Entry{Operation: "add", EmployeeID: "E1", Result: "success", Text: "Added employee E1", At: base}))
	require.NoError(t, s.Append(ctx, Entry{Operation: "mark", EmployeeID: "E1", Result: "success", At: base.Add(time.Minute)}))
	require.NoError(t, s.Append(ctx, Entry{Operation: "add", EmployeeID: "E2", Result: "conflict", Error: "duplicate", At: base.Add(2 * time.Minute)}))

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "E2", all[0].EmployeeID, "newest first")
	assert.Equal(t, "duplicate", all[0].Error)
	assert.True(t, all[2].At.Equal(base))
	assert.Equal(t, "Added employee E1", all[2].Text)

	e1, err := s.List(ctx, Filter{EmployeeID: "E1"})
	require.NoError(t, err)
	assert.Len(t, e1, 2)

	adds, err := s.List(ctx, Filter{Operation: "add", Limit: 1})
	require.NoError(t, err)
	require.Len(t, adds, 1)
	assert.Equal(t, "E2", adds[0].EmployeeID)
}

func TestAppendDefaultsTimestamp(t *testing.T) {
	s := openMemory(t)
	before := time.Now().Add(-time.Second)
	require.NoError(t, s.Append(context.Background(), Entry{Operation: "refresh", Result: "success"}))

	list, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].At.After(before))
}

func TestObserveJournalsOutcome(t *testing.T) {
	s := openMemory(t)
	s.Observe(context.Background(), coordinator.Outcome{
		Operation:  coordinator.OpRemove,
		EmployeeID: "E3",
		Result:     metrics.ResultFailed,
		Text:       coordinator.MsgDeleteFailed,
		Err:        coordinator.ErrDeleteFailed,
		At:         time.Now(),
	})

	list, err := s.List(context.Background(), Filter{EmployeeID: "E3"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "remove", list[0].Operation)
	assert.Equal(t, "failed", list[0].Result)
	assert.Equal(t, "Failed to delete employee", list[0].Text)
	assert.NotEmpty(t, list[0].Error)
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Append(context.Background(), Entry{Operation: "add", EmployeeID: "E1", Result: "success"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	list, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCoordinatorWritesThroughObserver(t *testing.T) {
	s := openMemory(t)
	c := coordinator.New(nil, coordinator.WithObserver(s))

	require.ErrorIs(t, c.Mark(context.Background(), "", "Present"), coordinator.ErrMissingEmployeeID)

	list, err := s.List(context.Background(), Filter{Operation: coordinator.OpMark})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "validation", list[0].Result)
	assert.Equal(t, "Employee ID is required", list[0].Text)
}
