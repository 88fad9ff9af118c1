package coordinator

import (
	"context"
	"slices"

	"git.home.luguber.info/inful/hrmslite/internal/logfields"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
	"git.home.luguber.info/inful/hrmslite/internal/records"
)

// Attendance returns the cached history for id, and whether one has been fetched.
func (c *Coordinator) Attendance(id string) ([]records.AttendanceRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.attendance[id]
	return slices.Clone(list), ok
}

// PresentCount counts Present entries in the cached history for id. It is
// computed on every call. The bool is false when no history is cached.
func (c *Coordinator) PresentCount(id string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.attendance[id]
	if !ok {
		return 0, false
	}
	return records.PresentCount(list), true
}

// Fetch loads the full attendance history for id and replaces its cache entry.
// On failure any previously cached entry is kept.
func (c *Coordinator) Fetch(ctx context.Context, id string) error {
	if id == "" {
		c.emit(ctx, Outcome{Operation: OpFetch, Result: metrics.ResultValidation, Text: MsgMissingEmployeeID, Err: ErrMissingEmployeeID})
		return ErrMissingEmployeeID
	}

	var token uint64
	c.apply(func() { token = c.track.beginAttendance(id) })
	defer c.apply(func() { c.track.endAttendance(token) })

	list, err := c.remote.ListAttendance(ctx, id)
	if err != nil {
		failure := ErrFetchFailed.WithCause(err).WithContext("employee_id", id)
		c.emit(ctx, Outcome{Operation: OpFetch, EmployeeID: id, Result: metrics.ResultFailed, Text: MsgFetchFailed, Err: failure})
		return failure
	}

	c.apply(func() { c.attendance[id] = slices.Clone(list) })
	c.logger.DebugContext(ctx, "attendance fetched", logfields.EmployeeID(id), logfields.Count(len(list)))
	c.emit(ctx, Outcome{Operation: OpFetch, EmployeeID: id, Result: metrics.ResultSuccess})
	return nil
}

// Mark records status for id on today's local calendar date. The attendance
// cache is not touched; call Fetch to observe the new entry.
func (c *Coordinator) Mark(ctx context.Context, id string, status records.Status) error {
	if id == "" {
		c.emit(ctx, Outcome{Operation: OpMark, Result: metrics.ResultValidation, Text: MsgMissingEmployeeID, Err: ErrMissingEmployeeID})
		return ErrMissingEmployeeID
	}
	if !status.Valid() {
		err := ErrInvalidStatus.WithContext("input", string(status))
		c.emit(ctx, Outcome{Operation: OpMark, EmployeeID: id, Result: metrics.ResultValidation, Text: err.UserMessage(), Err: err})
		return err
	}

	mark := records.MarkRequest{EmployeeID: id, Date: records.FormatDate(c.now()), Status: status}
	if err := c.remote.MarkAttendance(ctx, mark); err != nil {
		failure := ErrMarkFailed.WithCause(err).
			WithContext("employee_id", id).
			WithContext("date", mark.Date)
		c.emit(ctx, Outcome{Operation: OpMark, EmployeeID: id, Result: metrics.ResultFailed, Text: MsgMarkFailed, Err: failure})
		return failure
	}

	c.logger.DebugContext(ctx, "attendance marked", logfields.EmployeeID(id), logfields.Status(string(status)), logfields.Date(mark.Date))
	c.emit(ctx, Outcome{Operation: OpMark, EmployeeID: id, Result: metrics.ResultSuccess, Text: markedText(id, status)})
	return nil
}
