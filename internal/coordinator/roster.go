package coordinator

import (
	"context"
	"errors"
	"slices"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/logfields"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
	"git.home.luguber.info/inful/hrmslite/internal/records"
)

// rosterCache holds the last fetched roster in server order, indexed by id.
type rosterCache struct {
	order []records.EmployeeRecord
	byID  map[string]int
}

func newRosterCache() rosterCache {
	return rosterCache{byID: map[string]int{}}
}

// replace swaps in a whole new roster. There is no partial update.
func (r *rosterCache) replace(list []records.EmployeeRecord) {
	order := slices.Clone(list)
	byID := make(map[string]int, len(order))
	for i, e := range order {
		byID[e.EmployeeID] = i
	}
	r.order, r.byID = order, byID
}

func (r *rosterCache) list() []records.EmployeeRecord {
	return slices.Clone(r.order)
}

func (r *rosterCache) get(id string) (records.EmployeeRecord, bool) {
	i, ok := r.byID[id]
	if !ok {
		return records.EmployeeRecord{}, false
	}
	return r.order[i], true
}

// Employees returns the cached roster in server order.
func (c *Coordinator) Employees() []records.EmployeeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roster.list()
}

// Employee looks up one cached roster entry.
func (c *Coordinator) Employee(id string) (records.EmployeeRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roster.get(id)
}

// Refresh replaces the roster cache with the service's current list and clears
// the load banner. On failure the cached roster is kept and the banner is set.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.apply(func() { c.recorder.SetRefreshInFlight(c.track.beginRoster()) })
	defer c.apply(func() { c.recorder.SetRefreshInFlight(c.track.endRoster()) })

	list, err := c.remote.ListEmployees(ctx)
	if err != nil {
		c.apply(func() {
			c.lastLoad = PhaseLoadFailed
			c.loadErr = MsgServiceUnreachable
		})
		failure := ErrRosterUnavailable.WithCause(err)
		c.emit(ctx, Outcome{Operation: OpRefresh, Result: metrics.ResultFailed, Err: failure})
		return failure
	}

	c.apply(func() {
		c.roster.replace(list)
		c.lastLoad = PhaseLoaded
		c.loadErr = ""
	})
	c.recorder.SetRosterSize(len(list))
	c.logger.DebugContext(ctx, "roster refreshed", logfields.Count(len(list)))
	c.emit(ctx, Outcome{Operation: OpRefresh, Result: metrics.ResultSuccess})
	return nil
}

// Add submits rec after checking all four fields are filled. Nothing is sent
// when validation fails. On success the draft is cleared and the roster is
// refreshed; a failed follow-up refresh only sets the load banner.
func (c *Coordinator) Add(ctx context.Context, rec records.EmployeeRecord) error {
	rec = rec.Trimmed()
	if err := rec.Validate(); err != nil {
		c.emit(ctx, Outcome{Operation: OpAdd, EmployeeID: rec.EmployeeID, Result: metrics.ResultValidation, Text: ferrors.UserMessage(err), Err: err})
		return err
	}

	if err := c.remote.AddEmployee(ctx, rec); err != nil {
		failure, result := ErrAddFailed.WithCause(err), metrics.ResultFailed
		if ferrors.HasCategory(err, ferrors.CategoryAlreadyExists) {
			failure, result = ErrAlreadyExists.WithCause(err), metrics.ResultConflict
		}
		failure = failure.WithContext("employee_id", rec.EmployeeID)
		c.emit(ctx, Outcome{Operation: OpAdd, EmployeeID: rec.EmployeeID, Result: result, Text: failure.UserMessage(), Err: failure})
		return failure
	}

	c.apply(func() { c.draft = records.EmployeeRecord{} })
	c.emit(ctx, Outcome{Operation: OpAdd, EmployeeID: rec.EmployeeID, Result: metrics.ResultSuccess, Text: addedText(rec.EmployeeID)})

	_ = c.Refresh(ctx)
	return nil
}

// SubmitDraft adds the employee currently held in the draft.
func (c *Coordinator) SubmitDraft(ctx context.Context) error {
	return c.Add(ctx, c.Draft())
}

// Remove deletes the employee with id once the confirmer approves. A declined
// confirmation sends nothing and is not an error. On success the roster is
// refreshed; on failure the cache is left untouched.
func (c *Coordinator) Remove(ctx context.Context, id string) error {
	if id == "" {
		c.emit(ctx, Outcome{Operation: OpRemove, Result: metrics.ResultValidation, Text: MsgMissingEmployeeID, Err: ErrMissingEmployeeID})
		return ErrMissingEmployeeID
	}

	ok, err := c.confirmer.Confirm(ctx, DeletePrompt(id))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return ferrors.InternalError("confirmation failed").WithCause(err).WithContext("employee_id", id).Build()
	}
	if !ok {
		c.emit(ctx, Outcome{Operation: OpRemove, EmployeeID: id, Result: metrics.ResultDeclined})
		return nil
	}

	if err := c.remote.DeleteEmployee(ctx, id); err != nil {
		failure := ErrDeleteFailed.WithCause(err).WithContext("employee_id", id)
		c.emit(ctx, Outcome{Operation: OpRemove, EmployeeID: id, Result: metrics.ResultFailed, Text: MsgDeleteFailed, Err: failure})
		return failure
	}

	c.emit(ctx, Outcome{Operation: OpRemove, EmployeeID: id, Result: metrics.ResultSuccess, Text: deletedText(id)})
	_ = c.Refresh(ctx)
	return nil
}
