package coordinator

import (
	"fmt"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/records"
)

// Operator-facing texts. The presentation layer prints them verbatim.
const (
	MsgServiceUnreachable = "Service not reachable. Is the record service running?"
	MsgAlreadyExists      = "Employee with this ID already exists"
	MsgAddFailed          = "Failed to add employee"
	MsgDeleteFailed       = "Failed to delete employee"
	MsgMarkFailed         = "Failed to mark attendance"
	MsgFetchFailed        = "Unable to fetch attendance records"
	MsgMissingEmployeeID  = "Employee ID is required"
)

// Operation names used in outcomes, logs and metrics.
const (
	OpRefresh = "refresh"
	OpAdd     = "add"
	OpRemove  = "remove"
	OpMark    = "mark"
	OpFetch   = "fetch"
)

var (
	// ErrMissingFields is returned by Add when a required field is blank.
	ErrMissingFields = records.ErrMissingFields

	// ErrInvalidStatus is returned by Mark for a status outside the enumeration.
	ErrInvalidStatus = records.ErrInvalidStatus

	// ErrMissingEmployeeID is returned when an operation is given an empty identifier.
	ErrMissingEmployeeID = ferrors.ValidationError("employee id is empty").
		WithUserMessage(MsgMissingEmployeeID).
		Build()

	// ErrRosterUnavailable is the load failure shown as a persistent banner.
	ErrRosterUnavailable = ferrors.RemoteError("roster refresh failed").
		WithUserMessage(MsgServiceUnreachable).
		Build()

	// ErrAlreadyExists is returned by Add when the service rejects a duplicate identifier.
	ErrAlreadyExists = ferrors.ConflictError("employee already exists").
		WithUserMessage(MsgAlreadyExists).
		Build()

	// ErrAddFailed covers every other Add failure.
	ErrAddFailed = ferrors.RemoteError("add employee failed").
		WithUserMessage(MsgAddFailed).
		Build()

	// ErrDeleteFailed covers every Remove failure.
	ErrDeleteFailed = ferrors.RemoteError("delete employee failed").
		WithUserMessage(MsgDeleteFailed).
		Build()

	// ErrMarkFailed covers every Mark failure.
	ErrMarkFailed = ferrors.RemoteError("mark attendance failed").
		WithUserMessage(MsgMarkFailed).
		Build()

	// ErrFetchFailed covers every Fetch failure.
	ErrFetchFailed = ferrors.RemoteError("fetch attendance failed").
		WithUserMessage(MsgFetchFailed).
		Build()
)

// DeletePrompt is the confirmation question asked before a remove.
func DeletePrompt(id string) string {
	return fmt.Sprintf("Are you sure you want to delete employee ID %s?\nThis action cannot be undone.", id)
}

func markedText(id string, status records.Status) string {
	return fmt.Sprintf("Marked %s for %s", status, id)
}

func addedText(id string) string   { return fmt.Sprintf("Added employee %s", id) }
func deletedText(id string) string { return fmt.Sprintf("Deleted employee %s", id) }
