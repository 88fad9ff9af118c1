package records

import (
	"encoding/json"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/foundation/normalization"
)

// DateLayout is the calendar-date wire format (YYYY-MM-DD).
const DateLayout = time.DateOnly

// Status is the closed set of attendance marks.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

var statusNormalizer = normalization.NewNormalizer(map[string]Status{
	"present": StatusPresent,
	"absent":  StatusAbsent,
}, "")

// ErrInvalidStatus is returned for operator input outside the enumeration.
var ErrInvalidStatus = ferrors.ValidationError("invalid attendance status").
	WithUserMessage("Status must be Present or Absent").
	Build()

// ErrMalformedResponse is returned when the record service sends a payload that
// does not fit the typed model.
var ErrMalformedResponse = ferrors.RemoteError("malformed response from record service").Build()

// ParseStatus accepts any casing of a status name.
func ParseStatus(raw string) (Status, error) {
	s, err := statusNormalizer.Parse(raw)
	if err != nil {
		return "", ErrInvalidStatus.WithContext("input", raw).WithCause(err)
	}
	return s, nil
}

// Valid reports whether s is one of the canonical values.
func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

func (s Status) String() string { return string(s) }

// AttendanceRecord is one mark for one calendar day, as returned by the service.
type AttendanceRecord struct {
	Date   string `json:"date"`
	Status Status `json:"status"`
}

// UnmarshalJSON keeps only the fields the client relies on. The service also
// sends its own row id and the employee id; both are ignored.
func (a *AttendanceRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date   string `json:"date"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Date = strings.TrimSpace(raw.Date)
	a.Status = Status(strings.TrimSpace(raw.Status))
	return nil
}

// Validate checks the date parses and the status is canonical.
func (a AttendanceRecord) Validate() error {
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return ErrMalformedResponse.WithContext("date", a.Date).WithCause(err)
	}
	if !a.Status.Valid() {
		return ErrMalformedResponse.WithContext("status", string(a.Status))
	}
	return nil
}

// ValidateHistory checks every entry of a decoded attendance history.
func ValidateHistory(list []AttendanceRecord) error {
	for i, a := range list {
		if err := a.Validate(); err != nil {
			if classified, ok := ferrors.AsClassified(err); ok {
				return classified.WithContext("index", i)
			}
			return err
		}
	}
	return nil
}

// PresentCount counts entries marked Present.
func PresentCount(list []AttendanceRecord) int {
	n := 0
	for _, a := range list {
		if a.Status == StatusPresent {
			n++
		}
	}
	return n
}

// MarkRequest is the body of POST /attendance.
type MarkRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     Status `json:"status"`
}

// FormatDate renders t as a local calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
