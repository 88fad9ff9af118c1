// Package records defines the typed shapes exchanged with the record service.
//
// Everything decoded from the wire passes through a Validate method before it
// reaches a cache; a single malformed entry rejects the whole response.
package records

import (
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
)

// EmployeeRecord is one roster entry. EmployeeID is chosen by the operator and
// never changes; uniqueness is enforced by the record service.
type EmployeeRecord struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// ErrMissingFields is returned when an employee lacks one of the four required fields.
var ErrMissingFields = ferrors.ValidationError("employee record has empty required fields").
	WithUserMessage("Please fill all fields").
	Build()

// MissingFields lists the JSON names of required fields that are blank.
func (e EmployeeRecord) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"employee_id", e.EmployeeID},
		{"full_name", e.FullName},
		{"email", e.Email},
		{"department", e.Department},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate checks the record is complete enough to submit.
func (e EmployeeRecord) Validate() error {
	if missing := e.MissingFields(); len(missing) > 0 {
		return ErrMissingFields.WithContext("missing", missing)
	}
	return nil
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (e EmployeeRecord) Trimmed() EmployeeRecord {
	return EmployeeRecord{
		EmployeeID: strings.TrimSpace(e.EmployeeID),
		FullName:   strings.TrimSpace(e.FullName),
		Email:      strings.TrimSpace(e.Email),
		Department: strings.TrimSpace(e.Department),
	}
}

// IsZero reports whether no field has been filled in.
func (e EmployeeRecord) IsZero() bool {
	return e == EmployeeRecord{}
}

func (e EmployeeRecord) String() string {
	return fmt.Sprintf("%s (%s)", e.FullName, e.Department)
}

// ValidateRoster checks a decoded roster. Entries must carry an identifier and
// identifiers must be unique; anything else is a malformed response.
func ValidateRoster(list []EmployeeRecord) error {
	seen := make(map[string]struct{}, len(list))
	for i, e := range list {
		if strings.TrimSpace(e.EmployeeID) == "" {
			return ErrMalformedResponse.WithContext("index", i).WithContext("reason", "missing employee_id")
		}
		if _, dup := seen[e.EmployeeID]; dup {
			return ErrMalformedResponse.WithContext("employee_id", e.EmployeeID).WithContext("reason", "duplicate employee_id")
		}
		seen[e.EmployeeID] = struct{}{}
	}
	return nil
}
