package records

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
)

func TestEmployeeValidate(t *testing.T) {
	full := EmployeeRecord{EmployeeID: "E1", FullName: "Ann", Email: "a@x.com", Department: "Eng"}
	require.NoError(t, full.Validate())

	tests := []struct {
		name    string
		mutate  func(*EmployeeRecord)
		missing []string
	}{
		{"empty id", func(e *EmployeeRecord) { e.EmployeeID = "" }, []string{"employee_id"}},
		{"blank name", func(e *EmployeeRecord) { e.FullName = "   " }, []string{"full_name"}},
		{"empty email", func(e *EmployeeRecord) { e.Email = "" }, []string{"email"}},
		{"empty department", func(e *EmployeeRecord) { e.Department = "" }, []string{"department"}},
		{"two fields", func(e *EmployeeRecord) { e.Email, e.Department = "", "" }, []string{"email", "department"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := full
			tt.mutate(&rec)
			err := rec.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingFields))
			assert.Equal(t, tt.missing, rec.MissingFields())
			assert.Equal(t, "Please fill all fields", ferrors.UserMessage(err))
		})
	}
}

func TestValidateRoster(t *testing.T) {
	require.NoError(t, ValidateRoster(nil))
	require.NoError(t, ValidateRoster([]EmployeeRecord{{EmployeeID: "E1"}, {EmployeeID: "E2"}}))

	err := ValidateRoster([]EmployeeRecord{{EmployeeID: "E1"}, {FullName: "nobody"}})
	assert.ErrorIs(t, err, ErrMalformedResponse)

	err = ValidateRoster([]EmployeeRecord{{EmployeeID: "E1"}, {EmployeeID: "E1"}})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"Present", "present", " PRESENT "} {
		s, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, StatusPresent, s)
	}
	s, err := ParseStatus("absent")
	require.NoError(t, err)
	assert.Equal(t, StatusAbsent, s)

	_, err = ParseStatus("late")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestAttendanceDecodeIgnoresServerColumns(t *testing.T) {
	payload := `[{"id":"9f1c","employee_id":"E1","date":"2024-01-01","status":"Present"},
		{"id":"a2b3","employee_id":"E1","date":"2024-01-02","status":"Absent"}]`
	var list []AttendanceRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &list))
	require.NoError(t, ValidateHistory(list))
	assert.Equal(t, []AttendanceRecord{
		{Date: "2024-01-01", Status: StatusPresent},
		{Date: "2024-01-02", Status: StatusAbsent},
	}, list)
}

func TestValidateHistoryRejectsMalformedEntries(t *testing.T) {
	badDate := []AttendanceRecord{{Date: "2024-01-01", Status: StatusPresent}, {Date: "01/02/2024", Status: StatusAbsent}}
	err := ValidateHistory(badDate)
	require.ErrorIs(t, err, ErrMalformedResponse)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	idx, _ := classified.Context().Get("index")
	assert.Equal(t, 1, idx)

	badStatus := []AttendanceRecord{{Date: "2024-01-01", Status: "Late"}}
	assert.ErrorIs(t, ValidateHistory(badStatus), ErrMalformedResponse)
}

func TestPresentCount(t *testing.T) {
	list := []AttendanceRecord{
		{Date: "2024-01-01", Status: StatusPresent},
		{Date: "2024-01-02", Status: StatusAbsent},
		{Date: "2024-01-03", Status: StatusPresent},
	}
	assert.Equal(t, 2, PresentCount(list))
	assert.Equal(t, 0, PresentCount(nil))
}

func TestFormatDateUsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 2023-12-31T20:00Z is already January 1st at UTC+10.
	ts := time.Date(2023, 12, 31, 20, 0, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "2024-01-01", FormatDate(ts))
}
