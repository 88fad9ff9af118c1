// Package report renders roster and attendance summaries as Markdown, with
// optional HTML output through goldmark.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/records"
)

// Empty-state texts.
const (
	NoEmployees  = "No employees found. Please add one."
	NoAttendance = "No attendance records yet"
)

// TotalPresentLine is the summary line under an attendance history.
func TotalPresentLine(n int) string {
	return fmt.Sprintf("Total Present Days: %d", n)
}

// Roster renders the roster as a Markdown table in the given order.
func Roster(list []records.EmployeeRecord) string {
	var b strings.Builder
	b.WriteString("# Employees\n\n")
	if len(list) == 0 {
		b.WriteString(NoEmployees + "\n")
		return b.String()
	}
	b.WriteString("| ID | Name | Email | Department |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, e := range list {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(e.EmployeeID), cell(e.FullName), cell(e.Email), cell(e.Department))
	}
	return b.String()
}

// Attendance renders one employee's history followed by the Present total.
// emp may be zero when the employee is not in the cached roster.
func Attendance(id string, emp records.EmployeeRecord, list []records.AttendanceRecord) string {
	var b strings.Builder
	if emp.FullName != "" {
		fmt.Fprintf(&b, "# Attendance: %s (%s)\n\n", inline(emp.FullName), inline(id))
	} else {
		fmt.Fprintf(&b, "# Attendance: %s\n\n", inline(id))
	}
	if len(list) == 0 {
		b.WriteString(NoAttendance + "\n")
		return b.String()
	}
	b.WriteString("| Date | Status |\n")
	b.WriteString("|---|---|\n")
	for _, a := range list {
		fmt.Fprintf(&b, "| %s | %s |\n", cell(a.Date), cell(string(a.Status)))
	}
	b.WriteString("\n" + TotalPresentLine(records.PresentCount(list)) + "\n")
	return b.String()
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML converts Markdown produced by this package to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", ferrors.InternalError("failed to render report").WithCause(err).Build()
	}
	return buf.String(), nil
}

func cell(s string) string {
	return strings.ReplaceAll(inline(s), "|", `\|`)
}

func inline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
