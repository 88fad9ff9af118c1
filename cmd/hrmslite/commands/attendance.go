package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/hrmslite/internal/coordinator"
	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/records"
	"git.home.luguber.info/inful/hrmslite/internal/report"
)

// AttendanceCmd groups the attendance commands.
type AttendanceCmd struct {
	Mark   AttendanceMarkCmd   `cmd:"" help:"Mark today's attendance for an employee"`
	Show   AttendanceShowCmd   `cmd:"" help:"Show an employee's attendance history"`
	Report AttendanceReportCmd `cmd:"" help:"Render an attendance report as Markdown or HTML"`
}

// AttendanceMarkCmd implements 'attendance mark'.
type AttendanceMarkCmd struct {
	ID     string `arg:"" name:"id" help:"Employee ID"`
	Status string `arg:"" name:"status" help:"Present or Absent (any case)"`
}

func (m *AttendanceMarkCmd) Run(g *Global, root *CLI) error {
	status, err := records.ParseStatus(m.Status)
	if err != nil {
		return err
	}
	s, err := openSession(g, root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.coord.Mark(g.context(), strings.TrimSpace(m.ID), status); err != nil {
		return err
	}
	return printOutcome(g.out(), s, coordinator.OpMark)
}

// AttendanceShowCmd implements 'attendance show'.
type AttendanceShowCmd struct {
	ID string `arg:"" name:"id" help:"Employee ID"`
}

func (c *AttendanceShowCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	id := strings.TrimSpace(c.ID)
	if err := s.coord.Fetch(g.context(), id); err != nil {
		return err
	}
	list, _ := s.coord.Attendance(id)
	return writeHistory(g.out(), list)
}

func writeHistory(w io.Writer, list []records.AttendanceRecord) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, report.NoAttendance)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tSTATUS")
	for _, a := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", a.Date, a.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, report.TotalPresentLine(records.PresentCount(list)))
	return err
}

// AttendanceReportCmd implements 'attendance report'.
type AttendanceReportCmd struct {
	ID     string `arg:"" name:"id" help:"Employee ID"`
	Format string `short:"f" enum:"markdown,html" default:"markdown" help:"Output format (markdown, html)"`
	Output string `short:"o" type:"path" help:"Write the report to this file instead of stdout"`
}

func (r *AttendanceReportCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := g.context()

	id := strings.TrimSpace(r.ID)
	// The roster only supplies the heading; the report still renders without it.
	if err := s.coord.Refresh(ctx); err != nil {
		g.logger().Warn(ferrors.UserMessage(err))
	}
	if err := s.coord.Fetch(ctx, id); err != nil {
		return err
	}
	emp, _ := s.coord.Employee(id)
	list, _ := s.coord.Attendance(id)

	out := report.Attendance(id, emp, list)
	if r.Format == "html" {
		if out, err = report.HTML(out); err != nil {
			return err
		}
	}

	if r.Output == "" {
		_, err = io.WriteString(g.out(), out)
		return err
	}
	if err := os.WriteFile(r.Output, []byte(out), 0o600); err != nil {
		return ferrors.StorageError("failed to write report").WithCause(err).WithContext("path", r.Output).Build()
	}
	_, err = fmt.Fprintf(g.out(), "Wrote report to %s\n", r.Output)
	return err
}
