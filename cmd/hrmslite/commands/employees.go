package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/hrmslite/internal/coordinator"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
	"git.home.luguber.info/inful/hrmslite/internal/records"
	"git.home.luguber.info/inful/hrmslite/internal/report"
)

// EmployeesCmd groups the roster commands.
type EmployeesCmd struct {
	List   EmployeesListCmd   `cmd:"" default:"1" help:"Show the roster"`
	Add    EmployeesAddCmd    `cmd:"" help:"Add an employee"`
	Delete EmployeesDeleteCmd `cmd:"" help:"Delete an employee"`
}

// EmployeesListCmd implements 'employees list'.
type EmployeesListCmd struct {
	Format string `short:"f" enum:"text,markdown,html" default:"text" help:"Output format (text, markdown, html)"`
}

func (l *EmployeesListCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.coord.Refresh(g.context()); err != nil {
		return err
	}
	return writeRoster(g.out(), s.coord.Employees(), l.Format)
}

func writeRoster(w io.Writer, list []records.EmployeeRecord, format string) error {
	switch format {
	case "markdown":
		_, err := io.WriteString(w, report.Roster(list))
		return err
	case "html":
		out, err := report.HTML(report.Roster(list))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	}

	if len(list) == 0 {
		_, err := fmt.Fprintln(w, report.NoEmployees)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tDEPARTMENT")
	for _, e := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.EmployeeID, e.FullName, e.Email, e.Department)
	}
	return tw.Flush()
}

// EmployeesAddCmd implements 'employees add'.
type EmployeesAddCmd struct {
	ID         string `name:"id" help:"Employee ID"`
	Name       string `name:"name" help:"Full name"`
	Email      string `name:"email" help:"Email address"`
	Department string `name:"department" short:"d" help:"Department"`
}

func (a *EmployeesAddCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	s.coord.SetDraft(records.EmployeeRecord{
		EmployeeID: a.ID,
		FullName:   a.Name,
		Email:      a.Email,
		Department: a.Department,
	})
	if err := s.coord.SubmitDraft(g.context()); err != nil {
		return err
	}
	return printOutcome(g.out(), s, coordinator.OpAdd)
}

// EmployeesDeleteCmd implements 'employees delete'.
type EmployeesDeleteCmd struct {
	ID  string `arg:"" name:"id" help:"Employee ID to delete"`
	Yes bool   `short:"y" help:"Do not ask for confirmation"`
}

func (d *EmployeesDeleteCmd) Run(g *Global, root *CLI) error {
	confirmer := coordinator.AlwaysConfirm
	if !d.Yes {
		confirmer = promptConfirmer(g.in(), g.out())
	}
	s, err := openSession(g, root, sessionOptions{confirmer: confirmer})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.coord.Remove(g.context(), strings.TrimSpace(d.ID)); err != nil {
		return err
	}
	if o, ok := s.last(coordinator.OpRemove); ok && o.Result == metrics.ResultDeclined {
		_, err := fmt.Fprintln(g.out(), "Cancelled")
		return err
	}
	return printOutcome(g.out(), s, coordinator.OpRemove)
}

// promptConfirmer asks on out and reads a y/yes answer from in.
func promptConfirmer(in io.Reader, out io.Writer) coordinator.Confirmer {
	reader := bufio.NewReader(in)
	return coordinator.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		if _, err := fmt.Fprintf(out, "%s [y/N]: ", prompt); err != nil {
			return false, err
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}

// printOutcome prints the notice of the latest op outcome, if it has one.
func printOutcome(w io.Writer, s *session, op string) error {
	o, ok := s.last(op)
	if !ok || o.Text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, o.Text)
	return err
}
