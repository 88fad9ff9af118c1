package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/journal"
)

// HistoryCmd implements 'history'.
type HistoryCmd struct {
	Employee  string `short:"e" help:"Only entries for this employee ID"`
	Operation string `help:"Only entries for this operation (refresh, add, remove, mark, fetch)"`
	Limit     int    `short:"n" default:"50" help:"Maximum entries to show (0 = all)"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return ferrors.ConfigError("journal is disabled").
			WithUserMessage("The activity journal is disabled. Set journal.enabled: true in the configuration.").
			Build()
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.List(g.context(), journal.Filter{EmployeeID: h.Employee, Operation: h.Operation, Limit: h.Limit})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(g.out(), "No journal entries")
		return err
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tOPERATION\tEMPLOYEE\tRESULT\tNOTICE")
	for _, e := range entries {
		notice := e.Text
		if notice == "" {
			notice = e.Error
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.At.Local().Format(time.DateTime), e.Operation, e.EmployeeID, e.Result, notice)
	}
	return tw.Flush()
}
