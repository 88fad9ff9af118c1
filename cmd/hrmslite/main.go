package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/hrmslite/cmd/hrmslite/commands"
	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout, In: os.Stdin, Ctx: ctx}
	parser := kong.Parse(cli,
		kong.Name("hrmslite"),
		kong.Description("Maintain an employee roster and daily attendance against the HRMS Lite record service."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	err := parser.Run(global, cli)
	stop()
	ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
}
