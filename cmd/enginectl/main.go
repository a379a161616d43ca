// Command enginectl runs the workflow execution engine: the Scheduler,
// the Executor, the Reaper, and the admin HTTP surface, as one process
// or as independently scalable subcommands. Grounded on the teacher's
// cmd/operion nested-subcommand tree.
package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dukex/integrail/internal/obslog"
)

func main() {
	app := &cli.Command{
		Name:                  "enginectl",
		Usage:                 "Run the integrail workflow execution engine",
		EnableShellCompletion: true,
		Flags:                 sharedFlags(),
		Commands: []*cli.Command{
			runCommand(),
			schedulerCommand(),
			workerCommand(),
			reaperCommand(),
			adminCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		obslog.WithModule("enginectl").Error("fatal", "error", err)
		os.Exit(1)
	}
}
