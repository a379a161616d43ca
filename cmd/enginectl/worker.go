package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dukex/integrail/internal/obslog"
)

func workerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "Run only the job-queue executor pool",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			obslog.Setup(cmd.String("log-level"))

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := wire(ctx, cmd)
			if err != nil {
				return err
			}
			defer d.close()

			d.executor.Run(ctx)

			return nil
		},
	}
}
