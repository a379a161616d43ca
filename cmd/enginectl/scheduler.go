package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dukex/integrail/internal/obslog"
)

func schedulerCommand() *cli.Command {
	return &cli.Command{
		Name:  "scheduler",
		Usage: "Run only the trigger-polling scheduler",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			obslog.Setup(cmd.String("log-level"))

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := wire(ctx, cmd)
			if err != nil {
				return err
			}
			defer d.close()

			if err := d.scheduler.Start(ctx); err != nil {
				return err
			}
			defer d.scheduler.Stop()

			<-ctx.Done()
			d.logger.Info("scheduler shutting down")

			return nil
		},
	}
}
