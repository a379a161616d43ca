package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dukex/integrail/internal/obslog"
)

func reaperCommand() *cli.Command {
	return &cli.Command{
		Name:  "reaper",
		Usage: "Run only the retention sweep",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			obslog.Setup(cmd.String("log-level"))

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := wire(ctx, cmd)
			if err != nil {
				return err
			}
			defer d.close()

			r := newReaper(d).WithRetention(time.Duration(cmd.Int("run-retention-days")) * 24 * time.Hour)
			if err := r.Start(ctx); err != nil {
				return err
			}
			defer r.Stop()

			<-ctx.Done()
			d.logger.Info("reaper shutting down")

			return nil
		},
	}
}
