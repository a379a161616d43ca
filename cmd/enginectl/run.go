package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dukex/integrail/internal/obslog"
)

// runCommand is the all-in-one subcommand: scheduler, executor, reaper
// and admin server in a single process, for small deployments.
func runCommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run the scheduler, executor, reaper and admin server in one process",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			obslog.Setup(cmd.String("log-level"))

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := wire(ctx, cmd)
			if err != nil {
				return err
			}
			defer d.close()

			if err := d.bus.Subscribe(ctx); err != nil {
				return err
			}

			if err := d.scheduler.Start(ctx); err != nil {
				return err
			}
			defer d.scheduler.Stop()

			rpr := newReaper(d).WithRetention(time.Duration(cmd.Int("run-retention-days")) * 24 * time.Hour)
			if err := rpr.Start(ctx); err != nil {
				return err
			}
			defer rpr.Stop()

			go d.executor.Run(ctx)

			admin := newAdminServer(d)

			go func() {
				if err := admin.Start(d.cfg.AdminPort); err != nil {
					d.logger.ErrorContext(ctx, "admin server exited", "error", err)
				}
			}()

			<-ctx.Done()

			d.logger.Info("shutting down")

			return nil
		},
	}
}
