package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/dukex/integrail/internal/obslog"
)

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Run only the admin HTTP server",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			obslog.Setup(cmd.String("log-level"))

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := wire(ctx, cmd)
			if err != nil {
				return err
			}
			defer d.close()

			admin := newAdminServer(d)

			errCh := make(chan error, 1)
			go func() {
				errCh <- admin.Start(d.cfg.AdminPort)
			}()

			select {
			case <-ctx.Done():
				d.logger.Info("admin server shutting down")
				return nil
			case err := <-errCh:
				return err
			}
		},
	}
}
