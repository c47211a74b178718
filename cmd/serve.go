package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tdx/internal/server"
	"github.com/desertthunder/tdx/internal/shared"
	"github.com/desertthunder/tdx/internal/store"
	"github.com/urfave/cli/v3"
)

// Serve runs the gateway until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	if cmd.IsSet("host") {
		r.config.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		r.config.Server.Port = int(cmd.Int("port"))
	}
	if err := r.config.Validate(); err != nil {
		return err
	}

	st := r.store
	if st == nil {
		st = store.NewMemoryStore()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway := server.NewGateway(r.config, st, shared.WithLogger(r.logger, "component", "gateway"))
	if err := gateway.Run(ctx); err != nil {
		return err
	}

	if s, ok := st.(interface{ Len() int }); ok {
		r.logger.Info("gateway stopped", "todos", s.Len())
	}
	return nil
}
