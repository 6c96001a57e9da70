package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/thornwyck/focusfm/internal/mcp"
	"github.com/thornwyck/focusfm/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP server exposing the MCP endpoints and OAuth routes.
//
// Blocks until the context is cancelled or the process receives SIGINT/SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	db, engine, config, err := r.connect(cmd.String("config"))
	if err != nil {
		return err
	}
	defer db.Close()

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(server.NewAppHandler(engine, r.logger))
	router.Handler(mcp.NewServer(engine, r.logger, version))

	addr := cmd.String("addr")
	if addr == "" {
		addr = config.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := server.NewApp(addr, router, r.logger)
	return app.Run(ctx)
}
