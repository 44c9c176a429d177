package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdomkit/internal/config"
	"github.com/vango-dev/vdomkit/pkg/server"
)

func serveCmd(lf *logFlags) *cobra.Command {
	var (
		dir  string
		addr string
		app  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a demo app over WebSocket",
		Long: `Start an HTTP server that streams a demo app to browsers.

Settings are read from vdomkit.json in --config when present. Flags
override the file.

Routes:
  /           server-rendered snapshot and client script
  /ws         live session
  /metrics    Prometheus metrics
  /healthz    liveness

Examples:
  vdomkit serve
  vdomkit serve --addr :8080 --app todo
  vdomkit serve --config ./deploy --log-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(dir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if app != "" {
				cfg.Server.App = app
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			merged := logFlags{level: cfg.Log.Level, format: cfg.Log.Format}
			if lf.level != "" {
				merged.level = lf.level
			}
			if lf.format != "" {
				merged.format = lf.format
			}
			logger, err := newLogger(cmd.ErrOrStderr(), merged)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&dir, "config", ".", "Directory containing vdomkit.json")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from vdomkit.json)")
	cmd.Flags().StringVar(&app, "app", "", "Demo app to serve (default from vdomkit.json)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	sc := server.FromFile(cfg)
	sc.Logger = logger

	srv, err := server.New(sc)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
