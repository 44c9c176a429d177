package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vdomkit/internal/config"
	"github.com/vango-dev/vdomkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

type logFlags struct {
	level  string
	format string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var lf logFlags

	root := &cobra.Command{
		Use:   "vdomkit",
		Short: "A minimal virtual DOM with a live WebSocket demo",
		Long: `vdomkit renders virtual node trees into a document and keeps it in
sync by diffing each new tree against the live one.

Use "render" to print an app's markup and mutation log, and "serve"
to stream the same mutations to a browser over WebSocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(stderr, lf)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&lf.level, "log-level", "", "Log level: debug, info, warn, error (default from vdomkit.json)")
	root.PersistentFlags().StringVar(&lf.format, "log-format", "", "Log format: text or json (default from vdomkit.json)")

	root.AddCommand(
		renderCmd(),
		serveCmd(&lf),
		versionCmd(),
	)
	return root
}

// newLogger builds the process logger. Empty flags fall back to defaults.
func newLogger(w io.Writer, lf logFlags) (*slog.Logger, error) {
	if lf.level == "" {
		lf.level = config.DefaultLogLevel
	}
	if lf.format == "" {
		lf.format = config.DefaultLogFormat
	}

	level, err := config.ParseLevel(lf.level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch lf.format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.New("E302").
			WithDetailf("log format = %s", lf.format).
			WithSuggestion("Use text or json")
	}
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}
			fmt.Fprintf(out, "vdomkit %s (commit %s, built %s)\n", version, commit, date)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
