package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/axedeck/internal/app"
	"github.com/five82/axedeck/internal/config"
)

// Version info set via ldflags at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2026-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(app.Run)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "axedeck: %v\n", err)
		return 1
	}
	return 0
}

type runFunc func(ctx context.Context, opts app.Options) error

func newRootCmd(runApp runFunc) *cobra.Command {
	var (
		opts app.Options
		poll time.Duration
	)

	cmd := &cobra.Command{
		Use:   "axedeck",
		Short: "Live status dashboard for Bitaxe miners",
		Long: `axedeck polls one or more Bitaxe boards over HTTP and shows their system
info side by side, or one device at a time.

Devices come from the "devices" setting in ` + config.DefaultPath() + `,
the AXEDECK_DEVICES environment variable, or --devices.

Examples:
  axedeck --devices 192.168.1.50,192.168.1.51
  axedeck --mode focus --focus 192.168.1.51
  axedeck --once --format markdown`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			opts.DevicesSet = flags.Changed("devices")
			if flags.Changed("poll") {
				if poll < 0 {
					return fmt.Errorf("--poll must not be negative")
				}
				opts.Poll = poll
				opts.PollSet = true
			}
			if !opts.Once && flags.Changed("format") {
				return fmt.Errorf("--format only applies with --once")
			}
			return runApp(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file path (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "display preferences file (optional)")
	flags.StringVar(&opts.Devices, "devices", "", "comma separated device addresses, overrides the config file")
	flags.DurationVar(&poll, "poll", 0, "re-poll interval, 0 disables (default from config, 5s)")
	flags.BoolVar(&opts.Once, "once", false, "fetch every device once, print and exit")
	flags.StringVar(&opts.Format, "format", app.FormatPlain, "one-shot output format: plain or markdown")
	flags.StringVar(&opts.Mode, "mode", "", "start in matrix, focus or raw mode")
	flags.StringVar(&opts.Focus, "focus", "", "address to focus initially")
	flags.BoolVar(&opts.Raw, "raw", false, "show every reported field of the focused device")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colors in one-shot output")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.StringVar(&opts.LogFile, "log-file", "", "write logs to this file")

	cmd.AddCommand(newVersionCmd())
	return cmd
}
