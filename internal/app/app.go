package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/axedeck/internal/bitaxe"
	"github.com/five82/axedeck/internal/config"
	"github.com/five82/axedeck/internal/format"
	"github.com/five82/axedeck/internal/logging"
	"github.com/five82/axedeck/internal/prefs"
	"github.com/five82/axedeck/internal/state"
	"github.com/five82/axedeck/internal/ui"
	"github.com/five82/axedeck/internal/view"
)

// Output formats for one-shot mode.
const (
	FormatPlain    = "plain"
	FormatMarkdown = "markdown"
)

// Options configure the axedeck application. Zero values fall back to the
// config file, then to built-in defaults.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/axedeck/prefs.toml

	// Devices replaces the config file's device list when DevicesSet is true,
	// even when it is empty.
	Devices    string
	DevicesSet bool

	// Poll replaces poll_interval when PollSet is true; zero disables polling.
	Poll    time.Duration
	PollSet bool

	Once    bool
	Format  string
	Mode    string
	Focus   string
	Raw     bool
	NoColor bool
	Debug   bool
	LogFile string

	// Stdout receives one-shot output. Defaults to os.Stdout.
	Stdout io.Writer
}

// fleet is the part of state.Store the app drives.
type fleet interface {
	Reconcile(ctx context.Context, addresses []string) uint64
	Refresh(ctx context.Context) int
	Addresses() []string
}

// Run boots axedeck. Interactive mode blocks until the user quits or ctx is
// cancelled; one-shot mode returns once every device has answered.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = opts.apply(cfg)

	userPrefs := prefs.Load(opts.PrefsPath)
	mode, err := resolveMode(opts, userPrefs)
	if err != nil {
		return err
	}
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	if opts.Focus != "" && !slices.Contains(cfg.Addresses, opts.Focus) {
		return fmt.Errorf("focus %q is not a configured device", opts.Focus)
	}

	logOpts := logging.Options{File: cfg.LogFile, Debug: cfg.Debug}
	if opts.Once && cfg.Debug && cfg.LogFile == "" {
		logOpts.Writer = os.Stderr
	}
	log, closeLog, err := logging.New(logOpts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	log.WithFields(logrus.Fields{
		"config":  cfg.Path,
		"devices": len(cfg.Addresses),
		"poll":    cfg.PollInterval.String(),
		"once":    opts.Once,
	}).Info("axedeck starting")

	client := bitaxe.NewClient(cfg.Timeout)
	store := state.NewStore(client, log)
	fmtOpts := format.Options{HideZero: cfg.HideZero}

	if opts.Once {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		return runOnce(ctx, store, cfg.Addresses, onceOptions{
			mode:    mode,
			focus:   opts.Focus,
			format:  normalizeFormat(opts.Format),
			noColor: opts.NoColor,
			fmtOpts: fmtOpts,
		}, out)
	}

	store.Reconcile(ctx, cfg.Addresses)
	StartPoller(ctx, store, cfg.PollInterval, log)
	if !opts.DevicesSet {
		watchDevices(ctx, cfg.Path, store, log)
	}

	return ui.Run(ui.Options{
		Context:      ctx,
		Store:        store,
		Logger:       log,
		Mode:         mode,
		Focus:        opts.Focus,
		Format:       fmtOpts,
		PollInterval: cfg.PollInterval,
		ThemeName:    userPrefs.Theme,
	})
}

// apply layers command-line overrides on top of the loaded config.
func (o Options) apply(cfg config.Config) config.Config {
	if o.DevicesSet {
		cfg = cfg.WithDevices(o.Devices)
	}
	if o.PollSet {
		cfg.PollInterval = o.Poll
	}
	if o.Debug {
		cfg.Debug = true
	}
	if strings.TrimSpace(o.LogFile) != "" {
		cfg.LogFile = strings.TrimSpace(o.LogFile)
	}
	return cfg
}

// resolveMode picks the starting presentation: --raw, then --mode, then a
// bare --focus, then the prefs file.
func resolveMode(opts Options, p prefs.Prefs) (view.Mode, error) {
	if opts.Raw {
		return view.ModeRaw, nil
	}
	if strings.TrimSpace(opts.Mode) != "" {
		mode, ok := view.ParseMode(strings.ToLower(strings.TrimSpace(opts.Mode)))
		if !ok {
			return view.ModeMatrix, fmt.Errorf("invalid mode %q (want matrix, focus or raw)", opts.Mode)
		}
		return mode, nil
	}
	if opts.Focus != "" {
		return view.ModeFocus, nil
	}
	mode, _ := view.ParseMode(p.Mode)
	return mode, nil
}

func normalizeFormat(f string) string {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case FormatMarkdown, "md":
		return FormatMarkdown
	default:
		return FormatPlain
	}
}

func validateFormat(f string) error {
	switch strings.ToLower(strings.TrimSpace(f)) {
	case "", FormatPlain, FormatMarkdown, "md":
		return nil
	default:
		return fmt.Errorf("invalid format %q (want plain or markdown)", f)
	}
}

// watchDevices reconciles the fleet whenever the config file's device list
// changes. Other settings need a restart.
func watchDevices(ctx context.Context, path string, f fleet, log logrus.FieldLogger) {
	err := config.Watch(path, func(cfg config.Config, err error) {
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.WithError(err).Warn("config reload failed")
			return
		}
		reconcileIfChanged(ctx, f, cfg.Addresses, log)
	})
	if err != nil {
		log.WithError(err).Debug("config watch disabled")
	}
}

func reconcileIfChanged(ctx context.Context, f fleet, addresses []string, log logrus.FieldLogger) bool {
	if slices.Equal(addresses, f.Addresses()) {
		return false
	}
	gen := f.Reconcile(ctx, addresses)
	log.WithFields(logrus.Fields{
		"generation": gen,
		"devices":    len(addresses),
	}).Info("device list changed on disk")
	return true
}
