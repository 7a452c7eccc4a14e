package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/five82/axedeck/internal/format"
	"github.com/five82/axedeck/internal/state"
	"github.com/five82/axedeck/internal/view"
)

type onceOptions struct {
	mode    view.Mode
	focus   string
	format  string
	noColor bool
	fmtOpts format.Options
}

type onceStore interface {
	Reconcile(ctx context.Context, addresses []string) uint64
	Wait(ctx context.Context) error
	Snapshot() state.Snapshot
}

// runOnce fetches every device once, waits for all of them to settle and
// prints a single document. Device failures are part of the output, not an
// error.
func runOnce(ctx context.Context, store onceStore, addresses []string, opts onceOptions, out io.Writer) error {
	store.Reconcile(ctx, addresses)
	if err := store.Wait(ctx); err != nil {
		return fmt.Errorf("wait for devices: %w", err)
	}

	focus := view.NewFocus(addresses)
	if opts.focus != "" {
		focus.Set(opts.focus)
	}
	doc := view.Build(store.Snapshot(), view.Options{
		Mode:   opts.mode,
		Focus:  focus.Index(),
		Format: opts.fmtOpts,
	})

	var text string
	switch opts.format {
	case FormatMarkdown:
		text = view.Markdown(doc)
	default:
		lipgloss.SetColorProfile(colorProfile(out, opts.noColor))
		text = view.Plain(doc)
	}
	if _, err := io.WriteString(out, text); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// colorProfile picks ANSI output only for a real terminal.
func colorProfile(out io.Writer, noColor bool) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}
