package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/axedeck/internal/format"
	"github.com/five82/axedeck/internal/state"
	"github.com/five82/axedeck/internal/view"
)

// Fleet is the part of state.Store the UI drives.
type Fleet interface {
	Snapshot() state.Snapshot
	Updates() <-chan state.Update
	Reconcile(ctx context.Context, addresses []string) uint64
	Refresh(ctx context.Context) int
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Store        Fleet
	Logger       logrus.FieldLogger
	Mode         view.Mode
	Focus        string
	Format       format.Options
	PollInterval time.Duration
	ThemeName    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	store        Fleet
	log          logrus.FieldLogger
	keys         keyMap
	format       format.Options
	pollInterval time.Duration

	// UI state
	theme   Theme
	mode    view.Mode
	focus   view.Focus
	width   int
	height  int
	ready   bool
	now     time.Time
	notice  string
	spinner spinner.Model

	// Data state
	snapshot state.Snapshot

	viewport viewport.Model

	// Overlays
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		log = discard
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:          ctx,
		store:        opts.Store,
		log:          log,
		keys:         DefaultKeyMap(),
		format:       opts.Format,
		pollInterval: opts.PollInterval,
		theme:        GetTheme(opts.ThemeName),
		mode:         opts.Mode,
		now:          time.Now(),
		spinner:      sp,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	m.focus = view.NewFocus(m.snapshot.Addresses())
	if opts.Focus != "" {
		m.focus.Set(opts.Focus)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		clockCmd(),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store), waitForUpdateCmd(m.ctx, m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(m.width, m.contentHeight())
		}
		m.ready = true
		m.syncViewport()
		return m, nil

	case clockMsg:
		m.now = time.Time(msg)
		return m, clockCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case storeUpdateMsg:
		m.applySnapshot(msg.snapshot)
		return m, waitForUpdateCmd(m.ctx, m.store)

	case devicesAppliedMsg:
		return m.applyDevices(msg.addresses)
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var done bool
		m.modal, cmd, done = m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		var done bool
		m.modal, cmd, done = m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleMode):
		if m.mode == view.ModeMatrix {
			m.mode = view.ModeFocus
		} else {
			m.mode = view.ModeMatrix
		}
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleRaw):
		if m.mode == view.ModeRaw {
			m.mode = view.ModeFocus
		} else {
			m.mode = view.ModeRaw
		}
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.mode = view.ModeMatrix
		m.syncViewport()
		return m, nil

	case key.Matches(msg, m.keys.NextDevice):
		m.focus.Next()
		m.enterFocus()
		return m, nil

	case key.Matches(msg, m.keys.PrevDevice):
		m.focus.Prev()
		m.enterFocus()
		return m, nil

	case key.Matches(msg, m.keys.JumpDevice):
		if idx := int(msg.String()[0] - '1'); m.focus.SetIndex(idx) {
			m.enterFocus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Devices):
		m.modal = newDeviceEditor(m.snapshot.Addresses())
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfPageUp()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfPageDown()
		return m, nil
	}

	return m, nil
}

// enterFocus switches to a per-device mode after a focus change. Only the
// already known slot state is rendered; no fetch is started.
func (m *Model) enterFocus() {
	if m.mode == view.ModeMatrix {
		m.mode = view.ModeFocus
	}
	m.syncViewport()
}

// applySnapshot stores a new snapshot. A new generation means the address
// list changed, so the focus is re-anchored.
func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.Generation != m.snapshot.Generation {
		m.focus.Reset(snap.Addresses())
	}
	m.snapshot = snap
	m.syncViewport()
}

func (m Model) applyDevices(addresses []string) (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}
	gen := m.store.Reconcile(m.ctx, addresses)
	m.log.WithFields(logrus.Fields{
		"generation": gen,
		"devices":    strings.Join(addresses, ","),
	}).Info("device list edited")
	m.notice = ""
	return m, fetchSnapshotCmd(m.store)
}

func (m *Model) refreshCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	n := m.store.Refresh(m.ctx)
	if n == 0 {
		m.notice = "Refresh already in progress"
	} else {
		m.notice = ""
	}
	return fetchSnapshotCmd(m.store)
}

func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 1)
}

// document builds the renderer-neutral view of the current snapshot.
func (m Model) document() view.Document {
	return view.Build(m.snapshot, view.Options{
		Mode:   m.mode,
		Focus:  m.focus.Index(),
		Format: m.format,
	})
}

func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.Width = m.width
	m.viewport.Height = m.contentHeight()
	m.viewport.SetContent(m.renderDocument(m.document()))
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	return b.String()
}

// Messages

type clockMsg time.Time

type snapshotMsg state.Snapshot

type storeUpdateMsg struct {
	snapshot state.Snapshot
}

// Commands

func clockCmd() tea.Cmd {
	return tea.Tick(ClockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func fetchSnapshotCmd(store Fleet) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForUpdateCmd blocks until the store commits a change, then folds any
// queued notifications into a single snapshot.
func waitForUpdateCmd(ctx context.Context, store Fleet) tea.Cmd {
	ch := store.Updates()
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-ch:
		}
		for {
			select {
			case <-ch:
			default:
				return storeUpdateMsg{snapshot: store.Snapshot()}
			}
		}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
