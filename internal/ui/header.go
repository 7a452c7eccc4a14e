package ui

import (
	"fmt"
	"strings"

	"github.com/five82/axedeck/internal/state"
	"github.com/five82/axedeck/internal/view"
)

// fleetCounts tallies slots by display state.
type fleetCounts struct {
	total      int
	online     int
	loading    int
	refreshing int
	failed     int
}

func countFleet(snap state.Snapshot) fleetCounts {
	c := fleetCounts{total: len(snap.Slots)}
	for _, slot := range snap.Slots {
		switch {
		case slot.InFlight:
			c.loading++
		case slot.Failure != nil:
			c.failed++
		default:
			c.online++
		}
		if slot.Refreshing {
			c.refreshing++
		}
	}
	return c
}

// slotStatus maps a slot to a StatusColors key.
func slotStatus(slot state.Slot) string {
	switch {
	case slot.InFlight:
		return StatusLoading
	case slot.Failure != nil:
		return StatusError
	case slot.Refreshing:
		return StatusRefreshing
	default:
		return StatusOnline
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("axedeck", styles.Logo)}

	c := countFleet(m.snapshot)
	if c.total == 0 {
		parts = append(parts, bg.Render("No devices", styles.WarningText.Bold(true)))
		return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
	}

	label := func(long, short string) string {
		if compact {
			return short
		}
		return long
	}

	parts = append(parts,
		bg.Render(label("Devices:", "D:"), styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", c.total), styles.Text),
		bg.Render("●", styles.StatusText(StatusOnline))+bg.Space()+
			bg.Render(fmt.Sprintf("%d", c.online), styles.SuccessText),
	)
	if c.loading > 0 {
		parts = append(parts,
			bg.Render(m.spinner.View(), styles.StatusText(StatusLoading))+bg.Space()+
				bg.Render(fmt.Sprintf("%d", c.loading), styles.Text))
	}
	if c.failed > 0 {
		parts = append(parts,
			styles.StatusStyle(StatusError).Bold(true).Render(fmt.Sprintf("%s %d", label("Errors", "E"), c.failed)))
	}

	mode := m.mode.String()
	if m.mode != view.ModeMatrix {
		if addr := m.focus.Address(); addr != "" {
			mode += " " + truncateMiddle(addr, 24)
		}
	}
	parts = append(parts, bg.Render(mode, styles.AccentText))

	parts = append(parts,
		bg.Render(label("Poll:", "P:"), styles.MutedText)+bg.Space()+
			bg.Render(formatInterval(m.pollInterval), styles.Text))

	if age := formatAge(m.now, m.snapshot.LastUpdated); age != "" {
		ageStyle := styles.MutedText
		if c.refreshing > 0 {
			age = m.spinner.View() + " " + age
			ageStyle = styles.InfoText
		}
		parts = append(parts, bg.Render(age, ageStyle))
	}

	if m.notice != "" {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(m.notice, styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.mode {
	case view.ModeMatrix:
		commands = []cmd{
			{"m", "Focus"},
			{"1-9", "Device"},
			{"R", "Raw"},
		}
	default:
		commands = []cmd{
			{"m", "Matrix"},
			{"R", ternary(m.mode == view.ModeRaw, "Fields", "Raw")},
		}
		if m.focus.Switchable() {
			commands = append(commands, cmd{"[/]", "Prev/Next"})
		}
	}
	commands = append(commands,
		cmd{"r", "Refresh"},
		cmd{"a", "Devices"},
		cmd{"?", "More"},
	)

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// ternary returns a if cond is true, otherwise b.
func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
