package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/axedeck/internal/config"
)

// devicesAppliedMsg carries the address list confirmed in the device editor.
type devicesAppliedMsg struct {
	addresses []string
}

// deviceEditor edits the comma separated device list for this session.
type deviceEditor struct {
	input textinput.Model
}

func newDeviceEditor(addresses []string) deviceEditor {
	in := textinput.New()
	in.Placeholder = "192.168.1.50, bitaxe-2.local"
	in.CharLimit = 1024
	in.Width = devicesModalWidth - 8
	in.SetValue(strings.Join(addresses, ", "))
	in.CursorEnd()
	in.Focus()
	return deviceEditor{input: in}
}

// Update implements Modal.
func (d deviceEditor) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Escape):
			return d, nil, true
		case key.Matches(msg, keys.Confirm):
			addresses := config.ParseAddresses(d.input.Value())
			return d, func() tea.Msg { return devicesAppliedMsg{addresses: addresses} }, true
		case key.Matches(msg, keys.Clear):
			d.input.SetValue("")
			return d, nil, false
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd, false
}

// View implements Modal.
func (d deviceEditor) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Devices"))
	b.WriteString("\n")
	b.WriteString(modalRule(theme, 40))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Comma separated IP addresses or hostnames."))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Changes last until the next config reload."))
	b.WriteString("\n\n")
	b.WriteString(d.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Cancel  •  Ctrl+X: Clear"))

	return placeModal(theme, width, height, devicesModalWidth, b.String())
}
