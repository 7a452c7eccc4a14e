package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/axedeck/internal/format"
	"github.com/five82/axedeck/internal/view"
)

// renderDocument styles a view.Document with the active theme.
func (m Model) renderDocument(doc view.Document) string {
	styles := m.theme.Styles()

	if doc.Message != "" {
		msgStyle := styles.DangerText
		if doc.Message == view.NoAddressesMessage {
			msgStyle = styles.WarningText
		}
		body := msgStyle.Width(max(m.width-4, 20)).Render(doc.Message)
		hint := styles.FaintText.Render("Press a to enter device addresses.")
		return lipgloss.NewStyle().Padding(1, 2).Render(body + "\n\n" + hint)
	}

	var b strings.Builder
	if doc.Device != "" {
		b.WriteString(styles.Text.Bold(true).Render(doc.Device))
		b.WriteString("\n")
	}
	if len(doc.Choices) > 0 {
		b.WriteString(m.renderChoices(doc.Choices, styles))
		b.WriteString("\n")
	}
	if doc.Note != "" {
		b.WriteString(styles.DangerText.Render(doc.Note))
		b.WriteString("\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}

	for i, section := range doc.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.AccentText.Bold(true).Render(section.Title))
		b.WriteString("\n")
		if len(section.Pairs) > 0 {
			b.WriteString(m.renderPairs(section.Pairs, styles))
		} else {
			b.WriteString(m.renderTable(section, styles))
		}
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}

// renderChoices renders the focus switcher as a row of tabs.
func (m Model) renderChoices(choices []view.Choice, styles Styles) string {
	tabs := make([]string, 0, len(choices))
	for _, c := range choices {
		label := fmt.Sprintf(" %d %s ", c.Index+1, truncate(c.Label, 20))
		if c.Active {
			tabs = append(tabs, styles.Selected.Bold(true).Render(label))
			continue
		}
		slot := m.snapshot.Slots[c.Index]
		tabs = append(tabs, styles.StatusText(slotStatus(slot)).Inherit(styles.SurfaceAlt).Render(label))
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderPairs(pairs []view.Pair, styles Styles) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p.Label))
	}
	labelStyle := styles.MutedText.Width(width + 2)

	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(labelStyle.Render(p.Label))
		b.WriteString(m.valueStyle(p.Value, styles).Render(p.Value))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTable(section view.Section, styles Styles) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Border))).
		Headers(section.Headers...).
		Rows(section.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return cell.Inherit(styles.AccentText).Bold(true)
			case col == 0:
				return cell.Inherit(styles.MutedText)
			}
			if row >= 0 && row < len(section.Rows) && col < len(section.Rows[row]) {
				return cell.Inherit(m.valueStyle(section.Rows[row][col], styles))
			}
			return cell.Inherit(styles.Text)
		})
	return t.String()
}

// valueStyle colors placeholders so loading and failed cells stand out.
func (m Model) valueStyle(value string, styles Styles) lipgloss.Style {
	switch value {
	case format.Loading:
		return styles.StatusText(StatusLoading)
	case format.Error:
		return styles.DangerText
	case format.Missing:
		return styles.FaintText
	default:
		return styles.Text
	}
}
