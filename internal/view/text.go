package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Markdown encodes doc as GitHub-flavoured markdown tables. Key/value
// sections become two-column "Field | Value" tables.
func Markdown(doc Document) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(doc.Title)
	if doc.Device != "" {
		b.WriteString(": ")
		b.WriteString(doc.Device)
	}
	b.WriteString("\n\n")

	if doc.Message != "" {
		b.WriteString(doc.Message)
		b.WriteString("\n")
		return b.String()
	}
	if len(doc.Choices) > 0 {
		b.WriteString("Devices: ")
		b.WriteString(switcherLine(doc.Choices, "**"))
		b.WriteString("\n\n")
	}
	if doc.Note != "" {
		b.WriteString("> ")
		b.WriteString(doc.Note)
		b.WriteString("\n\n")
	}

	for i, section := range doc.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## ")
		b.WriteString(section.Title)
		b.WriteString("\n\n")

		headers, rows := section.Headers, section.Rows
		if len(section.Pairs) > 0 {
			headers = []string{"Field", "Value"}
			rows = pairRows(section.Pairs)
		}
		writeMarkdownRow(&b, headers)
		sep := make([]string, len(headers))
		for j := range sep {
			sep[j] = "---"
		}
		writeMarkdownRow(&b, sep)
		for _, row := range rows {
			writeMarkdownRow(&b, row)
		}
	}
	return b.String()
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(cell, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// Plain encodes doc for a terminal. Matrix sections are boxed tables; key/value
// sections are "Label: value" lines with right-aligned labels.
func Plain(doc Document) string {
	var b strings.Builder
	title := doc.Title
	if doc.Device != "" {
		title += ": " + doc.Device
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n\n")

	if doc.Message != "" {
		b.WriteString(doc.Message)
		b.WriteString("\n")
		return b.String()
	}
	if len(doc.Choices) > 0 {
		b.WriteString("Devices: ")
		b.WriteString(switcherLine(doc.Choices, "*"))
		b.WriteString("\n\n")
	}
	if doc.Note != "" {
		b.WriteString(doc.Note)
		b.WriteString("\n\n")
	}

	for i, section := range doc.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.NewStyle().Underline(true).Render(section.Title))
		b.WriteString("\n")
		if len(section.Pairs) > 0 {
			b.WriteString(pairLines(section.Pairs))
			continue
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(section.Headers...).
			Rows(section.Rows...)
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	return b.String()
}

func pairRows(pairs []Pair) [][]string {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.Label, p.Value}
	}
	return rows
}

func pairLines(pairs []Pair) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p.Label))
	}
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%*s: %s\n", width, p.Label, p.Value)
	}
	return b.String()
}

func switcherLine(choices []Choice, mark string) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		label := fmt.Sprintf("[%d] %s", c.Index+1, c.Label)
		if c.Active {
			label = mark + label + mark
		}
		parts[i] = label
	}
	return strings.Join(parts, "  ")
}
