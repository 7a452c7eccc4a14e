package ui

import (
	"strings"
	"time"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle shortens a string by removing characters from the middle,
// keeping the start and end. Device lists read better that way since the
// last octets usually tell addresses apart.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	ellipsis := []rune("…")
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - len(ellipsis)
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + string(ellipsis) + string(runes[len(runes)-suffix:])
}

// formatInterval renders a poll interval for the header.
func formatInterval(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}

// formatAge renders how long ago t was, at the coarse resolution the header
// needs.
func formatAge(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	age := now.Sub(t)
	switch {
	case age < 5*time.Second:
		return "just now"
	case age < time.Minute:
		return age.Truncate(time.Second).String() + " ago"
	case age < time.Hour:
		return age.Truncate(time.Minute).String() + " ago"
	default:
		return t.Format("15:04:05")
	}
}
