package config

import "strings"

// ParseAddresses splits a comma-separated device list into trimmed, non-empty
// addresses. Order and duplicates are preserved; nothing is validated.
func ParseAddresses(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		out = append(out, piece)
	}
	return out
}
