package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops labels.
	LayoutCompactWidth = 100
)

// Fixed rows above the content viewport: status bar and command bar.
const chromeHeight = 2

// ClockInterval drives the "updated ... ago" label in the header.
const ClockInterval = time.Second

// Modal widths.
const (
	helpModalWidth    = 44
	devicesModalWidth = 64
)
