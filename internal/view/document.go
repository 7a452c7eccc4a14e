package view

import (
	"github.com/five82/axedeck/internal/bitaxe"
	"github.com/five82/axedeck/internal/format"
	"github.com/five82/axedeck/internal/state"
)

// Mode selects the presentation.
type Mode int

const (
	// ModeMatrix shows one column per device.
	ModeMatrix Mode = iota
	// ModeFocus shows a key/value list for the focused device.
	ModeFocus
	// ModeRaw lists every field the focused device reported.
	ModeRaw
)

// String returns the mode name used in flags and the status bar.
func (m Mode) String() string {
	switch m {
	case ModeFocus:
		return "focus"
	case ModeRaw:
		return "raw"
	default:
		return "matrix"
	}
}

// ParseMode maps a flag or prefs value to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "matrix", "table":
		return ModeMatrix, true
	case "focus", "detail":
		return ModeFocus, true
	case "raw":
		return ModeRaw, true
	default:
		return ModeMatrix, false
	}
}

// Document titles.
const (
	FleetTitle  = "Bitaxe Fleet"
	DeviceTitle = "Bitaxe System Info"
)

// NoAddressesMessage is shown instead of any table when nothing is configured.
const NoAddressesMessage = "No Bitaxe addresses configured. Add at least one device address (comma separated) to the devices setting."

// Pair is one line of a key/value section.
type Pair struct {
	Key   string
	Label string
	Value string
}

// Section is either a table (Headers/Rows) or a key/value list (Pairs).
type Section struct {
	Title   string
	Headers []string
	Rows    [][]string
	Pairs   []Pair
}

// Choice is one entry of the focus switcher.
type Choice struct {
	Index   int
	Address string
	Label   string
	Active  bool
}

// Document is everything a renderer needs for one frame.
type Document struct {
	Title string
	// Device names the focused device in focus and raw modes.
	Device string
	// Message replaces all sections when set.
	Message string
	// Note is an extra line shown above the sections, e.g. the focused
	// device's failure.
	Note     string
	Sections []Section
	// Choices is only populated in focus and raw modes with more than one
	// configured address.
	Choices []Choice
}

// Options configure Build.
type Options struct {
	Mode   Mode
	Focus  int
	Format format.Options
}

// Build renders snap into a Document. An empty address list yields only
// NoAddressesMessage; when every device failed only the first device's
// failure message is shown.
func Build(snap state.Snapshot, opts Options) Document {
	if len(snap.Slots) == 0 {
		return Document{Title: FleetTitle, Message: NoAddressesMessage}
	}
	if snap.AllFailed() {
		first := snap.Slots[0]
		return Document{Title: FleetTitle, Message: bitaxe.UserMessage(first.Address, first.Failure)}
	}

	switch opts.Mode {
	case ModeFocus, ModeRaw:
		return buildFocus(snap, opts)
	default:
		return buildMatrix(snap, opts)
	}
}

func buildMatrix(snap state.Snapshot, opts Options) Document {
	doc := Document{Title: FleetTitle}

	headers := make([]string, 0, len(snap.Slots)+1)
	headers = append(headers, "Field")
	for _, slot := range snap.Slots {
		headers = append(headers, format.HeaderLabel(slot))
	}

	for _, group := range format.Groups {
		section := Section{Title: group.Title, Headers: headers}
		for _, field := range group.Fields {
			row := make([]string, 0, len(snap.Slots)+1)
			row = append(row, field.Label)
			for _, slot := range snap.Slots {
				row = append(row, format.Value(slot, field.Key, opts.Format))
			}
			section.Rows = append(section.Rows, row)
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc
}

func buildFocus(snap state.Snapshot, opts Options) Document {
	index := opts.Focus
	if index < 0 || index >= len(snap.Slots) {
		index = 0
	}
	slot := snap.Slots[index]

	doc := Document{
		Title:   DeviceTitle,
		Device:  format.HeaderLabel(slot),
		Choices: choices(snap, index),
	}
	if slot.Failed() {
		doc.Note = bitaxe.UserMessage(slot.Address, slot.Failure)
	}

	if opts.Mode == ModeRaw && !slot.InFlight && slot.Record != nil {
		section := Section{Title: "Raw Fields"}
		for _, key := range slot.Record.Keys() {
			v, _ := slot.Record.Lookup(key)
			section.Pairs = append(section.Pairs, Pair{Key: key, Label: key, Value: format.Scalar(v)})
		}
		doc.Sections = append(doc.Sections, section)
		return doc
	}

	for _, group := range format.Groups {
		section := Section{Title: group.Title}
		for _, field := range group.Fields {
			section.Pairs = append(section.Pairs, Pair{
				Key:   field.Key,
				Label: field.Label,
				Value: format.Value(slot, field.Key, opts.Format),
			})
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc
}

func choices(snap state.Snapshot, active int) []Choice {
	if len(snap.Slots) < 2 {
		return nil
	}
	out := make([]Choice, len(snap.Slots))
	for i, slot := range snap.Slots {
		label := slot.Address
		if host := slot.Record.Hostname(); host != "" && !slot.InFlight && slot.Failure == nil {
			label = host
		}
		out[i] = Choice{Index: i, Address: slot.Address, Label: label, Active: i == active}
	}
	return out
}
