package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/axedeck/internal/bitaxe"
	"github.com/five82/axedeck/internal/format"
	"github.com/five82/axedeck/internal/state"
)

func miner1() state.Slot {
	return state.Slot{
		Address: "10.0.0.5",
		Record: bitaxe.Record{
			"hostname": "miner1",
			"voltage":  5000.0,
			"current":  1200.0,
			"hashRate": 450.0,
		},
	}
}

func unreachable(addr string) state.Slot {
	return state.Slot{
		Address: addr,
		Failure: &bitaxe.FetchError{Kind: bitaxe.KindUnreachable, Address: addr, Err: errors.New("connection refused")},
	}
}

func TestBuild_EmptyList(t *testing.T) {
	for _, mode := range []Mode{ModeMatrix, ModeFocus, ModeRaw} {
		doc := Build(state.Snapshot{}, Options{Mode: mode})
		assert.Equal(t, NoAddressesMessage, doc.Message)
		assert.Empty(t, doc.Sections)
	}
}

func TestBuild_AllFailedShowsFirstMessageOnly(t *testing.T) {
	snap := state.Snapshot{Slots: []state.Slot{
		unreachable("10.0.0.5"),
		{Address: "10.0.0.6", Failure: &bitaxe.FetchError{Kind: bitaxe.KindHTTP, Status: 500}},
	}}

	doc := Build(snap, Options{Mode: ModeMatrix})
	assert.Equal(t, "Could not reach Bitaxe at 10.0.0.5. Please check it's online.", doc.Message)
	assert.Empty(t, doc.Sections)

	doc = Build(snap, Options{Mode: ModeFocus, Focus: 1})
	assert.Equal(t, "Could not reach Bitaxe at 10.0.0.5. Please check it's online.", doc.Message)
}

func TestBuild_MatrixColumns(t *testing.T) {
	snap := state.Snapshot{Slots: []state.Slot{
		miner1(),
		{Address: "10.0.0.6", InFlight: true},
		unreachable("10.0.0.7"),
	}}

	doc := Build(snap, Options{Mode: ModeMatrix})
	require.Empty(t, doc.Message)
	require.Len(t, doc.Sections, len(format.Groups))

	general := doc.Sections[0]
	assert.Equal(t, []string{"Field", "miner1", "Loading", "Error"}, general.Headers)
	assert.Equal(t, []string{"IP", "10.0.0.5", "Loading", "Error"}, general.Rows[1])

	telemetry := doc.Sections[1]
	assert.Equal(t, []string{"Voltage", "5.00", "Loading", "Error"}, telemetry.Rows[1])
	assert.Equal(t, []string{"Temp", "-", "Loading", "Error"}, telemetry.Rows[3])
	assert.Nil(t, doc.Choices)
}

func TestBuild_FocusDefaultsToFirstAddress(t *testing.T) {
	snap := state.Snapshot{Slots: []state.Slot{miner1(), {Address: "10.0.0.6", Record: bitaxe.Record{"hostname": "miner2"}}}}

	doc := Build(snap, Options{Mode: ModeFocus, Focus: 9})
	assert.Equal(t, "miner1", doc.Device)
	require.Len(t, doc.Choices, 2)
	assert.True(t, doc.Choices[0].Active)
	assert.Equal(t, "miner2", doc.Choices[1].Label)

	doc = Build(snap, Options{Mode: ModeFocus, Focus: 1})
	assert.Equal(t, "miner2", doc.Device)
	assert.True(t, doc.Choices[1].Active)
}

func TestBuild_FocusSingleAddressHasNoSwitcher(t *testing.T) {
	doc := Build(state.Snapshot{Slots: []state.Slot{miner1()}}, Options{Mode: ModeFocus})
	assert.Nil(t, doc.Choices)
}

func TestBuild_FocusOnFailedDeviceAddsNote(t *testing.T) {
	snap := state.Snapshot{Slots: []state.Slot{miner1(), unreachable("10.0.0.7")}}
	doc := Build(snap, Options{Mode: ModeFocus, Focus: 1})
	assert.Equal(t, "Could not reach Bitaxe at 10.0.0.7. Please check it's online.", doc.Note)
	assert.Equal(t, "Error", doc.Sections[1].Pairs[1].Value)
}

func TestBuild_RawListsEveryKey(t *testing.T) {
	slot := miner1()
	slot.Record["asicModel"] = "BM1366"
	doc := Build(state.Snapshot{Slots: []state.Slot{slot}}, Options{Mode: ModeRaw})
	require.Len(t, doc.Sections, 1)

	var keys []string
	for _, p := range doc.Sections[0].Pairs {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"asicModel", "current", "hashRate", "hostname", "voltage"}, keys)
	assert.Equal(t, "5000", doc.Sections[0].Pairs[4].Value)
}

func TestBuild_RawWhileLoadingFallsBackToFields(t *testing.T) {
	doc := Build(state.Snapshot{Slots: []state.Slot{{Address: "a", InFlight: true}}}, Options{Mode: ModeRaw})
	require.Len(t, doc.Sections, len(format.Groups))
	assert.Equal(t, format.Loading, doc.Sections[0].Pairs[0].Value)
}

func TestPlain_FocusOutput(t *testing.T) {
	out := Plain(Build(state.Snapshot{Slots: []state.Slot{miner1()}}, Options{Mode: ModeFocus}))
	for _, want := range []string{"Hostname: miner1", "Voltage: 5.00", "Current: 1.20", "Hashrate: 450", "Temp: -", "VR Temp: -"} {
		assert.Contains(t, out, want)
	}
}

func TestPlain_MessageOnly(t *testing.T) {
	out := Plain(Build(state.Snapshot{}, Options{}))
	assert.Contains(t, out, NoAddressesMessage)
	assert.NotContains(t, out, "Hostname")
}

func TestPlain_MatrixTable(t *testing.T) {
	out := Plain(Build(state.Snapshot{Slots: []state.Slot{miner1(), {Address: "10.0.0.6", InFlight: true}}}, Options{}))
	assert.Contains(t, out, "miner1")
	assert.Contains(t, out, "Loading")
	assert.Contains(t, out, "5.00")
	assert.Contains(t, out, "System Telemetry")
}

func TestMarkdown(t *testing.T) {
	snap := state.Snapshot{Slots: []state.Slot{miner1(), {Address: "10.0.0.6", Record: bitaxe.Record{"ssid": "a|b"}}}}

	md := Markdown(Build(snap, Options{Mode: ModeMatrix}))
	assert.True(t, strings.HasPrefix(md, "# Bitaxe Fleet\n"))
	assert.Contains(t, md, "| Field | miner1 | 10.0.0.6 |")
	assert.Contains(t, md, "| Voltage | 5.00 | - |")
	assert.Contains(t, md, `| SSID | - | a\|b |`)

	md = Markdown(Build(snap, Options{Mode: ModeFocus}))
	assert.Contains(t, md, "# Bitaxe System Info: miner1")
	assert.Contains(t, md, "| Field | Value |")
	assert.Contains(t, md, "| Hostname | miner1 |")
	assert.Contains(t, md, "Devices: **[1] miner1**  [2] 10.0.0.6")
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"matrix": ModeMatrix, "table": ModeMatrix, "focus": ModeFocus, "detail": ModeFocus, "raw": ModeRaw} {
		got, ok := ParseMode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	assert.Equal(t, "focus", ModeFocus.String())
	_, ok := ParseMode("grid")
	assert.False(t, ok)
}
