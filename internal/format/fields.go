package format

import "github.com/five82/axedeck/internal/bitaxe"

// KeyIP is the synthetic field that renders the slot's own address.
const KeyIP = "ip"

// Field pairs a record key with its display label.
type Field struct {
	Key   string
	Label string
}

// Group is a titled set of fields rendered as one table.
type Group struct {
	Title  string
	Fields []Field
}

// Groups lists every field the dashboard shows, in display order.
var Groups = []Group{
	{
		Title: "General Info",
		Fields: []Field{
			{Key: bitaxe.FieldHostname, Label: "Hostname"},
			{Key: KeyIP, Label: "IP"},
		},
	},
	{
		Title: "System Telemetry",
		Fields: []Field{
			{Key: bitaxe.FieldHashRate, Label: "Hashrate"},
			{Key: bitaxe.FieldVoltage, Label: "Voltage"},
			{Key: bitaxe.FieldCurrent, Label: "Current"},
			{Key: bitaxe.FieldTemp, Label: "Temp"},
			{Key: bitaxe.FieldVRTemp, Label: "VR Temp"},
			{Key: bitaxe.FieldFrequency, Label: "Frequency"},
			{Key: bitaxe.FieldFanRPM, Label: "Fan RPM"},
		},
	},
	{
		Title: "Network Info",
		Fields: []Field{
			{Key: bitaxe.FieldSSID, Label: "SSID"},
			{Key: bitaxe.FieldWifiStatus, Label: "WiFi Status"},
			{Key: bitaxe.FieldWifiRSSI, Label: "WiFi RSSI"},
			{Key: bitaxe.FieldMACAddr, Label: "MAC Address"},
		},
	},
}

// milliFields are reported in milli-units and displayed in whole units.
var milliFields = map[string]struct{}{
	bitaxe.FieldVoltage: {},
	bitaxe.FieldCurrent: {},
}

// AllFields flattens Groups.
func AllFields() []Field {
	var out []Field
	for _, g := range Groups {
		out = append(out, g.Fields...)
	}
	return out
}

// Label returns the display label for key, or key itself when the field is
// not in the catalogue.
func Label(key string) string {
	for _, g := range Groups {
		for _, f := range g.Fields {
			if f.Key == key {
				return f.Label
			}
		}
	}
	return key
}
