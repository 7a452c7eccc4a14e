package bitaxe

import (
	"sort"
	"strings"
)

// Known field keys in the /api/system/info payload.
const (
	FieldHostname   = "hostname"
	FieldHashRate   = "hashRate"
	FieldVoltage    = "voltage"
	FieldCurrent    = "current"
	FieldTemp       = "temp"
	FieldVRTemp     = "vrTemp"
	FieldFrequency  = "frequency"
	FieldFanRPM     = "fanrpm"
	FieldSSID       = "ssid"
	FieldWifiStatus = "wifiStatus"
	FieldWifiRSSI   = "wifiRSSI"
	FieldMACAddr    = "macAddr"
)

// Record is the decoded status payload. The device firmware adds fields
// between releases, so the record stays open-ended; JSON numbers decode to
// float64.
type Record map[string]any

// Lookup returns the value stored under key. JSON null counts as absent.
func (r Record) Lookup(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Hostname returns the trimmed hostname field, or "" when it is missing or
// not a string.
func (r Record) Hostname() string {
	v, ok := r.Lookup(FieldHostname)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Keys returns every field name in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy. Values are JSON scalars or trees the caller
// never mutates.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	dup := make(Record, len(r))
	for k, v := range r {
		dup[k] = v
	}
	return dup
}
