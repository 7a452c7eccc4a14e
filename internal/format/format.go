// Package format turns device slots into display strings.
//
// Every function here is pure: the same slot and key always produce the same
// text.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/five82/axedeck/internal/state"
)

// Placeholders shown instead of a value.
const (
	Loading = "Loading"
	Error   = "Error"
	Missing = "-"
)

// Options tune value rendering.
type Options struct {
	// HideZero renders numeric zero and false as Missing.
	HideZero bool
}

// Value renders one field of slot. Precedence: loading, failure, the ip
// column, missing values, milli-unit conversion, literal text.
func Value(slot state.Slot, key string, opts Options) string {
	if slot.InFlight {
		return Loading
	}
	if slot.Failure != nil {
		return Error
	}
	if key == KeyIP {
		return slot.Address
	}

	v, ok := slot.Record.Lookup(key)
	if !ok || isBlank(v) || (opts.HideZero && isZero(v)) {
		return Missing
	}
	if _, milli := milliFields[key]; milli {
		if n, ok := v.(float64); ok {
			return strconv.FormatFloat(n/1000, 'f', 2, 64)
		}
	}
	return Scalar(v)
}

// HeaderLabel names a slot's column: the hostname when the device reported
// one, the address otherwise.
func HeaderLabel(slot state.Slot) string {
	if slot.InFlight {
		return Loading
	}
	if slot.Failure != nil {
		return Error
	}
	if host := slot.Record.Hostname(); host != "" {
		return host
	}
	return slot.Address
}

// Scalar renders a decoded JSON value as plain text. Numbers use the
// shortest representation that round-trips ("450", "12.5").
func Scalar(v any) string {
	switch value := v.(type) {
	case nil:
		return Missing
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case bool:
		return strconv.FormatBool(value)
	case json.Number:
		return value.String()
	case map[string]any, []any:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(encoded)
	default:
		return fmt.Sprint(value)
	}
}

func isBlank(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func isZero(v any) bool {
	switch value := v.(type) {
	case float64:
		return value == 0
	case int:
		return value == 0
	case int64:
		return value == 0
	case bool:
		return !value
	default:
		return false
	}
}
