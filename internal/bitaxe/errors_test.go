package bitaxe

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{"http", &FetchError{Kind: KindHTTP, Status: 404}, "HTTP 404"},
		{"parse with message", &FetchError{Kind: KindParse, Err: errors.New("invalid character 'x'")}, "invalid character 'x'"},
		{"parse without message", &FetchError{Kind: KindParse}, "Unknown error"},
		{"no data", &FetchError{Kind: KindParse, Err: errNoData}, "No data received"},
		{"transport", &FetchError{Kind: KindTransport, Err: errors.New("unsupported protocol scheme")}, "unsupported protocol scheme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUserMessage_RewritesConnectionFailures(t *testing.T) {
	const addr = "10.0.0.9"
	want := "Could not reach Bitaxe at 10.0.0.9. Please check it's online."

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"fetch failed hint", errors.New("TypeError: Fetch Failed"), want},
		{"network error hint", errors.New("NETWORK ERROR while reading"), want},
		{"unreachable kind", &FetchError{Kind: KindUnreachable, Address: addr, Err: errors.New("dial tcp: i/o timeout")}, want},
		{"unreachable kind without address", &FetchError{Kind: KindUnreachable, Err: errors.New("boom")}, want},
		{"wrapped fetch error", fmt.Errorf("poll: %w", &FetchError{Kind: KindHTTP, Address: addr, Status: 500}), "HTTP 500"},
		{"plain error", errors.New("something odd"), "something odd"},
		{"blank error", errors.New("  "), "Unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(addr, tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "unreachable", KindUnreachable.String())
	assert.Equal(t, "http", KindHTTP.String())
	assert.Equal(t, "parse", KindParse.String())
}

func TestRecordHelpers(t *testing.T) {
	rec := Record{"hostname": "  miner1 ", "vrTemp": nil, "b": 1.0, "a": "x"}

	assert.Equal(t, "miner1", rec.Hostname())
	_, ok := rec.Lookup("vrTemp")
	assert.False(t, ok, "null values are absent")
	_, ok = rec.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b", "hostname", "vrTemp"}, rec.Keys())

	clone := rec.Clone()
	clone["a"] = "changed"
	assert.Equal(t, "x", rec["a"])

	var empty Record
	assert.Equal(t, "", empty.Hostname())
	assert.Nil(t, empty.Clone())
	assert.Equal(t, "", Record{"hostname": 42.0}.Hostname())
}
