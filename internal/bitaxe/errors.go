package bitaxe

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Kind classifies a device fetch failure.
type Kind int

const (
	// KindTransport is a request failure that does not look connection-related.
	KindTransport Kind = iota
	// KindUnreachable is a connection-level failure (refused, DNS, timeout).
	KindUnreachable
	// KindHTTP is a non-2xx response.
	KindHTTP
	// KindParse is a body that is not a JSON object.
	KindParse
)

// String returns a short name used in logs.
func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindHTTP:
		return "http"
	case KindParse:
		return "parse"
	default:
		return "transport"
	}
}

const unknownError = "Unknown error"

var errNoData = errors.New("No data received")

// unreachableHints are lower-case message fragments that mark a failure as
// connection-level when the error chain carries no typed network error.
var unreachableHints = []string{
	"fetch failed",
	"network error",
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"host is down",
	"no route to host",
	"i/o timeout",
	"timeout",
}

// FetchError describes why one device could not be read.
type FetchError struct {
	Kind    Kind
	Address string
	Status  int
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return "HTTP " + strconv.Itoa(e.Status)
	default:
		if e.Err == nil || strings.TrimSpace(e.Err.Error()) == "" {
			return unknownError
		}
		return e.Err.Error()
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the operator. Connection failures are
// rewritten to name the device; everything else keeps its own message.
func (e *FetchError) UserMessage() string {
	if e.Kind == KindUnreachable || hasUnreachableHint(e.Error()) {
		return unreachableMessage(e.Address)
	}
	return e.Error()
}

// UserMessage renders any fetch failure for address, applying the same
// unreachable rewrite to errors that did not come from Client.
func UserMessage(address string, err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		if fe.Address == "" {
			clone := *fe
			clone.Address = address
			return clone.UserMessage()
		}
		return fe.UserMessage()
	}
	msg := err.Error()
	if hasUnreachableHint(msg) {
		return unreachableMessage(address)
	}
	if strings.TrimSpace(msg) == "" {
		return unknownError
	}
	return msg
}

func unreachableMessage(address string) string {
	return fmt.Sprintf("Could not reach Bitaxe at %s. Please check it's online.", address)
}

func transportError(address string, err error) *FetchError {
	kind := KindTransport
	if isUnreachable(err) {
		kind = KindUnreachable
	}
	return &FetchError{Kind: kind, Address: address, Err: err}
}

func isUnreachable(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return hasUnreachableHint(err.Error())
}

func hasUnreachableHint(msg string) bool {
	lower := strings.ToLower(msg)
	for _, hint := range unreachableHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
