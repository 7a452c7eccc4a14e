package bitaxe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// InfoPath is the device status endpoint.
const InfoPath = "/api/system/info"

const defaultUserAgent = "axedeck/0.1"

// InfoFetcher retrieves one device's status record.
// This interface is implemented by *Client and can be used for testing.
type InfoFetcher interface {
	FetchInfo(ctx context.Context, address string) (Record, error)
}

// Ensure Client implements InfoFetcher at compile time.
var _ InfoFetcher = (*Client)(nil)

// Client talks to the Bitaxe HTTP API. One Client serves every device; it is
// safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient builds a Client. A zero timeout leaves the transport default in
// place, which never gives up on a hung device.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}
}

// FetchInfo issues a single GET against http://<address>/api/system/info and
// decodes the JSON object body. Failures are always *FetchError.
func (c *Client) FetchInfo(ctx context.Context, address string) (Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	address = strings.TrimSpace(address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, InfoURL(address), nil)
	if err != nil {
		return nil, transportError(address, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(address, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: KindHTTP, Address: address, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(address, fmt.Errorf("read response: %w", err))
	}
	return decodeRecord(address, body)
}

// InfoURL returns the status endpoint URL for address. Bare IPv6 literals
// are bracketed; anything else (host, host:port, [v6]:port) is used as is.
func InfoURL(address string) string {
	return "http://" + urlHost(address) + InfoPath
}

func urlHost(address string) string {
	host, zone, hasZone := strings.Cut(address, "%")
	if !strings.Contains(host, ":") || net.ParseIP(host) == nil {
		return address
	}
	if hasZone {
		return "[" + host + "%25" + zone + "]"
	}
	return "[" + host + "]"
}

func decodeRecord(address string, body []byte) (Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &FetchError{Kind: KindParse, Address: address}
	}
	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, &FetchError{Kind: KindParse, Address: address, Err: err}
	}
	if rec == nil {
		return nil, &FetchError{Kind: KindParse, Address: address, Err: errNoData}
	}
	return rec, nil
}
