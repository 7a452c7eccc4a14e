// Package bitaxe provides the HTTP client for Bitaxe mining boards.
//
// # Overview
//
// Each board serves its live telemetry as a JSON object at
//
//	GET http://<address>/api/system/info
//
// The endpoint needs no authentication or headers. Client issues exactly one
// request per FetchInfo call: no retries, no caching. A single Client is shared
// by every device and may be called concurrently.
//
// # Payload
//
// The payload is decoded into Record, an open map, because firmware versions
// disagree on which fields exist. The dashboard consumes hostname, hashRate,
// voltage, current, temp, vrTemp, frequency, fanrpm, ssid, wifiStatus,
// wifiRSSI and macAddr. voltage and current arrive in milli-units.
//
// # Failures
//
// FetchInfo returns *FetchError with one of four kinds:
//
//   - KindHTTP: non-2xx status, message "HTTP <code>"
//   - KindUnreachable: connection refused, DNS failure, timeout
//   - KindTransport: any other request failure
//   - KindParse: body is not a JSON object ("Unknown error" when the decoder
//     gives no message)
//
// UserMessage rewrites unreachable failures to a device-specific
// "please check it's online" sentence. The rewrite is a display concern; the
// stored error keeps the transport's original message.
package bitaxe
