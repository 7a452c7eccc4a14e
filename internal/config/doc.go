// Package config loads axedeck settings and parses the device address list.
//
// # Overview
//
// Settings come from a TOML file (default ~/.config/axedeck/config.toml) read
// through viper, with AXEDECK_* environment variables taking precedence over
// file values. A missing file is not an error: defaults apply, so the tool can
// be started with nothing more than AXEDECK_DEVICES or the --devices flag.
//
// # TOML Format
//
//	devices = "10.0.0.5, bitaxe-garage.local"
//	poll_interval = "5s"   # "0" disables re-polling
//	timeout = "0s"         # per request; 0 keeps the transport default
//	hide_zero = false      # render genuine zero readings as "-"
//	log_file = "~/.local/state/axedeck/axedeck.log"
//	debug = false
//
// Durations accept Go duration strings or bare numbers (seconds).
//
// # Address List
//
// ParseAddresses turns the raw devices string into the ordered address list:
// split on commas, trim, drop empty pieces. Duplicates are kept because each
// entry becomes its own dashboard slot. Malformed entries are passed through
// untouched and surface later as connection failures.
//
// # Live Reload
//
// Watch uses viper's fsnotify watcher to re-run Load whenever the file changes.
// Callers compare the new address list with the old one and only reconcile
// the fleet when it differs.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - Files that exist but are not valid TOML ("parse config: ...")
//   - Durations that cannot be parsed or are negative
package config
