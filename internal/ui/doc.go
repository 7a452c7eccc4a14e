// Package ui provides the interactive terminal dashboard for axedeck.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never talks to a device itself: the
// state.Store owns fetching, and the model only reads snapshots and asks
// the store to reconcile or refresh.
//
//   - app.go: Model, message loop, key handling and the Run entry point
//   - header.go: status bar (fleet counts, mode, poll interval, age) and command bar
//   - fleet.go: themed rendering of a view.Document
//   - devices.go: device-list editor modal
//   - theme.go, style_helpers.go: palettes and background-safe styling
//
// # Event Flow
//
//  1. Run builds the Model from the store's current snapshot.
//  2. waitForUpdateCmd blocks on Store.Updates and turns every burst of
//     commits into one storeUpdateMsg carrying a fresh snapshot.
//  3. A new snapshot generation re-anchors the focus on the new address list.
//  4. Mode and focus changes only re-render; they never start a fetch.
//  5. Context cancellation ends the program.
//
// # Key Bindings
//
//   - m / tab: toggle matrix and focus mode
//   - R: raw fields of the focused device
//   - ] / n, [ / p: next and previous device
//   - 1-9: focus a device directly
//   - r: refresh now
//   - a: edit the device list for this session
//   - T: cycle theme
//   - h / ?: help
//   - e or Ctrl+C: exit
package ui
