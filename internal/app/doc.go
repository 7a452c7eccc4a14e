// Package app provides the orchestration layer for axedeck.
//
// # Overview
//
// This package wires together configuration, logging, the device client,
// the fleet store and the UI. It is the composition root: every dependency
// is built here and handed down.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()          Read config file and AXEDECK_* env
//	       ├─────> logging.New()          File or discard logger
//	       ├─────> bitaxe.NewClient()     HTTP client for /api/system/info
//	       ├─────> state.NewStore()       Generation-tagged fleet state
//	       │
//	       ├── --once ──> runOnce()       Reconcile, Wait, print, return
//	       │
//	       ├─────> store.Reconcile()      First fetch of every device
//	       ├─────> StartPoller()          Periodic store.Refresh()
//	       ├─────> watchDevices()         Reconcile when the file's list changes
//	       └─────> ui.Run()               Start TUI (blocks)
//
// # Polling Behavior
//
// The poller ticks at poll_interval (default 5 seconds, 0 disables it) and
// asks the store to refresh every device whose previous fetch has settled.
// A slow device therefore never queues more than one request. There is no
// retry or backoff: a failed device shows its failure until the next tick.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid config file or duration values
//   - Invalid --mode, --format or --focus values
//   - Log file that cannot be opened
//
// Everything a device does wrong is rendered in its slot and never ends the
// process; one-shot mode exits 0 even when every device failed.
package app
