// Package state tracks the per-device dashboard state for axedeck.
//
// # Overview
//
// Store holds one Slot per configured address, in configuration order, and
// launches the device fetches that fill them. Duplicate addresses get
// independent slots; slots are addressed by index, never by address string.
//
// # Architecture
//
//	Reconcile(addresses)                       UI / one-shot renderer
//	┌──────────────────────┐                  ┌──────────────────────┐
//	│ generation++         │                  │                      │
//	│ slots = loading...   │                  │                      │
//	│ go fetch(gen, i) ×N  │                  │                      │
//	│        ↓             │                  │                      │
//	│ commit(gen, i, res)  │────(RWMutex)────→│ store.Snapshot()     │
//	│        ↓             │                  │        ↑             │
//	│ Updates() <- Update  │─────────────────→│ re-render            │
//	└──────────────────────┘                  └──────────────────────┘
//
// # Generations
//
// Every Reconcile bumps an integer generation and tags each fetch it starts
// with that generation and the slot index. There is no cancellation: a fetch
// from an older generation runs to completion and commit drops its result.
// This keeps a late answer for address A from overwriting the slot A got in
// the new list.
//
// # Slot Lifecycle
//
//   - Reconcile: {InFlight: true}, previous state discarded
//   - success:   Record set, Failure cleared, InFlight/Refreshing cleared
//   - failure:   Failure set, Record cleared, InFlight/Refreshing cleared
//   - Refresh:   Refreshing set on settled slots; Record/Failure stay visible
//     so a periodic poll does not flicker the dashboard back to "Loading"
//
// A slot with a fetch outstanding is skipped by Refresh, so there is at most
// one fetch per slot per generation in flight.
//
// # Concurrency Model
//
// Fetch goroutines never touch slots directly; they hand their result to
// commit, which takes the write lock. Snapshot takes the read lock and copies
// every slot (records included), so a reader never sees a half-written slot.
// The lock is never held across network I/O.
package state
