// Package state provides the observable collection status shared between the
// sync state machine and its observers.
//
// # Overview
//
// A Status is exactly one of four phases:
//
//	Idle            no load has happened yet
//	Loading         a fetch is in flight, no snapshot implied
//	Loaded(items)   records of the last successful full fetch, server order
//	Failed(message) the last operation failed; any earlier items are gone
//
// Store is the holder. Only the collection package writes to it; everything
// else reads through the Reader interface.
//
// # Architecture
//
//	Writer (collection.Syncer):        Readers (TUI, CLI, metrics):
//	┌───────────────────────┐         ┌───────────────────────┐
//	│ store.Set(Loading())  │         │ store.Snapshot()      │
//	│ remote.ListAll()      │         │   or                  │
//	│ store.Set(Loaded(..)) │────────→│ <-updates             │
//	│   or Set(Failed(..))  │ (mutex) │      ↓                │
//	└───────────────────────┘         │ render / print        │
//	                                  └───────────────────────┘
//
// # Core Types
//
// Status:
//   - Phase plus the data that phase carries (Items or Message)
//   - Built only through Idle(), Loading(), Loaded(items) and Failed(msg)
//
// Snapshot:
//   - Status plus bookkeeping (LastUpdated, Version, ConsecutiveFailures)
//   - Returned by value; safe to keep and read later
//
// Store:
//   - Zero value is ready to use and starts Idle
//   - Must not be copied after first use
//
// # Transitions
//
// A Failed status replaces the snapshot entirely. Unlike a cache that keeps
// stale data next to an error, earlier items are not retained:
//
//	store.Set(state.Loaded(items))   → Items = items, failures = 0
//	store.Set(state.Loading())       → Items = nil
//	store.Set(state.Failed("boom"))  → Items = nil, failures++
//
// # Concurrency Model
//
// Store uses a readers-writer lock:
//
//   - Set(): write lock, replaces the snapshot, notifies subscribers
//   - Snapshot(): read lock, returns a copy
//   - Subscribe(): write lock while registering
//
// The lock is held only while copying, never during network I/O.
//
// # Subscriptions
//
// Each subscriber owns a one-slot channel. Set never blocks on a slow
// subscriber: an undelivered snapshot is replaced by the newer one, so a
// renderer that wakes up late draws the current state and skips the ones in
// between.
//
//	updates, cancel := store.Subscribe()
//	defer cancel()
//	for snap := range updates {
//		render(snap.Status)
//	}
//
// # Defensive Copying
//
// Items slices (and the id pointers inside them) are cloned on Set and on
// every read, so observers can never mutate what another observer sees.
//
// # Bookkeeping
//
// Snapshot also carries LastUpdated, a monotonic Version and
// ConsecutiveFailures (incremented by Failed, reset by Loaded). The UI
// header shows them; they have no effect on transitions.
package state
