// Package state provides thread-safe state management for the board session.
//
// # Overview
//
// This package holds the one board a session works on and the bookkeeping
// around it. It is the coordination point where user actions, background
// remote calls and the poller meet. There is no package-level state: callers
// create a Store and pass it to whoever needs it.
//
// # Architecture
//
//	UI / CLI                 Syncer goroutines          Poller
//	┌────────────────┐      ┌────────────────┐      ┌────────────────┐
//	│ store.Mutate() │      │ BeginRemote()  │      │ ListAll()      │
//	│ store.Snapshot │      │ EndRemote(err) │      │ store.Load()   │
//	└───────┬────────┘      └───────┬────────┘      └───────┬────────┘
//	        └─────────────── Store (RWMutex) ───────────────┘
//
// # Update Semantics
//
// Mutate runs a pure board transition under the write lock, so two reorder
// computations never interleave and a failed transition changes nothing.
//
// Load applies a full fetch by reconciling it with the local board: the local
// order inside each list survives, since the server only stores list
// membership. A failed fetch keeps the old board and records the error. While
// remote calls are in flight the fetch is skipped, because it may predate
// changes the server is still applying; the next poll picks them up.
//
// EndRemote records a failed call as LastError and never touches the board.
// Optimistic changes are not rolled back.
//
// # Snapshots
//
// Snapshot returns a copy of the current state. board.Collection is immutable,
// so sharing it between the copy and the store is safe. Version increases on
// every change and lets the UI skip redundant redraws.
package state
