// Package syncer keeps the session board and the server in step.
//
// Every user action is applied to the local board first, through
// state.Store.Mutate, and the matching remote call is started afterwards on
// its own goroutine. Callers never wait for the server. Remote calls are not
// retried or batched, and a failure only gets logged and recorded as the
// store's LastError; the local change stays in place.
//
// Item order inside a list is not stored remotely, so a move within one list
// makes no remote call. A move across lists sends one update of listId.
//
// New items get a temporary id until the server answers the create. Calls for
// the same item are queued in dispatch order, so an edit, move or delete of a
// fresh item waits for its create and then uses the server's id. When the
// create failed those calls are skipped.
package syncer
