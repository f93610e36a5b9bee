// Package itemsapi provides the HTTP client for the board's item endpoints.
//
// # Overview
//
// The server exposes a single resource with four verbs:
//
//   - GET /items: every stored item as [{id, text, listId}]
//   - POST /items {text, listId}: creates an item and returns it with its id
//   - PUT /items {id, listId?, text?}: partial update of one or both fields
//   - DELETE /items {id}: removes the item
//
// Client implements Remote over those endpoints. Callers that only need the
// behavior (the syncer, the CLI) depend on Remote so tests can swap in a fake.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Accept: application/json (and Content-Type when a body is sent)
//   - Include User-Agent: kanban/0.1
//   - Have a 5-second timeout unless NewClient is given another one
//
// # Error Handling
//
// Every failure, whether it is a network error, a 4xx/5xx status or a malformed
// body, is returned as a *RemoteError. RemoteError matches ErrRemoteFailure
// under errors.Is, and errors.As exposes the HTTP status and the server's
// {"error": ...} message when there was one.
//
// Example error messages:
//   - "api GET /items: execute request: dial tcp: connection refused"
//   - "api PUT /items returned status 404: item not found"
//
// The client never retries. Retry and rollback policy belongs to the caller.
package itemsapi
