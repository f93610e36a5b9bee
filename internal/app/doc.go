// Package app is the composition root for the kanban binaries.
//
// Run wires the terminal board:
//
//	config.Load()          client config and list definitions
//	logging.New()          zap logger writing to the log file
//	itemsapi.NewClient()   HTTP client for the items API
//	state.NewStore()       session board shared by UI and poller
//	syncer.New()           optimistic local changes, mirrored remotely
//	syncer.Load()          initial fetch (failure is shown, not fatal)
//	StartPoller()          background refresh with exponential backoff
//	ui.Run()               bubbletea program (blocks)
//
// On exit the poller is stopped and in-flight remote calls are awaited.
//
// RunServer wires `kanban serve`: logger, tracer, storage backend, metrics
// registry and the HTTP server, with graceful shutdown when the context ends.
package app
