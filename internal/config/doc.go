// Package config handles loading the kanban configuration.
//
// # Client Configuration
//
// The terminal board and the CLI read a TOML file. Load follows this
// resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/kanban/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Example config.toml:
//
//	api_bind = "127.0.0.1:7488"
//	poll_interval = "5s"       # "0" disables background refresh
//	request_timeout = "5s"
//	log_file = "~/.local/state/kanban/kanban.log"
//	log_level = "info"
//
//	[[lists]]
//	id = "todo"
//	title = "To Do"
//
//	[[lists]]
//	id = "inProgress"
//	title = "In Progress"
//
//	[[lists]]
//	id = "done"
//	title = "Done"
//
// # Server Configuration
//
// LoadServer reads `kanban serve` settings from the environment. A .env file
// in the working directory is loaded first when present. The main variables
// are KANBAN_ADDR, DATABASE_DRIVER (sqlite, postgres, memory), DATABASE_URL,
// ALLOWED_LISTS, LOG_LEVEL, LOG_FORMAT, ENABLE_METRICS, ENABLE_TRACING and
// OTLP_ENDPOINT.
package config
