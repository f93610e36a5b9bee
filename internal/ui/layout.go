package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the API address.
	LayoutWideWidth = 140

	// MinColumnWidth keeps list columns readable on narrow terminals.
	MinColumnWidth = 16

	// HeaderLines is the height of the header plus command bar.
	HeaderLines = 2
)

// LogTailLines is the number of log lines read into the log view.
const LogTailLines = 500

// Timing constants.
const (
	// DefaultUIInterval is how often the view picks up store changes made
	// by background syncs and polls.
	DefaultUIInterval = 250 * time.Millisecond

	// LogRefreshInterval is the minimum time between log file reads.
	LogRefreshInterval = time.Second

	// ReloadTimeout bounds a manual reload.
	ReloadTimeout = 5 * time.Second

	// FlashDuration is how long command bar messages stay visible.
	FlashDuration = 4 * time.Second
)
