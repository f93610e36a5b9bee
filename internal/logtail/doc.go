// Package logtail reads the end of the board's log file and decodes its
// entries for the in-app log view.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// bounded by the window size rather than the file size. Parse understands the
// JSON lines written by the zap loggers in package logging and falls back to
// the raw text for anything else.
package logtail
