// Package ui is the terminal board, built on Bubble Tea.
//
// Lists are drawn as columns side by side. The focused column has a
// highlighted border and one selected row per list is remembered, so moving
// between columns returns to where the cursor was.
//
// # Moving items
//
// Space grabs the selected item. While held, h/l pick the target list and
// j/k the position; a placeholder row shows where the item will land and the
// source slot is dimmed. Space or enter drops, esc puts the item back.
// H/L/K/J move the selected item one step without entering the drag, and u
// undoes the last move.
//
// Every change goes through syncer.Syncer, which updates the local board
// first and talks to the server in the background. The view re-reads the
// store on each tick, so results of background syncs and polls appear
// without further input.
//
// # Other views
//
//   - a/e/d open the add, edit and delete dialogs
//   - v shows the client log file, decoded by logtail
//   - ? shows every key binding
//   - T cycles the theme, which is saved to the preferences file
package ui
