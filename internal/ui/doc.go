// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for managing the playlist collection:
//  1. [ManageView] : Browse stored playlists, toggle them on or off, reorder priorities
//  2. [SyncView] : Monitor a running sync with live progress and cancellation
//  3. [ResultView] : Display the outcome of the finished task
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through the running task's channel, providing non-blocking
// status reporting while tracks download.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
