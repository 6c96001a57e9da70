// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist generation:
//  1. [MoodListView] : Browse built-in and stored mood tags
//  2. [NameInputView] : Name the playlist to create
//  3. [ConfirmView] : Confirm the generation run
//  4. [GenerateView] : Monitor real-time progress updates
//  5. [ResultView] : Display the created playlist and its URL
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the PlaylistEngine, providing non-blocking status reporting during generation.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
