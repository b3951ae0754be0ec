// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-pane workflow for album tracking:
//  1. [SearchView] : Type-ahead album search against the catalog, with saved
//     status shown inline for every result
//  2. [CollectionView] : Browse the saved list and flip listened flags
//  3. [ConfirmView] : Confirm removals
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern, receiving messages via the Msg union type. Search results flow
// through a channel from the debouncer, so typing stays responsive while
// lookups run in the background and stale results never reach the screen.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) plus
// single-key album actions (a/l/u/d) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
