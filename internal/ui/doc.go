// Package ui implements an interactive terminal browser for the library using bubbletea's Elm architecture.
//
// The TUI has two views over the JSON API:
//  1. [ArtistView] : every artist, by name
//  2. [AlbumView] : every album, by title
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Both lists are fetched through a [webclient.Requester] and decoded with [webclient.DecodeRecords]; each response
// replaces its view's items, and a failed fetch keeps whatever the view showed before.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
