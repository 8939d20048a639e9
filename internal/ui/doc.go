// Package ui provides the Bubble Tea terminal interface for a remote jokes
// collection.
//
// The Model renders whatever collection.Syncer reports and turns key presses
// into intents. It never mutates the list it shows: every add, edit or delete
// goes through the syncer, and the screen changes when the next status
// arrives on the subscription channel.
//
// # Files
//
//   - app.go: Model, Update loop, intent dispatch and Run
//   - header.go: status bar and command bar
//   - list.go: the collection box for each phase
//   - form.go, modal.go: add/edit form and delete confirmation
//   - logs.go: client log overlay backed by logtail
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Themes
//
// Nightfox, Kanagawa and Slate are built in. T cycles them and the choice is
// saved to the prefs file.
package ui
