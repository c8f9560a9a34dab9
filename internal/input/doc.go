// Package input turns keyboard events into editor commands.
//
// The input package ties together the pieces of keybinding resolution:
//
//   - key: Normalizes raw events into keystrokes and encodes keybindings
//   - when: Parses and evaluates when-clause expressions
//   - keymap: Builds the binding table from defaults and user overrides
//   - chord: Tracks an in-progress multi-keystroke chord with a timeout
//
// Handler is the entry point. Each keystroke is resolved against the
// registry's current table using a snapshot of the live Context, so a
// table swap or context update never changes the answer mid-resolution.
//
// # Chords
//
// A keystroke that starts an active chord puts the handler into a pending
// state; PendingKeys reports it for a status bar. The chord completes,
// is cancelled by Escape or a non-continuing keystroke, or expires after
// Config.ChordTimeout.
//
// # Usage
//
//	registry := keymap.NewRegistry(keymap.DefaultBindings())
//	handler := input.NewHandler(registry, input.DefaultConfig())
//
//	handler.Context().SetBool(input.CtxEditorTextFocus, true)
//
//	// Feed events from the terminal
//	for ev := range events {
//	    handler.HandleRawEvent(ev)
//	}
//
//	// Receive commands
//	for cmd := range handler.Commands() {
//	    execute(cmd)
//	}
package input
