// Package key provides the keystroke model, normalization and the
// keybinding wire format for the input system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Modifier: Bitset of Ctrl, Alt, Shift, Meta
//   - Keystroke: A single key press with modifiers
//   - Keybinding: One keystroke, or a chord of several in order
//   - RawEvent: The event shape consumed from an input source
//
// # Encoding
//
// Keybindings are stored and compared through a canonical string form:
//
//	Ctrl+s
//	Ctrl+Shift+S
//	Ctrl+k then Ctrl+s
//
// Modifiers always appear in Ctrl, Alt, Shift, Meta order. Key names are
// case-sensitive; the space key is written "Space". Decode also accepts
// modifier aliases ("Cmd", "Option") and whitespace-separated chords.
//
// # Display
//
// FormatKeystrokeDisplay renders labels such as "Ctrl+S" or "Ctrl+↵" for
// humans. Display labels are never used for matching.
package key
