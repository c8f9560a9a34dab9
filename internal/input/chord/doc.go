// Package chord implements the chord state machine: a Session accumulates
// keystrokes while they form the prefix of an active multi-keystroke
// binding and abandons them after a timeout.
//
// A Session is Idle or AwaitingNext. Each keystroke either extends the
// pending chord (Pending), fires a command (Matched) or clears the session
// (NoMatch, ChordCancelled). Escape cancels a pending chord. When the
// timeout elapses the chord is dropped without firing anything.
//
// A longer active chord takes precedence over an exact match of its prefix:
// with "Ctrl+k" and "Ctrl+k then Ctrl+s" both bound, Ctrl+k waits for the
// next keystroke.
package chord
