package key

import (
	"fmt"
	"strconv"
	"strings"
)

// RawEvent is the normalized shape of a key press delivered by an input
// source (terminal backend, DOM bridge, test harness).
type RawEvent struct {
	Key      string
	CtrlKey  bool
	AltKey   bool
	ShiftKey bool
	MetaKey  bool
}

// Keystroke is a single key press plus modifier state.
type Keystroke struct {
	// Key is the canonical, case-sensitive logical key name.
	Key string

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// Normalize converts a raw event into a Keystroke. It never fails: unknown
// special keys keep their raw name.
func Normalize(ev RawEvent) Keystroke {
	return Keystroke{
		Key:       NormalizeKeyName(ev.Key),
		Modifiers: NewModifier(ev.CtrlKey, ev.AltKey, ev.ShiftKey, ev.MetaKey),
	}
}

// New creates a keystroke with the key name normalized.
func New(name string, mods Modifier) Keystroke {
	return Keystroke{Key: NormalizeKeyName(name), Modifiers: mods}
}

// Valid returns an error if the keystroke cannot be encoded unambiguously.
func (k Keystroke) Valid() error {
	if !validKeyName(k.Key) {
		return fmt.Errorf("%w: key %q", ErrInvalidKey, k.Key)
	}
	return nil
}

// Equals returns true if two keystrokes represent the same key press.
func (k Keystroke) Equals(other Keystroke) bool {
	return k.Key == other.Key && k.Modifiers == other.Modifiers
}

// IsEscape returns true if this is the Escape key with no modifiers.
func (k Keystroke) IsEscape() bool {
	return k.Key == KeyEscape && k.Modifiers == ModNone
}

// String returns the canonical encoding of the keystroke.
func (k Keystroke) String() string {
	return encodeKeystroke(k)
}

// GoString implements fmt.GoStringer for debugging.
func (k Keystroke) GoString() string {
	return fmt.Sprintf("Keystroke{Key: %q, Modifiers: %s}", k.Key, k.Modifiers.String())
}

// KeystrokesEqual reports structural equality of two keystrokes.
func KeystrokesEqual(a, b Keystroke) bool {
	return a.Equals(b)
}

func encodeKeystroke(k Keystroke) string {
	var sb strings.Builder
	for _, name := range k.Modifiers.Names() {
		sb.WriteString(name)
		sb.WriteByte('+')
	}
	switch {
	case k.Key == KeySpace:
		sb.WriteString(spaceToken)
	case validKeyName(k.Key):
		sb.WriteString(k.Key)
	default:
		sb.WriteString(escapeKeyName(k.Key))
	}
	return sb.String()
}

// escapeKeyName encodes a key name that fails Valid as '+' followed by a
// quoted literal with no whitespace. No valid key name starts with '+'
// and is longer than one character, so escaped names never collide with
// valid ones or with each other.
func escapeKeyName(name string) string {
	return "+" + strings.ReplaceAll(strconv.QuoteToASCII(name), " ", `\x20`)
}
