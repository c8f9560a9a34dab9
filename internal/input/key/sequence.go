package key

import "strings"

// ChordSeparator joins the keystrokes of a chord in the encoded form.
const ChordSeparator = " then "

// chordWord is ChordSeparator without its surrounding spaces.
const chordWord = "then"

// Keybinding is an ordered sequence of keystrokes.
// Length 1 is a simple binding; length 2 or more is a chord.
// Examples: "Ctrl+s", "Ctrl+k then Ctrl+s"
type Keybinding []Keystroke

// NewKeybinding creates a keybinding from the given keystrokes.
func NewKeybinding(strokes ...Keystroke) Keybinding {
	kb := make(Keybinding, len(strokes))
	copy(kb, strokes)
	return kb
}

// Len returns the number of keystrokes.
func (kb Keybinding) Len() int {
	return len(kb)
}

// IsEmpty returns true if the keybinding has no keystrokes.
func (kb Keybinding) IsEmpty() bool {
	return len(kb) == 0
}

// IsChord returns true if the keybinding has more than one keystroke.
func (kb Keybinding) IsChord() bool {
	return len(kb) > 1
}

// First returns the first keystroke, or false if empty.
func (kb Keybinding) First() (Keystroke, bool) {
	if len(kb) == 0 {
		return Keystroke{}, false
	}
	return kb[0], true
}

// Equals returns true if two keybindings are identical. Order matters.
func (kb Keybinding) Equals(other Keybinding) bool {
	if len(kb) != len(other) {
		return false
	}
	for i, k := range kb {
		if !k.Equals(other[i]) {
			return false
		}
	}
	return true
}

// HasPrefix returns true if this keybinding starts with the given prefix.
func (kb Keybinding) HasPrefix(prefix []Keystroke) bool {
	if len(prefix) > len(kb) {
		return false
	}
	for i, k := range prefix {
		if !k.Equals(kb[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the keybinding.
func (kb Keybinding) Clone() Keybinding {
	if kb == nil {
		return nil
	}
	clone := make(Keybinding, len(kb))
	copy(clone, kb)
	return clone
}

// Head returns a new keybinding with only the first n keystrokes.
func (kb Keybinding) Head(n int) Keybinding {
	if n > len(kb) {
		n = len(kb)
	}
	if n < 0 {
		n = 0
	}
	return kb[:n].Clone()
}

// Valid returns an error if the keybinding is empty or any keystroke cannot
// be encoded unambiguously.
func (kb Keybinding) Valid() error {
	if len(kb) == 0 {
		return ErrEmptyKeybinding
	}
	for _, k := range kb {
		if err := k.Valid(); err != nil {
			return err
		}
	}
	return nil
}

// String returns the canonical encoding.
func (kb Keybinding) String() string {
	return Encode(kb)
}

// KeybindingsEqual reports structural equality of two keybindings.
func KeybindingsEqual(a, b Keybinding) bool {
	return a.Equals(b)
}

// Encode returns the canonical string form of a keybinding: modifiers in
// Ctrl, Alt, Shift, Meta order joined with "+", chord keystrokes joined
// with " then ". The space key is written as "Space".
func Encode(kb Keybinding) string {
	parts := make([]string, len(kb))
	for i, k := range kb {
		parts[i] = encodeKeystroke(k)
	}
	return strings.Join(parts, ChordSeparator)
}
