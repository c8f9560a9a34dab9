package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec       = errors.New("empty key specification")
	ErrInvalidSpec     = errors.New("invalid key specification")
	ErrInvalidKey      = errors.New("invalid key name")
	ErrEmptyKeybinding = errors.New("empty keybinding")
)

// ParseError describes a keybinding string that could not be decoded.
type ParseError struct {
	// Input is the full string being decoded.
	Input string

	// Index is the position of the offending keystroke within the chord.
	Index int

	// Err is the underlying error.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decoding keybinding %q (keystroke %d): %v", e.Input, e.Index+1, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode parses an encoded keybinding.
//
// Supported formats:
//   - Canonical: "Ctrl+Shift+S", "Ctrl+k then Ctrl+s"
//   - Whitespace-separated chords: "Ctrl+k Ctrl+s"
//   - Modifier aliases in any order: "Cmd+Option+p", "shift+ctrl+Tab"
//   - Key aliases: "Ctrl+Esc", "Alt+Up", "Space"
func Decode(s string) (Keybinding, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, &ParseError{Input: s, Err: ErrEmptySpec}
	}

	var parts []string
	if strings.Contains(trimmed, ChordSeparator) {
		parts = strings.Split(trimmed, ChordSeparator)
	} else {
		parts = strings.Fields(trimmed)
		if len(parts) > 1 {
			for i, part := range parts {
				if part == chordWord {
					return nil, &ParseError{Input: s, Index: i, Err: fmt.Errorf("%w: dangling chord separator", ErrInvalidSpec)}
				}
			}
		}
	}

	kb := make(Keybinding, 0, len(parts))
	for i, part := range parts {
		ks, err := ParseKeystroke(part)
		if err != nil {
			return nil, &ParseError{Input: s, Index: i, Err: err}
		}
		kb = append(kb, ks)
	}
	return kb, nil
}

// MustDecode decodes a keybinding and panics on error.
// Use only for known-valid specs in initialization code.
func MustDecode(s string) Keybinding {
	kb, err := Decode(s)
	if err != nil {
		panic("invalid keybinding: " + s + ": " + err.Error())
	}
	return kb
}

// ParseKeystroke parses a single keystroke such as "Ctrl+Alt+Delete",
// "Shift++" or "Space".
func ParseKeystroke(spec string) (Keystroke, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Keystroke{}, ErrEmptySpec
	}

	var modPart, keyPart string
	switch {
	case spec == "+":
		keyPart = "+"
	case strings.HasSuffix(spec, "++"):
		modPart = spec[:len(spec)-2]
		keyPart = "+"
	default:
		idx := strings.LastIndexByte(spec, '+')
		switch {
		case idx < 0:
			keyPart = spec
		case idx == 0:
			return Keystroke{}, fmt.Errorf("%w: missing modifier in %q", ErrInvalidSpec, spec)
		default:
			modPart = spec[:idx]
			keyPart = spec[idx+1:]
		}
	}

	if keyPart == "" {
		return Keystroke{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}

	var mods Modifier
	if modPart != "" {
		for _, p := range strings.Split(modPart, "+") {
			mod := ModifierFromName(p)
			if mod == ModNone {
				return Keystroke{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
			}
			mods = mods.With(mod)
		}
	}

	ks := Keystroke{Key: NormalizeKeyName(keyPart), Modifiers: mods}
	if err := ks.Valid(); err != nil {
		return Keystroke{}, err
	}
	return ks, nil
}

// NormalizeSpec decodes and re-encodes a keybinding to its canonical form.
func NormalizeSpec(spec string) (string, error) {
	kb, err := Decode(spec)
	if err != nil {
		return "", err
	}
	return Encode(kb), nil
}
