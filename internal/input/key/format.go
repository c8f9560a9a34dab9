package key

import (
	"strings"
	"unicode/utf8"
)

// displayGlyphs maps control keys to their display labels.
var displayGlyphs = map[string]string{
	KeyArrowUp:    "↑",
	KeyArrowDown:  "↓",
	KeyArrowLeft:  "←",
	KeyArrowRight: "→",
	KeyEscape:     "Esc",
	KeyEnter:      "↵",
	KeyTab:        "⇥",
	KeyBackspace:  "⌫",
	KeyDelete:     "Del",
	KeySpace:      "Space",
}

// FormatKeystrokeDisplay returns a label for showing a keystroke to a user,
// e.g. "Ctrl+S", "Ctrl+↵", "Space". It is presentation only and plays no
// part in equality or encoding.
func FormatKeystrokeDisplay(k Keystroke) string {
	label, ok := displayGlyphs[k.Key]
	if !ok {
		if utf8.RuneCountInString(k.Key) == 1 {
			label = strings.ToUpper(k.Key)
		} else {
			label = k.Key
		}
	}

	mods := k.Modifiers.String()
	if mods == "" {
		return label
	}
	return mods + "+" + label
}

// FormatKeybindingDisplay formats every keystroke of a keybinding for
// display, joining chord keystrokes with " then ".
func FormatKeybindingDisplay(kb Keybinding) string {
	parts := make([]string, len(kb))
	for i, k := range kb {
		parts[i] = FormatKeystrokeDisplay(k)
	}
	return strings.Join(parts, ChordSeparator)
}
