package key

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Canonical names for non-character keys. Character keys use the character
// itself as the key name ("s", "S", "1", "/", " ").
const (
	KeyEscape      = "Escape"
	KeyEnter       = "Enter"
	KeyTab         = "Tab"
	KeyBackspace   = "Backspace"
	KeyDelete      = "Delete"
	KeyInsert      = "Insert"
	KeyHome        = "Home"
	KeyEnd         = "End"
	KeyPageUp      = "PageUp"
	KeyPageDown    = "PageDown"
	KeyArrowUp     = "ArrowUp"
	KeyArrowDown   = "ArrowDown"
	KeyArrowLeft   = "ArrowLeft"
	KeyArrowRight  = "ArrowRight"
	KeySpace       = " "
	KeyPause       = "Pause"
	KeyPrintScreen = "PrintScreen"
	KeyScrollLock  = "ScrollLock"
	KeyNumLock     = "NumLock"
	KeyCapsLock    = "CapsLock"
	KeyContextMenu = "ContextMenu"
)

// spaceToken is how the space key is spelled in encoded keybindings.
const spaceToken = "Space"

// keyNameMap maps key names (lowercase) to canonical key names.
var keyNameMap = map[string]string{
	"escape":      KeyEscape,
	"esc":         KeyEscape,
	"enter":       KeyEnter,
	"return":      KeyEnter,
	"cr":          KeyEnter,
	"tab":         KeyTab,
	"backspace":   KeyBackspace,
	"bs":          KeyBackspace,
	"delete":      KeyDelete,
	"del":         KeyDelete,
	"insert":      KeyInsert,
	"ins":         KeyInsert,
	"home":        KeyHome,
	"end":         KeyEnd,
	"pageup":      KeyPageUp,
	"pgup":        KeyPageUp,
	"pagedown":    KeyPageDown,
	"pgdn":        KeyPageDown,
	"arrowup":     KeyArrowUp,
	"up":          KeyArrowUp,
	"arrowdown":   KeyArrowDown,
	"down":        KeyArrowDown,
	"arrowleft":   KeyArrowLeft,
	"left":        KeyArrowLeft,
	"arrowright":  KeyArrowRight,
	"right":       KeyArrowRight,
	"space":       KeySpace,
	"spacebar":    KeySpace,
	"pause":       KeyPause,
	"printscreen": KeyPrintScreen,
	"scrolllock":  KeyScrollLock,
	"numlock":     KeyNumLock,
	"capslock":    KeyCapsLock,
	"contextmenu": KeyContextMenu,
	"apps":        KeyContextMenu,
	"f1":          "F1",
	"f2":          "F2",
	"f3":          "F3",
	"f4":          "F4",
	"f5":          "F5",
	"f6":          "F6",
	"f7":          "F7",
	"f8":          "F8",
	"f9":          "F9",
	"f10":         "F10",
	"f11":         "F11",
	"f12":         "F12",
}

// NormalizeKeyName folds known aliases of a key name to its canonical form.
// Single characters are returned unchanged (key names are case-sensitive);
// unknown names pass through untouched.
func NormalizeKeyName(name string) string {
	if utf8.RuneCountInString(name) <= 1 {
		return name
	}
	if canonical, ok := keyNameMap[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// IsSpecialKey returns true if name is a canonical non-character key.
func IsSpecialKey(name string) bool {
	return utf8.RuneCountInString(name) > 1
}

// IsFunctionKey returns true if name is one of F1-F12.
func IsFunctionKey(name string) bool {
	if len(name) < 2 || name[0] != 'F' {
		return false
	}
	switch name[1:] {
	case "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12":
		return true
	}
	return false
}

// IsArrowKey returns true if name is an arrow key.
func IsArrowKey(name string) bool {
	switch name {
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight:
		return true
	}
	return false
}

// validKeyName reports whether a key name can be encoded without ambiguity:
// any single character, or a canonical multi-character name free of '+'
// and whitespace.
func validKeyName(name string) bool {
	switch utf8.RuneCountInString(name) {
	case 0:
		return false
	case 1:
		r, _ := utf8.DecodeRuneInString(name)
		return r == ' ' || !unicode.IsSpace(r)
	}
	if NormalizeKeyName(name) != name {
		return false
	}
	for _, r := range name {
		if r == '+' || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
