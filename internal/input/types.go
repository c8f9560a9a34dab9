package input

import (
	"time"

	"github.com/dshills/keybind/internal/input/key"
)

// CommandSource indicates the origin of a command.
type CommandSource uint8

const (
	// SourceKeyboard indicates the command was resolved from keystrokes.
	SourceKeyboard CommandSource = iota
	// SourcePalette indicates the command was chosen from a palette.
	SourcePalette
	// SourcePlugin indicates the command was issued by a plugin.
	SourcePlugin
	// SourceAPI indicates the command was issued through an API call.
	SourceAPI
)

// String returns a string representation of the command source.
func (s CommandSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourcePalette:
		return "palette"
	case SourcePlugin:
		return "plugin"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Command is a resolved command handed to the executor.
type Command struct {
	// ID is the command id, e.g. "file.save".
	ID string

	// Keystrokes is the keybinding that triggered the command.
	Keystrokes key.Keybinding

	// Source is where the command came from.
	Source CommandSource

	// Time is when the command was resolved.
	Time time.Time
}

// String returns the command id and its keybinding.
func (c Command) String() string {
	if c.Keystrokes.IsEmpty() {
		return c.ID
	}
	return c.ID + " (" + key.Encode(c.Keystrokes) + ")"
}
