// Package store persists user keybinding overrides.
//
// A Store loads and saves the overrides map consumed by
// keymap.Registry.Rebuild. File stores are available for TOML, JSON and
// YAML; BoltStore keeps overrides in an embedded bbolt database.
//
// Each override is persisted as a Record:
//
//	command = "file.save"     # command id
//	key     = "Ctrl+Alt+s"    # absent: inherit, "": removed
//	when    = "editorFocus"   # absent: inherit the default clause
//
// A command id prefixed with "-" also marks a removal, matching the
// keybindings.json convention.
//
// Stores never fail on bad content. A corrupt file loads as no overrides
// and a warning is logged; a malformed record is skipped on its own.
// I/O failures are returned.
package store
