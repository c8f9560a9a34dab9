// Package keymap builds the authoritative binding table and resolves
// keystrokes against it.
//
// # Key Concepts
//
// CommandBinding: The binding record for one command: a default
// keybinding and when-clause plus optional user overrides.
//
// Override: A user customization. The keybinding part is three-state:
// Inherit keeps the default, Set replaces it, Removed clears it.
//
// Table: The immutable result of BuildTable. Table order follows the
// defaults and breaks ties during resolution.
//
// Registry: Holds the defaults and the current Table, swapping in a new
// table atomically on every rebuild.
//
// # Resolution
//
// A pending keystroke sequence resolves to the first binding in table order
// whose effective keybinding equals the sequence and whose effective
// when-clause holds in the context. A clause that does not parse never
// holds.
//
// # Conflicts
//
// DetectConflicts groups bindings by encoded keybinding and reports every
// group of two or more, without trying to prove when-clauses disjoint.
// DetectPrefixConflicts reports keybindings that start longer chords.
//
// # Usage
//
//	table, errs := keymap.BuildTable(keymap.DefaultBindings(), overrides)
//	for _, err := range errs {
//	    // report rejected entry
//	}
//
//	id, ok := table.Resolve(key.MustDecode("Ctrl+s"), ctx)
//	if ok {
//	    // execute id
//	}
package keymap
