package keymap

import (
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/when"
)

// Resolve returns the command bound to exactly the pending keystrokes
// whose effective when-clause holds in ctx. If several match, the first
// in table order wins. It returns false if nothing matches.
func Resolve(pending []key.Keystroke, table *Table, ctx when.Context) (string, bool) {
	return table.Resolve(pending, ctx)
}

// Resolve is the method form of Resolve.
func (t *Table) Resolve(pending []key.Keystroke, ctx when.Context) (string, bool) {
	if t == nil || len(pending) == 0 {
		return "", false
	}
	for _, i := range t.tree.Lookup(pending) {
		b := t.bindings[i]
		if t.Active(b, ctx) {
			return b.CommandID, true
		}
	}
	return "", false
}

// Matches returns every binding bound to exactly the pending keystrokes
// whose when-clause holds in ctx, in table order. More than one result
// means an unresolved conflict reached runtime.
func (t *Table) Matches(pending []key.Keystroke, ctx when.Context) []CommandBinding {
	if t == nil || len(pending) == 0 {
		return nil
	}
	var result []CommandBinding
	for _, i := range t.tree.Lookup(pending) {
		if b := t.bindings[i]; t.Active(b, ctx) {
			result = append(result, b.Clone())
		}
	}
	return result
}

// HasContinuation reports whether some binding active in ctx has a
// keybinding strictly longer than pending that starts with it.
func (t *Table) HasContinuation(pending []key.Keystroke, ctx when.Context) bool {
	if t == nil || len(pending) == 0 {
		return false
	}
	for _, i := range t.tree.Continuations(pending) {
		if t.Active(t.bindings[i], ctx) {
			return true
		}
	}
	return false
}

// HasPrefix reports whether any binding starts with pending, regardless
// of when-clauses.
func (t *Table) HasPrefix(pending []key.Keystroke) bool {
	if t == nil || len(pending) == 0 {
		return false
	}
	return t.tree.HasPrefix(pending)
}
