package keymap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/when"
)

// Table build errors.
var (
	ErrEmptyCommandID     = errors.New("empty command id")
	ErrDuplicateCommand   = errors.New("duplicate command id")
	ErrUnknownCommand     = errors.New("unknown command id")
	ErrInvalidKeybinding  = errors.New("invalid keybinding")
	ErrInvalidWhenClause  = errors.New("invalid when clause")
	ErrConflictingChanges = errors.New("conflicting override")
)

// TableError describes a default or override rejected while building a
// table. Rejections are never fatal to the table as a whole.
type TableError struct {
	// CommandID is the command the entry refers to.
	CommandID string

	// Source is SourceDefault for a rejected default, SourceUser for a
	// rejected override.
	Source Source

	// Err is the underlying error.
	Err error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("%s binding %q: %v", e.Source, e.CommandID, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// Diagnostic reports a when-clause in the table that does not parse.
// Such bindings never match.
type Diagnostic struct {
	CommandID string
	When      string
	Err       error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: when %q: %v", d.CommandID, d.When, d.Err)
}

// Table is the immutable, ordered set of command bindings used for
// resolution. Order follows the defaults passed to BuildTable.
// A Table is safe for concurrent use.
type Table struct {
	bindings []CommandBinding
	index    map[string]int
	tree     *PrefixTree
	clauses  *when.Cache
	diags    []Diagnostic
}

// BuildTable merges defaults with user overrides.
//
// Defaults define the universe of commands: overrides for unknown command
// ids are rejected, as are defaults with an empty or duplicate id (the
// first occurrence wins) and entries with an invalid keybinding. Every
// rejection is returned as a *TableError; the table is built from what
// remains.
func BuildTable(defaults []CommandBinding, overrides map[string]Override) (*Table, []error) {
	var errs []error

	t := &Table{
		bindings: make([]CommandBinding, 0, len(defaults)),
		index:    make(map[string]int, len(defaults)),
		tree:     NewPrefixTree(),
		clauses:  when.NewCache(len(defaults) + 1),
	}

	for _, def := range defaults {
		if def.CommandID == "" {
			errs = append(errs, &TableError{Source: SourceDefault, Err: ErrEmptyCommandID})
			continue
		}
		if _, dup := t.index[def.CommandID]; dup {
			errs = append(errs, &TableError{CommandID: def.CommandID, Source: SourceDefault, Err: ErrDuplicateCommand})
			continue
		}
		if !def.DefaultKeybinding.IsEmpty() {
			if err := def.DefaultKeybinding.Valid(); err != nil {
				errs = append(errs, &TableError{
					CommandID: def.CommandID,
					Source:    SourceDefault,
					Err:       fmt.Errorf("%w: %w", ErrInvalidKeybinding, err),
				})
				continue
			}
		}

		b := def.Clone()
		b.CustomKeybinding = KeybindingOverride{}
		b.CustomWhen = nil

		if o, ok := overrides[b.CommandID]; ok && !o.IsEmpty() {
			if err := validateOverride(o); err != nil {
				errs = append(errs, &TableError{CommandID: b.CommandID, Source: SourceUser, Err: err})
			} else {
				b = b.Apply(o)
			}
		}

		t.index[b.CommandID] = len(t.bindings)
		t.bindings = append(t.bindings, b)
	}

	unknown := make([]string, 0)
	for id := range overrides {
		if _, ok := t.index[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		errs = append(errs, &TableError{CommandID: id, Source: SourceUser, Err: ErrUnknownCommand})
	}

	for i, b := range t.bindings {
		if kb := b.EffectiveKeybinding(); !kb.IsEmpty() {
			t.tree.Insert(kb, i)
		}
		if clause := b.EffectiveWhen(); clause != "" {
			if err := t.clauses.Err(clause); err != nil {
				t.diags = append(t.diags, Diagnostic{CommandID: b.CommandID, When: clause, Err: err})
			}
		}
	}

	return t, errs
}

func validateOverride(o Override) error {
	switch o.Keybinding.State {
	case Set:
		if err := o.Keybinding.Keybinding.Valid(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidKeybinding, err)
		}
	case Inherit, Removed:
		if len(o.Keybinding.Keybinding) > 0 {
			return fmt.Errorf("%w: keybinding given with state %s", ErrConflictingChanges, o.Keybinding.State)
		}
	default:
		return fmt.Errorf("%w: state %d", ErrConflictingChanges, o.Keybinding.State)
	}
	return nil
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bindings)
}

// Bindings returns a copy of the bindings in table order.
func (t *Table) Bindings() []CommandBinding {
	if t == nil {
		return nil
	}
	result := make([]CommandBinding, len(t.bindings))
	for i, b := range t.bindings {
		result[i] = b.Clone()
	}
	return result
}

// Binding returns the binding for a command id.
func (t *Table) Binding(id string) (CommandBinding, bool) {
	if t == nil {
		return CommandBinding{}, false
	}
	i, ok := t.index[id]
	if !ok {
		return CommandBinding{}, false
	}
	return t.bindings[i].Clone(), true
}

// Contains returns true if the table has a binding for id.
func (t *Table) Contains(id string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[id]
	return ok
}

// Overrides returns the overrides applied to the table, keyed by command id.
func (t *Table) Overrides() map[string]Override {
	result := make(map[string]Override)
	if t == nil {
		return result
	}
	for _, b := range t.bindings {
		if !b.IsCustomized() {
			continue
		}
		o := Override{Keybinding: b.CustomKeybinding}
		o.Keybinding.Keybinding = o.Keybinding.Keybinding.Clone()
		if b.CustomWhen != nil {
			o = o.WithWhen(*b.CustomWhen)
		}
		result[b.CommandID] = o
	}
	return result
}

// Diagnostics returns the when-clauses in the table that fail to parse.
func (t *Table) Diagnostics() []Diagnostic {
	if t == nil {
		return nil
	}
	result := make([]Diagnostic, len(t.diags))
	copy(result, t.diags)
	return result
}

// Active reports whether a binding's effective when-clause holds in ctx.
// A clause that does not parse is never active.
func (t *Table) Active(b CommandBinding, ctx when.Context) bool {
	clause := b.EffectiveWhen()
	if clause == "" {
		return true
	}
	if t == nil {
		return when.EvaluateString(clause, ctx)
	}
	return t.clauses.Evaluate(clause, ctx)
}

// WithKeybinding returns the bindings whose effective keybinding is kb,
// in table order.
func (t *Table) WithKeybinding(kb key.Keybinding) []CommandBinding {
	if t == nil {
		return nil
	}
	idx := t.tree.Lookup(kb)
	result := make([]CommandBinding, 0, len(idx))
	for _, i := range idx {
		result = append(result, t.bindings[i].Clone())
	}
	return result
}
