package keymap

import (
	"github.com/dshills/keybind/internal/input/key"
)

// Source records where a binding's effective keybinding came from.
type Source string

const (
	// SourceDefault marks a built-in keybinding.
	SourceDefault Source = "default"

	// SourceUser marks a user-customized keybinding.
	SourceUser Source = "user"
)

// OverrideState is the state of a keybinding override.
type OverrideState uint8

const (
	// Inherit means no override: the default keybinding applies.
	Inherit OverrideState = iota

	// Set replaces the default keybinding.
	Set

	// Removed explicitly clears the keybinding; the command has no
	// keyboard trigger even if it has a default.
	Removed
)

// String returns the state name.
func (s OverrideState) String() string {
	switch s {
	case Inherit:
		return "inherit"
	case Set:
		return "set"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// KeybindingOverride is a three-state keybinding override.
// The zero value inherits the default.
type KeybindingOverride struct {
	State      OverrideState
	Keybinding key.Keybinding
}

// InheritKeybinding returns an override that keeps the default.
func InheritKeybinding() KeybindingOverride {
	return KeybindingOverride{}
}

// SetKeybinding returns an override replacing the default with kb.
// An empty kb is treated as a removal.
func SetKeybinding(kb key.Keybinding) KeybindingOverride {
	if kb.IsEmpty() {
		return RemoveKeybinding()
	}
	return KeybindingOverride{State: Set, Keybinding: kb.Clone()}
}

// RemoveKeybinding returns an override clearing the keybinding.
func RemoveKeybinding() KeybindingOverride {
	return KeybindingOverride{State: Removed}
}

// IsSet returns true unless the override inherits.
func (o KeybindingOverride) IsSet() bool {
	return o.State != Inherit
}

// Override is a user customization of one command.
type Override struct {
	// Keybinding overrides the default keybinding.
	Keybinding KeybindingOverride

	// When overrides the default when-clause if non-nil. A pointer to the
	// empty string makes the command always active.
	When *string
}

// WithWhen returns a copy of the override with the when-clause set.
func (o Override) WithWhen(clause string) Override {
	o.When = &clause
	return o
}

// IsEmpty returns true if the override changes nothing.
func (o Override) IsEmpty() bool {
	return !o.Keybinding.IsSet() && o.When == nil
}

// CommandBinding is the binding record for one command.
type CommandBinding struct {
	// CommandID uniquely identifies the command.
	// Examples: "file.save", "editor.action.commentLine"
	CommandID string

	// Label and Category are display only.
	Label    string
	Category string

	// DefaultKeybinding is the built-in keybinding, nil if none.
	DefaultKeybinding key.Keybinding

	// CustomKeybinding is the user override of the keybinding.
	CustomKeybinding KeybindingOverride

	// When is the default when-clause. Empty means always active.
	When string

	// CustomWhen overrides When if non-nil.
	CustomWhen *string
}

// NewCommandBinding creates a binding from an encoded keybinding.
// It panics on an invalid keybinding; use only for known-valid defaults.
func NewCommandBinding(id, keys string) CommandBinding {
	b := CommandBinding{CommandID: id}
	if keys != "" {
		b.DefaultKeybinding = key.MustDecode(keys)
	}
	return b
}

// WithWhen sets the default when-clause.
func (b CommandBinding) WithWhen(when string) CommandBinding {
	b.When = when
	return b
}

// WithLabel sets the display label.
func (b CommandBinding) WithLabel(label string) CommandBinding {
	b.Label = label
	return b
}

// WithCategory sets the display category.
func (b CommandBinding) WithCategory(category string) CommandBinding {
	b.Category = category
	return b
}

// EffectiveKeybinding returns the custom keybinding if set, the default
// otherwise. It returns nil if the command has no keyboard trigger.
func (b CommandBinding) EffectiveKeybinding() key.Keybinding {
	switch b.CustomKeybinding.State {
	case Set:
		return b.CustomKeybinding.Keybinding
	case Removed:
		return nil
	default:
		return b.DefaultKeybinding
	}
}

// HasKeybinding returns true if the command has an effective keybinding.
func (b CommandBinding) HasKeybinding() bool {
	return !b.EffectiveKeybinding().IsEmpty()
}

// EffectiveWhen returns the custom when-clause if set, the default
// otherwise. Empty means always active.
func (b CommandBinding) EffectiveWhen() string {
	if b.CustomWhen != nil {
		return *b.CustomWhen
	}
	return b.When
}

// Source returns SourceUser if a custom keybinding is set.
func (b CommandBinding) Source() Source {
	if b.CustomKeybinding.State == Set {
		return SourceUser
	}
	return SourceDefault
}

// IsCustomized returns true if any override is applied.
func (b CommandBinding) IsCustomized() bool {
	return b.CustomKeybinding.IsSet() || b.CustomWhen != nil
}

// Apply returns a copy of the binding with the override applied.
func (b CommandBinding) Apply(o Override) CommandBinding {
	b.CustomKeybinding = o.Keybinding
	if o.Keybinding.State == Set {
		b.CustomKeybinding.Keybinding = o.Keybinding.Keybinding.Clone()
	}
	if o.When != nil {
		w := *o.When
		b.CustomWhen = &w
	} else {
		b.CustomWhen = nil
	}
	return b
}

// Clone returns a deep copy of the binding.
func (b CommandBinding) Clone() CommandBinding {
	b.DefaultKeybinding = b.DefaultKeybinding.Clone()
	b.CustomKeybinding.Keybinding = b.CustomKeybinding.Keybinding.Clone()
	if b.CustomWhen != nil {
		w := *b.CustomWhen
		b.CustomWhen = &w
	}
	return b
}

// BindingCategory represents a category of bindings for display.
type BindingCategory struct {
	Name     string
	Bindings []CommandBinding
}

// GroupByCategory groups bindings by their category, preserving order.
func GroupByCategory(bindings []CommandBinding) []BindingCategory {
	categoryMap := make(map[string][]CommandBinding)
	order := make([]string, 0)

	for _, b := range bindings {
		cat := b.Category
		if cat == "" {
			cat = "Other"
		}
		if _, exists := categoryMap[cat]; !exists {
			order = append(order, cat)
		}
		categoryMap[cat] = append(categoryMap[cat], b)
	}

	result := make([]BindingCategory, 0, len(order))
	for _, name := range order {
		result = append(result, BindingCategory{
			Name:     name,
			Bindings: categoryMap[name],
		})
	}
	return result
}
