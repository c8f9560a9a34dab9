package keymap

import (
	"errors"
	"fmt"

	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/when"
)

// BindingSpec is the declarative form of a default binding, as written in
// keymap files and plugin scripts.
type BindingSpec struct {
	// Command is the command id.
	Command string `json:"command" toml:"command" yaml:"command"`

	// Keys is the encoded keybinding. Empty means no keyboard trigger.
	// Examples: "Ctrl+s", "Ctrl+k then Ctrl+s"
	Keys string `json:"key,omitempty" toml:"key,omitempty" yaml:"key,omitempty"`

	// When is the when-clause.
	// Examples: "editorTextFocus", "!editorReadonly", "resourceLangId == go"
	When string `json:"when,omitempty" toml:"when,omitempty" yaml:"when,omitempty"`

	Label    string `json:"label,omitempty" toml:"label,omitempty" yaml:"label,omitempty"`
	Category string `json:"category,omitempty" toml:"category,omitempty" yaml:"category,omitempty"`
}

// CommandBinding decodes the binding into its runtime form.
func (s BindingSpec) CommandBinding() (CommandBinding, error) {
	if s.Command == "" {
		return CommandBinding{}, ErrEmptyCommandID
	}
	b := CommandBinding{
		CommandID: s.Command,
		Label:     s.Label,
		Category:  s.Category,
		When:      s.When,
	}
	if s.Keys != "" {
		kb, err := key.Decode(s.Keys)
		if err != nil {
			return CommandBinding{}, fmt.Errorf("%w: %w", ErrInvalidKeybinding, err)
		}
		b.DefaultKeybinding = kb
	}
	return b, nil
}

// Keymap is a named collection of default bindings from one source.
type Keymap struct {
	// Name is the keymap identifier.
	Name string `json:"name" toml:"name" yaml:"name"`

	// Source indicates where this keymap was defined.
	// Examples: "builtin", "file:/etc/keybind/defaults.toml", "plugin:git"
	Source string `json:"source,omitempty" toml:"source,omitempty" yaml:"source,omitempty"`

	// Bindings are the binding specs in declaration order.
	Bindings []BindingSpec `json:"bindings" toml:"bindings" yaml:"bindings"`
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]BindingSpec, 0),
	}
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a binding to this keymap.
func (k *Keymap) Add(keys, command string) *Keymap {
	k.Bindings = append(k.Bindings, BindingSpec{Keys: keys, Command: command})
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(spec BindingSpec) *Keymap {
	k.Bindings = append(k.Bindings, spec)
	return k
}

// Validate checks that every binding decodes and every when-clause parses.
// All problems are reported, joined.
func (k *Keymap) Validate() error {
	var errs []error
	for i, s := range k.Bindings {
		if _, err := s.CommandBinding(); err != nil {
			errs = append(errs, fmt.Errorf("binding %d (%s): %w", i, s.Command, err))
			continue
		}
		if s.When != "" {
			if _, err := when.Parse(s.When); err != nil {
				errs = append(errs, fmt.Errorf("binding %d (%s): %w", i, s.Command, err))
			}
		}
	}
	return errors.Join(errs...)
}

// CommandBindings decodes the keymap. Specs that fail to decode are
// skipped and reported.
func (k *Keymap) CommandBindings() ([]CommandBinding, []error) {
	result := make([]CommandBinding, 0, len(k.Bindings))
	var errs []error
	for i, s := range k.Bindings {
		b, err := s.CommandBinding()
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap %q binding %d (%s): %w", k.Name, i, s.Command, err))
			continue
		}
		result = append(result, b)
	}
	return result, errs
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	clone := &Keymap{
		Name:     k.Name,
		Source:   k.Source,
		Bindings: make([]BindingSpec, len(k.Bindings)),
	}
	copy(clone.Bindings, k.Bindings)
	return clone
}

// Merge decodes keymaps in order into one default list. A command declared
// by an earlier keymap keeps its position; a later declaration replaces
// its fields in place.
func Merge(keymaps ...*Keymap) ([]CommandBinding, []error) {
	var (
		result []CommandBinding
		errs   []error
	)
	index := make(map[string]int)
	for _, km := range keymaps {
		if km == nil {
			continue
		}
		bindings, kerrs := km.CommandBindings()
		errs = append(errs, kerrs...)
		for _, b := range bindings {
			if i, ok := index[b.CommandID]; ok {
				result[i] = b
				continue
			}
			index[b.CommandID] = len(result)
			result = append(result, b)
		}
	}
	return result, errs
}

// Specs converts command bindings back to their declarative form.
func Specs(bindings []CommandBinding) []BindingSpec {
	result := make([]BindingSpec, len(bindings))
	for i, b := range bindings {
		result[i] = BindingSpec{
			Command:  b.CommandID,
			When:     b.When,
			Label:    b.Label,
			Category: b.Category,
		}
		if !b.DefaultKeybinding.IsEmpty() {
			result[i].Keys = key.Encode(b.DefaultKeybinding)
		}
	}
	return result
}
