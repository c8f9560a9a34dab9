package keymap

import (
	"github.com/dshills/keybind/internal/input/key"
)

// ConflictType classifies a conflict.
type ConflictType string

const (
	// ConflictExact means several commands share one keybinding.
	ConflictExact ConflictType = "exact"

	// ConflictPrefix means a keybinding is the start of longer chords,
	// so it only fires when none of the chords is active.
	ConflictPrefix ConflictType = "prefix"
)

// ConflictingCommand is one member of a conflict.
type ConflictingCommand struct {
	Command string
	When    string
	Source  Source
}

// Conflict is a group of commands competing for a keybinding.
type Conflict struct {
	// Keybinding is the canonical encoding of the contested keybinding.
	Keybinding string

	// Commands lists the members in table order.
	Commands []ConflictingCommand

	Type ConflictType
}

// CommandIDs returns the ids of the conflicting commands.
func (c Conflict) CommandIDs() []string {
	ids := make([]string, len(c.Commands))
	for i, m := range c.Commands {
		ids[i] = m.Command
	}
	return ids
}

func member(b CommandBinding) ConflictingCommand {
	return ConflictingCommand{
		Command: b.CommandID,
		When:    b.EffectiveWhen(),
		Source:  b.Source(),
	}
}

// DetectConflicts groups the bindings by encoded effective keybinding and
// returns every group with two or more members. When-clauses are not
// examined: disjoint clauses are still reported. Conflicts are ordered by
// the table position of their first member.
func DetectConflicts(t *Table) []Conflict {
	if t == nil {
		return nil
	}

	groups := make(map[string][]int)
	order := make([]string, 0)
	for i, b := range t.bindings {
		kb := b.EffectiveKeybinding()
		if kb.IsEmpty() {
			continue
		}
		enc := key.Encode(kb)
		if _, seen := groups[enc]; !seen {
			order = append(order, enc)
		}
		groups[enc] = append(groups[enc], i)
	}

	conflicts := make([]Conflict, 0)
	for _, enc := range order {
		idx := groups[enc]
		if len(idx) < 2 {
			continue
		}
		c := Conflict{Keybinding: enc, Type: ConflictExact}
		for _, i := range idx {
			c.Commands = append(c.Commands, member(t.bindings[i]))
		}
		conflicts = append(conflicts, c)
	}
	return conflicts
}

// BuildConflictsMap returns, for every command in an exact conflict, the
// other commands sharing its keybinding.
func BuildConflictsMap(t *Table) map[string][]string {
	result := make(map[string][]string)
	for _, c := range DetectConflicts(t) {
		for _, m := range c.Commands {
			for _, other := range c.Commands {
				if other.Command != m.Command {
					result[m.Command] = append(result[m.Command], other.Command)
				}
			}
		}
	}
	return result
}

// DetectPrefixConflicts reports keybindings that are also the start of
// longer chords. The first member is the shorter binding; the rest are
// the chords it prefixes. While such a chord is active the shorter
// binding cannot fire.
func DetectPrefixConflicts(t *Table) []Conflict {
	if t == nil {
		return nil
	}

	conflicts := make([]Conflict, 0)
	for _, b := range t.bindings {
		kb := b.EffectiveKeybinding()
		if kb.IsEmpty() {
			continue
		}
		longer := t.tree.Continuations(kb)
		if len(longer) == 0 {
			continue
		}
		c := Conflict{
			Keybinding: key.Encode(kb),
			Commands:   []ConflictingCommand{member(b)},
			Type:       ConflictPrefix,
		}
		for _, i := range longer {
			c.Commands = append(c.Commands, member(t.bindings[i]))
		}
		conflicts = append(conflicts, c)
	}
	return conflicts
}
