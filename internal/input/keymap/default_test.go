package keymap

import (
	"testing"

	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/when"
)

func TestDefaultKeymapValid(t *testing.T) {
	if err := DefaultKeymap().Validate(); err != nil {
		t.Fatalf("DefaultKeymap().Validate() = %v", err)
	}

	table, errs := BuildTable(DefaultBindings(), nil)
	if len(errs) != 0 {
		t.Fatalf("BuildTable(defaults) errors = %v", errs)
	}
	if diags := table.Diagnostics(); len(diags) != 0 {
		t.Errorf("default diagnostics = %v", diags)
	}
}

func TestDefaultConflicts(t *testing.T) {
	table, _ := BuildTable(DefaultBindings(), nil)

	got := make(map[string][]string)
	for _, c := range DetectConflicts(table) {
		got[c.Keybinding] = c.CommandIDs()
	}
	want := map[string][]string{
		"Ctrl+c": {"edit.copy", "terminal.copySelection"},
		"F5":     {"debug.start", "debug.continue"},
	}
	if len(got) != len(want) {
		t.Errorf("conflicts = %v, want %v", got, want)
	}
	for kb, ids := range want {
		if len(got[kb]) != len(ids) {
			t.Errorf("conflict %s = %v, want %v", kb, got[kb], ids)
		}
	}

	prefix := DetectPrefixConflicts(table)
	if len(prefix) != 1 || prefix[0].Keybinding != "Ctrl+k" {
		t.Errorf("prefix conflicts = %+v, want one for Ctrl+k", prefix)
	}
}

func TestDefaultResolution(t *testing.T) {
	table, _ := BuildTable(DefaultBindings(), nil)

	tests := []struct {
		keys string
		ctx  when.Snapshot
		want string
	}{
		{"Ctrl+s", nil, "file.save"},
		{"Ctrl+Shift+S", nil, "file.saveAs"},
		{"F5", nil, "debug.start"},
		{"F5", when.Snapshot{"inDebugMode": when.Bool(true)}, "debug.continue"},
		{"Ctrl+c", when.Snapshot{"terminalFocus": when.Bool(true), "terminalTextSelected": when.Bool(true)}, "edit.copy"},
		{"Ctrl+k", when.Snapshot{"terminalFocus": when.Bool(true)}, "terminal.clear"},
		{"Ctrl+k then Ctrl+s", nil, "view.keyboardShortcuts"},
		{"Ctrl+Space", when.Snapshot{"editorTextFocus": when.Bool(true)}, "suggest.trigger"},
		{"Ctrl+z", when.Snapshot{"editorTextFocus": when.Bool(true), "editorReadonly": when.Bool(true)}, ""},
	}
	for _, tt := range tests {
		got, _ := table.Resolve(key.MustDecode(tt.keys), tt.ctx)
		if got != tt.want {
			t.Errorf("Resolve(%s, %v) = %q, want %q", tt.keys, tt.ctx, got, tt.want)
		}
	}

	if table.HasContinuation(key.MustDecode("Ctrl+k"), when.Snapshot{"terminalFocus": when.Bool(true)}) {
		t.Error("Ctrl+k chords should be inactive in the terminal")
	}
}
