package lua

import (
	"strings"
	"testing"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/keybind/internal/input/keymap"
)

func newModuleState(t *testing.T) (*State, *Module) {
	t.Helper()
	s := NewState()
	t.Cleanup(s.Close)
	m := NewModule(nil)
	m.Install(s)
	return s, m
}

func TestModuleBind(t *testing.T) {
	s, m := newModuleState(t)

	err := s.DoString(`
		keybind.name("git")
		keybind.bind{ command = "git.commit", key = "Ctrl+k then Ctrl+g", when = "editorTextFocus", label = "Commit", category = "Git" }
		keybind.bind{ command = "git.status" }
	`)
	if err != nil {
		t.Fatalf("DoString error = %v", err)
	}

	if m.Name() != "git" {
		t.Errorf("Name() = %q, want git", m.Name())
	}
	got := m.Bindings()
	want := []keymap.BindingSpec{
		{Command: "git.commit", Keys: "Ctrl+k then Ctrl+g", When: "editorTextFocus", Label: "Commit", Category: "Git"},
		{Command: "git.status"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d bindings, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("binding %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestModuleBindRejects(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr string
	}{
		{"missing command", `keybind.bind{ key = "Ctrl+s" }`, "empty command id"},
		{"bad key", `keybind.bind{ command = "a", key = "Ctrl+" }`, "invalid binding"},
		{"bad when", `keybind.bind{ command = "a", when = "x &&" }`, "invalid binding"},
		{"unknown field", `keybind.bind{ command = "a", args = "x" }`, "unknown field"},
		{"non-string", `keybind.bind{ command = 1 }`, "must be a string"},
		{"not a table", `keybind.bind("a")`, "table expected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newModuleState(t)
			err := s.DoString(tt.code)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
			if len(m.Bindings()) != 0 {
				t.Error("rejected declaration should not be recorded")
			}
		})
	}
}

func TestModuleBindAll(t *testing.T) {
	s, m := newModuleState(t)

	err := s.DoString(`
		n = keybind.bind_all{
			{ command = "a", key = "Ctrl+a" },
			{ command = "b", key = "Ctrl+b" },
		}
	`)
	if err != nil {
		t.Fatalf("DoString error = %v", err)
	}
	if got := s.GetGlobal("n"); got != glua.LNumber(2) {
		t.Errorf("n = %v, want 2", got)
	}
	if len(m.Bindings()) != 2 {
		t.Errorf("got %d bindings, want 2", len(m.Bindings()))
	}

	// One bad entry rejects the whole batch.
	err = s.DoString(`keybind.bind_all{ { command = "c" }, { key = "Ctrl+d" } }`)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(m.Bindings()) != 2 {
		t.Errorf("got %d bindings after failed batch, want 2", len(m.Bindings()))
	}
}

func TestModuleBindingsList(t *testing.T) {
	s, _ := newModuleState(t)

	err := s.DoString(`
		keybind.bind{ command = "a", key = "Ctrl+a" }
		local list = keybind.bindings()
		count = #list
		first = list[1].command
		firstKey = list[1].key
	`)
	if err != nil {
		t.Fatalf("DoString error = %v", err)
	}
	if got := s.GetGlobal("count"); got != glua.LNumber(1) {
		t.Errorf("count = %v, want 1", got)
	}
	if got := s.GetGlobal("first"); got != glua.LString("a") {
		t.Errorf("first = %v, want a", got)
	}
	if got := s.GetGlobal("firstKey"); got != glua.LString("Ctrl+a") {
		t.Errorf("firstKey = %v, want Ctrl+a", got)
	}
}

func TestModuleEncode(t *testing.T) {
	s, _ := newModuleState(t)

	err := s.DoString(`
		canonical = keybind.encode("shift+ctrl+S")
		bad, msg = keybind.encode("")
	`)
	if err != nil {
		t.Fatalf("DoString error = %v", err)
	}
	if got := s.GetGlobal("canonical"); got != glua.LString("Ctrl+Shift+S") {
		t.Errorf("canonical = %v, want Ctrl+Shift+S", got)
	}
	if got := s.GetGlobal("bad"); got != glua.LNil {
		t.Errorf("bad = %v, want nil", got)
	}
	if got := s.GetGlobal("msg"); got.Type() != glua.LTString {
		t.Errorf("msg type = %s, want string", got.Type())
	}
}

func TestModuleValidWhen(t *testing.T) {
	s, _ := newModuleState(t)

	err := s.DoString(`
		good = keybind.valid_when("editorTextFocus && !editorReadonly")
		bad, msg = keybind.valid_when("a &&")
	`)
	if err != nil {
		t.Fatalf("DoString error = %v", err)
	}
	if got := s.GetGlobal("good"); got != glua.LTrue {
		t.Errorf("good = %v, want true", got)
	}
	if got := s.GetGlobal("bad"); got != glua.LFalse {
		t.Errorf("bad = %v, want false", got)
	}
	if got := s.GetGlobal("msg"); got.Type() != glua.LTString {
		t.Errorf("msg type = %s, want string", got.Type())
	}
}
