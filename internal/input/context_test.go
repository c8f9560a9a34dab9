package input

import (
	"testing"

	"github.com/dshills/keybind/internal/input/when"
)

type fakeEditor struct {
	fileType string
	path     string
	focus    bool
	sel      bool
	modified bool
	readonly bool
	line     uint32
}

func (e fakeEditor) FileType() string                   { return e.fileType }
func (e fakeEditor) FilePath() string                   { return e.path }
func (e fakeEditor) HasFocus() bool                     { return e.focus }
func (e fakeEditor) HasSelection() bool                 { return e.sel }
func (e fakeEditor) IsModified() bool                   { return e.modified }
func (e fakeEditor) IsReadOnly() bool                   { return e.readonly }
func (e fakeEditor) CursorPosition() (line, col uint32) { return e.line, 0 }

func TestContextSetGet(t *testing.T) {
	c := NewContext()
	c.SetBool("a", true)
	c.SetString("b", "go")
	c.SetNumber("c", 3)

	if v, ok := c.Get("a"); !ok || v != when.Bool(true) {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if v, ok := c.Get("b"); !ok || v != when.String("go") {
		t.Errorf("Get(b) = %v, %v", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != when.Number(3) {
		t.Errorf("Get(c) = %v, %v", v, ok)
	}

	c.Set("a", nil)
	if _, ok := c.Get("a"); ok {
		t.Error("Set(nil) should delete the key")
	}
	c.Delete("b")
	if _, ok := c.Get("b"); ok {
		t.Error("Delete should remove the key")
	}
}

func TestContextSnapshotIsolated(t *testing.T) {
	c := NewContext()
	c.SetBool("focus", true)

	snap := c.Snapshot()
	c.SetBool("focus", false)

	if !when.EvaluateString("focus", snap) {
		t.Error("snapshot should not see later updates")
	}
	if when.EvaluateString("focus", c) {
		t.Error("live context should see the update")
	}
}

func TestContextReplace(t *testing.T) {
	c := NewContext()
	c.SetBool("old", true)

	values := when.Snapshot{"new": when.Bool(true)}
	c.Replace(values)
	values["new"] = when.Bool(false)

	if _, ok := c.Get("old"); ok {
		t.Error("Replace should drop old keys")
	}
	if v, _ := c.Get("new"); v != when.Bool(true) {
		t.Error("Replace should copy its input")
	}
}

func TestUpdateFromEditor(t *testing.T) {
	c := NewContext()
	c.UpdateFromEditor(fakeEditor{
		fileType: "go",
		path:     "/src/main.go",
		focus:    true,
		sel:      true,
		line:     42,
	})

	tests := []struct {
		expr string
		want bool
	}{
		{"editorTextFocus && editorHasSelection", true},
		{"editorReadonly", false},
		{"resourceLangId == go", true},
		{"resourcePath == '/src/main.go'", true},
		{"editorLineNumber == 42", true},
		{"editorIsOpen", true},
	}
	for _, tt := range tests {
		if got := when.EvaluateString(tt.expr, c); got != tt.want {
			t.Errorf("%q = %v, want %v", tt.expr, got, tt.want)
		}
	}

	c.UpdateFromEditor(nil)
	if when.EvaluateString("editorIsOpen", c) {
		t.Error("nil editor should clear editor keys")
	}
}
