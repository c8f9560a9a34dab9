package input

import (
	"sync"

	"github.com/dshills/keybind/internal/input/when"
)

// Standard context keys maintained by UpdateFromEditor.
const (
	CtxEditorTextFocus    = "editorTextFocus"
	CtxEditorReadonly     = "editorReadonly"
	CtxEditorHasSelection = "editorHasSelection"
	CtxEditorIsModified   = "editorIsModified"
	CtxEditorIsOpen       = "editorIsOpen"
	CtxResourceLangID     = "resourceLangId"
	CtxResourcePath       = "resourcePath"
	CtxEditorLineNumber   = "editorLineNumber"
)

// Context is the live set of context keys consulted by when-clauses.
// It is safe for concurrent use. Resolution works on a Snapshot so a
// concurrent update never changes the facts mid-resolution.
type Context struct {
	mu     sync.RWMutex
	values when.Snapshot
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{values: make(when.Snapshot)}
}

// Get returns the value of a context key.
func (c *Context) Get(name string) (when.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

// Set sets a context key.
func (c *Context) Set(name string, v when.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v == nil {
		delete(c.values, name)
		return
	}
	c.values[name] = v
}

// SetBool sets a boolean context key.
func (c *Context) SetBool(name string, v bool) {
	c.Set(name, when.Bool(v))
}

// SetString sets a string context key.
func (c *Context) SetString(name, v string) {
	c.Set(name, when.String(v))
}

// SetNumber sets a numeric context key.
func (c *Context) SetNumber(name string, v float64) {
	c.Set(name, when.Number(v))
}

// Delete removes a context key.
func (c *Context) Delete(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, name)
}

// Replace swaps in a whole new set of context keys.
func (c *Context) Replace(values when.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = values.Clone()
}

// Snapshot returns a copy of the current context keys.
func (c *Context) Snapshot() when.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values.Clone()
}

// EditorStateProvider provides editor state for context updates.
type EditorStateProvider interface {
	// FileType returns the current file type.
	FileType() string

	// FilePath returns the current file path.
	FilePath() string

	// HasFocus returns true if the text area has keyboard focus.
	HasFocus() bool

	// HasSelection returns true if there is an active selection.
	HasSelection() bool

	// IsModified returns true if the buffer has unsaved changes.
	IsModified() bool

	// IsReadOnly returns true if the buffer is read-only.
	IsReadOnly() bool

	// CursorPosition returns the line and column of the cursor.
	CursorPosition() (line, col uint32)
}

// UpdateFromEditor sets the standard editor context keys. A nil editor
// clears them.
func (c *Context) UpdateFromEditor(editor EditorStateProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if editor == nil {
		for _, k := range []string{
			CtxEditorTextFocus, CtxEditorReadonly, CtxEditorHasSelection,
			CtxEditorIsModified, CtxEditorIsOpen, CtxResourceLangID,
			CtxResourcePath, CtxEditorLineNumber,
		} {
			delete(c.values, k)
		}
		return
	}

	line, _ := editor.CursorPosition()
	c.values[CtxEditorIsOpen] = when.Bool(true)
	c.values[CtxEditorTextFocus] = when.Bool(editor.HasFocus())
	c.values[CtxEditorReadonly] = when.Bool(editor.IsReadOnly())
	c.values[CtxEditorHasSelection] = when.Bool(editor.HasSelection())
	c.values[CtxEditorIsModified] = when.Bool(editor.IsModified())
	c.values[CtxResourceLangID] = when.String(editor.FileType())
	c.values[CtxResourcePath] = when.String(editor.FilePath())
	c.values[CtxEditorLineNumber] = when.Number(line)
}
