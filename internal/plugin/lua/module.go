package lua

import (
	"sync"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/keymap"
	"github.com/dshills/keybind/internal/input/when"
)

// ModuleName is the global the binding module is installed under.
const ModuleName = "keybind"

// Module collects the bindings a script declares.
type Module struct {
	mu       sync.Mutex
	name     string
	bindings []keymap.BindingSpec
	logger   logrus.FieldLogger
}

// NewModule creates an empty module.
func NewModule(logger logrus.FieldLogger) *Module {
	if logger == nil {
		logger = discardLogger()
	}
	return &Module{logger: logger}
}

// Install registers the module on a state.
func (m *Module) Install(s *State) {
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"name":       m.setName,
		"bind":       m.bind,
		"bind_all":   m.bindAll,
		"bindings":   m.list,
		"encode":     encode,
		"valid_when": validWhen,
		"log":        m.log,
	})
}

// Name returns the keymap name set by the script, if any.
func (m *Module) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Bindings returns a copy of the declared bindings in declaration order.
func (m *Module) Bindings() []keymap.BindingSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]keymap.BindingSpec, len(m.bindings))
	copy(result, m.bindings)
	return result
}

// keybind.name(name)
func (m *Module) setName(L *lua.LState) int {
	name := L.CheckString(1)
	m.mu.Lock()
	m.name = name
	m.mu.Unlock()
	return 0
}

// keybind.bind{command=..., key=..., when=...}
func (m *Module) bind(L *lua.LState) int {
	spec, err := tableToSpec(L.CheckTable(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	m.mu.Lock()
	m.bindings = append(m.bindings, spec)
	m.mu.Unlock()
	return 0
}

// keybind.bind_all{{...}, {...}}
// Every entry is checked before any is added.
func (m *Module) bindAll(L *lua.LState) int {
	tbl := L.CheckTable(1)
	n := tbl.Len()
	specs := make([]keymap.BindingSpec, 0, n)
	for i := 1; i <= n; i++ {
		entry, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.RaiseError("%s: entry %d is not a table", ErrInvalidBinding.Error(), i)
			return 0
		}
		spec, err := tableToSpec(entry)
		if err != nil {
			L.RaiseError("entry %d: %s", i, err.Error())
			return 0
		}
		specs = append(specs, spec)
	}
	m.mu.Lock()
	m.bindings = append(m.bindings, specs...)
	m.mu.Unlock()
	L.Push(lua.LNumber(len(specs)))
	return 1
}

// keybind.bindings() returns the declarations so far.
func (m *Module) list(L *lua.LState) int {
	specs := m.Bindings()
	tbl := L.CreateTable(len(specs), 0)
	for _, spec := range specs {
		tbl.Append(specToTable(L, spec))
	}
	L.Push(tbl)
	return 1
}

// keybind.log(level, message)
func (m *Module) log(L *lua.LState) int {
	level := L.CheckString(1)
	msg := L.CheckString(2)
	entry := m.logger.WithField("module", ModuleName)
	switch level {
	case "debug":
		entry.Debug(msg)
	case "warn":
		entry.Warn(msg)
	case "error":
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
	return 0
}

// keybind.encode(spec) returns the canonical form, or nil and an error.
func encode(L *lua.LState) int {
	canonical, err := key.NormalizeSpec(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LString(canonical))
	return 1
}

// keybind.valid_when(text) returns true, or false and the parse error.
func validWhen(L *lua.LState) int {
	if _, err := when.Parse(L.CheckString(1)); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}
