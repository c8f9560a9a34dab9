package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keybind/internal/input/keymap"
	"github.com/dshills/keybind/internal/input/when"
)

// specFields are the table fields a binding declaration may carry.
var specFields = map[string]bool{
	"command":  true,
	"key":      true,
	"when":     true,
	"label":    true,
	"category": true,
}

// tableToSpec converts a binding declaration table to a BindingSpec.
// Unknown fields and non-string values are rejected.
func tableToSpec(tbl *lua.LTable) (keymap.BindingSpec, error) {
	var (
		spec keymap.BindingSpec
		err  error
	)
	tbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		name, ok := k.(lua.LString)
		if !ok || !specFields[string(name)] {
			err = fmt.Errorf("%w: unknown field %s", ErrInvalidBinding, k.String())
			return
		}
		s, ok := v.(lua.LString)
		if !ok {
			err = fmt.Errorf("%w: field %q must be a string, got %s", ErrInvalidBinding, string(name), v.Type())
			return
		}
		switch string(name) {
		case "command":
			spec.Command = string(s)
		case "key":
			spec.Keys = string(s)
		case "when":
			spec.When = string(s)
		case "label":
			spec.Label = string(s)
		case "category":
			spec.Category = string(s)
		}
	})
	if err != nil {
		return keymap.BindingSpec{}, err
	}
	if spec.Command == "" {
		return keymap.BindingSpec{}, fmt.Errorf("%w: %w", ErrInvalidBinding, keymap.ErrEmptyCommandID)
	}
	if _, err := spec.CommandBinding(); err != nil {
		return keymap.BindingSpec{}, fmt.Errorf("%w: %s: %w", ErrInvalidBinding, spec.Command, err)
	}
	if spec.When != "" {
		if _, err := when.Parse(spec.When); err != nil {
			return keymap.BindingSpec{}, fmt.Errorf("%w: %s: %w", ErrInvalidBinding, spec.Command, err)
		}
	}
	return spec, nil
}

// specToTable converts a BindingSpec to a Lua table.
func specToTable(L *lua.LState, spec keymap.BindingSpec) *lua.LTable {
	tbl := L.NewTable()
	L.SetField(tbl, "command", lua.LString(spec.Command))
	if spec.Keys != "" {
		L.SetField(tbl, "key", lua.LString(spec.Keys))
	}
	if spec.When != "" {
		L.SetField(tbl, "when", lua.LString(spec.When))
	}
	if spec.Label != "" {
		L.SetField(tbl, "label", lua.LString(spec.Label))
	}
	if spec.Category != "" {
		L.SetField(tbl, "category", lua.LString(spec.Category))
	}
	return tbl
}
