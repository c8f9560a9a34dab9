package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// unsafeGlobals can load code from outside the sandbox.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// installSandbox removes globals that load code or touch the host.
func installSandbox(L *lua.LState) {
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	// print goes nowhere; scripts report through keybind.log.
	L.SetGlobal("print", L.NewFunction(func(*lua.LState) int { return 0 }))
}
