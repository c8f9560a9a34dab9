// Package lua runs plugin scripts that contribute default keybindings.
//
// A script declares bindings through the keybind module:
//
//	keybind.name("git")
//
//	keybind.bind{
//	    command  = "git.commit",
//	    key      = "Ctrl+k then Ctrl+g",
//	    when     = "editorTextFocus && !editorReadonly",
//	    label    = "Commit",
//	    category = "Git",
//	}
//
//	-- Several at once
//	keybind.bind_all{
//	    { command = "git.push", key = "Ctrl+Alt+p" },
//	    { command = "git.pull" },
//	}
//
// Helpers validate input while the script runs:
//
//	local canonical, err = keybind.encode("shift+ctrl+S")  -- "Ctrl+Shift+S"
//	local ok, msg = keybind.valid_when("a &&")              -- false, "..."
//
// Scripts run in a sandbox: io, os, debug and package loading are not
// available, and each run is bounded by an execution timeout.
package lua
