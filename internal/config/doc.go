// Package config loads engine settings.
//
// Settings come from, in increasing precedence:
//
//  1. Built-in defaults
//  2. The user config file (config.toml in the user config directory)
//  3. An explicit config file
//  4. KEYBIND_* environment variables, e.g. KEYBIND_INPUT_CHORD_TIMEOUT=750ms
//  5. Command-line flags bound with BindFlags
//
// # Example config.toml
//
//	[input]
//	chord_timeout = "1s"
//	show_pending_keys = true
//
//	[keybindings]
//	overrides = "~/.config/keybind/keybindings.json"
//	defaults = ["/etc/keybind/defaults.toml"]
//	watch = true
//
//	[plugins]
//	scripts = ["~/.config/keybind/plugins/git.lua"]
//
//	[log]
//	level = "debug"
package config
