// Package plugin discovers plugins that contribute default keybindings.
//
// A plugin is either a single Lua file in a plugin path, or a directory
// holding a plugin.json manifest, an init.lua, or a plugin.lua:
//
//	plugins/
//	  quick.lua
//	  git-keys/
//	    plugin.json
//	    init.lua
//
// A manifest may declare bindings directly:
//
//	{
//	  "name": "git-keys",
//	  "version": "1.0.0",
//	  "keybindings": [
//	    {"command": "git.commit", "key": "Ctrl+k then Ctrl+g", "when": "editorTextFocus"}
//	  ]
//	}
//
// Entry points run through package lua. Each plugin yields one keymap
// sourced "plugin:<name>", which the caller merges into the defaults.
package plugin
