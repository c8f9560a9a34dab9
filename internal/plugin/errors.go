package plugin

import "errors"

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when a plugin cannot be located.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrNoEntryPoint is returned when a plugin has neither a manifest nor
	// a Lua entry point.
	ErrNoEntryPoint = errors.New("plugin has no entry point (plugin.json, init.lua or plugin.lua)")

	// ErrInvalidPlugin is returned when plugin validation fails.
	ErrInvalidPlugin = errors.New("invalid plugin")
)
