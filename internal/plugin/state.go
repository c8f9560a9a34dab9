package plugin

// State represents the load state of a discovered plugin.
type State int

// Plugin states.
const (
	// StateUnloaded - Plugin was discovered but not loaded.
	StateUnloaded State = iota

	// StateLoaded - Plugin bindings were loaded.
	StateLoaded

	// StateError - Plugin failed discovery or loading.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
