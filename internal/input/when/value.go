package when

import (
	"strconv"
)

// Value is a context value: one of Bool, String or Number.
// The set is closed; evaluation switches over exactly these three types.
type Value interface {
	// Truthy reports whether the value enables a bare key test.
	Truthy() bool

	// String returns the textual form of the value.
	String() string

	isValue()
}

// Bool is a boolean context value.
type Bool bool

// String is a string context value.
type String string

// Number is a numeric context value.
type Number float64

func (Bool) isValue()   {}
func (String) isValue() {}
func (Number) isValue() {}

// Truthy returns the boolean itself.
func (b Bool) Truthy() bool { return bool(b) }

// Truthy returns true for a non-empty string.
func (s String) Truthy() bool { return s != "" }

// Truthy returns true for a non-zero number.
func (n Number) Truthy() bool { return n != 0 }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (s String) String() string { return string(s) }

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

// ValueOf converts a Go value into a context Value.
// Supported: bool, string, all integer and float kinds.
// Returns false for anything else.
func ValueOf(v any) (Value, bool) {
	switch x := v.(type) {
	case Value:
		return x, true
	case bool:
		return Bool(x), true
	case string:
		return String(x), true
	case int:
		return Number(x), true
	case int8:
		return Number(x), true
	case int16:
		return Number(x), true
	case int32:
		return Number(x), true
	case int64:
		return Number(x), true
	case uint:
		return Number(x), true
	case uint8:
		return Number(x), true
	case uint16:
		return Number(x), true
	case uint32:
		return Number(x), true
	case uint64:
		return Number(x), true
	case float32:
		return Number(x), true
	case float64:
		return Number(x), true
	default:
		return nil, false
	}
}

// Context is a read-only lookup of named context facts.
// Implementations must be side-effect free and consistent for the duration
// of one resolution.
type Context interface {
	Get(name string) (Value, bool)
}

// ContextFunc adapts a function to the Context interface.
type ContextFunc func(name string) (Value, bool)

// Get calls f(name).
func (f ContextFunc) Get(name string) (Value, bool) {
	return f(name)
}

// Snapshot is a map-backed Context.
type Snapshot map[string]Value

// Get returns the value for name.
func (s Snapshot) Get(name string) (Value, bool) {
	v, ok := s[name]
	return v, ok
}

// Set stores a value, returning the snapshot for chaining.
func (s Snapshot) Set(name string, v Value) Snapshot {
	s[name] = v
	return s
}

// Clone returns a copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	clone := make(Snapshot, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// SnapshotFrom builds a Snapshot from loosely typed values, such as the
// result of decoding a TOML or JSON document. Unsupported values are
// skipped and their names returned.
func SnapshotFrom(values map[string]any) (Snapshot, []string) {
	snap := make(Snapshot, len(values))
	var skipped []string
	for k, raw := range values {
		v, ok := ValueOf(raw)
		if !ok {
			skipped = append(skipped, k)
			continue
		}
		snap[k] = v
	}
	return snap, skipped
}

// Empty is a Context with no keys.
var Empty Context = Snapshot{}
