package keymap

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Registry owns the default bindings and the current table.
//
// Readers call Table and keep the returned snapshot for the duration of a
// resolution. Rebuilds produce a new table and swap it in atomically, so a
// resolution in flight never observes a partially applied change.
type Registry struct {
	// mu serializes rebuilds; readers never take it.
	mu sync.Mutex

	defaults  []CommandBinding
	overrides map[string]Override
	current   atomic.Pointer[Table]

	logger    logrus.FieldLogger
	listeners []func(*Table)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report rejected bindings.
func WithLogger(l logrus.FieldLogger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// OnSwap registers fn to be called with every newly installed table.
func OnSwap(fn func(*Table)) RegistryOption {
	return func(r *Registry) {
		if fn != nil {
			r.listeners = append(r.listeners, fn)
		}
	}
}

// NewRegistry creates a registry over the given defaults with no overrides.
func NewRegistry(defaults []CommandBinding, opts ...RegistryOption) *Registry {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Registry{logger: discard}
	for _, opt := range opts {
		opt(r)
	}
	r.SetDefaults(defaults)
	return r
}

// Table returns the current table. It never returns nil.
func (r *Registry) Table() *Table {
	return r.current.Load()
}

// Defaults returns a copy of the default bindings.
func (r *Registry) Defaults() []CommandBinding {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]CommandBinding, len(r.defaults))
	for i, b := range r.defaults {
		result[i] = b.Clone()
	}
	return result
}

// SetDefaults replaces the defaults and rebuilds with the current overrides.
func (r *Registry) SetDefaults(defaults []CommandBinding) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaults = make([]CommandBinding, len(defaults))
	for i, b := range defaults {
		r.defaults[i] = b.Clone()
	}
	return r.rebuildLocked()
}

// Rebuild applies a new override set and swaps in the resulting table.
// Rejected overrides are logged and returned; the table is installed
// regardless.
func (r *Registry) Rebuild(overrides map[string]Override) []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overrides = make(map[string]Override, len(overrides))
	for id, o := range overrides {
		r.overrides[id] = o
	}
	return r.rebuildLocked()
}

// rebuildLocked builds and installs a table.
// Caller must hold r.mu.
func (r *Registry) rebuildLocked() []error {
	t, errs := BuildTable(r.defaults, r.overrides)
	for _, err := range errs {
		r.logger.WithError(err).Warn("binding rejected")
	}
	for _, d := range t.Diagnostics() {
		r.logger.WithFields(logrus.Fields{
			"command": d.CommandID,
			"when":    d.When,
		}).WithError(d.Err).Warn("when clause does not parse; binding disabled")
	}

	r.current.Store(t)
	r.logger.WithFields(logrus.Fields{
		"bindings":  t.Len(),
		"overrides": len(r.overrides),
		"rejected":  len(errs),
	}).Debug("binding table installed")

	for _, fn := range r.listeners {
		fn(t)
	}
	return errs
}

// Overrides returns a copy of the current override set.
func (r *Registry) Overrides() map[string]Override {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[string]Override, len(r.overrides))
	for id, o := range r.overrides {
		result[id] = o
	}
	return result
}
