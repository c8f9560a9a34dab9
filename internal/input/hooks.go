package input

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/input/chord"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/when"
)

// Hook allows interception of keystrokes and resolved commands.
type Hook interface {
	// PreKeystroke is called before a keystroke reaches the chord session.
	// Return true to consume the keystroke.
	PreKeystroke(ks *key.Keystroke, ctx when.Context) bool

	// PostKeystroke is called with the outcome of a keystroke. When a
	// pending chord times out it is called with the zero keystroke and a
	// TimedOut result.
	PostKeystroke(ks key.Keystroke, res chord.Result, ctx when.Context)

	// PreCommand is called before a command is delivered.
	// Return true to consume the command.
	PreCommand(cmd *Command, ctx when.Context) bool
}

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager manages hooks with priorities and named registration.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	sorted  bool
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{
		hooks:   make([]HookRegistration, 0),
		sorted:  true,
		enabled: true,
	}
}

// Register adds a hook with default priority.
func (m *HookManager) Register(hook Hook) HookID {
	return m.RegisterWithOptions(hook, "", HookPriorityNormal)
}

// RegisterWithOptions adds a hook with a name and priority.
// A hook registered under an existing name replaces it.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name != "" {
		m.removeLocked(func(r HookRegistration) bool { return r.Name == name })
	}

	m.nextID++
	m.hooks = append(m.hooks, HookRegistration{
		ID:       m.nextID,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	m.sorted = false
	return m.nextID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(func(r HookRegistration) bool { return r.ID == id })
}

// UnregisterByName removes a hook by name.
func (m *HookManager) UnregisterByName(name string) bool {
	if name == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(func(r HookRegistration) bool { return r.Name == name })
}

// removeLocked removes registrations matching pred.
// Caller must hold the write lock.
func (m *HookManager) removeLocked(pred func(HookRegistration) bool) bool {
	kept := m.hooks[:0]
	removed := false
	for _, r := range m.hooks {
		if pred(r) {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	m.hooks = kept
	return removed
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// List returns all hook registrations in execution order.
func (m *HookManager) List() []HookRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSorted()
	result := make([]HookRegistration, len(m.hooks))
	copy(result, m.hooks)
	return result
}

// ensureSorted sorts hooks by priority if needed.
// Caller must hold the write lock.
func (m *HookManager) ensureSorted() {
	if m.sorted {
		return
	}
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority < m.hooks[j].Priority
	})
	m.sorted = true
}

// active returns the hooks to run, in priority order, for iteration
// outside the lock.
func (m *HookManager) active() []Hook {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled || len(m.hooks) == 0 {
		return nil
	}
	m.ensureSorted()
	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	return hooks
}

// RunPreKeystroke runs PreKeystroke hooks until one consumes the keystroke.
func (m *HookManager) RunPreKeystroke(ks *key.Keystroke, ctx when.Context) bool {
	for _, hook := range m.active() {
		if hook.PreKeystroke(ks, ctx) {
			return true
		}
	}
	return false
}

// RunPostKeystroke runs all PostKeystroke hooks.
func (m *HookManager) RunPostKeystroke(ks key.Keystroke, res chord.Result, ctx when.Context) {
	for _, hook := range m.active() {
		hook.PostKeystroke(ks, res, ctx)
	}
}

// RunPreCommand runs PreCommand hooks until one consumes the command.
func (m *HookManager) RunPreCommand(cmd *Command, ctx when.Context) bool {
	for _, hook := range m.active() {
		if hook.PreCommand(cmd, ctx) {
			return true
		}
	}
	return false
}

// Clear removes all hooks.
func (m *HookManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = make([]HookRegistration, 0)
	m.sorted = true
}

// BaseHook provides a default implementation of the Hook interface.
// Embed this in custom hooks to only implement the methods you need.
type BaseHook struct{}

// PreKeystroke is a no-op that does not consume keystrokes.
func (BaseHook) PreKeystroke(*key.Keystroke, when.Context) bool { return false }

// PostKeystroke is a no-op.
func (BaseHook) PostKeystroke(key.Keystroke, chord.Result, when.Context) {}

// PreCommand is a no-op that does not consume commands.
func (BaseHook) PreCommand(*Command, when.Context) bool { return false }

// FuncHook wraps functions into a Hook.
type FuncHook struct {
	PreKeystrokeFunc  func(*key.Keystroke, when.Context) bool
	PostKeystrokeFunc func(key.Keystroke, chord.Result, when.Context)
	PreCommandFunc    func(*Command, when.Context) bool
}

// PreKeystroke calls PreKeystrokeFunc if set.
func (h FuncHook) PreKeystroke(ks *key.Keystroke, ctx when.Context) bool {
	if h.PreKeystrokeFunc != nil {
		return h.PreKeystrokeFunc(ks, ctx)
	}
	return false
}

// PostKeystroke calls PostKeystrokeFunc if set.
func (h FuncHook) PostKeystroke(ks key.Keystroke, res chord.Result, ctx when.Context) {
	if h.PostKeystrokeFunc != nil {
		h.PostKeystrokeFunc(ks, res, ctx)
	}
}

// PreCommand calls PreCommandFunc if set.
func (h FuncHook) PreCommand(cmd *Command, ctx when.Context) bool {
	if h.PreCommandFunc != nil {
		return h.PreCommandFunc(cmd, ctx)
	}
	return false
}

// LoggingHook logs every keystroke outcome at debug level.
type LoggingHook struct {
	BaseHook
	Logger logrus.FieldLogger
}

// PostKeystroke logs the outcome.
func (h LoggingHook) PostKeystroke(ks key.Keystroke, res chord.Result, _ when.Context) {
	if h.Logger == nil {
		return
	}
	entry := h.Logger.WithFields(logrus.Fields{
		"keystroke": ks.String(),
		"outcome":   res.Outcome.String(),
	})
	if res.CommandID != "" {
		entry = entry.WithField("command", res.CommandID)
	}
	entry.Debug("keystroke")
}

// FilterHook blocks keystrokes or commands matching a predicate.
type FilterHook struct {
	BaseHook

	// KeystrokeFilter returns true to consume a keystroke.
	KeystrokeFilter func(key.Keystroke, when.Context) bool

	// CommandFilter returns true to consume a command.
	CommandFilter func(Command, when.Context) bool
}

// PreKeystroke applies the keystroke filter.
func (h FilterHook) PreKeystroke(ks *key.Keystroke, ctx when.Context) bool {
	if h.KeystrokeFilter != nil {
		return h.KeystrokeFilter(*ks, ctx)
	}
	return false
}

// PreCommand applies the command filter.
func (h FilterHook) PreCommand(cmd *Command, ctx when.Context) bool {
	if h.CommandFilter != nil {
		return h.CommandFilter(*cmd, ctx)
	}
	return false
}
