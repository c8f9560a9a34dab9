package input

import (
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/input/chord"
	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/keymap"
	"github.com/dshills/keybind/internal/input/when"
)

// Config configures the input handler.
type Config struct {
	// ChordTimeout is how long a pending chord waits for its next keystroke.
	// Default: 1000ms
	ChordTimeout time.Duration

	// ShowPendingKeys enables the pending chord indicator.
	ShowPendingKeys bool

	// CommandBuffer is the capacity of the command channel.
	// Default: 100
	CommandBuffer int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChordTimeout:    chord.DefaultTimeout,
		ShowPendingKeys: true,
		CommandBuffer:   100,
	}
}

// Handler is the main entry point for keyboard input. It normalizes raw
// events, feeds them through a chord session against the registry's
// current table and delivers resolved commands.
type Handler struct {
	// mu serializes keystroke handling so hooks observe one keystroke at
	// a time.
	mu sync.Mutex

	config   Config
	registry *keymap.Registry
	context  *Context
	session  *chord.Session

	commandChan chan Command
	hooks       *HookManager
	metrics     *Metrics
	executor    Executor
	logger      logrus.FieldLogger

	sessionOpts []chord.Option
	now         func() time.Time

	closeOnce sync.Once
	closed    bool
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the handler logger. It is shared with the chord session.
func WithLogger(l logrus.FieldLogger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithScheduler sets the timer source used for chord timeouts.
func WithScheduler(s chord.Scheduler) HandlerOption {
	return func(h *Handler) {
		h.sessionOpts = append(h.sessionOpts, chord.WithScheduler(s))
	}
}

// WithClock sets the clock used to stamp commands and chords.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
			h.sessionOpts = append(h.sessionOpts, chord.WithClock(now))
		}
	}
}

// WithContext uses an existing context instead of a fresh one.
func WithContext(ctx *Context) HandlerOption {
	return func(h *Handler) {
		if ctx != nil {
			h.context = ctx
		}
	}
}

// WithExecutor runs each resolved command synchronously through e in
// addition to delivering it on the command channel.
func WithExecutor(e Executor) HandlerOption {
	return func(h *Handler) {
		h.executor = e
	}
}

// NewHandler creates a handler resolving against registry.
func NewHandler(registry *keymap.Registry, config Config, opts ...HandlerOption) *Handler {
	if config.CommandBuffer <= 0 {
		config.CommandBuffer = DefaultConfig().CommandBuffer
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	h := &Handler{
		config:      config,
		registry:    registry,
		context:     NewContext(),
		commandChan: make(chan Command, config.CommandBuffer),
		hooks:       NewHookManager(),
		metrics:     NewMetrics(),
		logger:      discard,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	sessionOpts := append([]chord.Option{
		chord.WithTimeout(config.ChordTimeout),
		chord.WithTimeoutHandler(h.onChordTimeout),
		chord.WithLogger(h.logger),
	}, h.sessionOpts...)
	h.session = chord.NewSession(sessionOpts...)
	return h
}

// HandleRawEvent normalizes a raw event and handles it.
func (h *Handler) HandleRawEvent(ev key.RawEvent) chord.Result {
	return h.HandleKeystroke(key.Normalize(ev))
}

// HandleKeystroke feeds one keystroke through the chord session and
// delivers the command it resolves to, if any.
func (h *Handler) HandleKeystroke(ks key.Keystroke) chord.Result {
	timer := h.metrics.StartKeystrokeTimer()
	defer timer.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return chord.Result{Outcome: chord.NoMatch, Keystrokes: []key.Keystroke{ks}}
	}

	// Resolution sees one consistent view of the context keys.
	ctx := h.context.Snapshot()

	if h.hooks.RunPreKeystroke(&ks, ctx) {
		h.metrics.RecordHookConsumption()
		return chord.Result{Outcome: chord.NoMatch, Keystrokes: []key.Keystroke{ks}}
	}

	res := h.session.OnKeystroke(ks, h.registry.Table(), ctx)
	h.metrics.RecordOutcome(res.Outcome)

	if res.Outcome == chord.Matched {
		h.dispatch(Command{
			ID:         res.CommandID,
			Keystrokes: key.NewKeybinding(res.Keystrokes...),
			Source:     SourceKeyboard,
			Time:       h.now(),
		}, ctx)
	}

	h.hooks.RunPostKeystroke(ks, res, ctx)
	return res
}

// Dispatch delivers a command that did not come from the keyboard, such
// as a palette selection.
func (h *Handler) Dispatch(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if cmd.Time.IsZero() {
		cmd.Time = h.now()
	}
	h.dispatch(cmd, h.context.Snapshot())
}

// dispatch runs command hooks, the executor, and the channel send.
// Caller must hold h.mu.
func (h *Handler) dispatch(cmd Command, ctx when.Context) {
	if h.hooks.RunPreCommand(&cmd, ctx) {
		h.metrics.RecordHookConsumption()
		return
	}

	timer := h.metrics.StartCommandTimer()
	if h.executor != nil {
		if err := h.executor.Execute(cmd); err != nil {
			h.logger.WithError(err).WithField("command", cmd.ID).Warn("command failed")
		}
	}
	timer.StopCommand()

	// Non-blocking send with overflow protection
	select {
	case h.commandChan <- cmd:
	default:
		// Channel full - drop oldest and try again
		select {
		case <-h.commandChan:
			h.metrics.RecordDroppedCommand()
		default:
		}
		select {
		case h.commandChan <- cmd:
		default:
			h.metrics.RecordDroppedCommand()
		}
	}
}

// onChordTimeout is called by the session after a pending chord expires.
func (h *Handler) onChordTimeout(snap chord.Snapshot) {
	h.metrics.RecordOutcome(chord.TimedOut)
	h.hooks.RunPostKeystroke(key.Keystroke{}, chord.Result{
		Outcome:    chord.TimedOut,
		Keystrokes: snap.Pending,
	}, h.context.Snapshot())
}

// Commands returns the channel of resolved commands.
func (h *Handler) Commands() <-chan Command {
	return h.commandChan
}

// PendingKeys returns the display label of the pending chord, e.g.
// "Ctrl+K", or "" when no chord is pending or the indicator is disabled.
func (h *Handler) PendingKeys() string {
	if !h.config.ShowPendingKeys {
		return ""
	}
	pending := h.session.Indicator()
	if len(pending) == 0 {
		return ""
	}
	return key.FormatKeybindingDisplay(pending)
}

// Session returns a read-only view of the chord session.
func (h *Handler) Session() chord.Snapshot {
	return h.session.Snapshot()
}

// CancelChord abandons any pending chord without firing a command.
func (h *Handler) CancelChord() {
	h.session.Reset()
}

// Registry returns the binding registry.
func (h *Handler) Registry() *keymap.Registry {
	return h.registry
}

// Context returns the live context. Updates are seen by the next keystroke.
func (h *Handler) Context() *Context {
	return h.context
}

// Hooks returns the hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// AddHook registers a hook with default priority.
func (h *Handler) AddHook(hook Hook) HookID {
	return h.hooks.Register(hook)
}

// Metrics returns the handler metrics.
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// Close stops the handler. Pending chords are abandoned and the command
// channel is closed. Close is idempotent.
func (h *Handler) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.closed = true
		h.session.Reset()
		close(h.commandChan)
	})
}
