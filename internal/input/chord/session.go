package chord

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/when"
)

// DefaultTimeout is how long a pending chord waits for its next keystroke.
const DefaultTimeout = 1000 * time.Millisecond

// State is the session state.
type State uint8

const (
	// Idle means no keystrokes are pending.
	Idle State = iota

	// AwaitingNext means a chord prefix is pending.
	AwaitingNext
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingNext:
		return "awaiting-next"
	default:
		return "unknown"
	}
}

// Outcome is the result of feeding one keystroke to a session.
type Outcome uint8

const (
	// NoMatch means a single keystroke matched nothing.
	NoMatch Outcome = iota

	// Matched means a command fired; the session is Idle.
	Matched

	// Pending means the keystrokes so far start an active chord.
	Pending

	// ChordCancelled means a pending chord was abandoned because the
	// latest keystroke continued no binding.
	ChordCancelled

	// Cancelled means Escape abandoned a pending chord.
	Cancelled

	// TimedOut means a pending chord expired. It is only reported to the
	// timeout handler.
	TimedOut
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case NoMatch:
		return "no-match"
	case Matched:
		return "matched"
	case Pending:
		return "pending"
	case ChordCancelled:
		return "chord-cancelled"
	case Cancelled:
		return "cancelled"
	case TimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Result describes what one keystroke did.
type Result struct {
	Outcome Outcome

	// CommandID is set when Outcome is Matched.
	CommandID string

	// Keystrokes is the sequence that was considered.
	Keystrokes []key.Keystroke
}

// Resolver is the view of a binding table the session needs.
// *keymap.Table implements it.
type Resolver interface {
	Resolve(pending []key.Keystroke, ctx when.Context) (string, bool)
	HasContinuation(pending []key.Keystroke, ctx when.Context) bool
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	// ID identifies the current pending chord. It is uuid.Nil when Idle.
	ID        uuid.UUID
	State     State
	Pending   []key.Keystroke
	StartedAt time.Time
}

// Session tracks one in-progress chord. It starts Idle and is safe for
// concurrent use: every transition, including timer expiry, is serialized.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	pending   []key.Keystroke
	startedAt time.Time

	// generation invalidates timers armed for an earlier pending chord.
	generation uint64
	timer      Timer

	timeout   time.Duration
	scheduler Scheduler
	now       func() time.Time
	onTimeout func(Snapshot)
	logger    logrus.FieldLogger
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets how long a pending chord waits.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithScheduler sets the scheduler used for the chord timeout.
func WithScheduler(sched Scheduler) Option {
	return func(s *Session) {
		if sched != nil {
			s.scheduler = sched
		}
	}
}

// WithClock sets the clock used to stamp chord start times.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTimeoutHandler sets a callback run after a pending chord expires.
// It receives the abandoned chord and runs without the session lock held.
func WithTimeoutHandler(fn func(Snapshot)) Option {
	return func(s *Session) {
		s.onTimeout = fn
	}
}

// WithLogger sets the session logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession creates an Idle session.
func NewSession(opts ...Option) *Session {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Session{
		timeout:   DefaultTimeout,
		scheduler: SystemScheduler{},
		now:       time.Now,
		logger:    discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Timeout returns the chord timeout.
func (s *Session) Timeout() time.Duration {
	return s.timeout
}

// OnKeystroke feeds one keystroke through the session.
//
// Escape while a chord is pending cancels it. Otherwise the keystroke is
// appended to the pending sequence; if an active binding continues the
// sequence the session waits for more, else the sequence is resolved
// exactly and the session returns to Idle.
func (s *Session) OnKeystroke(ks key.Keystroke, table Resolver, ctx when.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasChord := len(s.pending) > 0

	if wasChord && ks.IsEscape() {
		seq := s.clearLocked()
		s.logger.WithField("chord", key.Encode(seq)).Debug("chord cancelled")
		return Result{Outcome: Cancelled, Keystrokes: seq}
	}

	seq := make([]key.Keystroke, len(s.pending), len(s.pending)+1)
	copy(seq, s.pending)
	seq = append(seq, ks)

	if table == nil {
		s.clearLocked()
		return Result{Outcome: noMatch(wasChord), Keystrokes: seq}
	}

	if table.HasContinuation(seq, ctx) {
		if !wasChord {
			s.id = uuid.New()
			s.startedAt = s.now()
		}
		s.pending = seq
		s.armLocked()
		s.logger.WithFields(logrus.Fields{
			"session": s.id,
			"chord":   key.Encode(seq),
		}).Debug("chord pending")
		return Result{Outcome: Pending, Keystrokes: cloneKeystrokes(seq)}
	}

	s.clearLocked()
	if id, ok := table.Resolve(seq, ctx); ok {
		return Result{Outcome: Matched, CommandID: id, Keystrokes: seq}
	}
	if wasChord {
		s.logger.WithField("chord", key.Encode(seq)).Debug("chord cancelled: no binding")
	}
	return Result{Outcome: noMatch(wasChord), Keystrokes: seq}
}

func noMatch(wasChord bool) Outcome {
	if wasChord {
		return ChordCancelled
	}
	return NoMatch
}

// armLocked (re)starts the timeout for the current pending chord.
// Caller must hold s.mu.
func (s *Session) armLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	gen := s.generation
	s.timer = s.scheduler.AfterFunc(s.timeout, func() {
		s.expire(gen)
	})
}

// expire abandons the pending chord if gen is still current.
func (s *Session) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || len(s.pending) == 0 {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.clearLocked()
	handler := s.onTimeout
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"session": snap.ID,
		"chord":   key.Encode(snap.Pending),
	}).Debug("chord timed out")

	if handler != nil {
		handler(snap)
	}
}

// clearLocked returns the session to Idle, invalidating any armed timer,
// and returns the abandoned keystrokes.
// Caller must hold s.mu.
func (s *Session) clearLocked() []key.Keystroke {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	seq := s.pending
	s.pending = nil
	s.id = uuid.Nil
	s.startedAt = time.Time{}
	return seq
}

// Reset returns the session to Idle without firing anything.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return Idle
	}
	return AwaitingNext
}

// Indicator returns a copy of the pending keystrokes for display.
func (s *Session) Indicator() []key.Keystroke {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneKeystrokes(s.pending)
}

// Snapshot returns a read-only view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		State:     Idle,
		Pending:   cloneKeystrokes(s.pending),
		StartedAt: s.startedAt,
	}
	if len(s.pending) > 0 {
		snap.State = AwaitingNext
	}
	return snap
}

func cloneKeystrokes(ks []key.Keystroke) []key.Keystroke {
	if len(ks) == 0 {
		return nil
	}
	clone := make([]key.Keystroke, len(ks))
	copy(clone, ks)
	return clone
}
