package chord

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keybind/internal/input/key"
	"github.com/dshills/keybind/internal/input/keymap"
	"github.com/dshills/keybind/internal/input/when"
)

var (
	ctrlK = key.MustDecode("Ctrl+k")[0]
	ctrlS = key.MustDecode("Ctrl+s")[0]
	ctrlX = key.MustDecode("Ctrl+x")[0]
	esc   = key.MustDecode("Escape")[0]
)

func chordTable(t *testing.T) *keymap.Table {
	t.Helper()
	table, errs := keymap.BuildTable([]keymap.CommandBinding{
		keymap.NewCommandBinding("A", "Ctrl+k"),
		keymap.NewCommandBinding("B", "Ctrl+k then Ctrl+s"),
		keymap.NewCommandBinding("save", "Ctrl+s"),
	}, nil)
	if len(errs) != 0 {
		t.Fatalf("BuildTable errors = %v", errs)
	}
	return table
}

func newTestSession(opts ...Option) (*Session, *ManualScheduler) {
	sched := NewManualScheduler(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	opts = append([]Option{WithScheduler(sched), WithClock(sched.Now)}, opts...)
	return NewSession(opts...), sched
}

func TestSessionStartsIdle(t *testing.T) {
	s := NewSession()
	if s.State() != Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if s.Indicator() != nil {
		t.Errorf("Indicator() = %v, want nil", s.Indicator())
	}
	if s.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", s.Timeout(), DefaultTimeout)
	}
}

func TestChordCompletion(t *testing.T) {
	table := chordTable(t)
	s, sched := newTestSession()

	res := s.OnKeystroke(ctrlK, table, when.Empty)
	if res.Outcome != Pending {
		t.Fatalf("first Outcome = %v, want pending", res.Outcome)
	}
	if s.State() != AwaitingNext {
		t.Errorf("State() = %v, want awaiting-next", s.State())
	}

	sched.Advance(DefaultTimeout / 2)

	res = s.OnKeystroke(ctrlS, table, when.Empty)
	if res.Outcome != Matched || res.CommandID != "B" {
		t.Errorf("second = %v %q, want matched B", res.Outcome, res.CommandID)
	}
	if s.State() != Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending timers = %d, want 0", sched.Pending())
	}
}

func TestChordTimeout(t *testing.T) {
	table := chordTable(t)

	var expired []Snapshot
	s, sched := newTestSession(WithTimeoutHandler(func(snap Snapshot) {
		expired = append(expired, snap)
	}))

	s.OnKeystroke(ctrlK, table, when.Empty)
	sched.Advance(DefaultTimeout + time.Millisecond)

	if s.State() != Idle {
		t.Fatalf("State() = %v after timeout, want idle", s.State())
	}
	if len(expired) != 1 {
		t.Fatalf("timeout handler calls = %d, want 1", len(expired))
	}
	if got := key.Encode(expired[0].Pending); got != "Ctrl+k" {
		t.Errorf("expired chord = %q, want Ctrl+k", got)
	}
	if expired[0].ID == uuid.Nil {
		t.Error("expired snapshot should carry the session id")
	}

	// A fresh Ctrl+k starts a new chord rather than continuing the old one.
	res := s.OnKeystroke(ctrlK, table, when.Empty)
	if res.Outcome != Pending || len(res.Keystrokes) != 1 {
		t.Errorf("after timeout = %v %v, want pending with one keystroke", res.Outcome, res.Keystrokes)
	}

	// Ctrl+s alone resolves to save, not B.
	s.Reset()
	res = s.OnKeystroke(ctrlS, table, when.Empty)
	if res.Outcome != Matched || res.CommandID != "save" {
		t.Errorf("Ctrl+s = %v %q, want matched save", res.Outcome, res.CommandID)
	}
}

func TestStaleTimerDoesNotResetNewChord(t *testing.T) {
	table := chordTable(t)
	var timeouts int
	s, sched := newTestSession(WithTimeoutHandler(func(Snapshot) { timeouts++ }))

	s.OnKeystroke(ctrlK, table, when.Empty)
	first := s.Snapshot().ID

	sched.Advance(DefaultTimeout - time.Millisecond)
	s.OnKeystroke(esc, table, when.Empty)

	s.OnKeystroke(ctrlK, table, when.Empty)
	second := s.Snapshot().ID
	if first == second {
		t.Error("new chord should get a new session id")
	}

	// The first chord's deadline passes; the second chord must survive.
	sched.Advance(2 * time.Millisecond)
	if s.State() != AwaitingNext {
		t.Fatalf("State() = %v, stale timer reset the new chord", s.State())
	}
	if timeouts != 0 {
		t.Errorf("timeouts = %d, want 0", timeouts)
	}

	sched.Advance(DefaultTimeout)
	if s.State() != Idle || timeouts != 1 {
		t.Errorf("State() = %v timeouts = %d, want idle after own deadline", s.State(), timeouts)
	}
}

func TestEscapeCancelsPendingChord(t *testing.T) {
	table := chordTable(t)
	s, _ := newTestSession()

	s.OnKeystroke(ctrlK, table, when.Empty)
	res := s.OnKeystroke(esc, table, when.Empty)
	if res.Outcome != Cancelled {
		t.Errorf("Outcome = %v, want cancelled", res.Outcome)
	}
	if got := key.Encode(res.Keystrokes); got != "Ctrl+k" {
		t.Errorf("Keystrokes = %q, want Ctrl+k", got)
	}
	if s.State() != Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}

	// Escape while idle is an ordinary keystroke.
	res = s.OnKeystroke(esc, table, when.Empty)
	if res.Outcome != NoMatch {
		t.Errorf("idle Escape = %v, want no-match", res.Outcome)
	}
}

func TestNonMatchingKeyCancelsChord(t *testing.T) {
	table := chordTable(t)
	s, sched := newTestSession()

	s.OnKeystroke(ctrlK, table, when.Empty)
	res := s.OnKeystroke(ctrlX, table, when.Empty)
	if res.Outcome != ChordCancelled {
		t.Errorf("Outcome = %v, want chord-cancelled", res.Outcome)
	}
	if s.State() != Idle || sched.Pending() != 0 {
		t.Errorf("State() = %v pending timers = %d, want idle with none", s.State(), sched.Pending())
	}

	res = s.OnKeystroke(ctrlX, table, when.Empty)
	if res.Outcome != NoMatch {
		t.Errorf("single unbound key = %v, want no-match", res.Outcome)
	}
}

func TestInactiveChordDoesNotShadow(t *testing.T) {
	table, _ := keymap.BuildTable([]keymap.CommandBinding{
		keymap.NewCommandBinding("clear", "Ctrl+k").WithWhen("terminalFocus"),
		keymap.NewCommandBinding("zen", "Ctrl+k then z").WithWhen("!terminalFocus"),
	}, nil)
	s, _ := newTestSession()

	terminal := when.Snapshot{"terminalFocus": when.Bool(true)}
	if res := s.OnKeystroke(ctrlK, table, terminal); res.Outcome != Matched || res.CommandID != "clear" {
		t.Errorf("terminal Ctrl+k = %v %q, want matched clear", res.Outcome, res.CommandID)
	}
	if res := s.OnKeystroke(ctrlK, table, when.Empty); res.Outcome != Pending {
		t.Errorf("editor Ctrl+k = %v, want pending", res.Outcome)
	}
	z := key.MustDecode("z")[0]
	if res := s.OnKeystroke(z, table, when.Empty); res.CommandID != "zen" {
		t.Errorf("Ctrl+k z = %v %q, want zen", res.Outcome, res.CommandID)
	}
}

func TestThreeKeystrokeChord(t *testing.T) {
	table, _ := keymap.BuildTable([]keymap.CommandBinding{
		keymap.NewCommandBinding("deep", "Ctrl+k then Ctrl+k then Ctrl+s"),
	}, nil)
	s, sched := newTestSession()

	s.OnKeystroke(ctrlK, table, nil)
	sched.Advance(DefaultTimeout - time.Millisecond)
	s.OnKeystroke(ctrlK, table, nil)

	// Each keystroke re-arms the timeout.
	sched.Advance(DefaultTimeout - 2*time.Millisecond)
	if got := key.Encode(s.Indicator()); got != "Ctrl+k then Ctrl+k" {
		t.Fatalf("Indicator() = %q", got)
	}

	res := s.OnKeystroke(ctrlS, table, nil)
	if res.CommandID != "deep" {
		t.Errorf("CommandID = %q, want deep", res.CommandID)
	}
}

func TestIndicatorIsReadOnly(t *testing.T) {
	table := chordTable(t)
	s, _ := newTestSession()
	s.OnKeystroke(ctrlK, table, nil)

	ind := s.Indicator()
	ind[0] = ctrlX
	if got := key.Encode(s.Indicator()); got != "Ctrl+k" {
		t.Errorf("Indicator() = %q after mutating copy", got)
	}
	snap := s.Snapshot()
	if snap.State != AwaitingNext || snap.StartedAt.IsZero() {
		t.Errorf("Snapshot() = %+v", snap)
	}
}

func TestNilResolver(t *testing.T) {
	s, _ := newTestSession()
	if res := s.OnKeystroke(ctrlK, nil, nil); res.Outcome != NoMatch {
		t.Errorf("Outcome = %v, want no-match", res.Outcome)
	}
}

func TestSessionRealTimer(t *testing.T) {
	table := chordTable(t)
	done := make(chan Snapshot, 1)
	s := NewSession(WithTimeout(20*time.Millisecond), WithTimeoutHandler(func(snap Snapshot) {
		done <- snap
	}))

	s.OnKeystroke(ctrlK, table, nil)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout handler not called")
	}
	if s.State() != Idle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestSessionConcurrentKeystrokes(t *testing.T) {
	table := chordTable(t)
	s := NewSession(WithTimeout(time.Millisecond))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ks := ctrlK
				if (i+j)%2 == 0 {
					ks = ctrlS
				}
				res := s.OnKeystroke(ks, table, nil)
				if res.Outcome == Matched && res.CommandID == "" {
					t.Error("matched without command id")
					return
				}
				_ = s.Indicator()
			}
		}(i)
	}
	wg.Wait()
	s.Reset()
	if s.State() != Idle {
		t.Errorf("State() = %v after Reset, want idle", s.State())
	}
}

func TestOutcomeStrings(t *testing.T) {
	names := map[Outcome]string{
		NoMatch: "no-match", Matched: "matched", Pending: "pending",
		ChordCancelled: "chord-cancelled", Cancelled: "cancelled", TimedOut: "timed-out",
	}
	for o, want := range names {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, got, want)
		}
	}
	if Idle.String() != "idle" || AwaitingNext.String() != "awaiting-next" {
		t.Error("State strings")
	}
}
