package input

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/keybind/internal/input/chord"
)

const latencySamples = 1000

// Metrics tracks input processing counters and latency.
type Metrics struct {
	// Counters
	keystrokesTotal  atomic.Uint64
	commandsTotal    atomic.Uint64
	noMatches        atomic.Uint64
	chordsPending    atomic.Uint64
	chordCancels     atomic.Uint64
	escapeCancels    atomic.Uint64
	chordTimeouts    atomic.Uint64
	droppedCommands  atomic.Uint64
	hookConsumptions atomic.Uint64

	// Latency tracking
	mu                 sync.RWMutex
	keyLatencies       []time.Duration
	commandLatencies   []time.Duration
	keyLatencyIdx      int
	commandLatencyIdx  int
	peakKeyLatency     atomic.Int64
	peakCommandLatency atomic.Int64

	startTime time.Time
	enabled   atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		keyLatencies:     make([]time.Duration, latencySamples),
		commandLatencies: make([]time.Duration, latencySamples),
		startTime:        time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

// RecordOutcome counts a keystroke outcome.
func (m *Metrics) RecordOutcome(o chord.Outcome) {
	if !m.enabled.Load() {
		return
	}
	switch o {
	case chord.Matched:
		m.commandsTotal.Add(1)
	case chord.NoMatch:
		m.noMatches.Add(1)
	case chord.Pending:
		m.chordsPending.Add(1)
	case chord.ChordCancelled:
		m.chordCancels.Add(1)
	case chord.Cancelled:
		m.escapeCancels.Add(1)
	case chord.TimedOut:
		m.chordTimeouts.Add(1)
	}
}

// RecordKeystroke records a keystroke with its processing time.
func (m *Metrics) RecordKeystroke(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}
	m.keystrokesTotal.Add(1)
	storePeak(&m.peakKeyLatency, latency)

	m.mu.Lock()
	m.keyLatencies[m.keyLatencyIdx] = latency
	m.keyLatencyIdx = (m.keyLatencyIdx + 1) % latencySamples
	m.mu.Unlock()
}

// RecordCommand records command delivery time.
func (m *Metrics) RecordCommand(latency time.Duration) {
	if !m.enabled.Load() {
		return
	}
	storePeak(&m.peakCommandLatency, latency)

	m.mu.Lock()
	m.commandLatencies[m.commandLatencyIdx] = latency
	m.commandLatencyIdx = (m.commandLatencyIdx + 1) % latencySamples
	m.mu.Unlock()
}

func storePeak(peak *atomic.Int64, latency time.Duration) {
	ns := latency.Nanoseconds()
	for {
		current := peak.Load()
		if ns <= current || peak.CompareAndSwap(current, ns) {
			return
		}
	}
}

// RecordDroppedCommand records a command dropped because the channel was full.
func (m *Metrics) RecordDroppedCommand() {
	if !m.enabled.Load() {
		return
	}
	m.droppedCommands.Add(1)
}

// RecordHookConsumption records when a hook consumes a keystroke or command.
func (m *Metrics) RecordHookConsumption() {
	if !m.enabled.Load() {
		return
	}
	m.hookConsumptions.Add(1)
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	// Counters
	KeystrokesTotal  uint64
	CommandsTotal    uint64
	NoMatches        uint64
	ChordsPending    uint64
	ChordCancels     uint64
	EscapeCancels    uint64
	ChordTimeouts    uint64
	DroppedCommands  uint64
	HookConsumptions uint64

	// Latency stats
	AvgKeyLatency  time.Duration
	MaxKeyLatency  time.Duration
	P99KeyLatency  time.Duration
	PeakKeyLatency time.Duration

	AvgCommandLatency  time.Duration
	P99CommandLatency  time.Duration
	PeakCommandLatency time.Duration

	// Rates
	KeystrokesPerSecond float64

	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	keyLatencies := make([]time.Duration, len(m.keyLatencies))
	copy(keyLatencies, m.keyLatencies)
	commandLatencies := make([]time.Duration, len(m.commandLatencies))
	copy(commandLatencies, m.commandLatencies)
	uptime := time.Since(m.startTime)
	m.mu.RUnlock()

	keyCount := m.keystrokesTotal.Load()
	snap := MetricsSnapshot{
		KeystrokesTotal:    keyCount,
		CommandsTotal:      m.commandsTotal.Load(),
		NoMatches:          m.noMatches.Load(),
		ChordsPending:      m.chordsPending.Load(),
		ChordCancels:       m.chordCancels.Load(),
		EscapeCancels:      m.escapeCancels.Load(),
		ChordTimeouts:      m.chordTimeouts.Load(),
		DroppedCommands:    m.droppedCommands.Load(),
		HookConsumptions:   m.hookConsumptions.Load(),
		PeakKeyLatency:     time.Duration(m.peakKeyLatency.Load()),
		PeakCommandLatency: time.Duration(m.peakCommandLatency.Load()),
		Uptime:             uptime,
	}

	if uptime > 0 {
		snap.KeystrokesPerSecond = float64(keyCount) / uptime.Seconds()
	}

	snap.AvgKeyLatency, snap.MaxKeyLatency, snap.P99KeyLatency = calculateLatencyStats(keyLatencies)
	snap.AvgCommandLatency, _, snap.P99CommandLatency = calculateLatencyStats(commandLatencies)

	return snap
}

// calculateLatencyStats computes average, max, and p99 from a slice of latencies.
func calculateLatencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
		if l > maxLat {
			maxLat = l
		}
	}
	avg = sum / time.Duration(len(valid))

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })
	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	p99 = valid[idx]

	return avg, maxLat, p99
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keystrokesTotal.Store(0)
	m.commandsTotal.Store(0)
	m.noMatches.Store(0)
	m.chordsPending.Store(0)
	m.chordCancels.Store(0)
	m.escapeCancels.Store(0)
	m.chordTimeouts.Store(0)
	m.droppedCommands.Store(0)
	m.hookConsumptions.Store(0)
	m.peakKeyLatency.Store(0)
	m.peakCommandLatency.Store(0)

	m.mu.Lock()
	m.keyLatencies = make([]time.Duration, latencySamples)
	m.commandLatencies = make([]time.Duration, latencySamples)
	m.keyLatencyIdx = 0
	m.commandLatencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}

// HealthStatus represents the current health of input processing.
type HealthStatus struct {
	Healthy          bool
	DroppedCommands  uint64
	PeakLatency      time.Duration
	LatencyThreshold time.Duration
	Message          string
}

// HealthCheck returns the current health status.
func (m *Metrics) HealthCheck(latencyThreshold time.Duration) HealthStatus {
	status := HealthStatus{
		Healthy:          true,
		DroppedCommands:  m.droppedCommands.Load(),
		PeakLatency:      time.Duration(m.peakKeyLatency.Load()),
		LatencyThreshold: latencyThreshold,
		Message:          "healthy",
	}

	switch {
	case status.DroppedCommands > 0:
		status.Healthy = false
		status.Message = "dropped commands detected"
	case status.PeakLatency > latencyThreshold:
		status.Healthy = false
		status.Message = "latency threshold exceeded"
	}
	return status
}

// LatencyTimer measures an operation's duration.
type LatencyTimer struct {
	start   time.Time
	metrics *Metrics
}

// StartKeystrokeTimer starts a timer for keystroke processing.
func (m *Metrics) StartKeystrokeTimer() *LatencyTimer {
	return &LatencyTimer{start: time.Now(), metrics: m}
}

// StartCommandTimer starts a timer for command delivery.
func (m *Metrics) StartCommandTimer() *LatencyTimer {
	return &LatencyTimer{start: time.Now(), metrics: m}
}

// Stop records the elapsed time as keystroke latency.
func (t *LatencyTimer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordKeystroke(elapsed)
	return elapsed
}

// StopCommand records the elapsed time as command latency.
func (t *LatencyTimer) StopCommand() time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordCommand(elapsed)
	return elapsed
}
