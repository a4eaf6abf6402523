// Package monitor implements stuck-beam detection. It periodically
// samples each configured beam's animation scale through an injected
// Sampler; a beam whose scale stops changing for longer than its own
// cycle duration is declared stuck and handed to a recovery callback.
// Detection is advisory and per-beam; it never fails the caller.
package monitor

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/logging"
)

// Sampler reports the instantaneous animation scale of a rendered
// beam. ok is false when the beam is not currently rendered, in which
// case the monitor skips it for that tick.
type Sampler interface {
	SampleScale(id string) (scale float64, ok bool)
}

// RecoveryFunc is invoked with the id of a beam declared stuck. It runs
// outside the monitor's lock, so it may call back into the monitor.
type RecoveryFunc func(id string)

const (
	// DefaultInterval is the sampling period.
	DefaultInterval = 2 * time.Second

	// DeltaThreshold is the scale change below which a beam is
	// considered not to have moved between observations.
	DeltaThreshold = 0.01

	// EscalationResets is the cumulative reset count at which a beam's
	// stalling is reported as a persistent issue.
	EscalationResets = 3
)

// ErrAlreadyRunning is returned by Start on a running monitor.
var ErrAlreadyRunning = errors.New("monitor already running")

// sample tracks one beam id between ticks.
type sample struct {
	lastScale float64
	since     time.Time
	resets    int
}

// Stats is a read-only snapshot of the monitor's bookkeeping.
type Stats struct {
	Configured      int `json:"configured"`
	Tracked         int `json:"tracked"`
	BeamsWithResets int `json:"beamsWithResets"`
	TotalResets     int `json:"totalResets"`
}

// Monitor watches one batch of beam configurations. The tracking map
// is owned exclusively by the monitor; all access goes through its
// methods.
type Monitor struct {
	sampler  Sampler
	recovery RecoveryFunc
	clock    Clock
	log      logging.Logger
	interval time.Duration

	mu      sync.Mutex
	beams   []beam.Config
	samples map[string]*sample
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces the system clock, letting tests control elapsed time.
func WithClock(c Clock) Option {
	return func(m *Monitor) {
		m.clock = c
	}
}

// WithLogger routes the monitor's diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(m *Monitor) {
		m.log = logger
	}
}

// WithInterval overrides the sampling period. Non-positive values keep
// the default.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// New creates a Monitor sampling through sampler and recovering stuck
// beams through recovery. The monitor is idle until Start.
func New(sampler Sampler, recovery RecoveryFunc, opts ...Option) *Monitor {
	m := &Monitor{
		sampler:  sampler,
		recovery: recovery,
		clock:    SystemClock{},
		log:      logging.NewNoop(),
		interval: DefaultInterval,
		samples:  make(map[string]*sample),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetBeams replaces the configuration set under watch. Tracking
// entries for ids no longer present are dropped. An empty set leaves
// the monitor running but idle.
func (m *Monitor) SetBeams(beams []beam.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.beams = make([]beam.Config, len(beams))
	copy(m.beams, beams)

	current := make(map[string]struct{}, len(beams))
	for _, b := range beams {
		current[b.ID] = struct{}{}
	}
	for id := range m.samples {
		if _, ok := current[id]; !ok {
			delete(m.samples, id)
		}
	}
	m.log.Debug("monitor configuration replaced", logging.Int("beams", len(beams)))
}

// Reset drops the tracking entry for id, typically after an external
// reset of that beam to its perimeter position. It reports whether the
// id is under watch at all; resetting a beam that has not been sampled
// yet is a no-op success.
func (m *Monitor) Reset(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.samples[id]; ok {
		delete(m.samples, id)
		return true
	}
	for _, b := range m.beams {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Stats returns a snapshot of the monitor's counters.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Stats{
		Configured: len(m.beams),
		Tracked:    len(m.samples),
	}
	for _, s := range m.samples {
		if s.resets > 0 {
			st.BeamsWithResets++
			st.TotalResets += s.resets
		}
	}
	return st
}

// Start launches the sampling loop. The loop stops when ctx is
// canceled or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	m.wg.Add(1)
	go m.run(runCtx)
	m.log.Info("stuck-beam monitor started", logging.Duration("interval", m.interval))
	return nil
}

// Stop halts the sampling loop and waits for it to exit. Stopping a
// monitor that is not running is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.log.Info("stuck-beam monitor stopped")
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick performs one complete synchronous pass over the configured
// beams, in configuration order. Recovery callbacks collected during
// the pass are invoked after the lock is released.
func (m *Monitor) tick() {
	m.mu.Lock()
	stuck := m.observe()
	m.mu.Unlock()

	if m.recovery == nil {
		return
	}
	for _, id := range stuck {
		m.recovery(id)
	}
}

func (m *Monitor) observe() []string {
	if len(m.beams) == 0 {
		return nil
	}

	now := m.clock.Now()
	var stuck []string
	for _, b := range m.beams {
		scale, ok := m.sampler.SampleScale(b.ID)
		if !ok {
			continue
		}

		s, tracked := m.samples[b.ID]
		if !tracked {
			m.samples[b.ID] = &sample{lastScale: scale, since: now}
			continue
		}

		if math.Abs(scale-s.lastScale) > DeltaThreshold {
			s.lastScale = scale
			s.since = now
			continue
		}

		// No meaningful movement. Stuck once the standstill outlasts
		// the beam's own cycle.
		if now.Sub(s.since) <= b.Cycle() {
			continue
		}
		s.resets++
		s.since = now
		m.log.Warn("beam appears stuck, requesting recovery",
			logging.String("id", b.ID),
			logging.Float64("scale", scale),
			logging.Int("resets", s.resets))
		if s.resets >= EscalationResets {
			m.log.Error("beam stalling persistently",
				logging.String("id", b.ID),
				logging.Int("resets", s.resets))
		}
		stuck = append(stuck, b.ID)
	}
	return stuck
}
