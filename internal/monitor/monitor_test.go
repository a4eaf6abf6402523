package monitor

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/logging"
)

type fakeSampler struct {
	mu     sync.Mutex
	scales map[string]float64
	order  []string
}

func newFakeSampler() *fakeSampler {
	return &fakeSampler{scales: make(map[string]float64)}
}

func (f *fakeSampler) SampleScale(id string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = append(f.order, id)
	v, ok := f.scales[id]
	return v, ok
}

func (f *fakeSampler) set(id string, scale float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scales[id] = scale
}

type recoveryRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *recoveryRecorder) recover(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *recoveryRecorder) recovered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func makeBeams(n int, cycleSeconds float64) []beam.Config {
	beams := make([]beam.Config, n)
	for i := range beams {
		beams[i] = beam.Config{
			ID:            "beam-" + strconv.Itoa(i),
			Angle:         float64(i) * (360 / float64(n)),
			StartRadius:   800,
			EndRadius:     150,
			Width:         100,
			BaseOpacity:   0.35,
			PeakOpacity:   0.5,
			BlurRadius:    22,
			CycleDuration: cycleSeconds,
		}
	}
	return beams
}

func newTestMonitor(beams []beam.Config, opts ...Option) (*Monitor, *fakeSampler, *recoveryRecorder, *MockClock) {
	sampler := newFakeSampler()
	rec := &recoveryRecorder{}
	clock := NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	opts = append([]Option{WithClock(clock)}, opts...)
	m := New(sampler, rec.recover, opts...)
	m.SetBeams(beams)
	return m, sampler, rec, clock
}

func TestFirstObservationRecordsOnly(t *testing.T) {
	m, sampler, rec, _ := newTestMonitor(makeBeams(1, 6))
	sampler.set("beam-0", 0.8)

	m.tick()

	if got := rec.recovered(); len(got) != 0 {
		t.Errorf("recoveries after first observation: %v", got)
	}
	st := m.Stats()
	if st.Tracked != 1 || st.Configured != 1 || st.TotalResets != 0 {
		t.Errorf("stats = %+v, want tracked 1, configured 1, no resets", st)
	}
}

func TestMovingBeamIsNeverStuck(t *testing.T) {
	m, sampler, rec, clock := newTestMonitor(makeBeams(1, 6))

	scale := 0.5
	sampler.set("beam-0", scale)
	m.tick()
	for i := 0; i < 10; i++ {
		clock.Advance(2 * time.Second)
		scale += 0.02
		sampler.set("beam-0", scale)
		m.tick()
	}

	if got := rec.recovered(); len(got) != 0 {
		t.Errorf("moving beam recovered: %v", got)
	}
	if st := m.Stats(); st.TotalResets != 0 {
		t.Errorf("TotalResets = %d, want 0", st.TotalResets)
	}
}

// A frozen beam fires the recovery callback once per stall of its own
// cycle duration, and its reset count climbs monotonically.
func TestFrozenBeamRecoversOncePerStall(t *testing.T) {
	m, sampler, rec, clock := newTestMonitor(makeBeams(1, 6))
	sampler.set("beam-0", 0.8)

	m.tick()
	fires := 0
	for i := 0; i < 12; i++ {
		clock.Advance(2 * time.Second)
		m.tick()
		if got := len(rec.recovered()); got < fires {
			t.Fatalf("recovery count went backwards: %d -> %d", fires, got)
		} else {
			fires = got
		}
	}

	// Ticks land every 2s; the 6s cycle is exceeded at +8s, +16s, +24s.
	if fires != 3 {
		t.Errorf("recoveries = %d, want 3", fires)
	}
	st := m.Stats()
	if st.TotalResets != 3 || st.BeamsWithResets != 1 {
		t.Errorf("stats = %+v, want 3 resets on 1 beam", st)
	}
	for _, id := range rec.recovered() {
		if id != "beam-0" {
			t.Errorf("recovered id = %q, want beam-0", id)
		}
	}
}

// Drift below the delta threshold does not count as movement.
func TestSubThresholdDriftCountsAsStuck(t *testing.T) {
	m, sampler, rec, clock := newTestMonitor(makeBeams(1, 6))

	sampler.set("beam-0", 0.5)
	m.tick()
	for i := 1; i <= 4; i++ {
		clock.Advance(2 * time.Second)
		sampler.set("beam-0", 0.5+float64(i)*0.001)
		m.tick()
	}

	if got := rec.recovered(); len(got) != 1 {
		t.Errorf("recoveries = %v, want exactly one", got)
	}
}

func TestRecoveryFollowsConfigurationOrder(t *testing.T) {
	beams := makeBeams(3, 6)
	m, sampler, rec, clock := newTestMonitor(beams)
	for _, b := range beams {
		sampler.set(b.ID, 1.0)
	}

	m.tick()
	clock.Advance(7 * time.Second)
	m.tick()

	want := []string{"beam-0", "beam-1", "beam-2"}
	got := rec.recovered()
	if len(got) != len(want) {
		t.Fatalf("recovered %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recovered %v, want %v", got, want)
		}
	}
}

func TestManualResetDropsTracking(t *testing.T) {
	m, sampler, rec, clock := newTestMonitor(makeBeams(1, 6))
	sampler.set("beam-0", 0.8)

	m.tick()
	clock.Advance(7 * time.Second)
	m.tick()
	if got := len(rec.recovered()); got != 1 {
		t.Fatalf("recoveries = %d, want 1", got)
	}

	if !m.Reset("beam-0") {
		t.Fatal("Reset returned false for a tracked beam")
	}
	if !m.Reset("beam-0") {
		t.Error("Reset should stay true while the beam is under watch")
	}
	if m.Reset("beam-99") {
		t.Error("Reset returned true for an id outside the batch")
	}
	if st := m.Stats(); st.Tracked != 0 {
		t.Errorf("Tracked = %d after reset, want 0", st.Tracked)
	}

	// The next observation starts tracking from scratch.
	clock.Advance(2 * time.Second)
	m.tick()
	if got := len(rec.recovered()); got != 1 {
		t.Errorf("recoveries = %d after re-observation, want still 1", got)
	}
	if st := m.Stats(); st.Tracked != 1 || st.TotalResets != 0 {
		t.Errorf("stats = %+v, want fresh tracking entry", st)
	}
}

func TestSetBeamsPrunesVanishedIds(t *testing.T) {
	beams := makeBeams(2, 6)
	m, sampler, _, _ := newTestMonitor(beams)
	sampler.set("beam-0", 0.5)
	sampler.set("beam-1", 0.5)

	m.tick()
	if st := m.Stats(); st.Tracked != 2 {
		t.Fatalf("Tracked = %d, want 2", st.Tracked)
	}

	m.SetBeams(beams[:1])
	st := m.Stats()
	if st.Configured != 1 || st.Tracked != 1 {
		t.Errorf("stats = %+v, want configured 1 tracked 1", st)
	}
}

func TestUnrenderedBeamIsSkipped(t *testing.T) {
	m, _, rec, clock := newTestMonitor(makeBeams(1, 6))

	m.tick()
	clock.Advance(10 * time.Second)
	m.tick()

	if st := m.Stats(); st.Tracked != 0 {
		t.Errorf("Tracked = %d for unrendered beam, want 0", st.Tracked)
	}
	if got := rec.recovered(); len(got) != 0 {
		t.Errorf("recoveries for unrendered beam: %v", got)
	}
}

func TestPersistentStallEscalates(t *testing.T) {
	logRec := logging.NewRecorder()
	m, sampler, _, clock := newTestMonitor(makeBeams(1, 6), WithLogger(logRec))
	sampler.set("beam-0", 0.8)

	m.tick()
	for i := 0; i < 3; i++ {
		clock.Advance(7 * time.Second)
		m.tick()
	}

	if st := m.Stats(); st.TotalResets != 3 {
		t.Fatalf("TotalResets = %d, want 3", st.TotalResets)
	}
	if !logRec.Has("error", "stalling persistently") {
		t.Error("expected escalation diagnostic after repeated resets")
	}
}

func TestEmptyConfigurationIdles(t *testing.T) {
	m, _, rec, clock := newTestMonitor(nil)

	m.tick()
	clock.Advance(time.Minute)
	m.tick()

	if st := m.Stats(); st != (Stats{}) {
		t.Errorf("stats = %+v, want zero", st)
	}
	if got := rec.recovered(); len(got) != 0 {
		t.Errorf("recoveries with no beams: %v", got)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	sampler := newFakeSampler()
	sampler.set("beam-0", 1.0)
	m := New(sampler, nil, WithInterval(5*time.Millisecond))
	m.SetBeams(makeBeams(1, 6))

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}

	time.Sleep(20 * time.Millisecond)
	m.Stop()
	m.Stop()

	if st := m.Stats(); st.Tracked != 1 {
		t.Errorf("Tracked = %d after ticking, want 1", st.Tracked)
	}
}

func TestContextCancelStopsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := New(newFakeSampler(), nil, WithInterval(5*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()
	m.Stop()
}
