// Package scene owns the live state of one beam field: the current
// configuration batch, each beam's animation phase, and the scale
// sampling that stuck-beam detection reads. Configuration changes
// replace the whole batch; descriptors are never mutated in place.
package scene

import (
	"sync"
	"time"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/logging"
)

// FrameBeam is one beam's drawable state at an instant.
type FrameBeam struct {
	Config  beam.Config
	Scale   float64
	Opacity float64
	Frozen  bool
}

// Scene holds a generated batch plus per-beam runtime state. All
// methods are safe for concurrent use; the render loop reads frames
// while the monitor samples scales.
type Scene struct {
	gen *beam.Generator
	log logging.Logger
	now func() time.Time

	mu        sync.RWMutex
	batch     beam.Batch
	overrides beam.Overrides
	phase     map[string]time.Time // per-beam phase origin
	frozen    map[string]time.Time // ids pinned to the instant they froze
	width     float64
	height    float64
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger routes the scene's diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(s *Scene) {
		s.log = logger
	}
}

// WithNow replaces the time source, letting tests drive the animation
// clock.
func WithNow(now func() time.Time) Option {
	return func(s *Scene) {
		s.now = now
	}
}

// New creates an empty Scene around a generator. Call Regenerate to
// populate it.
func New(gen *beam.Generator, opts ...Option) *Scene {
	s := &Scene{
		gen:    gen,
		log:    logging.NewNoop(),
		now:    time.Now,
		phase:  make(map[string]time.Time),
		frozen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Regenerate resolves the overrides against the viewport and swaps in
// a fresh batch. Every beam restarts at its perimeter phase; frozen
// pins are discarded with the old batch.
func (s *Scene) Regenerate(o beam.Overrides, viewportWidth, viewportHeight float64) beam.Batch {
	batch := s.gen.GenerateBatch(o, viewportWidth, viewportHeight)
	start := s.now()

	s.mu.Lock()
	old := s.batch.ID
	s.batch = batch
	s.overrides = o
	s.width = viewportWidth
	s.height = viewportHeight
	s.phase = make(map[string]time.Time, len(batch.Beams))
	s.frozen = make(map[string]time.Time)
	for _, b := range batch.Beams {
		s.phase[b.ID] = start
	}
	s.mu.Unlock()

	s.log.Info("scene batch replaced",
		logging.String("old", old),
		logging.String("batch", batch.ID),
		logging.Int("beams", len(batch.Beams)))
	return batch
}

// Resize regenerates the batch for new viewport dimensions, keeping
// the caller overrides from the last Regenerate.
func (s *Scene) Resize(viewportWidth, viewportHeight float64) beam.Batch {
	s.mu.RLock()
	o := s.overrides
	s.mu.RUnlock()
	return s.Regenerate(o, viewportWidth, viewportHeight)
}

// Batch returns the current batch.
func (s *Scene) Batch() beam.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch
}

// Beams returns the current batch's descriptors.
func (s *Scene) Beams() []beam.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch.Beams
}

// Viewport returns the dimensions the current batch was generated for.
func (s *Scene) Viewport() (width, height float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// SampleScale reports the instantaneous animation scale for a beam id,
// implementing the monitor's sampler capability. A frozen beam reports
// the scale pinned at freeze time.
func (s *Scene) SampleScale(id string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	origin, ok := s.phase[id]
	if !ok {
		return 0, false
	}
	cfg, ok := s.config(id)
	if !ok {
		return 0, false
	}
	t := s.now()
	if pinned, isFrozen := s.frozen[id]; isFrozen {
		t = pinned
	}
	scale, _ := animAt(cfg, origin, t)
	return scale, true
}

// FrameBeams returns the drawable state of every beam at this instant,
// in batch order.
func (s *Scene) FrameBeams() []FrameBeam {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	frame := make([]FrameBeam, 0, len(s.batch.Beams))
	for _, cfg := range s.batch.Beams {
		t := now
		pinned, isFrozen := s.frozen[cfg.ID]
		if isFrozen {
			t = pinned
		}
		scale, opacity := animAt(cfg, s.phase[cfg.ID], t)
		frame = append(frame, FrameBeam{
			Config:  cfg,
			Scale:   scale,
			Opacity: opacity,
			Frozen:  isFrozen,
		})
	}
	return frame
}

// Freeze pins a beam's animation at its current instant, simulating a
// stalled element. It reports whether the id exists in the batch.
func (s *Scene) Freeze(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.phase[id]; !ok {
		return false
	}
	s.frozen[id] = s.now()
	s.log.Debug("beam frozen", logging.String("id", id))
	return true
}

// Unfreeze releases a frozen beam without touching its phase.
func (s *Scene) Unfreeze(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.frozen[id]; !ok {
		return false
	}
	delete(s.frozen, id)
	return true
}

// UnfreezeAll releases every frozen beam.
func (s *Scene) UnfreezeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.frozen)
}

// FrozenCount returns how many beams are currently pinned.
func (s *Scene) FrozenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frozen)
}

// ResetBeam restores a beam to its perimeter phase and releases any
// freeze pin. It is the recovery hook handed to the stuck-beam
// monitor.
func (s *Scene) ResetBeam(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.phase[id]; !ok {
		return
	}
	s.phase[id] = s.now()
	delete(s.frozen, id)
	s.log.Info("beam reset to perimeter", logging.String("id", id))
}

// config looks up a descriptor by id. Callers hold s.mu.
func (s *Scene) config(id string) (beam.Config, bool) {
	for _, b := range s.batch.Beams {
		if b.ID == id {
			return b, true
		}
	}
	return beam.Config{}, false
}
