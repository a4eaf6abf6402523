package store

import (
	"sync"

	"github.com/ornina-dev/beamfield/internal/logging"
)

// Persistence keeps the selection between sessions. Load reports
// ok=false when nothing usable is stored.
type Persistence interface {
	Load() (State, bool)
	Save(State) error
}

// Applier receives every accepted state transition, e.g. to restyle a
// running renderer. Appliers run synchronously on the mutating call.
type Applier func(State)

// Store serializes transitions over one State and fans them out to
// persistence and appliers.
type Store struct {
	mu       sync.RWMutex
	state    State
	persist  Persistence
	appliers []Applier
	log      logging.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPersistence wires a persistence port. The stored selection is
// loaded (and normalized) at construction.
func WithPersistence(p Persistence) StoreOption {
	return func(s *Store) {
		s.persist = p
	}
}

// WithApplier registers an effect applier.
func WithApplier(fn Applier) StoreOption {
	return func(s *Store) {
		s.appliers = append(s.appliers, fn)
	}
}

// WithStoreLogger routes the store's diagnostics.
func WithStoreLogger(logger logging.Logger) StoreOption {
	return func(s *Store) {
		s.log = logger
	}
}

// NewStore creates a Store starting from the persisted selection when
// one exists, the defaults otherwise.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state: DefaultState(),
		log:   logging.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.persist != nil {
		if loaded, ok := s.persist.Load(); ok {
			normalized := Normalize(loaded)
			if normalized != loaded {
				s.log.Warn("persisted selection invalid, falling back to defaults",
					logging.String("theme", string(loaded.Theme)),
					logging.String("language", string(loaded.Language)))
			}
			s.state = normalized
		}
	}
	return s
}

// State returns the current selection.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ToggleTheme switches between dark and light.
func (s *Store) ToggleTheme() State {
	return s.transition(func(cur State) State { return ToggleTheme(cur) })
}

// SetTheme selects a theme.
func (s *Store) SetTheme(t Theme) State {
	return s.transition(func(cur State) State { return SetTheme(cur, t) })
}

// ToggleLanguage switches between English and Arabic.
func (s *Store) ToggleLanguage() State {
	return s.transition(func(cur State) State { return ToggleLanguage(cur) })
}

// SetLanguage selects a language.
func (s *Store) SetLanguage(l Language) State {
	return s.transition(func(cur State) State { return SetLanguage(cur, l) })
}

// transition applies a reducer and, if the state changed, persists the
// result and notifies appliers. A failing persistence write keeps the
// in-memory transition.
func (s *Store) transition(reduce func(State) State) State {
	s.mu.Lock()
	next := reduce(s.state)
	if next == s.state {
		s.mu.Unlock()
		return next
	}
	s.state = next
	appliers := s.appliers
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Save(next); err != nil {
			s.log.Warn("persisting selection failed", logging.Err(err))
		}
	}
	for _, apply := range appliers {
		apply(next)
	}
	s.log.Debug("selection changed",
		logging.String("theme", string(next.Theme)),
		logging.String("language", string(next.Language)))
	return next
}
