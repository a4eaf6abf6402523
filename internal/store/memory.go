package store

import "sync"

// MemoryPersistence keeps the last saved selection in process memory.
// It backs the demo surfaces, which deliberately have no durable
// persistence.
type MemoryPersistence struct {
	mu    sync.Mutex
	state State
	saved bool
}

// NewMemoryPersistence creates an empty in-memory persistence.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

// Load returns the last saved selection, if any.
func (p *MemoryPersistence) Load() (State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.saved
}

// Save records the selection.
func (p *MemoryPersistence) Save(s State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
	p.saved = true
	return nil
}
