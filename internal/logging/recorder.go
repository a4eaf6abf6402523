package logging

import (
	"strings"
	"sync"
)

// Entry is a captured log call.
type Entry struct {
	Level  string
	Msg    string
	Fields []Field
}

// Recorder implements Logger by capturing entries in memory. It backs
// assertions about advisory diagnostics in tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Debug(msg string, fields ...Field) { r.append("debug", msg, fields) }
func (r *Recorder) Info(msg string, fields ...Field)  { r.append("info", msg, fields) }
func (r *Recorder) Warn(msg string, fields ...Field)  { r.append("warn", msg, fields) }
func (r *Recorder) Error(msg string, fields ...Field) { r.append("error", msg, fields) }

func (r *Recorder) append(level, msg string, fields []Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: fields})
}

// Entries returns a copy of everything captured so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many entries were captured at the given level.
func (r *Recorder) Count(level string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Has reports whether an entry at the given level contains substr in its message.
func (r *Recorder) Has(level, substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Level == level && strings.Contains(e.Msg, substr) {
			return true
		}
	}
	return false
}
