package logging

// Noop implements Logger by discarding everything.
type Noop struct{}

// NewNoop creates a logger that drops all messages.
func NewNoop() Noop {
	return Noop{}
}

func (Noop) Debug(msg string, fields ...Field) {}
func (Noop) Info(msg string, fields ...Field)  {}
func (Noop) Warn(msg string, fields ...Field)  {}
func (Noop) Error(msg string, fields ...Field) {}
