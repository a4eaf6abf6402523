package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit       bool
	Escape     bool
	Help       bool
	Regenerate bool
	Freeze     bool
	Unfreeze   bool
	Theme      bool
	Language   bool
	Left       bool
	Right      bool
	Up         bool
	Down       bool
	Number     int
	Pressed    []byte
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit       time.Time
	escape     time.Time
	help       time.Time
	regenerate time.Time
	freeze     time.Time
	unfreeze   time.Time
	theme      time.Time
	language   time.Time
	left       time.Time
	right      time.Time
	up         time.Time
	down       time.Time
	number     time.Time
	numberVal  int
}

// Stream delivers input bytes via a channel and tracks key state so held keys
// repeat across frames.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
	now    func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the
// stream. The goroutine exits when the reader does, which ReadInput reports
// as a quit.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
		now:   time.Now,
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
// Key state persists for a short hold window so a press registers on the
// frame that follows it.
func ReadInput(s *Stream) Input {
	now := s.now()
	var buf []byte

	// Drain all available bytes
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				continue
			}
			buf = append(buf, b)
		default:
			goto parse
		}
	}

parse:
	// Parse the collected bytes and update key state timestamps
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// Check for escape sequences (arrow keys, etc.)
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			// CSI sequence: ESC [ <code>
			switch buf[i+2] {
			case 'A': // Up arrow
				s.state.up = now
				i += 2
				continue
			case 'B': // Down arrow
				s.state.down = now
				i += 2
				continue
			case 'C': // Right arrow
				s.state.right = now
				i += 2
				continue
			case 'D': // Left arrow
				s.state.left = now
				i += 2
				continue
			}
		}

		// Single byte handling - update key state
		applyByteToState(&s.state, b, now)
	}

	// Build input from key state - keys are "pressed" if seen within hold duration
	input := Input{
		Quit:       s.closed || now.Sub(s.state.quit) < keyHoldDuration,
		Escape:     now.Sub(s.state.escape) < keyHoldDuration,
		Help:       now.Sub(s.state.help) < keyHoldDuration,
		Regenerate: now.Sub(s.state.regenerate) < keyHoldDuration,
		Freeze:     now.Sub(s.state.freeze) < keyHoldDuration,
		Unfreeze:   now.Sub(s.state.unfreeze) < keyHoldDuration,
		Theme:      now.Sub(s.state.theme) < keyHoldDuration,
		Language:   now.Sub(s.state.language) < keyHoldDuration,
		Left:       now.Sub(s.state.left) < keyHoldDuration,
		Right:      now.Sub(s.state.right) < keyHoldDuration,
		Up:         now.Sub(s.state.up) < keyHoldDuration,
		Down:       now.Sub(s.state.down) < keyHoldDuration,
		Number:     -1,
		Pressed:    buf,
	}

	// Number is only set if recently pressed
	if now.Sub(s.state.number) < keyHoldDuration {
		input.Number = s.state.numberVal
	}

	return input
}

// ResetKeyInput clears all key state, e.g. when switching screens so a held
// key doesn't leak into the next one.
func ResetKeyInput(s *Stream) {
	s.state = keyState{numberVal: -1}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case '?':
		state.help = now
	case 'r', 'R':
		state.regenerate = now
	case 'f', 'F':
		state.freeze = now
	case 'u', 'U':
		state.unfreeze = now
	case 't', 'T':
		state.theme = now
	case 'g', 'G':
		state.language = now
	case 'h', 'H':
		state.left = now
	case 'l', 'L':
		state.right = now
	case 'k', 'K':
		state.up = now
	case 'j', 'J':
		state.down = now
	case '\x1b':
		state.escape = now
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		state.number = now
		state.numberVal = int(b - '0')
	}
}
