package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologFieldMapping(t *testing.T) {
	var buf bytes.Buffer
	logger := Wrap(zerolog.New(&buf))

	logger.Info("beam generated",
		String("id", "beam-3"),
		Int("count", 24),
		Float64("angle", 22.5),
		Bool("clamped", true),
		Duration("elapsed", 2*time.Second),
		Err(errors.New("boom")),
	)

	out := buf.String()
	for _, want := range []string{
		`"message":"beam generated"`,
		`"id":"beam-3"`,
		`"count":24`,
		`"angle":22.5`,
		`"clamped":true`,
		`"error":"boom"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	rec.Warn("count outside expected range", Int("count", 40))
	rec.Info("batch replaced")
	rec.Warn("beam stuck")

	if got := rec.Count("warn"); got != 2 {
		t.Errorf("Count(warn) = %d, want 2", got)
	}
	if !rec.Has("warn", "outside expected range") {
		t.Error("expected warn entry about range")
	}
	if rec.Has("error", "anything") {
		t.Error("unexpected error entry")
	}
	if got := len(rec.Entries()); got != 3 {
		t.Errorf("Entries() len = %d, want 3", got)
	}
}

func TestNoopDoesNotPanic(t *testing.T) {
	var logger Logger = NewNoop()
	logger.Debug("a")
	logger.Info("b", String("k", "v"))
	logger.Warn("c")
	logger.Error("d", Err(errors.New("x")))
}
