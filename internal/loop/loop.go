// Package loop runs an interactive terminal session over a beam scene:
// it polls input, advances the animation, and streams frame diffs to
// the terminal. Each session owns its canvas and input stream, so SSH
// connections and the local preview share the same loop.
package loop

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/ornina-dev/beamfield/internal/beam"
	"github.com/ornina-dev/beamfield/internal/draw"
	"github.com/ornina-dev/beamfield/internal/input"
	"github.com/ornina-dev/beamfield/internal/logging"
	"github.com/ornina-dev/beamfield/internal/monitor"
	"github.com/ornina-dev/beamfield/internal/scene"
	"github.com/ornina-dev/beamfield/internal/store"
)

// Rendering cadence. Beam cycles run for seconds, so a modest frame
// rate keeps SSH traffic low without visible stepping.
const (
	TargetFPS       = 30
	TargetFrameTime = time.Second / TargetFPS
)

// hudRows is the number of terminal rows reserved below the canvas for
// status text.
const hudRows = 1

// Options configures a session loop.
type Options struct {
	Scene   *scene.Scene
	Monitor *monitor.Monitor // optional; stats read and beams registered when set
	Site    *store.Store     // optional; ephemeral defaults when nil

	// Viewport the beams are generated for, in logical pixels. Zero
	// values resolve to the standard fallback viewport.
	ViewportWidth  float64
	ViewportHeight float64

	Overrides    beam.Overrides
	TermSizeFunc draw.TermSizeFunc
	Logger       logging.Logger
}

// Loop drives one terminal session.
type Loop struct {
	scene  *scene.Scene
	mon    *monitor.Monitor
	site   *store.Store
	canvas *draw.Canvas
	cw     *draw.ChunkWriter
	stream *input.Stream
	writer io.Writer
	sizeFn draw.TermSizeFunc
	log    logging.Logger

	overrides beam.Overrides
	running   bool
	showHelp  bool
	prevHelp  bool
	prevLang  store.Language
	selected  int
}

// New creates a session loop reading keys from r and writing frames to w.
// It generates the initial batch and registers it with the monitor.
func New(r *bufio.Reader, w io.Writer, opts Options) *Loop {
	sizeFn := opts.TermSizeFunc
	if sizeFn == nil {
		sizeFn = draw.DefaultTermSizeFunc
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNoop()
	}
	site := opts.Site
	if site == nil {
		site = store.NewStore()
	}

	batch := opts.Scene.Regenerate(opts.Overrides, opts.ViewportWidth, opts.ViewportHeight)
	if opts.Monitor != nil {
		opts.Monitor.SetBeams(batch.Beams)
	}

	termWidth, termHeight, _ := sizeFn()
	rows := termHeight - hudRows
	if rows < 1 {
		rows = 1
	}
	req := batch.Request
	canvas := draw.NewScaledCanvas(termWidth, rows, req.ViewportWidth, req.ViewportHeight)

	l := &Loop{
		scene:     opts.Scene,
		mon:       opts.Monitor,
		site:      site,
		canvas:    canvas,
		cw:        draw.NewChunkWriter(w, 0, 0),
		stream:    input.StartStream(r),
		writer:    w,
		sizeFn:    sizeFn,
		log:       log,
		overrides: opts.Overrides,
		running:   true,
		prevLang:  site.State().Language,
	}
	l.applyTheme(site.State().Theme)
	return l
}

// Run starts the session loop. Blocks until the viewer quits, the input
// stream closes, or ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	draw.HideCursor(l.writer)
	defer draw.ShowCursor(l.writer)
	draw.ClearScreen(l.writer)

	for l.running {
		select {
		case <-ctx.Done():
			l.running = false
			continue
		default:
		}

		frameStart := time.Now()

		l.handleInput(input.ReadInput(l.stream))
		l.updateScreen()

		if err := l.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < TargetFrameTime {
			time.Sleep(TargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(l.writer)
	return nil
}

// handleInput applies one frame's input to the session.
func (l *Loop) handleInput(in input.Input) {
	switch {
	case in.Quit:
		l.running = false
		return
	case in.Escape:
		if !l.showHelp {
			l.running = false
			return
		}
		l.showHelp = false
		input.ResetKeyInput(l.stream)
	case in.Help:
		l.showHelp = !l.showHelp
		input.ResetKeyInput(l.stream)
	}
	if l.showHelp {
		return
	}

	beams := l.scene.Beams()

	switch {
	case in.Regenerate:
		l.regenerate(l.overrides)
	case in.Up:
		count := len(beams) + 1
		o := l.overrides
		o.Count = &count
		l.regenerate(o)
	case in.Down:
		count := len(beams) - 1
		o := l.overrides
		o.Count = &count
		l.regenerate(o)
	case in.Number >= 0:
		secs := float64(in.Number)
		o := l.overrides
		o.CycleDuration = &secs
		l.regenerate(o)
	case in.Left:
		if len(beams) > 0 {
			l.selected = (l.selected + len(beams) - 1) % len(beams)
		}
	case in.Right:
		if len(beams) > 0 {
			l.selected = (l.selected + 1) % len(beams)
		}
	case in.Freeze:
		if l.selected >= 0 && l.selected < len(beams) {
			l.scene.Freeze(beams[l.selected].ID)
		}
	case in.Unfreeze:
		l.scene.UnfreezeAll()
	case in.Theme:
		l.site.ToggleTheme()
	case in.Language:
		l.site.ToggleLanguage()
	}
}

// regenerate swaps in a fresh batch for the same viewport and points the
// monitor at its descriptors.
func (l *Loop) regenerate(o beam.Overrides) {
	width, height := l.scene.Viewport()
	batch := l.scene.Regenerate(o, width, height)
	l.overrides = o
	if l.mon != nil {
		l.mon.SetBeams(batch.Beams)
	}
	if l.selected >= len(batch.Beams) {
		l.selected = 0
	}
}

// updateScreen handles terminal resize. On actual size changes, clears
// the terminal so residual cells outside the new canvas area disappear.
func (l *Loop) updateScreen() {
	termWidth, termHeight, err := l.sizeFn()
	if err != nil {
		return
	}
	rows := termHeight - hudRows
	if rows < 1 {
		rows = 1
	}

	if termWidth != l.canvas.TerminalWidth() || rows != l.canvas.TerminalHeight() {
		draw.ClearScreen(l.writer)
	}
	l.canvas.Resize(termWidth, rows)
}

// applyTheme maps the site theme onto a shade ramp.
func (l *Loop) applyTheme(t store.Theme) {
	if t == store.ThemeLight {
		l.canvas.SetRamp(draw.SoftShades)
	} else {
		l.canvas.SetRamp(draw.Shades)
	}
}
