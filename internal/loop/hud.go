package loop

import (
	"fmt"

	"github.com/ornina-dev/beamfield/internal/geom"
	"github.com/ornina-dev/beamfield/internal/monitor"
	"github.com/ornina-dev/beamfield/internal/scene"
	"github.com/ornina-dev/beamfield/internal/store"
)

// hudLabels is the status-line vocabulary for one language.
type hudLabels struct {
	title  string
	batch  string
	beams  string
	frozen string
	resets string
	hint   string
}

var hudText = map[store.Language]hudLabels{
	store.LangEnglish: {
		title:  "ORNINA",
		batch:  "batch",
		beams:  "beams",
		frozen: "frozen",
		resets: "resets",
		hint:   "? help",
	},
	store.LangArabic: {
		title:  "أورنينا",
		batch:  "دفعة",
		beams:  "أشعة",
		frozen: "مجمدة",
		resets: "إعادة",
		hint:   "مساعدة ?",
	},
}

// drawFrame draws the current frame: beams on the canvas, then the
// selection marker and status line, or the help screen instead.
func (l *Loop) drawFrame() error {
	st := l.site.State()
	l.applyTheme(st.Theme)

	// On overlay or language transitions, do a full terminal clear so
	// text from the previous layout doesn't persist on screen.
	if l.showHelp != l.prevHelp || st.Language != l.prevLang {
		l.cw.WriteString("\033[H\033[2J")
		l.canvas.ForceRedraw()
		l.prevHelp = l.showHelp
		l.prevLang = st.Language
	}

	if l.showHelp {
		l.drawHelp()
		return l.cw.Flush()
	}

	l.canvas.Clear()
	frame := l.scene.FrameBeams()
	for _, fb := range frame {
		fb.Draw(l.canvas)
	}
	l.canvas.Render(l.cw)

	l.drawSelection(frame)
	l.drawStatus(st, frame)

	return l.cw.Flush()
}

// drawSelection labels the selected beam just past its animated tip.
// Marks the covered cells dirty so the canvas overwrites them next
// frame, preventing stale text when the tip moves.
func (l *Loop) drawSelection(frame []scene.FrameBeam) {
	if l.selected < 0 || l.selected >= len(frame) {
		return
	}
	fb := frame[l.selected]
	cfg := fb.Config

	label := cfg.ID
	if fb.Frozen {
		label += " [frozen]"
	}

	center := geom.Point{X: l.canvas.LogicalWidth() / 2, Y: l.canvas.LogicalHeight() / 2}
	tip := geom.PolarToCartesian(cfg.Angle, cfg.StartRadius*fb.Scale+cfg.BlurRadius+24, center)
	col, row := l.canvas.LogicalToTerminal(tip.X, tip.Y)

	// Clamp to the canvas area
	termWidth := l.canvas.TerminalWidth()
	termHeight := l.canvas.TerminalHeight()
	if row < 1 {
		row = 1
	}
	if row > termHeight {
		row = termHeight
	}
	if col < 1 {
		col = 1
	}
	if col+len(label) > termWidth {
		col = termWidth - len(label)
		if col < 1 {
			col = 1
		}
	}

	l.cw.WriteAt(col, row, label)
	l.canvas.MarkTextDirty(col, row, len(label))
}

// drawStatus draws the status row below the canvas: batch counters on
// one side, the selected beam and key hint on the other. Numbers use
// fixed-width formatting so shrinking values don't leave residual
// characters on screen. RTL languages swap the sides.
func (l *Loop) drawStatus(st store.State, frame []scene.FrameBeam) {
	txt := hudText[st.Language]

	batchID := l.scene.Batch().ID
	if len(batchID) > 8 {
		batchID = batchID[:8]
	}

	var stats monitor.Stats
	if l.mon != nil {
		stats = l.mon.Stats()
	}

	selectedID := "-"
	if l.selected >= 0 && l.selected < len(frame) {
		selectedID = frame[l.selected].Config.ID
	}

	counters := fmt.Sprintf("%s  %s %-8s  %s %-3d  %s %-2d  %s %-4d",
		txt.title,
		txt.batch, batchID,
		txt.beams, len(frame),
		txt.frozen, l.scene.FrozenCount(),
		txt.resets, stats.TotalResets)
	hint := fmt.Sprintf("%-9s  %s", selectedID, txt.hint)

	termWidth := l.canvas.TerminalWidth()
	row := l.canvas.TerminalHeight() + hudRows

	left, right := counters, hint
	if st.Language.Dir() == "rtl" {
		left, right = right, left
	}

	l.cw.WriteAt(2, row, clipRunes(left, termWidth-2))
	rightRunes := []rune(right)
	if col := termWidth - len(rightRunes); col > 1 {
		l.cw.WriteAt(col, row, right)
	}
}

// clipRunes truncates s to at most n display runes.
func clipRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// drawHelp draws the centered key reference.
func (l *Loop) drawHelp() {
	lines := []string{
		"ORNINA BEAMFIELD",
		"",
		"r  . . . . . regenerate batch",
		"< >  . . . . select beam",
		"^ v  . . . . beam count",
		"5-8  . . . . cycle seconds",
		"f  . . . . . freeze selected",
		"u  . . . . . unfreeze all",
		"t  . . . . . toggle theme",
		"g  . . . . . toggle language",
		"?  . . . . . close help",
		"q  . . . . . quit",
	}

	centerX := l.canvas.TerminalWidth() / 2
	centerY := (l.canvas.TerminalHeight() + hudRows) / 2
	startY := centerY - len(lines)/2
	if startY < 1 {
		startY = 1
	}

	for i, line := range lines {
		col := centerX - len(line)/2
		if col < 1 {
			col = 1
		}
		l.cw.WriteAt(col, startY+i, line)
	}
}
