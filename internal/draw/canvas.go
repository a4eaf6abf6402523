package draw

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/ornina-dev/beamfield/internal/geom"
)

// Canvas is an intensity buffer the terminal renderer quantizes through a
// shade ramp. Cells accumulate by max, so overlapping beams brighten instead
// of over-saturating. Supports scaling from logical viewport coordinates to
// terminal cells.
type Canvas struct {
	termWidth  int       // Actual terminal columns
	termHeight int       // Actual terminal rows
	cells      []float64 // Flat slice: [row * termWidth + col], intensity 0..1
	emitted    []rune    // Glyph last written per cell, for frame diffing

	// Scaling from logical to cell coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // termHeight / logicalHeight

	// Offset for positioning the render area inside the terminal.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	ramp Ramp

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder // Buffer for batching render output
	scaledBuf       []geom.Point    // Reusable buffer for fillPolygon scaled points
	intersectionBuf []float64       // Reusable buffer for scanline intersections
	polygonBuf      []geom.Point    // Reusable buffer for polygon point generation
}

// NewCanvas creates a canvas for the given terminal dimensions with a 1:1
// mapping between logical coordinates and cells.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to
// terminal cells. logicalWidth/Height define the viewport coordinate space
// beams are generated for; termWidth/Height are the actual terminal area.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		termWidth:     termWidth,
		termHeight:    termHeight,
		cells:         make([]float64, termWidth*termHeight),
		emitted:       make([]rune, termWidth*termHeight),
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		scaleX:        float64(termWidth) / logicalWidth,
		scaleY:        float64(termHeight) / logicalHeight,
		ramp:          Shades,
	}
	c.ForceRedraw()
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. Callers should clear the terminal after an actual size
// change; the fresh buffers assume a blank screen.
func (c *Canvas) Resize(termWidth, termHeight int) {
	// Reallocate if size changed
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.cells = make([]float64, termWidth*termHeight)
		c.emitted = make([]rune, termWidth*termHeight)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.ForceRedraw()
	}

	// Update scale factors
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(termHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for positioning the canvas.
// Offsets are 0-based terminal positions: the canvas starts at
// (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// SetRamp swaps the shade ramp. Cells whose glyph changes under the new ramp
// are naturally re-emitted on the next Render.
func (c *Canvas) SetRamp(r Ramp) {
	if len(r) == 0 {
		return
	}
	c.ramp = r
}

// Clear resets all cell intensities for the next frame.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// ForceRedraw marks the terminal as freshly cleared so the next Render
// repaints every occupied cell. Pair with ClearScreen.
func (c *Canvas) ForceRedraw() {
	for i := range c.emitted {
		c.emitted[i] = ' '
	}
}

// MarkTextDirty flags width cells starting at 1-based canvas position
// (col, row) as overwritten by text, so the next Render repaints them even
// when their intensity is unchanged.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	y := row - 1
	if y < 0 || y >= c.termHeight {
		return
	}
	for i := 0; i < width; i++ {
		x := col - 1 + i
		if x < 0 || x >= c.termWidth {
			continue
		}
		c.emitted[y*c.termWidth+x] = 0
	}
}

// addCell raises a cell's intensity at actual terminal coordinates.
func (c *Canvas) addCell(x, y int, v float64) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.termHeight {
		idx := y*c.termWidth + x
		if v > c.cells[idx] {
			c.cells[idx] = v
		}
	}
}

// Add raises the intensity at logical coordinates (applies scaling).
func (c *Canvas) Add(x, y, v float64) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.addCell(px, py, v)
}

// DrawLine draws a line at the given intensity using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to cells.
func (c *Canvas) DrawLine(p1, p2 geom.Point, v float64) {
	// Scale to cell coordinates for drawing
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.addCell(x1, y1, v)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon at the given intensity. If filled is true, the
// interior is filled using a scanline pass; the outline is always drawn so
// thin shapes stay visible between scanlines.
func (c *Canvas) DrawPolygon(points []geom.Point, v float64, filled bool) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, v)
	}

	// Draw outline
	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], v)
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in cell space for proper scaling.
func (c *Canvas) fillPolygon(points []geom.Point, v float64) {
	// Reuse or grow scaled points buffer
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]geom.Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	// Scale points to cell coordinates
	for i, p := range points {
		scaled[i] = geom.Point{
			X: p.X * c.scaleX,
			Y: p.Y * c.scaleY,
		}
	}

	// Find bounding box in cell space
	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	yStart := int(math.Floor(minY))
	yEnd := int(math.Ceil(maxY))

	// Scanline fill in cell space
	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		// Reuse intersection buffer
		intersections := c.intersectionBuf[:0]

		// Find intersections with all edges
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]

			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				x := p1.X + t*(p2.X-p1.X)
				intersections = append(intersections, x)
			}
		}

		// Store back in case it grew
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := int(math.Ceil(intersections[i]))
			xEnd := int(math.Floor(intersections[i+1]))
			for x := xStart; x <= xEnd; x++ {
				c.addCell(x, y, v)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render quantizes each cell through the ramp and writes the glyphs that
// changed since the previous frame, positioned with ANSI cursor sequences.
func (c *Canvas) Render(w io.Writer) {
	// Reset and pre-grow buffer for better performance
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 12) // Estimate ~12 bytes per cell

	for row := 0; row < c.termHeight; row++ {
		rowOffset := row * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			ch := c.ramp.Glyph(c.cells[rowOffset+col])
			if ch == c.emitted[rowOffset+col] {
				continue // Skip unchanged cells
			}
			c.emitted[rowOffset+col] = ch

			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH%c", row+1+c.offsetRow, col+1+c.offsetCol, ch)
		}
	}

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// LogicalWidth returns the logical width (viewport resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (viewport resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position
// (col, row). This is useful for placing text overlays at positions matching
// canvas-drawn shapes.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py + 1
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
// This avoids per-frame allocations for polygon rendering.
// Thread-safe as long as each goroutine uses its own Canvas instance.
func (c *Canvas) BorrowPoints(n int) []geom.Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]geom.Point, n)
	}
	return c.polygonBuf[:n]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
