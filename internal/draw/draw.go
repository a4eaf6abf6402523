package draw

import "math"

// Ramp maps a cell intensity to a glyph, ordered from empty to brightest.
type Ramp []rune

var (
	// Shades is the default ramp for dark terminal backgrounds.
	Shades = Ramp{' ', '░', '▒', '▓', '█'}

	// SoftShades caps at a medium block so the field reads dimmer, for
	// terminals with light backgrounds where full blocks turn into heavy ink.
	SoftShades = Ramp{' ', '·', '░', '▒', '▓'}
)

// Glyph returns the ramp rune for an intensity between 0.0 (empty) and 1.0
// (brightest). Any positive intensity maps to at least the faintest visible
// glyph so dim halos don't vanish entirely.
func (r Ramp) Glyph(intensity float64) rune {
	if intensity <= 0 {
		return r[0]
	}
	if intensity >= 1 {
		return r[len(r)-1]
	}
	idx := int(math.Ceil(intensity * float64(len(r)-1)))
	return r[idx]
}
