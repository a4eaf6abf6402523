package beam

import (
	"github.com/ornina-dev/beamfield/internal/geom"
	"github.com/ornina-dev/beamfield/internal/logging"
)

// Request fully describes one generation pass. Requests produced by
// Resolve are internally consistent; hand-built requests are accepted
// but only softly checked by Generate.
type Request struct {
	Count          int     `json:"count"`
	OuterRadius    float64 `json:"outerRadius"`
	InnerRadius    float64 `json:"innerRadius"`
	CycleDuration  float64 `json:"cycleDuration"`
	Stagger        float64 `json:"stagger"`
	ViewportWidth  float64 `json:"viewportWidth"`
	ViewportHeight float64 `json:"viewportHeight"`
}

// Overrides carries caller-supplied parameters into Resolve. Nil means
// unset, so a deliberate zero (stagger 0) survives resolution.
type Overrides struct {
	Count         *int
	OuterRadius   *float64
	InnerRadius   *float64
	CycleDuration *float64
	Stagger       *float64
}

// Resolve merges overrides with defaults into a complete request. It
// never fails: inconsistent values are replaced and out-of-range values
// clamped, each with an advisory log entry. Resolve is idempotent on
// its own output.
func (g *Generator) Resolve(o Overrides, viewportWidth, viewportHeight float64) Request {
	w, h := viewportWidth, viewportHeight
	if w <= 0 {
		w = FallbackViewportWidth
	}
	if h <= 0 {
		h = FallbackViewportHeight
	}
	if w < MinViewportWidth {
		w = MinViewportWidth
	}
	if h < MinViewportHeight {
		h = MinViewportHeight
	}
	if w != viewportWidth || h != viewportHeight {
		g.log.Debug("viewport sanitized",
			logging.Float64("width", w), logging.Float64("height", h))
	}

	req := Request{ViewportWidth: w, ViewportHeight: h}

	// The radius pair is taken verbatim only when fully and consistently
	// specified. A partial or inverted pair silently falls back to the
	// responsive pair for the sanitized viewport.
	if o.OuterRadius != nil && o.InnerRadius != nil &&
		*o.InnerRadius > 0 && *o.OuterRadius > *o.InnerRadius {
		req.OuterRadius = *o.OuterRadius
		req.InnerRadius = *o.InnerRadius
	} else {
		req.OuterRadius, req.InnerRadius = geom.ResponsiveRadii(w, h)
		if o.OuterRadius != nil || o.InnerRadius != nil {
			g.log.Warn("radius overrides unusable, using responsive radii",
				logging.Float64("outer", req.OuterRadius),
				logging.Float64("inner", req.InnerRadius))
		}
	}

	req.Count = DefaultCount
	if o.Count != nil {
		req.Count = *o.Count
	}
	if clamped := clampInt(req.Count, MinCount, MaxCount); clamped != req.Count {
		g.log.Warn("beam count clamped",
			logging.Int("requested", req.Count), logging.Int("count", clamped))
		req.Count = clamped
	}

	req.CycleDuration = DefaultCycleDuration
	if o.CycleDuration != nil {
		req.CycleDuration = *o.CycleDuration
	}
	if clamped := geom.Clamp(req.CycleDuration, MinCycleDuration, MaxCycleDuration); clamped != req.CycleDuration {
		g.log.Warn("cycle duration clamped",
			logging.Float64("requested", req.CycleDuration), logging.Float64("cycleDuration", clamped))
		req.CycleDuration = clamped
	}

	req.Stagger = DefaultStagger
	if o.Stagger != nil {
		req.Stagger = *o.Stagger
	}
	if clamped := geom.Clamp(req.Stagger, MinStagger, MaxStagger); clamped != req.Stagger {
		g.log.Warn("stagger clamped",
			logging.Float64("requested", req.Stagger), logging.Float64("stagger", clamped))
		req.Stagger = clamped
	}

	return req
}

// AsOverrides converts a request back into fully-set overrides,
// preserving it verbatim through another Resolve.
func (r Request) AsOverrides() Overrides {
	return Overrides{
		Count:         &r.Count,
		OuterRadius:   &r.OuterRadius,
		InnerRadius:   &r.InnerRadius,
		CycleDuration: &r.CycleDuration,
		Stagger:       &r.Stagger,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
