package beam

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/ornina-dev/beamfield/internal/logging"
)

// Generator produces beam configuration batches. The random source and
// logger are injectable; the zero options give a time-seeded source and
// silent diagnostics.
type Generator struct {
	rng *rand.Rand
	log logging.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the source for randomized visual parameters. Tests
// inject a fixed seed for reproducible batches.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

// WithLogger routes the generator's advisory diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(g *Generator) {
		g.log = logger
	}
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		log: logging.NewNoop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces one descriptor per requested beam, evenly spaced
// around the circle with ascending angles and stagger delays. Inverted
// radii yield an empty result instead of an error. Each descriptor is
// re-validated and invalid ones are dropped, so the result can be
// shorter than req.Count.
func (g *Generator) Generate(req Request) []Config {
	if req.OuterRadius <= req.InnerRadius {
		g.log.Error("beam radii inverted, nothing to generate",
			logging.Float64("outer", req.OuterRadius),
			logging.Float64("inner", req.InnerRadius))
		return nil
	}
	if req.Count < MinCount || req.Count > MaxCount {
		g.log.Warn("beam count outside expected range, using it anyway",
			logging.Int("count", req.Count))
	}
	if req.Count <= 0 {
		return nil
	}

	step := 360 / float64(req.Count)
	configs := make([]Config, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		cfg := Config{
			ID:            "beam-" + strconv.Itoa(i),
			Angle:         float64(i) * step,
			StartRadius:   req.OuterRadius,
			EndRadius:     req.InnerRadius,
			Width:         g.randRange(minWidth, maxWidth),
			BaseOpacity:   g.randRange(minBaseOpacity, maxBaseOpacity),
			PeakOpacity:   g.randRange(minPeakOpacity, maxPeakOpacity),
			BlurRadius:    g.randRange(MinBlurRadius, MaxBlurRadius),
			CycleDuration: req.CycleDuration,
			StaggerDelay:  float64(i) * req.Stagger,
		}
		if v := violations(cfg); len(v) > 0 {
			g.log.Warn("dropping invalid beam",
				logging.String("id", cfg.ID),
				logging.String("violations", strings.Join(v, "; ")))
			continue
		}
		configs = append(configs, cfg)
	}

	if len(configs) < req.Count {
		g.log.Warn("generated fewer beams than requested",
			logging.Int("requested", req.Count),
			logging.Int("generated", len(configs)))
	}
	return configs
}

func (g *Generator) randRange(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
