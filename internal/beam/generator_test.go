package beam

import (
	"math/rand"
	"reflect"
	"strconv"
	"testing"

	"github.com/ornina-dev/beamfield/internal/logging"
)

func testGenerator(seed int64) *Generator {
	return NewGenerator(WithRand(rand.New(rand.NewSource(seed))))
}

func TestGenerateEvenDistribution(t *testing.T) {
	g := testGenerator(1)
	req := Request{
		Count:          16,
		OuterRadius:    800,
		InnerRadius:    150,
		CycleDuration:  6,
		Stagger:        0.15,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
	}

	beams := g.Generate(req)
	if len(beams) != 16 {
		t.Fatalf("got %d beams, want 16", len(beams))
	}
	for i, b := range beams {
		if want := "beam-" + strconv.Itoa(i); b.ID != want {
			t.Errorf("beam %d: ID = %q, want %q", i, b.ID, want)
		}
		if want := float64(i) * 22.5; !almostEqual(b.Angle, want) {
			t.Errorf("beam %d: angle = %v, want %v", i, b.Angle, want)
		}
		if b.StartRadius != 800 || b.EndRadius != 150 {
			t.Errorf("beam %d: radii = (%v, %v), want (800, 150)", i, b.StartRadius, b.EndRadius)
		}
		if b.CycleDuration != 6 {
			t.Errorf("beam %d: cycleDuration = %v, want 6", i, b.CycleDuration)
		}
		if want := float64(i) * 0.15; !almostEqual(b.StaggerDelay, want) {
			t.Errorf("beam %d: staggerDelay = %v, want %v", i, b.StaggerDelay, want)
		}
		if !Validate(b) {
			t.Errorf("beam %d failed validation: %+v", i, b)
		}
	}
}

func TestGenerateRandomizedParametersStayInDomain(t *testing.T) {
	g := testGenerator(7)
	req := Request{Count: 36, OuterRadius: 900, InnerRadius: 120, CycleDuration: 7, Stagger: 0.1}

	for _, b := range g.Generate(req) {
		if b.Width < 80 || b.Width > 120 {
			t.Errorf("%s: width %v outside [80,120]", b.ID, b.Width)
		}
		if b.BaseOpacity < 0.3 || b.BaseOpacity > 0.4 {
			t.Errorf("%s: baseOpacity %v outside [0.3,0.4]", b.ID, b.BaseOpacity)
		}
		if b.PeakOpacity < 0.4 || b.PeakOpacity > 0.55 {
			t.Errorf("%s: peakOpacity %v outside [0.4,0.55]", b.ID, b.PeakOpacity)
		}
		if b.PeakOpacity < b.BaseOpacity {
			t.Errorf("%s: peakOpacity %v below baseOpacity %v", b.ID, b.PeakOpacity, b.BaseOpacity)
		}
		if b.BlurRadius < 18 || b.BlurRadius > 28 {
			t.Errorf("%s: blurRadius %v outside [18,28]", b.ID, b.BlurRadius)
		}
	}
}

func TestGenerateInvertedRadiiReturnsEmpty(t *testing.T) {
	rec := logging.NewRecorder()
	g := NewGenerator(WithRand(rand.New(rand.NewSource(2))), WithLogger(rec))

	beams := g.Generate(Request{Count: 24, OuterRadius: 100, InnerRadius: 200, CycleDuration: 6, Stagger: 0.15})
	if len(beams) != 0 {
		t.Fatalf("got %d beams for inverted radii, want 0", len(beams))
	}
	if !rec.Has("error", "radii inverted") {
		t.Error("expected diagnostic about inverted radii")
	}
}

// A count outside [16,36] reaching the generator directly is flagged
// but honored; clamping belongs to the resolver alone.
func TestGenerateOutOfRangeCountUsedLiterally(t *testing.T) {
	rec := logging.NewRecorder()
	g := NewGenerator(WithRand(rand.New(rand.NewSource(3))), WithLogger(rec))

	beams := g.Generate(Request{Count: 12, OuterRadius: 800, InnerRadius: 150, CycleDuration: 6, Stagger: 0.1})
	if len(beams) != 12 {
		t.Fatalf("got %d beams, want 12", len(beams))
	}
	for i, b := range beams {
		if want := float64(i) * 30; !almostEqual(b.Angle, want) {
			t.Errorf("beam %d: angle = %v, want %v", i, b.Angle, want)
		}
	}
	if !rec.Has("warn", "outside expected range") {
		t.Error("expected advisory about out-of-range count")
	}
}

func TestGenerateZeroCount(t *testing.T) {
	g := testGenerator(4)
	if beams := g.Generate(Request{Count: 0, OuterRadius: 800, InnerRadius: 150, CycleDuration: 6}); len(beams) != 0 {
		t.Errorf("got %d beams for zero count, want 0", len(beams))
	}
}

// An out-of-domain cycle duration smuggled past the resolver fails
// every descriptor; the generator drops them all and reports it.
func TestGenerateDropsInvalidDescriptors(t *testing.T) {
	rec := logging.NewRecorder()
	g := NewGenerator(WithRand(rand.New(rand.NewSource(5))), WithLogger(rec))

	beams := g.Generate(Request{Count: 16, OuterRadius: 800, InnerRadius: 150, CycleDuration: 3, Stagger: 0.15})
	if len(beams) != 0 {
		t.Fatalf("got %d beams, want 0", len(beams))
	}
	if !rec.Has("warn", "dropping invalid beam") {
		t.Error("expected per-beam drop diagnostics")
	}
	if !rec.Has("warn", "fewer beams than requested") {
		t.Error("expected generation summary diagnostic")
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	req := Request{Count: 24, OuterRadius: 800, InnerRadius: 150, CycleDuration: 6, Stagger: 0.15}

	a := testGenerator(42).Generate(req)
	b := testGenerator(42).Generate(req)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different batches")
	}

	c := testGenerator(43).Generate(req)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds produced identical batches")
	}
}

func TestGenerateBatch(t *testing.T) {
	g := testGenerator(6)

	b1 := g.GenerateBatch(Overrides{}, 1920, 1080)
	b2 := g.GenerateBatch(Overrides{}, 1920, 1080)

	if b1.ID == "" || b2.ID == "" {
		t.Fatal("batch without id")
	}
	if b1.ID == b2.ID {
		t.Error("consecutive batches share an id")
	}
	if b1.CreatedAt.IsZero() {
		t.Error("batch without creation time")
	}
	if b1.Request.Count != DefaultCount {
		t.Errorf("resolved count = %d, want %d", b1.Request.Count, DefaultCount)
	}
	if len(b1.Beams) != DefaultCount {
		t.Errorf("got %d beams, want %d", len(b1.Beams), DefaultCount)
	}
}
