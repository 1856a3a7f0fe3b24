package listack

import(
	"errors"
	"image"
	"math"
	"testing"

	"github.com/luckyimaging/listack/pkg/limath"
)

func testTruth() limath.Grid {
	return PointSource(64, 64, 32, 32, 2.0, 1000.0)
}

func injectExplicit(t *testing.T, truth limath.Grid, shifts []ShiftVector) []limath.Grid {
	t.Helper()
	frames, _, err := AddTipTilt([]limath.Grid{truth}, TipTiltConfig{Shifts: shifts})
	if err != nil {
		t.Fatalf("AddTipTilt: %v", err)
	}
	return frames
}

func TestPeakPixelRecoversShifts(t *testing.T) {
	truth := testTruth()
	injected := []ShiftVector{{3, -2}, {0, 5}, {-4, 1}}
	frames := injectExplicit(t, truth, injected)

	cfg := NewConfig()
	cfg.Method = "peak_pixel"

	result, err := RunWithReference(frames, truth, cfg)
	if err != nil {
		t.Fatalf("RunWithReference: %v", err)
	}

	for k, rec := range result.Shifts {
		if e := injected[k].Minus(rec).Norm(); e > MisalignThreshold {
			t.Fatalf("frame %d: injected %s, recovered %s, error %f", k, injected[k], rec, e)
		}
	}
}

func TestPeakPixelSearchArea(t *testing.T) {
	truth := testTruth()
	// A decoy star outside the search sub-window, brighter than the target
	for y:=2; y<6; y++ {
		for x:=2; x<6; x++ {
			truth.Set(x, y, 5000.0)
		}
	}

	injected := []ShiftVector{{2, 3}}
	frames := injectExplicit(t, truth, injected)

	area := image.Rect(16, 16, 48, 48)
	cfg := NewConfig()
	cfg.Method = "peak_pixel"
	cfg.SearchArea = &area

	result, err := RunWithReference(frames, truth, cfg)
	if err != nil {
		t.Fatalf("RunWithReference: %v", err)
	}
	if e := injected[0].Minus(result.Shifts[0]).Norm(); e > MisalignThreshold {
		t.Fatalf("sub-window registration missed: recovered %s, wanted %s", result.Shifts[0], injected[0])
	}
}

func TestCentroidRoundTrip(t *testing.T) {
	truth := testTruth()
	injected := []ShiftVector{{2.5, -1.5}, {-0.75, 0.25}}
	frames := injectExplicit(t, truth, injected)

	cfg := NewConfig()
	cfg.Method = "centroid"

	result, err := RunWithReference(frames, truth, cfg)
	if err != nil {
		t.Fatalf("RunWithReference: %v", err)
	}

	// Bilinear resampling moves the center of mass by exactly the
	// shift, so centroid registration round-trips to fp precision.
	for k, rec := range result.Shifts {
		if e := injected[k].Minus(rec).Norm(); e > 1e-6 {
			t.Fatalf("frame %d: injected %s, recovered %s, error %g", k, injected[k], rec, e)
		}
	}
}

func TestCentroidZeroIntensityReference(t *testing.T) {
	ref := limath.NewGrid(16, 16)
	frames := []limath.Grid{PointSource(16, 16, 8, 8, 1.0, 1.0)}

	cfg := NewConfig()
	cfg.Method = "centroid"

	_, err := RunWithReference(frames, ref, cfg)
	if !errors.Is(err, ErrNumericDegeneracy) {
		t.Fatalf("expected ErrNumericDegeneracy, got %v", err)
	}
}

func TestCentroidZeroIntensityCandidate(t *testing.T) {
	truth := testTruth()
	frames := []limath.Grid{limath.NewGrid(64, 64)}

	cfg := NewConfig()
	cfg.Method = "centroid"

	_, err := RunWithReference(frames, truth, cfg)
	if !errors.Is(err, ErrNumericDegeneracy) {
		t.Fatalf("expected ErrNumericDegeneracy, got %v", err)
	}
}

func TestShiftVectorNorm(t *testing.T) {
	v := ShiftVector{Dy: 3, Dx: 4}
	if v.Norm() != 5.0 {
		t.Fatalf("got %f, wanted 5", v.Norm())
	}
	if n := v.Minus(v).Norm(); n != 0.0 {
		t.Fatalf("self difference should be zero, got %f", n)
	}
	if math.Abs(v.Neg().Dy + 3) > 0 {
		t.Fatalf("Neg broken: %s", v.Neg())
	}
}
