package listack

import(
	"fmt"
	"image"

	"github.com/luckyimaging/listack/pkg/limath"
)

// A Registration is what one frame's alignment task produces.
type Registration struct {
	Shifted limath.Grid   // the candidate, resampled onto the reference's grid
	Shift   ShiftVector   // the displacement that was present in the candidate
	Peak    float64       // the candidate's peak intensity (peak_pixel only)
}

// A registrar holds everything a per-frame task needs: the method,
// its parameters, and whatever it precomputes from the reference.
// All fields are read-only once built, so one registrar is safely
// shared across all the parallel tasks.
type registrar struct {
	cfg       Config
	ref       limath.Grid

	searchIn  image.Rectangle  // peak_pixel: where to hunt for the peak
	refPeak   image.Point      // peak_pixel: reference peak location
	refCentX  float64          // centroid: reference center of mass
	refCentY  float64
}

func newRegistrar(cfg Config, ref limath.Grid) (*registrar, error) {
	r := registrar{cfg: cfg, ref: ref}

	switch cfg.method {
	case PeakPixel:
		r.searchIn = ref.Bounds()
		if cfg.SearchArea != nil {
			if !cfg.SearchArea.In(ref.Bounds()) {
				return nil, fmt.Errorf("%w: search area %v falls outside frame %v",
					ErrInvalidConfig, *cfg.SearchArea, ref.Bounds())
			}
			r.searchIn = *cfg.SearchArea
		}
		r.refPeak, _ = ref.ArgMaxIn(r.searchIn)

	case Centroid:
		if ref.Sum() == 0.0 {
			return nil, fmt.Errorf("%w: reference frame has zero total intensity, centroid undefined", ErrNumericDegeneracy)
		}
		r.refCentX, r.refCentY = ref.Centroid()

	case CrossCorrelation:
		h, w := ref.Dy(), ref.Dx()
		if h-2*cfg.CorrMargin < 3 || w-2*cfg.CorrMargin < 3 {
			return nil, fmt.Errorf("%w: correlation margin %d leaves no interior in a %dx%d frame",
				ErrInvalidConfig, cfg.CorrMargin, h, w)
		}
	}

	return &r, nil
}

// register aligns one candidate frame against the reference. It only
// reads the registrar and the frame, and returns fresh data - nothing
// shared gets written.
func (r *registrar)register(frame limath.Grid) (Registration, error) {
	switch r.cfg.method {
	case PeakPixel:
		return r.registerPeakPixel(frame)
	case Centroid:
		return r.registerCentroid(frame)
	case CrossCorrelation:
		return r.registerXCorr(frame)
	}
	return Registration{}, fmt.Errorf("%w: no handler for method '%s'", ErrInvalidConfig, r.cfg.method)
}

func (r *registrar)registerPeakPixel(frame limath.Grid) (Registration, error) {
	peak, peakVal := frame.ArgMaxIn(r.searchIn)

	// The correction that re-aligns the candidate to the reference
	rel := ShiftVector{
		Dy: float64(r.refPeak.Y - peak.Y),
		Dx: float64(r.refPeak.X - peak.X),
	}

	return Registration{
		Shifted: frame.ShiftBy(rel.Dy, rel.Dx),
		Shift:   rel.Neg(),
		Peak:    peakVal,
	}, nil
}

func (r *registrar)registerCentroid(frame limath.Grid) (Registration, error) {
	if frame.Sum() == 0.0 {
		return Registration{}, fmt.Errorf("%w: frame has zero total intensity, centroid undefined", ErrNumericDegeneracy)
	}
	cx, cy := frame.Centroid()

	rel := ShiftVector{Dy: r.refCentY - cy, Dx: r.refCentX - cx}

	return Registration{
		Shifted: frame.ShiftBy(rel.Dy, rel.Dx),
		Shift:   rel.Neg(),
	}, nil
}

func (r *registrar)registerXCorr(frame limath.Grid) (Registration, error) {
	corr, err := correlate(r.ref, frame)
	if err != nil {
		return Registration{}, err
	}

	var rel ShiftVector
	if r.cfg.SubPixel {
		if rel, err = fitCorrelationPeak(corr, r.cfg.CorrMargin); err != nil {
			return Registration{}, err
		}
	} else {
		p, _ := corr.ArgMax()
		rel = ShiftVector{
			Dy: float64(p.Y - corr.Dy()/2),
			Dx: float64(p.X - corr.Dx()/2),
		}
	}

	return Registration{
		Shifted: frame.ShiftBy(rel.Dy, rel.Dx),
		Shift:   rel.Neg(),
	}, nil
}
