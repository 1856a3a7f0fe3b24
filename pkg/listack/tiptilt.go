package listack

import(
	"fmt"
	"math/rand"

	"github.com/luckyimaging/listack/pkg/limath"
)

// TipTiltConfig drives the injector. Exactly one source of shifts is
// needed: either SigmaPx (independent Gaussian draws per axis) or an
// explicit Shifts array.
type TipTiltConfig struct {
	SigmaPx float64        // std dev of the random tip/tilt, in pixels, per axis
	Shifts  []ShiftVector  // explicit displacements; overrides the random draws
	Copies  int            // displaced copies to make from a single truth frame
	CropBy  int            // symmetric margin cropped after shifting, 0 to keep everything
	Seed    int64          // seeds the injector's own random source, so runs are reproducible
}

// AddTipTilt synthesizes turbulence-displaced copies of the input.
// Given a single truth frame it makes N displaced copies of it; given
// a sequence it displaces each frame once. It returns the displaced
// frames and the shifts that were applied - the ground truth for
// validating registration.
func AddTipTilt(seq []limath.Grid, cfg TipTiltConfig) ([]limath.Grid, []ShiftVector, error) {
	if len(seq) == 0 {
		return nil, nil, fmt.Errorf("%w: no truth frames supplied", ErrDegenerateInput)
	}
	if cfg.SigmaPx <= 0.0 && len(cfg.Shifts) == 0 {
		return nil, nil, fmt.Errorf("%w: either a tip/tilt sigma or explicit shifts must be specified", ErrInvalidConfig)
	}

	n := cfg.Copies
	if len(seq) > 1 {
		// One displacement per input frame
		n = len(seq)
	} else if n <= 0 {
		if len(cfg.Shifts) > 0 {
			n = len(cfg.Shifts)
		} else {
			n = 1
		}
	}
	if len(cfg.Shifts) > 0 && len(cfg.Shifts) < n {
		return nil, nil, fmt.Errorf("%w: %d frames to displace but only %d shifts supplied",
			ErrDimensionMismatch, n, len(cfg.Shifts))
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	frames := make([]limath.Grid, n)
	shifts := make([]ShiftVector, n)
	for j:=0; j<n; j++ {
		truth := seq[0]
		if len(seq) > 1 {
			truth = seq[j]
		}

		if len(cfg.Shifts) > 0 {
			shifts[j] = cfg.Shifts[j]
		} else {
			shifts[j] = ShiftVector{
				Dy: rng.NormFloat64() * cfg.SigmaPx,
				Dx: rng.NormFloat64() * cfg.SigmaPx,
			}
		}

		out := truth.ShiftBy(shifts[j].Dy, shifts[j].Dx)
		if cfg.CropBy > 0 {
			out = out.Crop(cfg.CropBy)
		}
		frames[j] = out
	}

	return frames, shifts, nil
}

// A FrameProducer supplies turbulence-degraded frame sequences. The
// wavefront/AO simulator satisfies this; the pipeline never inspects
// where the frames came from.
type FrameProducer interface {
	Frames(n int) ([]limath.Grid, error)
}

// An InjectorProducer is a FrameProducer that fakes turbulence by
// tip/tilting a truth frame. Handy for validation runs, since it
// remembers the shifts it injected.
type InjectorProducer struct {
	Truth  limath.Grid
	Cfg    TipTiltConfig

	LastShifts []ShiftVector  // ground truth from the most recent Frames call
}

func (p *InjectorProducer)Frames(n int) ([]limath.Grid, error) {
	cfg := p.Cfg
	cfg.Copies = n

	frames, shifts, err := AddTipTilt([]limath.Grid{p.Truth}, cfg)
	if err != nil {
		return nil, err
	}
	p.LastShifts = shifts
	return frames, nil
}
