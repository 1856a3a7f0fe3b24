package listack

import(
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/luckyimaging/listack/pkg/limath"
)

// A Result holds the output of one shift-and-stack run: the composite
// image, plus the recovered shift for every candidate frame, in the
// original sequence order.
type Result struct {
	Stacked StackedImage
	Shifts  []ShiftVector
	Shifted []limath.Grid
}

// Run aligns and stacks a sequence against its first frame. The first
// frame becomes the reference and is excluded from the candidates.
func Run(seq []limath.Grid, cfg Config) (Result, error) {
	if len(seq) < 2 {
		return Result{}, fmt.Errorf("%w: cannot shift and stack a single frame", ErrDegenerateInput)
	}
	return RunWithReference(seq[1:], seq[0], cfg)
}

// RunWithReference aligns and stacks candidate frames against an
// explicitly supplied reference.
func RunWithReference(frames []limath.Grid, ref limath.Grid, cfg Config) (Result, error) {
	if err := cfg.Finalize(); err != nil {
		return Result{}, err
	}
	if len(frames) == 0 {
		return Result{}, fmt.Errorf("%w: no frames to align against the reference", ErrDegenerateInput)
	}
	for i, f := range frames {
		if f.Dx() != ref.Dx() || f.Dy() != ref.Dy() {
			return Result{}, fmt.Errorf("%w: frame %d is %dx%d, reference is %dx%d",
				ErrDimensionMismatch, i, f.Dy(), f.Dx(), ref.Dy(), ref.Dx())
		}
	}
	if cfg.MaxFrames > len(frames) {
		return Result{}, fmt.Errorf("%w: %d frames requested but only %d supplied",
			ErrDimensionMismatch, cfg.MaxFrames, len(frames))
	}
	if cfg.MaxFrames > 0 {
		frames = frames[:cfg.MaxFrames]
	}

	reg, err := newRegistrar(cfg, ref)
	if err != nil {
		return Result{}, err
	}

	tic := time.Now()
	regs, err := registerAll(frames, reg, cfg.mode)
	if err != nil {
		return Result{}, err
	}
	if cfg.Verbosity > 0 {
		log.Printf("registered %d frames with '%s' in %s mode: %s\n",
			len(frames), cfg.method, cfg.mode, time.Since(tic))
	}

	shifted := make([]limath.Grid, len(regs))
	shifts := make([]ShiftVector, len(regs))
	peaks := make([]float64, len(regs))
	for i, r := range regs {
		shifted[i] = r.Shifted
		shifts[i] = r.Shift
		peaks[i] = r.Peak
	}

	// Frame selection only gates the stacking; every frame still gets
	// registered and reported.
	used := allIndices(len(shifted))
	if cfg.method == PeakPixel && cfg.SelectionFrac < 1.0 {
		used = selectTopFrames(peaks, cfg.SelectionFrac)
		if cfg.Verbosity > 0 {
			log.Printf("frame selection: keeping %d of %d frames (FSR %.2f)\n",
				len(used), len(shifted), cfg.SelectionFrac)
		}
	}

	return Result{
		Stacked: MeanCombine(ref, shifted, used),
		Shifts:  shifts,
		Shifted: shifted,
	}, nil
}

// One registration task per frame. The job carries its own index, and
// results land in index-addressed slots - completion order is
// irrelevant.
type regJob struct {
	Idx   int
	Frame limath.Grid

	Reg   Registration
	Err   error
}

func registerAll(frames []limath.Grid, reg *registrar, mode ExecMode) ([]Registration, error) {
	out := make([]Registration, len(frames))

	if mode == Serial {
		for i, f := range frames {
			r, err := reg.register(f)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
			out[i] = r
		}
		return out, nil
	}

	var wg sync.WaitGroup
	jobsChan    := make(chan regJob, len(frames))
	resultsChan := make(chan regJob, len(frames))

	// Kick off worker pool
	nWorkers := 20
	for i:=0; i<nWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			for job := range jobsChan {
				job.Reg, job.Err = reg.register(job.Frame)
				resultsChan<- job
			}
		}()
	}

	// Feed in jobs
	for i, f := range frames {
		jobsChan<- regJob{Idx: i, Frame: f}
	}

	close(jobsChan)
	wg.Wait()  // the barrier - every task has finished before we read results
	close(resultsChan)

	errs := make([]error, len(frames))
	for job := range resultsChan {
		out[job.Idx] = job.Reg
		errs[job.Idx] = job.Err
	}
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return out, nil
}

func allIndices(n int) []int {
	idxs := make([]int, n)
	for i := range idxs {
		idxs[i] = i
	}
	return idxs
}
