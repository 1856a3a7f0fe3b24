package listack

import(
	"fmt"

	"github.com/skypies/util/histogram"
	"gonum.org/v1/gonum/stat"
)

// MisalignThreshold is how far (in pixels) a recovered shift may
// deviate from the injected one before we call the frame misaligned.
const MisalignThreshold = 0.1

// An AlignmentErrorReport quantifies how well the recovered shifts
// match known injected ones. Purely diagnostic - nothing feeds back
// into registration.
type AlignmentErrorReport struct {
	Injected      []ShiftVector
	Recovered     []ShiftVector
	PerFrame      []float64  // Euclidean deviation, per frame
	NumMisaligned int        // frames whose deviation exceeds MisalignThreshold
	Mean          float64

	Dist          histogram.Histogram  // deviations in hundredths of a pixel
}

// AnalyzeAlignment compares two index-aligned shift arrays - the
// ground truth that was injected, and what registration recovered.
func AnalyzeAlignment(injected, recovered []ShiftVector) (AlignmentErrorReport, error) {
	if len(injected) != len(recovered) {
		return AlignmentErrorReport{}, fmt.Errorf("%w: %d injected shifts vs %d recovered",
			ErrDimensionMismatch, len(injected), len(recovered))
	}

	r := AlignmentErrorReport{
		Injected:  injected,
		Recovered: recovered,
		PerFrame:  make([]float64, len(injected)),
		Dist:      histogram.Histogram{NumBuckets: 50, ValMin: 0, ValMax: 100},
	}

	for k := range injected {
		r.PerFrame[k] = injected[k].Minus(recovered[k]).Norm()
		if r.PerFrame[k] > MisalignThreshold {
			r.NumMisaligned++
		}
		r.Dist.Add(histogram.ScalarVal(int(r.PerFrame[k] * 100.0)))
	}
	r.Mean = stat.Mean(r.PerFrame, nil)

	return r, nil
}

// String renders the per-frame table of injected vs recovered shifts.
func (r AlignmentErrorReport)String() string {
	str := "------------------------------------------------\n"
	str += "Tip/tilt coordinates\nInput\t\tOutput\t\tError\n"
	str += "------------------------------------------------\n"
	for k := range r.PerFrame {
		str += fmt.Sprintf("%s\t%s\t%4.2f\n", r.Injected[k], r.Recovered[k], r.PerFrame[k])
	}
	str += "------------------------------------------------\n"
	str += fmt.Sprintf("\t\t\tMean\t%4.2f  (%d/%d misaligned, dist %v)\n",
		r.Mean, r.NumMisaligned, len(r.PerFrame), r.Dist)
	return str
}
