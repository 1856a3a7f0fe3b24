package listack

import(
	"fmt"

	"github.com/luckyimaging/listack/pkg/limath"
)

// A StackedImage is the mean-combined composite, plus how many frames
// went into it (the reference included).
type StackedImage struct {
	Image      limath.Grid
	FramesUsed int
}

func (s StackedImage)String() string {
	return fmt.Sprintf("StackedImage[%d frames, %s]", s.FramesUsed, s.Image.Stats())
}

// MeanCombine builds (reference + sum of the selected shifted frames)
// / (count + 1). A pure reduction - the inputs are never written to,
// and no quality weighting is applied beyond the selection gate.
func MeanCombine(ref limath.Grid, shifted []limath.Grid, used []int) StackedImage {
	acc := ref.Copy()
	for _, idx := range used {
		acc = acc.Plus(shifted[idx])
	}

	n := len(used) + 1
	return StackedImage{
		Image:      acc.Scale(1.0 / float64(n)),
		FramesUsed: n,
	}
}
