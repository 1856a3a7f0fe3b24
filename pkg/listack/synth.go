package listack

import(
	"math"

	"github.com/luckyimaging/listack/pkg/limath"
)

// PointSource renders a noiseless Gaussian blob - the closest thing
// to an ideal star the pipeline ever needs. Validation runs tip/tilt
// one of these and check the shifts come back.
func PointSource(w, h int, cy, cx, sigma, amplitude float64) limath.Grid {
	g := limath.NewGrid(w, h)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			dy := float64(y) - cy
			dx := float64(x) - cx
			g.Set(x, y, amplitude * math.Exp(-(dy*dy + dx*dx) / (2 * sigma * sigma)))
		}
	}
	return g
}
