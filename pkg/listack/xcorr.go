package listack

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/optimize"

	"github.com/luckyimaging/listack/pkg/limath"
)

// correlate computes the full 2-D correlation of `img` against `ref`
// (conv of ref with img reflected about both axes), cropped back to
// the frame size, and normalized by its maximum. A perfectly-aligned
// pair peaks at the surface's center.
//
// The FFTs run on a pow2 grid big enough for linear convolution, so
// nothing wraps around.
func correlate(ref, img limath.Grid) (limath.Grid, error) {
	h, w := ref.Dy(), ref.Dx()

	fh := nextPow2(2*h - 1)
	fw := nextPow2(2*w - 1)

	a := make([]complex128, fh*fw)
	b := make([]complex128, fh*fw)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			a[y*fw + x] = complex(ref.Get(x, y), 0)
			b[y*fw + x] = complex(img.Get(w-1-x, h-1-y), 0)  // reflect about both axes
		}
	}

	fft2(a, fh, fw, true)
	fft2(b, fh, fw, true)
	for i:=0; i<len(a); i++ {
		a[i] *= b[i]
	}
	fft2(a, fh, fw, false)

	// Gonum's transforms are unnormalized: forward then inverse scales by N
	scale := float64(fh * fw)

	// Centered crop of the full (2h-1 x 2w-1) surface back to h x w
	sy, sx := (h-1)/2, (w-1)/2
	corr := limath.NewGrid(w, h)
	max := 0.0
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			v := real(a[(y+sy)*fw + (x+sx)]) / scale
			corr.Set(x, y, v)
			if v > max { max = v }
		}
	}

	// The fitting does not work if the pixels have large values, so
	// normalize - but a flat zero surface has nothing to normalize by.
	if max == 0.0 {
		return corr, fmt.Errorf("%w: correlation surface has zero maximum", ErrNumericDegeneracy)
	}
	return corr.Scale(1.0 / max), nil
}

// fitCorrelationPeak least-squares fits a 2-D Gaussian to the
// interior of the correlation surface (a fixed margin excluded from
// each edge, where the zero padding pollutes things). The fitted
// center, offset from the surface's geometric center, is the
// sub-pixel shift estimate.
func fitCorrelationPeak(corr limath.Grid, margin int) (ShiftVector, error) {
	h, w := corr.Dy(), corr.Dx()
	cy, cx := h/2, w/2

	interior := corr.Bounds()
	interior.Min.X += margin
	interior.Min.Y += margin
	interior.Max.X -= margin
	interior.Max.Y -= margin

	// Params: amplitude, y mean, x mean, y stddev, x stddev.
	// Start at the integer peak with unit widths.
	p0, _ := corr.ArgMaxIn(interior)
	x0 := []float64{1.0, float64(p0.Y - cy), float64(p0.X - cx), 1.0, 1.0}

	problem := optimize.Problem{
		Func: func(par []float64) float64 {
			amp, my, mx := par[0], par[1], par[2]
			sy2 := par[3] * par[3]
			sx2 := par[4] * par[4]
			if sy2 < 1e-9 { sy2 = 1e-9 }
			if sx2 < 1e-9 { sx2 = 1e-9 }

			sse := 0.0
			for y:=interior.Min.Y; y<interior.Max.Y; y++ {
				for x:=interior.Min.X; x<interior.Max.X; x++ {
					dy := float64(y - cy) - my
					dx := float64(x - cx) - mx
					model := amp * math.Exp(-(dy*dy/(2*sy2) + dx*dx/(2*sx2)))
					resid := model - corr.Get(x, y)
					sse += resid * resid
				}
			}
			return sse
		},
	}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return ShiftVector{}, fmt.Errorf("%w: correlation peak fit failed: %v", ErrNumericDegeneracy, err)
	}

	return ShiftVector{Dy: result.X[1], Dx: result.X[2]}, nil
}

// 2-D FFT over a row-major slice: rows then columns.
func fft2(a []complex128, h, w int, forward bool) {
	rowFFT := fourier.NewCmplxFFT(w)
	colFFT := fourier.NewCmplxFFT(h)

	for y:=0; y<h; y++ {
		row := a[y*w : (y+1)*w]
		if forward {
			rowFFT.Coefficients(row, row)
		} else {
			rowFFT.Sequence(row, row)
		}
	}

	col := make([]complex128, h)
	for x:=0; x<w; x++ {
		for y:=0; y<h; y++ {
			col[y] = a[y*w + x]
		}
		if forward {
			colFFT.Coefficients(col, col)
		} else {
			colFFT.Sequence(col, col)
		}
		for y:=0; y<h; y++ {
			a[y*w + x] = col[y]
		}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
