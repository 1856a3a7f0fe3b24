package limath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A Grid is a rectangular field of float64 intensity samples, with
// some operations. It's how we hold frames throughout the pipeline -
// the intensity values have no units, they're whatever the detector
// simulation rendered.
type Grid struct {
	stride int
	values []float64
}

func NewGrid(w, h int) Grid {
	return Grid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g1 Grid)NewFromThis() Grid       { return NewGrid(g1.Dx(), g1.Dy()) }
func (g *Grid)Set(x, y int, v float64)  { g.values[g.stride*y + x] = v }
func (g *Grid)Get(x, y int) float64     { return g.values[g.stride*y + x] }
func (g *Grid)Dx() int                  { return g.stride }
func (g *Grid)Dy() int                  { return len(g.values) / g.stride }
func (g *Grid)Bounds() image.Rectangle  { return image.Rectangle{Max:image.Point{g.Dx(), g.Dy()}} }

func (g1 Grid)Copy() Grid {
	g2 := Grid{stride: g1.stride, values:make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return g2
}

func (g *Grid)Sum() float64 {
	tot := 0.0
	for i:=0; i<len(g.values); i++ {
		tot += g.values[i]
	}
	return tot
}

// ArgMax returns the location and the value of the brightest sample.
// Ties go to the first sample in row-major order.
func (g *Grid)ArgMax() (image.Point, float64) {
	return g.ArgMaxIn(g.Bounds())
}

// ArgMaxIn restricts the search to the sub-window `r`, which must lie
// inside the grid. The returned point is in whole-grid coordinates.
func (g *Grid)ArgMaxIn(r image.Rectangle) (image.Point, float64) {
	best := image.Point{r.Min.X, r.Min.Y}
	max := g.Get(r.Min.X, r.Min.Y)

	for y:=r.Min.Y; y<r.Max.Y; y++ {
		for x:=r.Min.X; x<r.Max.X; x++ {
			if v := g.Get(x, y); v > max {
				max = v
				best = image.Point{x, y}
			}
		}
	}
	return best, max
}

// Centroid is the intensity-weighted center of mass (first moments
// over the zeroth). The caller must rule out a zero-sum grid first;
// here it would divide by zero.
func (g *Grid)Centroid() (float64, float64) {
	m00, m10, m01 := 0.0, 0.0, 0.0
	for y:=0; y<g.Dy(); y++ {
		for x:=0; x<g.Dx(); x++ {
			v := g.Get(x, y)
			m00 += v
			m10 += float64(x) * v
			m01 += float64(y) * v
		}
	}
	return m10 / m00, m01 / m00
}

func (g1 Grid)Plus(g2 Grid) Grid {
	out := g1.Copy()
	for i:=0; i<len(out.values); i++ {
		out.values[i] += g2.values[i]
	}
	return out
}

func (g1 Grid)Scale(f float64) Grid {
	out := g1.Copy()
	for i:=0; i<len(out.values); i++ {
		out.values[i] *= f
	}
	return out
}

// SubGrid copies out the window `r`, which must lie inside the grid.
func (g1 Grid)SubGrid(r image.Rectangle) Grid {
	g2 := NewGrid(r.Dx(), r.Dy())
	for y:=0; y<r.Dy(); y++ {
		for x:=0; x<r.Dx(); x++ {
			g2.Set(x, y, g1.Get(x + r.Min.X, y + r.Min.Y))
		}
	}
	return g2
}

// Crop drops `margin` samples from each edge - used to discard the
// zero-filled border a resampling shift drags in.
func (g1 Grid)Crop(margin int) Grid {
	b := g1.Bounds()
	return g1.SubGrid(image.Rectangle{
		Min: image.Point{b.Min.X + margin, b.Min.Y + margin},
		Max: image.Point{b.Max.X - margin, b.Max.Y - margin},
	})
}

// Warp resamples the grid through the affine transform `m`, which
// maps output locations to the source locations they pull from.
// Bilinear interpolation, zero fill off the edges.
func (g1 Grid)Warp(m Aff3) Grid {
	g2 := g1.NewFromThis()
	for y:=0; y<g2.Dy(); y++ {
		for x:=0; x<g2.Dx(); x++ {
			sx, sy := m.Apply(float64(x), float64(y))
			g2.Set(x, y, g1.bilinear(sx, sy))
		}
	}
	return g2
}

// ShiftBy translates the grid contents by (dy,dx) - positive values
// move intensity down and to the right.
func (g Grid)ShiftBy(dy, dx float64) Grid {
	return g.Warp(Identity().Translate(-dx, -dy))
}

func (g *Grid)bilinear(fx, fy float64) float64 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	wx := fx - float64(x0)
	wy := fy - float64(y0)

	v := 0.0
	v += g.at0(x0,   y0)   * (1-wx) * (1-wy)
	v += g.at0(x0+1, y0)   * wx     * (1-wy)
	v += g.at0(x0,   y0+1) * (1-wx) * wy
	v += g.at0(x0+1, y0+1) * wx     * wy
	return v
}

func (g *Grid)at0(x, y int) float64 {
	if x < 0 || y < 0 || x >= g.Dx() || y >= g.Dy() {
		return 0.0
	}
	return g.Get(x, y)
}

func (g *Grid)Stats() string {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0 ; i<len(g.values) ; i++ {
		if g.values[i] > max { max = g.values[i] }
		if g.values[i] < min { min = g.values[i] }
	}
	return fmt.Sprintf("g[%dx%d, vals{%f,%f}]", g.Dx(), g.Dy(), min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the grid, and gamma scaling the
// gray to look normal for human vision
func (g *Grid)ToImg(title, filename string) {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for i:=0; i<len(g.values); i++ {
		if g.values[i] > max { max = g.values[i] }
		if g.values[i] < min { min = g.values[i] }
	}
	if max == min { max = min + 1 }

	img := image.NewRGBA64(g.Bounds())
	for x:=0; x<g.Dx(); x++ {
		for y:=0; y<g.Dy(); y++ {
			gray := GammaExpand_F64((g.Get(x,y) - min) / (max - min))
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,1,1)
	dc.DrawString(title, 10, 12)
	dc.SavePNG(filename)
}
