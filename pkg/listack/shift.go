package listack

import(
	"fmt"
	"math"
)

// A ShiftVector is a (row, column) displacement. The pipeline reports
// the shift that was applied to align a candidate to the reference,
// so a recovered shift compares directly against an injected one.
type ShiftVector struct {
	Dy float64
	Dx float64
}

func (v ShiftVector)Neg() ShiftVector {
	return ShiftVector{Dy: -v.Dy, Dx: -v.Dx}
}

func (v ShiftVector)Minus(o ShiftVector) ShiftVector {
	return ShiftVector{Dy: v.Dy - o.Dy, Dx: v.Dx - o.Dx}
}

// Norm is the Euclidean length of the vector.
func (v ShiftVector)Norm() float64 {
	return math.Sqrt(v.Dy*v.Dy + v.Dx*v.Dx)
}

func (v ShiftVector)String() string {
	return fmt.Sprintf("(%6.2f,%6.2f)", v.Dy, v.Dx)
}
