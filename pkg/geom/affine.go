package geom

import "math"

// Affine is a 2D affine transform:
//
//	| A B C |
//	| D E F |
//	| 0 0 1 |
//
// x' = A*x + B*y + C, y' = D*x + E*y + F.
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, E: 1}
}

// Translate returns a translation.
func Translate(x, y float64) Affine {
	return Affine{A: 1, C: x, E: 1, F: y}
}

// Scale returns a scaling about the origin.
func Scale(sx, sy float64) Affine {
	return Affine{A: sx, E: sy}
}

// Rotate returns a rotation about the origin by angle radians. With y down
// a positive angle turns clockwise on screen.
func Rotate(angle float64) Affine {
	s, c := math.Sincos(angle)
	return Affine{A: c, B: -s, D: s, E: c}
}

// Then returns the transform that applies m first and then n.
func (m Affine) Then(n Affine) Affine {
	return n.Multiply(m)
}

// Multiply returns m * o, which applies o first and then m.
func (m Affine) Multiply(o Affine) Affine {
	return Affine{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// Apply transforms p.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// ApplyAll transforms every point into a new slice.
func (m Affine) ApplyAll(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = m.Apply(p)
	}
	return out
}

// Det returns the determinant of the linear part.
func (m Affine) Det() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse transform. ok is false when m is singular.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m.Det()
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	id := 1 / det
	return Affine{
		A: m.E * id,
		B: -m.B * id,
		C: (m.B*m.F - m.E*m.C) * id,
		D: -m.D * id,
		E: m.A * id,
		F: (m.D*m.C - m.A*m.F) * id,
	}, true
}

// ScaleFactor returns the uniform scale of m, sqrt(|det|).
func (m Affine) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.Det()))
}
