package vecmath

import "math"

// Mat2x2 is a row-major 2x2 matrix.
type Mat2x2 struct {
	M00, M01 float64
	M10, M11 float64
}

// Rotation returns {cos θ, sin θ, -sin θ, cos θ}. Applied to a vector it
// turns it clockwise by theta.
func Rotation(theta float64) Mat2x2 {
	s, c := math.Sincos(theta)
	return Mat2x2{c, s, -s, c}
}

func (m Mat2x2) MulVec(v Vec2) Vec2 {
	return Vec2{m.M00*v.X + m.M01*v.Y, m.M10*v.X + m.M11*v.Y}
}

func (m Mat2x2) Mul(n Mat2x2) Mat2x2 {
	return Mat2x2{
		m.M00*n.M00 + m.M01*n.M10, m.M00*n.M01 + m.M01*n.M11,
		m.M10*n.M00 + m.M11*n.M10, m.M10*n.M01 + m.M11*n.M11,
	}
}
