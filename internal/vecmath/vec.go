// Package vecmath provides the small fixed-size vector and matrix types used
// by the force model and the integrator.
//
// All types are plain values; operations return new values and never mutate
// their receivers.
package vecmath

import "math"

type Vec2 struct{ X, Y float64 }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Mul(b Vec2) Vec2      { return Vec2{a.X * b.X, a.Y * b.Y} }
func (a Vec2) Neg() Vec2            { return Vec2{-a.X, -a.Y} }
func (a Vec2) Len2() float64        { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Len() float64         { return math.Sqrt(a.Len2()) }
func (a Vec2) IsFinite() bool       { return finite(a.X) && finite(a.Y) }
func (a Vec2) ApproxEqual(b Vec2, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Vec4 carries a packed (position, velocity) pair for integration.
type Vec4 struct{ X, Y, Z, W float64 }

// Pack4 builds the (pos.x, pos.y, vel.x, vel.y) state vector.
func Pack4(pos, vel Vec2) Vec4 { return Vec4{pos.X, pos.Y, vel.X, vel.Y} }

// Split returns the position and velocity halves of x.
func (a Vec4) Split() (pos, vel Vec2) { return Vec2{a.X, a.Y}, Vec2{a.Z, a.W} }

func (a Vec4) Add(b Vec4) Vec4      { return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W} }
func (a Vec4) Sub(b Vec4) Vec4      { return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W} }
func (a Vec4) Scale(s float64) Vec4 { return Vec4{a.X * s, a.Y * s, a.Z * s, a.W * s} }
func (a Vec4) Len2() float64        { return a.X*a.X + a.Y*a.Y + a.Z*a.Z + a.W*a.W }

func (a Vec4) IsFinite() bool {
	return finite(a.X) && finite(a.Y) && finite(a.Z) && finite(a.W)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
