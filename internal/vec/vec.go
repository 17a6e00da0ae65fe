package vec

import "math"

// Vec is a 2D vector in surface coordinates. Y grows downward, matching the
// drawing surface. It is a plain value type: passing a Vec always hands the
// callee an independent copy.
type Vec struct {
	X, Y float64
}

func New(x, y float64) Vec { return Vec{X: x, Y: y} }

func Zero() Vec { return Vec{} }

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Mul multiplies componentwise.
func (v Vec) Mul(o Vec) Vec { return Vec{v.X * o.X, v.Y * o.Y} }

// Scale multiplies both components by s (scalar broadcast).
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Div divides componentwise. A zero divisor component leaves the
// corresponding component unchanged rather than producing Inf.
func (v Vec) Div(o Vec) Vec {
	r := v
	if o.X != 0 {
		r.X = v.X / o.X
	}
	if o.Y != 0 {
		r.Y = v.Y / o.Y
	}
	return r
}

// DivScalar divides both components by s. Division by zero is a no-op.
func (v Vec) DivScalar(s float64) Vec {
	if s == 0 {
		return v
	}
	return Vec{v.X / s, v.Y / s}
}

func (v Vec) Neg() Vec { return Vec{-v.X, -v.Y} }

func (v Vec) Magnitude() float64 { return math.Hypot(v.X, v.Y) }

// Normalize scales v to unit length. A zero-magnitude vector is returned
// unchanged; never NaN, never an error.
func (v Vec) Normalize() Vec {
	m := v.Magnitude()
	if m == 0 {
		return v
	}
	return Vec{v.X / m, v.Y / m}
}

// Clamp limits each component independently into its range.
func (v Vec) Clamp(minX, maxX, minY, maxY float64) Vec {
	return Vec{
		X: clamp(v.X, minX, maxX),
		Y: clamp(v.Y, minY, maxY),
	}
}

func (v Vec) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
