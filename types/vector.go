package types

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Vec3 is used interchangeably as a point, a direction and an RGB color.
type Vec3 f64.Vec3

// Define a 3 component vector.
func XYZ(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Negate all components.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Component-wise multiplication. Used for attenuating colors.
func (v Vec3) MulVec(v2 Vec3) Vec3 {
	return Vec3{v[0] * v2[0], v[1] * v2[1], v[2] * v2[2]}
}

// Divide by a scalar.
func (v Vec3) Div(s float64) Vec3 {
	return Vec3{v[0] / s, v[1] / s, v[2] / s}
}

// Calculate dot product of 2 vectors
func (v Vec3) Dot(v2 Vec3) float64 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// Get squared vector length.
func (v Vec3) LenSq() float64 {
	return v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
}

// Get 3 component vector length.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize 3 component vector. Normalizing a zero-length vector yields
// NaN components; callers that care must check with IsFinite.
func (v Vec3) Normalize() Vec3 {
	return v.Div(v.Len())
}

// Reflect v around normal n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// Refract unit vector v through a surface with normal n using Snell's law.
// The ratio argument is the quotient of the refraction indices (eta / eta').
// The caller is responsible for ruling out total internal reflection.
func (v Vec3) Refract(n Vec3, ratio float64) Vec3 {
	cosTheta := math.Min(v.Neg().Dot(n), 1.0)
	perp := v.Add(n.Mul(cosTheta)).Mul(ratio)
	parallel := n.Mul(-math.Sqrt(math.Abs(1.0 - perp.LenSq())))
	return perp.Add(parallel)
}

// Linearly interpolate between v (t=0) and v2 (t=1).
func (v Vec3) Lerp(v2 Vec3, t float64) Vec3 {
	return v.Mul(1.0 - t).Add(v2.Mul(t))
}

// Apply fn to each component.
func (v Vec3) Map(fn func(float64) float64) Vec3 {
	return Vec3{fn(v[0]), fn(v[1]), fn(v[2])}
}

// Returns true if all components are neither NaN nor infinite.
func (v Vec3) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Returns true if all components are within floatCmpEpsilon of zero.
func (v Vec3) NearZero() bool {
	return math.Abs(v[0]) < floatCmpEpsilon && math.Abs(v[1]) < floatCmpEpsilon && math.Abs(v[2]) < floatCmpEpsilon
}

// Calc min component from two vectors
func MinVec3(v1, v2 Vec3) Vec3 {
	out := v1
	for i := range out {
		if v2[i] < out[i] {
			out[i] = v2[i]
		}
	}
	return out
}

// Calc max component from two vectors
func MaxVec3(v1, v2 Vec3) Vec3 {
	out := v1
	for i := range out {
		if v2[i] > out[i] {
			out[i] = v2[i]
		}
	}
	return out
}
