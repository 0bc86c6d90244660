package types

import "fmt"

// A Ray is defined by an origin point and a direction. The direction is not
// required to be a unit vector.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Create a new ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// Get the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

func (r Ray) String() string {
	return fmt.Sprintf(
		"Ray origin: (%3.3f, %3.3f, %3.3f) dir: (%3.3f, %3.3f, %3.3f)",
		r.Origin[0], r.Origin[1], r.Origin[2],
		r.Dir[0], r.Dir[1], r.Dir[2],
	)
}
