package scene

import "github.com/achilleasa/spheretrace/types"

// A HitRecord describes a ray-surface intersection. It is a transient value
// that references (but does not own) the material of the hit primitive.
type HitRecord struct {
	Point  types.Vec3
	Normal types.Vec3
	T      float64

	// True if the ray hit the side the outward normal points to.
	FrontFace bool

	Material *Material
}

// Set the record normal so that it always opposes the incoming ray.
func (rec *HitRecord) SetFaceNormal(ray types.Ray, outwardNormal types.Vec3) {
	rec.FrontFace = ray.Dir.Dot(outwardNormal) < 0
	if rec.FrontFace {
		rec.Normal = outwardNormal
	} else {
		rec.Normal = outwardNormal.Neg()
	}
}
