package scene

import (
	"math"

	"github.com/achilleasa/spheretrace/types"
)

type PrimitiveType uint32

const (
	SpherePrimitive PrimitiveType = iota
	CollectionPrimitive
)

// Defines a scene primitive. A collection owns an ordered list of child
// primitives and reports the closest hit among them.
type Primitive struct {
	// The primitive type.
	Type PrimitiveType

	// Sphere center and radius.
	Origin types.Vec3
	Radius float64

	// The sphere material.
	Material *Material

	// Collection members.
	Children []*Primitive
}

// Create new sphere primitive.
func NewSphere(origin types.Vec3, radius float64, material *Material) *Primitive {
	return &Primitive{
		Type:     SpherePrimitive,
		Origin:   origin,
		Radius:   radius,
		Material: material,
	}
}

// Create new collection primitive.
func NewCollection(children ...*Primitive) *Primitive {
	return &Primitive{
		Type:     CollectionPrimitive,
		Children: append(make([]*Primitive, 0, len(children)), children...),
	}
}

// Append a primitive to a collection.
func (p *Primitive) Add(child *Primitive) {
	p.Children = append(p.Children, child)
}

// Find the closest intersection with t in [tMin, tMax].
func (p *Primitive) Hit(ray types.Ray, tMin, tMax float64) (HitRecord, bool) {
	switch p.Type {
	case SpherePrimitive:
		return p.hitSphere(ray, tMin, tMax)
	case CollectionPrimitive:
		return p.hitCollection(ray, tMin, tMax)
	}
	return HitRecord{}, false
}

func (p *Primitive) hitSphere(ray types.Ray, tMin, tMax float64) (HitRecord, bool) {
	oc := ray.Origin.Sub(p.Origin)
	a := ray.Dir.LenSq()
	halfB := oc.Dot(ray.Dir)
	c := oc.LenSq() - p.Radius*p.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}, false
	}

	// Try the nearest root first
	sqrtD := math.Sqrt(discriminant)
	root := (-halfB - sqrtD) / a
	if root < tMin || tMax < root {
		root = (-halfB + sqrtD) / a
		if root < tMin || tMax < root {
			return HitRecord{}, false
		}
	}

	rec := HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: p.Material,
	}
	rec.SetFaceNormal(ray, rec.Point.Sub(p.Origin).Div(p.Radius))
	return rec, true
}

// Linear scan over all children; each test shrinks the search range to the
// closest hit found so far.
func (p *Primitive) hitCollection(ray types.Ray, tMin, tMax float64) (HitRecord, bool) {
	var closest HitRecord
	hitAnything := false
	closestSoFar := tMax

	for _, child := range p.Children {
		if rec, hit := child.Hit(ray, tMin, closestSoFar); hit {
			hitAnything = true
			closestSoFar = rec.T
			closest = rec
		}
	}

	return closest, hitAnything
}

// Count the sphere primitives reachable from this primitive.
func (p *Primitive) SphereCount() int {
	if p.Type == SpherePrimitive {
		return 1
	}
	count := 0
	for _, child := range p.Children {
		count += child.SphereCount()
	}
	return count
}

// Visit every sphere reachable from this primitive in order.
func (p *Primitive) Walk(fn func(sphere *Primitive)) {
	if p.Type == SpherePrimitive {
		fn(p)
		return
	}
	for _, child := range p.Children {
		child.Walk(fn)
	}
}

// Get the axis aligned bounds of all reachable spheres.
func (p *Primitive) Bounds() (min, max types.Vec3, ok bool) {
	p.Walk(func(sphere *Primitive) {
		r := math.Abs(sphere.Radius)
		lo := sphere.Origin.Sub(types.Vec3{r, r, r})
		hi := sphere.Origin.Add(types.Vec3{r, r, r})
		if !ok {
			min, max, ok = lo, hi, true
			return
		}
		min = types.MinVec3(min, lo)
		max = types.MaxVec3(max, hi)
	})
	return min, max, ok
}
