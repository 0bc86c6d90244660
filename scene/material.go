package scene

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/achilleasa/spheretrace/types"
)

type MaterialType uint8

const (
	LambertianMaterial MaterialType = iota
	MetalMaterial
	DielectricMaterial
)

func (t MaterialType) String() string {
	switch t {
	case LambertianMaterial:
		return "lambertian"
	case MetalMaterial:
		return "metal"
	case DielectricMaterial:
		return "dielectric"
	}
	return fmt.Sprintf("MaterialType(%d)", uint8(t))
}

// The attenuation applied by dielectrics. It does not depend on the
// refraction index or the wavelength.
var dielectricAttenuation = types.Vec3{0.95, 0.95, 0.95}

// Defines a scene material. Materials are never mutated once a render starts
// so they can be shared by all tracers without locking.
type Material struct {
	// The type of the material.
	Type MaterialType

	// Base reflectance (lambertian and metal materials).
	Albedo types.Vec3

	// Reflection fuzziness in [0, 1] (metal materials only).
	Fuzz float64

	// Index of refraction (dielectric materials only).
	IOR float64
}

// Create a diffuse material.
func NewLambertian(albedo types.Vec3) *Material {
	return &Material{Type: LambertianMaterial, Albedo: albedo}
}

// Create a metal material. The fuzz value is clamped to [0, 1].
func NewMetal(albedo types.Vec3, fuzz float64) *Material {
	return &Material{
		Type:   MetalMaterial,
		Albedo: albedo,
		Fuzz:   math.Max(0, math.Min(fuzz, 1)),
	}
}

// Create a dielectric material with the given index of refraction.
func NewDielectric(ior float64) *Material {
	return &Material{Type: DielectricMaterial, IOR: ior}
}

// Scatter an incoming ray off the surface described by rec. It returns the
// color attenuation and the scattered ray; ok is false if the ray is absorbed.
func (m *Material) Scatter(rng *rand.Rand, in types.Ray, rec *HitRecord) (attenuation types.Vec3, scattered types.Ray, ok bool) {
	switch m.Type {
	case LambertianMaterial:
		// Degenerate directions (normal and sample nearly cancelling out)
		// are passed through unmodified.
		dir := rec.Normal.Add(types.RandomUnitVector(rng))
		return m.Albedo, types.NewRay(rec.Point, dir), true
	case MetalMaterial:
		dir := in.Dir.Normalize().Reflect(rec.Normal)
		dir = dir.Add(types.RandomUnitVector(rng).Mul(m.Fuzz))
		if dir.Dot(rec.Normal) <= 0 {
			return types.Vec3{}, types.Ray{}, false
		}
		return m.Albedo, types.NewRay(rec.Point, dir), true
	case DielectricMaterial:
		return dielectricAttenuation, types.NewRay(rec.Point, m.dielectricDir(rng, in, rec)), true
	}

	return types.Vec3{}, types.Ray{}, false
}

// Select between reflection and refraction for a dielectric surface.
func (m *Material) dielectricDir(rng *rand.Rand, in types.Ray, rec *HitRecord) types.Vec3 {
	ratio := m.IOR
	if rec.FrontFace {
		ratio = 1.0 / m.IOR
	}

	unitDir := in.Dir.Normalize()
	cosTheta := math.Min(unitDir.Neg().Dot(rec.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	if ratio*sinTheta > 1.0 || rng.Float64() < Reflectance(cosTheta, ratio) {
		return unitDir.Reflect(rec.Normal)
	}
	return unitDir.Refract(rec.Normal, ratio)
}

// Estimate the Fresnel reflection probability using Schlick's approximation.
func Reflectance(cosine, ratio float64) float64 {
	r0 := (1 - ratio) / (1 + ratio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}

func (m *Material) String() string {
	switch m.Type {
	case MetalMaterial:
		return fmt.Sprintf("metal albedo: (%.3f, %.3f, %.3f) fuzz: %.3f", m.Albedo[0], m.Albedo[1], m.Albedo[2], m.Fuzz)
	case DielectricMaterial:
		return fmt.Sprintf("dielectric ior: %.3f", m.IOR)
	}
	return fmt.Sprintf("%s albedo: (%.3f, %.3f, %.3f)", m.Type, m.Albedo[0], m.Albedo[1], m.Albedo[2])
}
