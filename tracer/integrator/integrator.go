// Package integrator estimates the radiance carried along camera rays.
package integrator

import (
	"math"
	"math/rand/v2"

	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/types"
)

// Intersections closer than this distance are ignored to avoid a scattered
// ray re-hitting the surface it just left.
const MinHitDistance = 0.001

var (
	skyWhite = types.Vec3{1.0, 1.0, 1.0}
	skyBlue  = types.Vec3{0.5, 0.7, 1.0}
)

// The World interface is implemented by anything rays can be traced against.
type World interface {
	Hit(ray types.Ray, tMin, tMax float64) (scene.HitRecord, bool)
}

// Trace a path starting with ray and return the radiance it carries back to
// its origin. The path is followed for at most maxBounces scattering events;
// paths that exceed the limit or get absorbed contribute no light. Paths
// that escape the scene pick up the background gradient scaled by the
// attenuation accumulated along the way.
func Radiance(rng *rand.Rand, ray types.Ray, world World, maxBounces int) types.Vec3 {
	throughput := types.Vec3{1, 1, 1}
	for bounce := 0; bounce < maxBounces; bounce++ {
		rec, hit := world.Hit(ray, MinHitDistance, math.Inf(1))
		if !hit {
			return throughput.MulVec(Background(ray.Dir))
		}

		attenuation, scattered, ok := rec.Material.Scatter(rng, ray, &rec)
		if !ok {
			return types.Vec3{}
		}

		throughput = throughput.MulVec(attenuation)
		ray = scattered
	}

	return types.Vec3{}
}

// Background returns the sky color for a ray direction: a vertical blend
// from white at the horizon below to light blue straight up.
func Background(dir types.Vec3) types.Vec3 {
	t := 0.5 * (dir.Normalize()[1] + 1.0)
	return skyWhite.Lerp(skyBlue, t)
}
