package types

import "math/rand/v2"

// The random samplers below never touch the global math/rand source. Each
// caller owns its *rand.Rand which keeps sampling streams independent
// between concurrent workers.

// Create a random generator backed by a PCG stream.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Generate a vector with each component uniformly distributed in [0, 1).
func RandomVec3(rng *rand.Rand) Vec3 {
	return Vec3{rng.Float64(), rng.Float64(), rng.Float64()}
}

// Generate a vector with each component uniformly distributed in [min, max).
func RandomVec3In(rng *rand.Rand, min, max float64) Vec3 {
	span := max - min
	return Vec3{
		min + span*rng.Float64(),
		min + span*rng.Float64(),
		min + span*rng.Float64(),
	}
}

// Generate a point strictly inside the unit sphere using rejection sampling.
func RandomInUnitSphere(rng *rand.Rand) Vec3 {
	for {
		p := RandomVec3In(rng, -1, 1)
		if p.LenSq() < 1 {
			return p
		}
	}
}

// Generate a point strictly inside the unit disk on the z=0 plane.
func RandomInUnitDisk(rng *rand.Rand) Vec3 {
	for {
		p := Vec3{2*rng.Float64() - 1, 2*rng.Float64() - 1, 0}
		if p.LenSq() < 1 {
			return p
		}
	}
}

// Generate a random unit vector by normalizing a point inside the unit sphere.
func RandomUnitVector(rng *rand.Rand) Vec3 {
	return RandomInUnitSphere(rng).Normalize()
}
