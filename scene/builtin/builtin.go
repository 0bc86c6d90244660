// Package builtin provides procedurally generated scenes that can be rendered
// without a scene file.
package builtin

import (
	"fmt"
	"sort"

	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/types"
)

// A Generator builds a scene from a random seed.
type Generator func(seed uint64) *scene.Scene

var generators = map[string]Generator{
	"cover":  Cover,
	"sphere": DiffuseSphere,
	"trio":   Trio,
}

// Get the names of the available builtin scenes.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate a builtin scene by name.
func Generate(name string, seed uint64) (*scene.Scene, error) {
	gen, exists := generators[name]
	if !exists {
		return nil, fmt.Errorf("builtin: unknown scene %q; available scenes: %v", name, Names())
	}
	return gen(seed), nil
}

// Add a sphere together with its material. Each builtin sphere owns a fresh
// material; reusing one is a generator bug and panics.
func addSphere(sc *scene.Scene, center types.Vec3, radius float64, mat *scene.Material) {
	if err := sc.AddMaterial(mat); err != nil {
		panic(fmt.Sprintf("builtin: %v", err))
	}
	if err := sc.AddPrimitive(scene.NewSphere(center, radius, mat)); err != nil {
		panic(fmt.Sprintf("builtin: %v", err))
	}
}

// Cover generates the classic scene of a large ground sphere scattered with a
// grid of small randomly placed diffuse, metal and glass spheres surrounding
// three large feature spheres.
func Cover(seed uint64) *scene.Scene {
	rng := types.NewRand(seed, 0)
	sc := scene.NewScene()

	addSphere(sc, types.Vec3{0, -1000, 0}, 1000, scene.NewLambertian(types.Vec3{0.5, 0.5, 0.5}))

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := types.Vec3{
				float64(a) + 0.9*rng.Float64(),
				0.2,
				float64(b) + 0.9*rng.Float64(),
			}
			chooseMat := rng.Float64()

			if center.Sub(types.Vec3{4, 0.2, 0}).Len() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.6:
				albedo := types.RandomVec3(rng).MulVec(types.RandomVec3(rng))
				addSphere(sc, center, 0.2, scene.NewLambertian(albedo))
			case chooseMat < 0.95:
				albedo := types.RandomVec3In(rng, 0.5, 1)
				addSphere(sc, center, 0.2, scene.NewMetal(albedo, 0.5*rng.Float64()))
			default:
				addSphere(sc, center, 0.2, scene.NewDielectric(1.5))
			}
		}
	}

	addSphere(sc, types.Vec3{0, 1, 0}, 1, scene.NewDielectric(1.5))
	addSphere(sc, types.Vec3{-4, 1, 0}, 1, scene.NewLambertian(types.Vec3{0.4, 0.2, 0.1}))
	addSphere(sc, types.Vec3{4, 1, 0}, 1, scene.NewMetal(types.Vec3{0.7, 0.6, 0.5}, 0.01))

	sc.SetCamera(scene.NewCamera(scene.CameraParams{
		Eye:       types.Vec3{13, 2, 3},
		LookAt:    types.Vec3{0, 0, 0},
		Up:        types.Vec3{0, 1, 0},
		FOV:       20,
		Aspect:    16.0 / 9.0,
		Aperture:  0.1,
		FocusDist: 10,
	}))
	return sc
}

// DiffuseSphere generates a single white diffuse unit sphere at the origin
// lit only by the background gradient.
func DiffuseSphere(_ uint64) *scene.Scene {
	sc := scene.NewScene()
	addSphere(sc, types.Vec3{0, 0, 0}, 1, scene.NewLambertian(types.Vec3{1, 1, 1}))
	sc.SetCamera(scene.NewCamera(scene.CameraParams{
		Eye:       types.Vec3{0, 0, 4},
		LookAt:    types.Vec3{0, 0, 0},
		Up:        types.Vec3{0, 1, 0},
		FOV:       40,
		Aspect:    1,
		FocusDist: 4,
	}))
	return sc
}

// Trio generates a diffuse, a glass and a fuzzy metal sphere resting on a
// large ground sphere.
func Trio(_ uint64) *scene.Scene {
	sc := scene.NewScene()

	addSphere(sc, types.Vec3{0, -100.5, -1}, 100, scene.NewLambertian(types.Vec3{0.8, 0.8, 0}))
	addSphere(sc, types.Vec3{0, 0, -1}, 0.5, scene.NewLambertian(types.Vec3{0.1, 0.2, 0.5}))
	addSphere(sc, types.Vec3{-1, 0, -1}, 0.5, scene.NewDielectric(1.5))
	addSphere(sc, types.Vec3{1, 0, -1}, 0.5, scene.NewMetal(types.Vec3{0.8, 0.6, 0.2}, 0.3))

	eye, lookAt := types.Vec3{3, 3, 2}, types.Vec3{0, 0, -1}
	sc.SetCamera(scene.NewCamera(scene.CameraParams{
		Eye:       eye,
		LookAt:    lookAt,
		Up:        types.Vec3{0, 1, 0},
		FOV:       20,
		Aspect:    16.0 / 9.0,
		Aperture:  0.5,
		FocusDist: eye.Sub(lookAt).Len(),
	}))
	return sc
}
