package scene

import (
	"fmt"

	"github.com/achilleasa/spheretrace/types"
)

// A sphere in packed form. Material is an index into PackedScene.Materials.
type PackedSphere struct {
	Origin   types.Vec3
	Radius   float64
	Material uint32
}

// PackedScene is a flat, pointer-free scene layout used for serialization.
// Spheres reference materials by index so shared materials survive an
// encode/decode cycle.
type PackedScene struct {
	HasCamera bool
	Camera    CameraParams

	Materials []Material
	Spheres   []PackedSphere
}

// Pack the scene. Materials keep their registration order; materials only
// referenced by spheres are appended after them.
func (s *Scene) Pack() (*PackedScene, error) {
	ps := &PackedScene{
		Materials: make([]Material, 0, len(s.Materials)),
		Spheres:   make([]PackedSphere, 0),
	}
	if s.Camera != nil {
		ps.HasCamera = true
		ps.Camera = s.Camera.Params
	}

	matIndex := make(map[*Material]uint32)
	addMaterial := func(mat *Material) uint32 {
		idx, exists := matIndex[mat]
		if !exists {
			idx = uint32(len(ps.Materials))
			matIndex[mat] = idx
			ps.Materials = append(ps.Materials, *mat)
		}
		return idx
	}
	for _, mat := range s.Materials {
		addMaterial(mat)
	}

	var err error
	s.World.Walk(func(sphere *Primitive) {
		if err != nil {
			return
		}
		if sphere.Material == nil {
			err = fmt.Errorf("scene: sphere at (%f, %f, %f) has no material", sphere.Origin[0], sphere.Origin[1], sphere.Origin[2])
			return
		}
		ps.Spheres = append(ps.Spheres, PackedSphere{
			Origin:   sphere.Origin,
			Radius:   sphere.Radius,
			Material: addMaterial(sphere.Material),
		})
	})
	if err != nil {
		return nil, err
	}

	return ps, nil
}

// Rebuild a scene from its packed form.
func (ps *PackedScene) Unpack() (*Scene, error) {
	sc := NewScene()
	for idx := range ps.Materials {
		mat := ps.Materials[idx]
		sc.Materials = append(sc.Materials, &mat)
	}

	for idx, sphere := range ps.Spheres {
		if int(sphere.Material) >= len(sc.Materials) {
			return nil, fmt.Errorf("scene: sphere %d references unknown material %d", idx, sphere.Material)
		}
		sc.World.Add(NewSphere(sphere.Origin, sphere.Radius, sc.Materials[sphere.Material]))
	}

	if ps.HasCamera {
		sc.SetCamera(NewCamera(ps.Camera))
	}
	return sc, nil
}
