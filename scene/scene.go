package scene

import (
	"bytes"
	"fmt"
	"math"

	"github.com/achilleasa/spheretrace/types"
	"github.com/olekukonko/tablewriter"
)

// A Scene bundles a camera with a collection of spheres and the materials
// they reference. Once rendering starts the scene is treated as read-only.
type Scene struct {
	Camera *Camera

	Materials []*Material

	// The root collection with all scene primitives.
	World *Primitive
}

func NewScene() *Scene {
	return &Scene{
		Materials: make([]*Material, 0),
		World:     NewCollection(),
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a material to the scene.
func (s *Scene) AddMaterial(material *Material) error {
	for _, mat := range s.Materials {
		if mat == material {
			return fmt.Errorf("scene: material already added")
		}
	}
	s.Materials = append(s.Materials, material)
	return nil
}

// Add a primitive to the scene.
func (s *Scene) AddPrimitive(primitive *Primitive) error {
	for _, prim := range s.World.Children {
		if prim == primitive {
			return fmt.Errorf("scene: primitive already added")
		}
	}
	if primitive.Type == SpherePrimitive && primitive.Material == nil {
		return fmt.Errorf("scene: no material assigned to primitive")
	}
	if primitive.Type == CollectionPrimitive {
		s.World.Add(primitive)
		return nil
	}
	for _, mat := range s.Materials {
		if mat == primitive.Material {
			s.World.Add(primitive)
			return nil
		}
	}

	return fmt.Errorf("scene: primitive references unknown material; ensure that the material is added to the scene before adding the primitive")
}

// Find the closest intersection between ray and the scene primitives.
func (s *Scene) Hit(ray types.Ray, tMin, tMax float64) (HitRecord, bool) {
	return s.World.Hit(ray, tMin, tMax)
}

// Check the scene for degenerate values that produce undefined results while
// rendering. Values are reported, never modified.
func (s *Scene) Validate() []string {
	warnings := make([]string, 0)
	if s.Camera == nil {
		warnings = append(warnings, "scene has no camera")
	} else {
		p := s.Camera.Params
		if p.Eye.Sub(p.LookAt).NearZero() {
			warnings = append(warnings, "camera eye and look-at target coincide")
		}
		if p.Up.Cross(p.Eye.Sub(p.LookAt)).NearZero() {
			warnings = append(warnings, "camera up vector is parallel to the view direction")
		}
	}

	idx := 0
	s.World.Walk(func(sphere *Primitive) {
		if sphere.Radius <= 0 || math.IsNaN(sphere.Radius) {
			warnings = append(warnings, fmt.Sprintf("sphere %d has non-positive radius %f", idx, sphere.Radius))
		}
		if sphere.Material == nil {
			warnings = append(warnings, fmt.Sprintf("sphere %d has no material", idx))
		} else if sphere.Material.Type == DielectricMaterial && sphere.Material.IOR <= 0 {
			warnings = append(warnings, fmt.Sprintf("sphere %d uses dielectric with non-positive IOR %f", idx, sphere.Material.IOR))
		}
		idx++
	})
	return warnings
}

// Generate a table with scene statistics.
func (s *Scene) Stats() string {
	counts := make(map[MaterialType]int)
	s.World.Walk(func(sphere *Primitive) {
		if sphere.Material != nil {
			counts[sphere.Material.Type]++
		}
	})

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count"})
	table.Append([]string{"Geometry", "Spheres", fmt.Sprintf("%d", s.World.SphereCount())})
	if min, max, ok := s.World.Bounds(); ok {
		table.Append([]string{"", "Bounds min", fmtVec(min)})
		table.Append([]string{"", "Bounds max", fmtVec(max)})
	}
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "---", fmt.Sprintf("%d", len(s.Materials))})
	for _, matType := range []MaterialType{LambertianMaterial, MetalMaterial, DielectricMaterial} {
		table.Append([]string{"", matType.String(), fmt.Sprintf("%d", counts[matType])})
	}
	if s.Camera != nil {
		p := s.Camera.Params
		table.Append([]string{" ", " ", " "})
		table.Append([]string{"Camera", "Eye", fmtVec(p.Eye)})
		table.Append([]string{"", "Look at", fmtVec(p.LookAt)})
		table.Append([]string{"", "FOV", fmt.Sprintf("%3.1f", p.FOV)})
		table.Append([]string{"", "Aperture", fmt.Sprintf("%3.3f", p.Aperture)})
		table.Append([]string{"", "Focus dist", fmt.Sprintf("%3.3f", p.FocusDist)})
	}

	table.Render()
	return buf.String()
}

func fmtVec(v types.Vec3) string {
	return fmt.Sprintf("(%3.3f, %3.3f, %3.3f)", v[0], v[1], v[2])
}
