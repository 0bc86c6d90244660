package scene

import (
	"strings"
	"testing"

	"github.com/achilleasa/spheretrace/types"
)

func TestPackSharesMaterials(t *testing.T) {
	sc := NewScene()
	sc.SetCamera(NewCamera(DefaultCameraParams()))
	glass := NewDielectric(1.5)
	unused := NewLambertian(types.Vec3{1, 0, 0})
	sc.AddMaterial(glass)
	sc.AddMaterial(unused)
	for i := 0; i < 5; i++ {
		sc.AddPrimitive(NewSphere(types.Vec3{float64(i), 0, -1}, 0.5, glass))
	}
	metal := NewMetal(types.Vec3{0.5, 0.5, 0.5}, 0.1)
	sc.World.Add(NewCollection(NewSphere(types.Vec3{0, 2, -1}, 0.5, metal)))

	ps, err := sc.Pack()
	if err != nil {
		t.Fatal(err)
	}
	if len(ps.Materials) != 3 || len(ps.Spheres) != 6 {
		t.Fatalf("expected 3 materials and 6 spheres; got %d and %d", len(ps.Materials), len(ps.Spheres))
	}
	for idx, sphere := range ps.Spheres[:5] {
		if sphere.Material != 0 {
			t.Fatalf("expected sphere %d to reference material 0; got %d", idx, sphere.Material)
		}
	}
	if ps.Spheres[5].Material != 2 {
		t.Fatalf("expected nested sphere to reference material 2; got %d", ps.Spheres[5].Material)
	}

	out, err := ps.Unpack()
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Materials) != 3 {
		t.Fatalf("expected 3 materials after unpacking; got %d", len(out.Materials))
	}
	first := out.World.Children[0].Material
	for idx, sphere := range out.World.Children[:5] {
		if sphere.Material != first {
			t.Fatalf("expected sphere %d to share the first sphere's material", idx)
		}
	}
	if *first != *glass || *out.World.Children[5].Material != *metal {
		t.Fatal("expected material values to be preserved")
	}
	if out.Camera == nil || out.Camera.Params != sc.Camera.Params {
		t.Fatal("expected camera params to be preserved")
	}
}

func TestPackErrors(t *testing.T) {
	sc := NewScene()
	sc.World.Add(NewSphere(types.Vec3{}, 1, nil))
	if _, err := sc.Pack(); err == nil || !strings.Contains(err.Error(), "has no material") {
		t.Fatalf("expected missing material error; got %v", err)
	}

	ps := &PackedScene{Spheres: []PackedSphere{{Radius: 1, Material: 3}}}
	if _, err := ps.Unpack(); err == nil || !strings.Contains(err.Error(), "unknown material 3") {
		t.Fatalf("expected unknown material error; got %v", err)
	}

	if out, err := (&PackedScene{}).Unpack(); err != nil || out.Camera != nil {
		t.Fatalf("expected empty scene without camera; got %v", err)
	}
}
