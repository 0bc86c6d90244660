package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/spheretrace/types"
)

func TestSphereHit(t *testing.T) {
	mat := NewLambertian(types.Vec3{0.5, 0.5, 0.5})

	for index, radius := range []float64{0.5, 1, 3, 100} {
		sphere := NewSphere(types.Vec3{}, radius, mat)
		ray := types.NewRay(types.Vec3{0, 0, 2 * radius}, types.Vec3{0, 0, -1})

		rec, hit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !hit {
			t.Fatalf("[spec %d] expected ray to hit sphere", index)
		}
		if math.Abs(rec.T-radius) > 1e-9 {
			t.Fatalf("[spec %d] expected hit at t=%f; got %f", index, radius, rec.T)
		}
		if !rec.FrontFace {
			t.Fatalf("[spec %d] expected front face hit", index)
		}
		if exp := (types.Vec3{0, 0, 1}); rec.Normal != exp {
			t.Fatalf("[spec %d] expected normal %v; got %v", index, exp, rec.Normal)
		}
		if rec.Material != mat {
			t.Fatalf("[spec %d] expected hit record to reference the sphere material", index)
		}
	}
}

func TestSphereHitFromInside(t *testing.T) {
	sphere := NewSphere(types.Vec3{}, 2, NewDielectric(1.5))
	ray := types.NewRay(types.Vec3{}, types.Vec3{1, 0, 0})

	rec, hit := sphere.Hit(ray, 0.001, math.Inf(1))
	if !hit {
		t.Fatal("expected ray starting inside the sphere to hit it")
	}
	if rec.T != 2 {
		t.Fatalf("expected far root t=2; got %f", rec.T)
	}
	if rec.FrontFace {
		t.Fatal("expected back face hit")
	}
	if exp := (types.Vec3{-1, 0, 0}); rec.Normal != exp {
		t.Fatalf("expected normal to oppose the ray %v; got %v", exp, rec.Normal)
	}
}

func TestSphereTangentAndMiss(t *testing.T) {
	sphere := NewSphere(types.Vec3{}, 1, NewLambertian(types.Vec3{1, 1, 1}))

	tangent := types.NewRay(types.Vec3{-5, 1, 0}, types.Vec3{1, 0, 0})
	rec, hit := sphere.Hit(tangent, 0.001, math.Inf(1))
	if !hit {
		t.Fatal("expected tangent ray to hit sphere")
	}
	if math.Abs(rec.T-5) > 1e-9 {
		t.Fatalf("expected single root at t=5; got %f", rec.T)
	}

	miss := types.NewRay(types.Vec3{-5, 1.5, 0}, types.Vec3{1, 0, 0})
	if _, hit = sphere.Hit(miss, 0.001, math.Inf(1)); hit {
		t.Fatal("expected offset ray to miss sphere")
	}
}

func TestSphereHitRange(t *testing.T) {
	sphere := NewSphere(types.Vec3{0, 0, -5}, 1, NewLambertian(types.Vec3{1, 1, 1}))
	ray := types.NewRay(types.Vec3{}, types.Vec3{0, 0, -1})

	type spec struct {
		tMin, tMax float64
		expHit     bool
		expT       float64
	}
	specs := []spec{
		{0.001, math.Inf(1), true, 4},
		{4.5, math.Inf(1), true, 6},
		{0.001, 3.9, false, 0},
		{6.1, math.Inf(1), false, 0},
		{4, 4, true, 4},
	}

	for index, s := range specs {
		rec, hit := sphere.Hit(ray, s.tMin, s.tMax)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", index, s.expHit, hit)
		}
		if hit && math.Abs(rec.T-s.expT) > 1e-9 {
			t.Fatalf("[spec %d] expected t=%f; got %f", index, s.expT, rec.T)
		}
	}
}

func TestCollectionClosestHit(t *testing.T) {
	far := NewSphere(types.Vec3{0, 0, -5}, 1.5, NewLambertian(types.Vec3{1, 0, 0}))
	near := NewSphere(types.Vec3{0, 0, -3.5}, 1, NewLambertian(types.Vec3{0, 1, 0}))
	ray := types.NewRay(types.Vec3{}, types.Vec3{0, 0, -1})

	for index, world := range []*Primitive{NewCollection(far, near), NewCollection(near, far)} {
		rec, hit := world.Hit(ray, 0.001, math.Inf(1))
		if !hit {
			t.Fatalf("[spec %d] expected collection hit", index)
		}
		if math.Abs(rec.T-2.5) > 1e-9 {
			t.Fatalf("[spec %d] expected closest hit at t=2.5; got %f", index, rec.T)
		}
		if rec.Material != near.Material {
			t.Fatalf("[spec %d] expected closest sphere material", index)
		}
	}

	if _, hit := NewCollection().Hit(ray, 0.001, math.Inf(1)); hit {
		t.Fatal("expected empty collection to report no hit")
	}
}

func TestNestedCollections(t *testing.T) {
	mat := NewLambertian(types.Vec3{1, 1, 1})
	inner := NewCollection(NewSphere(types.Vec3{0, 0, -2}, 0.5, mat))
	world := NewCollection(NewSphere(types.Vec3{0, 0, -10}, 1, mat), inner)

	rec, hit := world.Hit(types.NewRay(types.Vec3{}, types.Vec3{0, 0, -1}), 0.001, math.Inf(1))
	if !hit || math.Abs(rec.T-1.5) > 1e-9 {
		t.Fatalf("expected nested hit at t=1.5; got %f (hit: %t)", rec.T, hit)
	}

	if count := world.SphereCount(); count != 2 {
		t.Fatalf("expected 2 spheres; got %d", count)
	}

	min, max, ok := world.Bounds()
	if !ok {
		t.Fatal("expected bounds for non-empty world")
	}
	if exp := (types.Vec3{-1, -1, -11}); min != exp {
		t.Fatalf("expected bounds min %v; got %v", exp, min)
	}
	if exp := (types.Vec3{1, 1, -1.5}); max != exp {
		t.Fatalf("expected bounds max %v; got %v", exp, max)
	}
}
