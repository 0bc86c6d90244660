package scene

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/achilleasa/spheretrace/types"
)

// The external view and lens parameters used to set up a camera.
type CameraParams struct {
	Eye    types.Vec3
	LookAt types.Vec3
	Up     types.Vec3

	// Vertical field of view in degrees.
	FOV float64

	// Viewport width / height.
	Aspect float64

	// Lens diameter; 0 disables defocus blur.
	Aperture float64

	// Distance to the plane in perfect focus.
	FocusDist float64
}

// Default camera parameters.
func DefaultCameraParams() CameraParams {
	return CameraParams{
		Eye:       types.Vec3{0, 0, 0},
		LookAt:    types.Vec3{0, 0, -1},
		Up:        types.Vec3{0, 1, 0},
		FOV:       90,
		Aspect:    16.0 / 9.0,
		Aperture:  0,
		FocusDist: 1,
	}
}

// The camera type generates primary rays for normalized screen coordinates.
type Camera struct {
	Params CameraParams

	origin          types.Vec3
	lowerLeftCorner types.Vec3
	horizontal      types.Vec3
	vertical        types.Vec3

	// Orthonormal basis; w points away from the view direction.
	u, v, w types.Vec3

	lensRadius float64
}

// Create a new camera.
func NewCamera(params CameraParams) *Camera {
	c := &Camera{Params: params}
	c.Update()
	return c
}

// Change the aspect ratio and rebuild the viewport.
func (c *Camera) SetAspect(aspect float64) {
	c.Params.Aspect = aspect
	c.Update()
}

// Rebuild the camera basis and viewport from the camera params.
func (c *Camera) Update() {
	p := c.Params
	theta := p.FOV * math.Pi / 180.0
	viewportH := 2.0 * math.Tan(theta/2)
	viewportW := p.Aspect * viewportH

	c.w = p.Eye.Sub(p.LookAt).Normalize()
	c.u = p.Up.Cross(c.w).Normalize()
	c.v = c.w.Cross(c.u)

	c.origin = p.Eye
	c.horizontal = c.u.Mul(p.FocusDist * viewportW)
	c.vertical = c.v.Mul(p.FocusDist * viewportH)
	c.lowerLeftCorner = c.origin.
		Sub(c.horizontal.Div(2)).
		Sub(c.vertical.Div(2)).
		Sub(c.w.Mul(p.FocusDist))
	c.lensRadius = p.Aperture / 2
}

// Generate a ray for the normalized screen coordinates s (left to right) and
// t (bottom to top). The ray origin is jittered across the lens disk.
func (c *Camera) Ray(rng *rand.Rand, s, t float64) types.Ray {
	rd := types.RandomInUnitDisk(rng).Mul(c.lensRadius)
	offset := c.u.Mul(rd[0]).Add(c.v.Mul(rd[1]))
	origin := c.origin.Add(offset)

	target := c.lowerLeftCorner.Add(c.horizontal.Mul(s)).Add(c.vertical.Mul(t))
	return types.NewRay(origin, target.Sub(origin))
}

// Get the camera basis vectors.
func (c *Camera) Basis() (u, v, w types.Vec3) {
	return c.u, c.v, c.w
}

func (c *Camera) String() string {
	p := c.Params
	return fmt.Sprintf(
		"Camera eye: (%3.3f, %3.3f, %3.3f) look: (%3.3f, %3.3f, %3.3f) fov: %3.1f aspect: %3.3f aperture: %3.3f focus: %3.3f",
		p.Eye[0], p.Eye[1], p.Eye[2],
		p.LookAt[0], p.LookAt[1], p.LookAt[2],
		p.FOV, p.Aspect, p.Aperture, p.FocusDist,
	)
}
