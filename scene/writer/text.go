package writer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/types"
)

// textSceneWriter emits scenes in the format understood by the text scene reader.
type textSceneWriter struct {
	w io.Writer
}

func newTextSceneWriter(w io.Writer) *textSceneWriter {
	return &textSceneWriter{w: w}
}

// Write scene definition as text.
func (tw *textSceneWriter) Write(sc *scene.Scene) error {
	bw := bufio.NewWriter(tw.w)

	if sc.Camera != nil {
		p := sc.Camera.Params
		fmt.Fprintf(bw, "camera_eye %s\n", fmtVec(p.Eye))
		fmt.Fprintf(bw, "camera_look %s\n", fmtVec(p.LookAt))
		fmt.Fprintf(bw, "camera_up %s\n", fmtVec(p.Up))
		fmt.Fprintf(bw, "camera_fov %s\n", fmtFloat(p.FOV))
		fmt.Fprintf(bw, "camera_aspect %s\n", fmtFloat(p.Aspect))
		fmt.Fprintf(bw, "camera_aperture %s\n", fmtFloat(p.Aperture))
		fmt.Fprintf(bw, "camera_focus %s\n", fmtFloat(p.FocusDist))
		fmt.Fprintln(bw)
	}

	// Materials get sequential names in order of first use
	names := make(map[*scene.Material]string)
	var curMaterial *scene.Material
	var err error
	sc.World.Walk(func(sphere *scene.Primitive) {
		if err != nil {
			return
		}
		if sphere.Material == nil {
			err = fmt.Errorf("textSceneWriter: sphere at %s has no material", fmtVec(sphere.Origin))
			return
		}

		name, exists := names[sphere.Material]
		if !exists {
			name = fmt.Sprintf("mat%d", len(names))
			names[sphere.Material] = name
			writeMaterial(bw, name, sphere.Material)
		}
		if sphere.Material != curMaterial {
			fmt.Fprintf(bw, "usemtl %s\n", name)
			curMaterial = sphere.Material
		}
		fmt.Fprintf(bw, "sphere %s %s\n", fmtVec(sphere.Origin), fmtFloat(sphere.Radius))
	})
	if err != nil {
		return err
	}

	return bw.Flush()
}

func writeMaterial(w io.Writer, name string, mat *scene.Material) {
	switch mat.Type {
	case scene.LambertianMaterial:
		fmt.Fprintf(w, "lambertian %s %s\n", name, fmtVec(mat.Albedo))
	case scene.MetalMaterial:
		fmt.Fprintf(w, "metal %s %s %s\n", name, fmtVec(mat.Albedo), fmtFloat(mat.Fuzz))
	case scene.DielectricMaterial:
		fmt.Fprintf(w, "dielectric %s %s\n", name, fmtFloat(mat.IOR))
	}
}

// Floats are written with the shortest representation that parses back to
// the same value.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func fmtVec(v types.Vec3) string {
	return fmtFloat(v[0]) + " " + fmtFloat(v[1]) + " " + fmtFloat(v[2])
}
