package reader

import (
	"bufio"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/spheretrace/asset"
	"github.com/achilleasa/spheretrace/log"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/types"
)

// The name of the material assigned to spheres declared before any usemtl.
const defaultMaterialName = ""

// textSceneReader parses the line oriented text scene format. Each line
// contains a directive followed by its arguments:
//
//	camera_eye x y z
//	camera_look x y z
//	camera_up x y z
//	camera_fov degrees
//	camera_aspect ratio
//	camera_aperture diameter
//	camera_focus distance
//	lambertian name r g b
//	metal name r g b fuzz
//	dielectric name ior
//	usemtl name
//	sphere x y z radius
//	call path/to/other.scene
//
// Lines starting with # are ignored.
type textSceneReader struct {
	logger log.Logger

	camera scene.CameraParams

	// Focus distance is derived from eye/look unless explicitly set.
	focusSet bool

	sc *scene.Scene

	// Declared materials by name.
	materials map[string]*scene.Material

	curMaterial *scene.Material

	// An error stack that provides additional error information when
	// scene files include other files.
	errStack []string

	// Locations of the files currently being parsed; used to detect
	// circular includes.
	includeStack []string
}

func newTextSceneReader() *textSceneReader {
	return &textSceneReader{
		logger:    log.New("text scene reader"),
		camera:    scene.DefaultCameraParams(),
		sc:        scene.NewScene(),
		materials: make(map[string]*scene.Material),
		errStack:  make([]string, 0),
	}
}

// Read scene definition.
func (r *textSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	if err := r.parse(sceneRes); err != nil {
		return nil, err
	}

	if !r.focusSet {
		r.camera.FocusDist = r.camera.Eye.Sub(r.camera.LookAt).Len()
	}
	r.sc.SetCamera(scene.NewCamera(r.camera))

	r.logger.Noticef("parsed scene with %d spheres in %d ms", r.sc.World.SphereCount(), time.Since(start).Nanoseconds()/1000000)
	return r.sc, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *textSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return fmt.Errorf("%s", strings.Trim(
		fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
		"\n",
	))
}

// Push a frame to the error stack.
func (r *textSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *textSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Select the default material, creating it on first use.
func (r *textSceneReader) defaultMaterial() *scene.Material {
	mat, exists := r.materials[defaultMaterialName]
	if !exists {
		mat = scene.NewLambertian(types.Vec3{0.75, 0.75, 0.75})
		r.materials[defaultMaterialName] = mat
	}
	return mat
}

// Register a named material.
func (r *textSceneReader) declareMaterial(name string, mat *scene.Material) error {
	if _, exists := r.materials[name]; exists {
		return fmt.Errorf("material '%s' already defined", name)
	}
	r.materials[name] = mat
	return nil
}

// Get a key that uniquely identifies the location of a resource.
func includeKey(res *asset.Resource) string {
	if !res.IsRemote() {
		if absPath, err := filepath.Abs(res.Path()); err == nil {
			return absPath
		}
	}
	return res.Path()
}

func (r *textSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.includeStack = append(r.includeStack, includeKey(res))
	defer func() { r.includeStack = r.includeStack[:len(r.includeStack)-1] }()

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, "unsupported syntax for 'call'; expected 1 argument; got %d", len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))
			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			if slices.Contains(r.includeStack, includeKey(incRes)) {
				incRes.Close()
				return r.emitError(res.Path(), lineNum, "circular include of '%s'", incRes.Path())
			}
			err = r.parse(incRes)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "camera_eye":
			r.camera.Eye, err = parseVec3(lineTokens)
		case "camera_look":
			r.camera.LookAt, err = parseVec3(lineTokens)
		case "camera_up":
			r.camera.Up, err = parseVec3(lineTokens)
		case "camera_fov":
			r.camera.FOV, err = parseFloat(lineTokens)
		case "camera_aspect":
			r.camera.Aspect, err = parseFloat(lineTokens)
		case "camera_aperture":
			r.camera.Aperture, err = parseFloat(lineTokens)
		case "camera_focus":
			r.camera.FocusDist, err = parseFloat(lineTokens)
			r.focusSet = true
		case "lambertian", "metal", "dielectric":
			var name string
			var mat *scene.Material
			name, mat, err = parseMaterial(lineTokens)
			if err == nil {
				err = r.declareMaterial(name, mat)
			}
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, "unsupported syntax for 'usemtl'; expected 1 argument; got %d", len(lineTokens)-1)
			}

			mat, exists := r.materials[lineTokens[1]]
			if !exists {
				return r.emitError(res.Path(), lineNum, "undefined material with name '%s'", lineTokens[1])
			}
			r.curMaterial = mat
		case "sphere":
			err = r.parseSphere(lineTokens)
		default:
			r.logger.Warningf("[%s: %d] skipping unknown directive '%s'", res.Path(), lineNum, lineTokens[0])
		}

		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err.Error())
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Parse a sphere definition and attach it to the scene using the active material.
func (r *textSceneReader) parseSphere(lineTokens []string) error {
	if len(lineTokens) != 5 {
		return fmt.Errorf("unsupported syntax for 'sphere'; expected 4 arguments; got %d", len(lineTokens)-1)
	}
	args, err := parseFloats(lineTokens[1:])
	if err != nil {
		return err
	}

	mat := r.curMaterial
	if mat == nil {
		mat = r.defaultMaterial()
	}

	// Materials are registered with the scene the first time they are referenced.
	registered := false
	for _, sceneMat := range r.sc.Materials {
		if sceneMat == mat {
			registered = true
			break
		}
	}
	if !registered {
		if err = r.sc.AddMaterial(mat); err != nil {
			return err
		}
	}

	return r.sc.AddPrimitive(scene.NewSphere(types.Vec3{args[0], args[1], args[2]}, args[3], mat))
}

// Parse a material declaration.
func parseMaterial(lineTokens []string) (string, *scene.Material, error) {
	expArgs := map[string]int{"lambertian": 4, "metal": 5, "dielectric": 2}[lineTokens[0]]
	if len(lineTokens)-1 != expArgs {
		return "", nil, fmt.Errorf("unsupported syntax for '%s'; expected %d arguments; got %d", lineTokens[0], expArgs, len(lineTokens)-1)
	}

	name := lineTokens[1]
	args, err := parseFloats(lineTokens[2:])
	if err != nil {
		return "", nil, err
	}

	switch lineTokens[0] {
	case "lambertian":
		return name, scene.NewLambertian(types.Vec3{args[0], args[1], args[2]}), nil
	case "metal":
		return name, scene.NewMetal(types.Vec3{args[0], args[1], args[2]}, args[3]), nil
	default:
		return name, scene.NewDielectric(args[0]), nil
	}
}

// Parse a float scalar value.
func parseFloat(lineTokens []string) (float64, error) {
	if len(lineTokens) != 2 {
		return 0, fmt.Errorf("unsupported syntax for '%s'; expected 1 argument; got %d", lineTokens[0], len(lineTokens)-1)
	}

	return strconv.ParseFloat(lineTokens[1], 64)
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) != 4 {
		return types.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	args, err := parseFloats(lineTokens[1:])
	if err != nil {
		return types.Vec3{}, err
	}
	return types.Vec3{args[0], args[1], args[2]}, nil
}

func parseFloats(tokens []string) ([]float64, error) {
	out := make([]float64, len(tokens))
	for idx, tok := range tokens {
		val, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		out[idx] = val
	}
	return out, nil
}
