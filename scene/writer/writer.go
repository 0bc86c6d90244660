package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/achilleasa/spheretrace/scene"
)

// The Writer interface is implemented by all scene writers.
type Writer interface {
	// Write scene definition
	Write(*scene.Scene) error
}

// Write scene to a file. The output format is selected based on the file
// extension: .scene files use the text format while .zip files contain a
// compiled binary representation.
func WriteScene(sc *scene.Scene, filename string) error {
	var writer Writer
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".scene":
		f, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		writer = newTextSceneWriter(f)
	case ".zip":
		writer = newZipSceneWriter(filename)
	default:
		return fmt.Errorf("writeScene: unsupported file format %q", filepath.Ext(filename))
	}
	return writer.Write(sc)
}
