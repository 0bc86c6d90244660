package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/scene/builtin"
	"github.com/achilleasa/spheretrace/scene/reader"
	"github.com/achilleasa/spheretrace/scene/writer"
	"github.com/urfave/cli"
)

// Scene arguments with this prefix refer to procedurally generated scenes.
const builtinPrefix = "builtin:"

// Load a scene from a local file, an http(s) URL or a builtin generator.
func loadScene(sceneArg string, seed uint64) (*scene.Scene, error) {
	var sc *scene.Scene
	var err error
	if name, isBuiltin := strings.CutPrefix(sceneArg, builtinPrefix); isBuiltin {
		logger.Noticef("generating builtin scene %q with seed %d", name, seed)
		sc, err = builtin.Generate(name, seed)
	} else {
		sc, err = reader.ReadScene(sceneArg)
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// Compile text scenes to the binary zip format.
func CompileScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() == 0 {
		return errors.New("missing scene file argument")
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".scene") {
			logger.Warningf("skipping unsupported file %s", sceneFile)
			continue
		}

		logger.Noticef("parsing and compiling scene: %s", sceneFile)
		sc, err := reader.ReadScene(sceneFile)
		if err != nil {
			return err
		}

		// Display compiled scene info
		logger.Noticef("scene information:\n%s", sc.Stats())

		zipFile := strings.TrimSuffix(sceneFile, ".scene") + ".zip"
		if err = writer.WriteScene(sc, zipFile); err != nil {
			return err
		}
	}

	return nil
}

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene argument")
	}

	sc, err := loadScene(ctx.Args().First(), ctx.Uint64("scene-seed"))
	if err != nil {
		return err
	}

	for _, warning := range sc.Validate() {
		logger.Warningf("scene: %s", warning)
	}
	logger.Noticef("scene information:\n%s", sc.Stats())
	return nil
}

// Generate a builtin scene and write it to a text or zip scene file.
func GenerateScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return fmt.Errorf("missing builtin scene name; available scenes: %v", builtin.Names())
	}

	sc, err := builtin.Generate(ctx.Args().First(), ctx.Uint64("scene-seed"))
	if err != nil {
		return err
	}

	outFile := ctx.String("out")
	if outFile == "" {
		outFile = ctx.Args().First() + ".scene"
	}
	if err = writer.WriteScene(sc, outFile); err != nil {
		return err
	}

	logger.Noticef("wrote scene %q to %s", ctx.Args().First(), outFile)
	return nil
}
