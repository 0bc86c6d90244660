package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/achilleasa/spheretrace/cmd"
	"github.com/achilleasa/spheretrace/encoder"
	"github.com/achilleasa/spheretrace/renderer"
	"github.com/achilleasa/spheretrace/scene/builtin"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneSeedFlag := cli.Uint64Flag{
		Name:  "scene-seed",
		Value: 0,
		Usage: "random seed for builtin scene generators",
	}

	defaults := renderer.DefaultOptions()

	app := cli.NewApp()
	app.Name = "spheretrace"
	app.Usage = "render sphere scenes using path tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: fmt.Sprintf(`
Render a single frame of a scene file (.scene or compiled .zip), an http(s) URL
pointing to a scene file or a builtin scene referenced as builtin:name.

Available builtin scenes: %s
Supported output formats: %s

Use "-" as the output file to write the frame to stdout.`,
				strings.Join(builtin.Names(), ", "),
				strings.Join(encoder.Formats(), ", "),
			),
			ArgsUsage: "scene",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: int(defaults.FrameW),
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 0,
					Usage: "frame height; if 0 it is derived from the camera aspect ratio",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: int(defaults.SamplesPerPixel),
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "bounces",
					Value: int(defaults.NumBounces),
					Usage: "max number of ray bounces",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of render workers; if 0 one worker per cpu is used",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: defaults.Scheduler,
					Usage: "block scheduler (naive, striped)",
				},
				cli.IntFlag{
					Name:  "block-height",
					Value: int(defaults.BlockHeight),
					Usage: "block height for the striped scheduler",
				},
				cli.Uint64Flag{
					Name:  "seed",
					Value: defaults.Seed,
					Usage: "random seed for sampling",
				},
				sceneSeedFlag,
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.ppm",
					Usage: "image filename for the rendered frame",
				},
				cli.StringFlag{
					Name:  "format, f",
					Usage: "output format; detected from the output file extension if not specified",
				},
				cli.Float64Flag{
					Name:  "scale",
					Value: 1.0,
					Usage: "resize the rendered frame by this factor before encoding",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:  "scene",
			Usage: "scene related commands",
			Subcommands: []cli.Command{
				{
					Name:      "info",
					Usage:     "display scene information",
					ArgsUsage: "scene",
					Flags:     []cli.Flag{sceneSeedFlag},
					Action:    cmd.ShowSceneInfo,
				},
				{
					Name:  "compile",
					Usage: "compile text scene representation into a binary compressed format",
					Description: `
Parse a scene definition from a text scene file and write it to a zip archive
which can be supplied as an argument to the render command.`,
					ArgsUsage: "scene_file1.scene scene_file2.scene ...",
					Action:    cmd.CompileScene,
				},
				{
					Name:      "generate",
					Usage:     "write a builtin scene to a scene file",
					ArgsUsage: "builtin_scene_name",
					Flags: []cli.Flag{
						sceneSeedFlag,
						cli.StringFlag{
							Name:  "out, o",
							Usage: "output scene file (.scene or .zip); defaults to NAME.scene",
						},
					},
					Action: cmd.GenerateScene,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
