package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/achilleasa/spheretrace/encoder"
	"github.com/achilleasa/spheretrace/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	// Load scene
	if ctx.NArg() != 1 {
		return errors.New("missing scene argument")
	}

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	sc, err := loadScene(ctx.Args().First(), ctx.Uint64("scene-seed"))
	if err != nil {
		return err
	}

	opts.FrameW, opts.FrameH, err = frameDims(ctx.Int("width"), ctx.Int("height"), sc.Camera.Params.Aspect)
	if err != nil {
		return err
	}

	// An explicit frame height overrides the scene aspect ratio
	if ctx.Int("height") != 0 {
		sc.Camera.SetAspect(float64(opts.FrameW) / float64(opts.FrameH))
	}

	// Create renderer
	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %dx%d frame at %d spp using %d workers", opts.FrameW, opts.FrameH, opts.SamplesPerPixel, opts.NumWorkers)
	frame, err := r.Render()
	if err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	img, err := encoder.Resize(frame, ctx.Float64("scale"))
	if err != nil {
		return err
	}

	// Write to stdout
	if outFile := ctx.String("out"); outFile == "-" {
		format := ctx.String("format")
		if format == "" {
			format = "ppm"
		}
		return encoder.Encode(os.Stdout, img, format)
	}

	return encoder.EncodeFile(ctx.String("out"), img, ctx.String("format"))
}

// Populate renderer options from the command line flags. A zero worker
// count selects one worker per available CPU.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	var opts renderer.Options
	var err error
	for _, f := range []struct {
		name string
		dst  *uint32
	}{
		{"spp", &opts.SamplesPerPixel},
		{"bounces", &opts.NumBounces},
		{"workers", &opts.NumWorkers},
		{"block-height", &opts.BlockHeight},
	} {
		if *f.dst, err = uintFlag(ctx, f.name); err != nil {
			return opts, err
		}
	}

	opts.Seed = ctx.Uint64("seed")
	opts.Scheduler = ctx.String("scheduler")
	if opts.NumWorkers == 0 {
		opts.NumWorkers = uint32(runtime.NumCPU())
	}
	return opts, nil
}

// Read an int flag that must not be negative.
func uintFlag(ctx *cli.Context, name string) (uint32, error) {
	val := ctx.Int(name)
	if val < 0 || int64(val) > math.MaxUint32 {
		return 0, fmt.Errorf("invalid value %d for flag --%s", val, name)
	}
	return uint32(val), nil
}

// Calculate the frame dimensions. A zero height is derived from the width
// and the camera aspect ratio.
func frameDims(width, height int, aspect float64) (uint32, uint32, error) {
	if width <= 0 {
		return 0, 0, fmt.Errorf("invalid frame width %d", width)
	}
	if height < 0 {
		return 0, 0, fmt.Errorf("invalid frame height %d", height)
	}

	if height == 0 {
		if !(aspect > 0) {
			return 0, 0, fmt.Errorf("cannot derive frame height from camera aspect ratio %f", aspect)
		}
		height = max(1, int(float64(width)/aspect))
	}

	return uint32(width), uint32(height), nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Rows", "Blocks", "% of frame", "Samples", "Non-finite", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%d", stat.Blocks),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Samples),
			fmt.Sprintf("%d", stat.NonFiniteSamples),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%d", stats.Samples), fmt.Sprintf("%d", stats.NonFiniteSamples), stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
