package renderer

import (
	"fmt"
	"runtime"

	"github.com/achilleasa/spheretrace/tracer"
)

// Supported block schedulers.
const (
	NaiveScheduler   = "naive"
	StripedScheduler = "striped"
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples.
	SamplesPerPixel uint32

	// Max number of scattering events per path.
	NumBounces uint32

	// Number of cpu tracers rendering in parallel.
	NumWorkers uint32

	// Block height used by the striped scheduler.
	BlockHeight uint32

	// Seed for the per-pixel random streams. Renders with the same seed
	// and options produce identical frames.
	Seed uint64

	// Block scheduler selection.
	Scheduler string
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		FrameW:          1920,
		FrameH:          1080,
		SamplesPerPixel: 500,
		NumBounces:      50,
		NumWorkers:      uint32(runtime.NumCPU()),
		BlockHeight:     tracer.DefaultBlockHeight,
		Scheduler:       StripedScheduler,
	}
}

// Validate options.
func (opts Options) Validate() error {
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return fmt.Errorf("%w: frame dimensions must be positive; got %dx%d", ErrInvalidOptions, opts.FrameW, opts.FrameH)
	}
	if opts.SamplesPerPixel == 0 {
		return fmt.Errorf("%w: samples per pixel must be positive", ErrInvalidOptions)
	}
	if opts.NumWorkers == 0 {
		return fmt.Errorf("%w: at least one worker is required", ErrInvalidOptions)
	}
	switch opts.Scheduler {
	case NaiveScheduler:
	case StripedScheduler:
		if opts.BlockHeight == 0 {
			return fmt.Errorf("%w: block height must be positive", ErrInvalidOptions)
		}
	default:
		return fmt.Errorf("%w: unknown scheduler %q", ErrInvalidOptions, opts.Scheduler)
	}
	return nil
}

// Create the block scheduler selected by the options.
func (opts Options) blockScheduler() tracer.BlockScheduler {
	if opts.Scheduler == NaiveScheduler {
		return tracer.NaiveScheduler()
	}
	return tracer.StripedScheduler(opts.BlockHeight)
}
