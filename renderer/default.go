package renderer

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/achilleasa/spheretrace/log"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/tracer"
	"github.com/achilleasa/spheretrace/tracer/cpu"
)

// The default renderer splits each frame into row blocks and renders them
// in parallel using a pool of tracers.
type defaultRenderer struct {
	logger log.Logger

	sc *scene.Scene

	options Options

	scheduler tracer.BlockScheduler

	tracers []tracer.Tracer

	// RGB frame buffer shared by all tracers.
	frameBuffer []uint8

	stats FrameStats
}

// Create a new renderer backed by options.NumWorkers cpu tracers.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tracers := make([]tracer.Tracer, opts.NumWorkers)
	for idx := range tracers {
		tracers[idx] = cpu.NewTracer(fmt.Sprintf("cpu-%d", idx))
	}

	return newRenderer(sc, tracers, opts)
}

func newRenderer(sc *scene.Scene, tracers []tracer.Tracer, opts Options) (*defaultRenderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, ErrCameraNotDefined
	}
	if len(tracers) == 0 {
		return nil, ErrNoTracers
	}

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		sc:          sc,
		options:     opts,
		scheduler:   opts.blockScheduler(),
		tracers:     tracers,
		frameBuffer: make([]uint8, 3*int(opts.FrameW)*int(opts.FrameH)),
	}

	for _, warning := range sc.Validate() {
		r.logger.Warningf("scene: %s", warning)
	}

	start := time.Now()
	for _, tr := range tracers {
		if err := tr.Setup(sc, opts.FrameW, opts.FrameH, r.frameBuffer); err != nil {
			r.Close()
			return nil, fmt.Errorf("renderer: could not setup tracer %s: %w", tr.Id(), err)
		}
		r.logger.Debugf(`attached tracer "%s"`, tr.Id())
	}
	r.logger.Infof("setup %d tracers in %d ms", len(tracers), time.Since(start).Nanoseconds()/1000000)

	return r, nil
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Render frame.
func (r *defaultRenderer) Render() (*image.RGBA, error) {
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	start := time.Now()
	assignments := r.scheduler.Schedule(r.tracers, r.options.FrameH)

	// Group blocks per tracer
	queues := make([][]tracer.BlockRequest, len(r.tracers))
	doneChan := make(chan uint32, len(assignments))
	errChan := make(chan error, len(assignments))
	for _, a := range assignments {
		queues[a.Tracer] = append(queues[a.Tracer], tracer.BlockRequest{
			BlockY:          a.BlockY,
			BlockH:          a.BlockH,
			SamplesPerPixel: r.options.SamplesPerPixel,
			NumBounces:      r.options.NumBounces,
			Seed:            r.options.Seed,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
	}

	for idx, tr := range r.tracers {
		tr.ResetStats()
		if len(queues[idx]) == 0 {
			continue
		}

		// Tracers accept one request at a time so each queue is fed from
		// its own go-routine.
		go func(tr tracer.Tracer, queue []tracer.BlockRequest) {
			for _, blockReq := range queue {
				tr.Enqueue(blockReq)
			}
		}(tr, queues[idx])
	}

	// Wait for all blocks to complete
	var err error
	var renderedRows uint32
	for range assignments {
		select {
		case blockH := <-doneChan:
			renderedRows += blockH
		case blockErr := <-errChan:
			if err == nil {
				err = blockErr
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	r.updateStats(time.Since(start))
	r.logger.Infof("rendered %d rows in %d blocks in %d ms", renderedRows, len(assignments), r.stats.RenderTime.Nanoseconds()/1000000)
	if r.stats.NonFiniteSamples > 0 {
		r.logger.Warningf("%d of %d samples produced NaN or infinite radiance", r.stats.NonFiniteSamples, r.stats.Samples)
	}

	return r.frameImage(), nil
}

// Collect tracer statistics for the last frame.
func (r *defaultRenderer) updateStats(renderTime time.Duration) {
	r.stats = FrameStats{
		Tracers:    make([]TracerStat, len(r.tracers)),
		RenderTime: renderTime,
	}

	for idx, tr := range r.tracers {
		stats := tr.Stats()
		r.stats.Tracers[idx] = TracerStat{
			Id:               tr.Id(),
			BlockH:           stats.BlockH,
			Blocks:           stats.Blocks,
			FramePercent:     100.0 * float32(stats.BlockH) / float32(r.options.FrameH),
			Samples:          stats.Samples,
			NonFiniteSamples: stats.NonFiniteSamples,
			RenderTime:       stats.RenderTime,
		}
		r.stats.Samples += stats.Samples
		r.stats.NonFiniteSamples += stats.NonFiniteSamples
	}
}

// Convert the RGB frame buffer into an image.
func (r *defaultRenderer) frameImage() *image.RGBA {
	frameW, frameH := int(r.options.FrameW), int(r.options.FrameH)
	img := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	for y := 0; y < frameH; y++ {
		for x := 0; x < frameW; x++ {
			offset := 3 * (y*frameW + x)
			img.SetRGBA(x, y, color.RGBA{r.frameBuffer[offset], r.frameBuffer[offset+1], r.frameBuffer[offset+2], 255})
		}
	}
	return img
}
