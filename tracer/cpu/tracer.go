// Package cpu implements a tracer that renders row blocks on a goroutine.
package cpu

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/achilleasa/spheretrace/log"
	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/tracer"
	"github.com/achilleasa/spheretrace/tracer/integrator"
	"github.com/achilleasa/spheretrace/types"
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// The scene to be rendered. It is shared with other tracers and is
	// only ever read.
	sc *scene.Scene

	// The output frame dimensions and the RGB buffer where finalized pixels
	// are written. Each block request writes a disjoint set of rows.
	frameW      uint32
	frameH      uint32
	frameBuffer []uint8

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered frame.
	stats *tracer.Stats
}

// Create a new cpu tracer.
func NewTracer(id string) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		blockReqChan: make(chan tracer.BlockRequest),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// All cpu tracers run on a single core.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Attach tracer to a scene and render target and start processing incoming
// block requests.
func (tr *cpuTracer) Setup(sc *scene.Scene, frameW, frameH uint32, frameBuffer []uint8) error {
	tr.Lock()
	defer tr.Unlock()

	if sc == nil {
		return tracer.ErrNoSceneData
	}
	if sc.Camera == nil {
		return fmt.Errorf("cpu tracer: scene has no camera")
	}
	if uint64(len(frameBuffer)) < 3*uint64(frameW)*uint64(frameH) {
		return fmt.Errorf("cpu tracer: frame buffer too small for %dx%d frame", frameW, frameH)
	}

	tr.sc = sc
	tr.frameW = frameW
	tr.frameH = frameH
	tr.frameBuffer = frameBuffer

	tr.startWorker()
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	// If the worker is running shut it down
	if tr.closeChan != nil {
		close(tr.closeChan)
		tr.wg.Wait()
		tr.closeChan = nil
	}

	tr.sc = nil
	tr.frameBuffer = nil
}

// Enqueue block request. The call blocks until the worker picks up the
// request. Requests sent to a closed tracer fail with ErrTracerClosed.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	tr.Lock()
	closeChan := tr.closeChan
	tr.Unlock()

	if closeChan == nil {
		blockReq.ErrChan <- tracer.ErrTracerClosed
		return
	}

	select {
	case tr.blockReqChan <- blockReq:
	case <-closeChan:
		blockReq.ErrChan <- tracer.ErrTracerClosed
	}
}

// Reset frame statistics.
func (tr *cpuTracer) ResetStats() {
	*tr.stats = tracer.Stats{}
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Spawn a go-routine to process block render requests. This method is meant
// to be called while holding tr.Lock().
func (tr *cpuTracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}

	closeChan := make(chan struct{})
	tr.closeChan = closeChan
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:
				startTime := time.Now()
				if err := tr.renderBlock(&blockReq); err != nil {
					blockReq.ErrChan <- err
					continue
				}

				// Update stats
				tr.stats.BlockH += blockReq.BlockH
				tr.stats.Blocks++
				tr.stats.RenderTime += time.Since(startTime)

				tr.logger.Debugf("rendered rows %d-%d in %s", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH-1, time.Since(startTime))
				blockReq.DoneChan <- blockReq.BlockH
			case <-closeChan:
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) error {
	if tr.sc == nil {
		return tracer.ErrNoSceneData
	}
	if blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return fmt.Errorf("cpu tracer: block rows %d-%d exceed frame height %d", blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, tr.frameH)
	}

	camera := tr.sc.Camera
	world := tr.sc.World
	spp := blockReq.SamplesPerPixel
	maxBounces := int(blockReq.NumBounces)

	// Normalized screen coordinate denominators; clamped for single pixel
	// wide or tall frames
	sDiv := float64(max(tr.frameW, 2) - 1)
	tDiv := float64(max(tr.frameH, 2) - 1)

	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		// Row 0 is the top of the image while t grows upwards
		row := float64(tr.frameH - 1 - y)
		for x := uint32(0); x < tr.frameW; x++ {
			pixelIndex := y*tr.frameW + x
			rng := types.NewRand(blockReq.Seed, uint64(pixelIndex))

			var color types.Vec3
			for sample := uint32(0); sample < spp; sample++ {
				s := (float64(x) + rng.Float64()) / sDiv
				t := (row + rng.Float64()) / tDiv
				radiance := integrator.Radiance(rng, camera.Ray(rng, s, t), world, maxBounces)
				if !radiance.IsFinite() {
					tr.stats.NonFiniteSamples++
				}
				color = color.Add(radiance)
			}
			tr.stats.Samples += uint64(spp)

			r, g, b := Finalize(color, spp)
			offset := 3 * pixelIndex
			tr.frameBuffer[offset] = r
			tr.frameBuffer[offset+1] = g
			tr.frameBuffer[offset+2] = b
		}
	}

	return nil
}

// Finalize averages an accumulated pixel color over the sample count,
// applies gamma 2 correction and quantizes each channel to 8 bits.
func Finalize(color types.Vec3, samples uint32) (r, g, b uint8) {
	if samples == 0 {
		return 0, 0, 0
	}
	color = color.Div(float64(samples)).Map(math.Sqrt)
	return Quantize(color[0]), Quantize(color[1]), Quantize(color[2])
}

// Quantize a gamma corrected channel value to floor(255.99 * c) saturated
// to [0, 255]. NaN maps to 0.
func Quantize(c float64) uint8 {
	v := math.Floor(255.99 * c)
	switch {
	case !(v > 0):
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
