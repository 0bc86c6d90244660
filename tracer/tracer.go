package tracer

import (
	"errors"
	"time"

	"github.com/achilleasa/spheretrace/scene"
)

var (
	ErrTracerClosed = errors.New("tracer: tracer is closed")
	ErrNoSceneData  = errors.New("tracer: no scene data attached")
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height. Row 0 is the top image row.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel.
	SamplesPerPixel uint32

	// The max number of scattering events along a traced path.
	NumBounces uint32

	// The render seed. Each pixel derives its own random stream from this
	// value and its index in the frame.
	Seed uint64

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics for the last rendered frame.
type Stats struct {
	// The total number of rows and blocks rendered.
	BlockH uint32
	Blocks uint32

	// The number of traced samples and the number of those that produced
	// NaN or infinite radiance.
	Samples          uint64
	NonFiniteSamples uint64

	// The time spent rendering blocks.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracers computation speed estimate compared to a
	// baseline (single cpu core) implementation.
	SpeedEstimate() float32

	// Attach the tracer to a scene and a RGB frame buffer with 3 bytes
	// per pixel and start processing block requests. The scene must not
	// be modified while the tracer is rendering.
	Setup(sc *scene.Scene, frameW, frameH uint32, frameBuffer []uint8) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Reset the collected statistics before rendering a new frame.
	ResetStats()

	// Retrieve last frame statistics.
	Stats() *Stats
}
