package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// The number of rows and blocks rendered by this tracer and the
	// percentage of total frame area they represent.
	BlockH       uint32
	Blocks       uint32
	FramePercent float32

	// Traced samples and the ones that produced NaN or infinite radiance.
	Samples          uint64
	NonFiniteSamples uint64

	// Render time for assigned blocks
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Totals across all tracers.
	Samples          uint64
	NonFiniteSamples uint64

	// Total render time for entire frame.
	RenderTime time.Duration
}
