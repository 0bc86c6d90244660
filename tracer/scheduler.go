package tracer

import "math"

// The default height for striped block assignments.
const DefaultBlockHeight uint32 = 8

// A row block assigned to a particular tracer.
type BlockAssignment struct {
	// Index of the tracer in the list passed to Schedule.
	Tracer int

	BlockY uint32
	BlockH uint32
}

// The BlockScheduler interface is implemented by all block scheduling algorithms.
type BlockScheduler interface {
	// Split frame into row blocks and assign them to the pool of tracers.
	// The returned assignments cover every frame row exactly once.
	Schedule(tracers []Tracer, frameH uint32) []BlockAssignment
}

// The naive scheduler splits the frame into one contiguous block per tracer
// with a height proportional to the tracer's speed estimate.
type naiveScheduler struct{}

// Create a new naive scheduler instance.
func NaiveScheduler() BlockScheduler {
	return &naiveScheduler{}
}

// Split frame into one block per tracer.
//
// Each tracer is assigned at least one row. In case rows don't add up to the
// frame height the missing ones are appended to the first tracer.
func (sch *naiveScheduler) Schedule(tracers []Tracer, frameH uint32) []BlockAssignment {
	if len(tracers) == 0 || frameH == 0 {
		return nil
	}

	var total float64 = 0.0
	for _, tr := range tracers {
		total += float64(tr.SpeedEstimate())
	}
	scaler := float64(frameH) / total

	rows := make([]uint32, len(tracers))
	var scheduledRows uint32 = 0
	for idx, tr := range tracers {
		rows[idx] = uint32(math.Max(1.0, math.Floor(float64(tr.SpeedEstimate())*scaler)))
		scheduledRows += rows[idx]
	}

	if scheduledRows <= frameH {
		rows[0] += frameH - scheduledRows
	} else {
		// More tracers than rows; drop tracers from the end of the list
		for idx := len(rows) - 1; idx >= 0 && scheduledRows > frameH; idx-- {
			excess := min(rows[idx], scheduledRows-frameH)
			rows[idx] -= excess
			scheduledRows -= excess
		}
	}

	assignments := make([]BlockAssignment, 0, len(tracers))
	var blockY uint32 = 0
	for idx, blockH := range rows {
		if blockH == 0 {
			continue
		}
		assignments = append(assignments, BlockAssignment{Tracer: idx, BlockY: blockY, BlockH: blockH})
		blockY += blockH
	}

	return assignments
}

// The striped scheduler splits the frame into fixed height blocks and
// assigns them to the tracers in round-robin order. Interleaving blocks
// balances the load when the cost of scene regions varies a lot.
type stripedScheduler struct {
	blockH uint32
}

// Create a new striped scheduler with the given block height.
func StripedScheduler(blockH uint32) BlockScheduler {
	if blockH == 0 {
		blockH = DefaultBlockHeight
	}
	return &stripedScheduler{blockH: blockH}
}

// Split frame into fixed height blocks.
func (sch *stripedScheduler) Schedule(tracers []Tracer, frameH uint32) []BlockAssignment {
	if len(tracers) == 0 || frameH == 0 {
		return nil
	}

	assignments := make([]BlockAssignment, 0, (frameH+sch.blockH-1)/sch.blockH)
	for blockY := uint32(0); blockY < frameH; blockY += sch.blockH {
		assignments = append(assignments, BlockAssignment{
			Tracer: len(assignments) % len(tracers),
			BlockY: blockY,
			BlockH: min(sch.blockH, frameH-blockY),
		})
	}

	return assignments
}
