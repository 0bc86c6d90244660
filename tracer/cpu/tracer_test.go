package cpu

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/achilleasa/spheretrace/scene"
	"github.com/achilleasa/spheretrace/scene/builtin"
	"github.com/achilleasa/spheretrace/tracer"
	"github.com/achilleasa/spheretrace/types"
)

const (
	testFrameW = 9
	testFrameH = 9
)

func TestQuantize(t *testing.T) {
	type spec struct {
		in  float64
		exp uint8
	}
	specs := []spec{
		{0, 0},
		{-0.5, 0},
		{math.NaN(), 0},
		{0.5, 127},
		{1.0, 255},
		{1.5, 255},
		{math.Inf(1), 255},
		{1.5 / 255.99, 1},
	}

	for index, s := range specs {
		if got := Quantize(s.in); got != s.exp {
			t.Fatalf("[spec %d] expected Quantize(%f) to be %d; got %d", index, s.in, s.exp, got)
		}
	}
}

func TestFinalize(t *testing.T) {
	// 4 samples averaging to 0.25 yield 0.5 after gamma correction
	r, g, b := Finalize(types.Vec3{1, 4, 0}, 4)
	if r != 127 || g != 255 || b != 0 {
		t.Fatalf("expected (127, 255, 0); got (%d, %d, %d)", r, g, b)
	}

	if r, g, b = Finalize(types.Vec3{1, 1, 1}, 0); r != 0 || g != 0 || b != 0 {
		t.Fatal("expected black color when no samples are taken")
	}
}

func TestRenderBlock(t *testing.T) {
	sc := builtin.DiffuseSphere(0)
	sc.World.Children[0].Material = scene.NewLambertian(types.Vec3{0, 0, 0})

	frameBuffer := renderFrame(t, sc, 1, 4, []tracer.BlockAssignment{{Tracer: 0, BlockY: 0, BlockH: testFrameH}})

	// The center pixel looks at the black sphere
	if center := pixel(frameBuffer, 4, 4); center != [3]uint8{0, 0, 0} {
		t.Fatalf("expected center pixel to be black; got %v", center)
	}

	// Corners see the background gradient
	for _, corner := range [][2]int{{0, 0}, {8, 0}, {0, 8}, {8, 8}} {
		rgb := pixel(frameBuffer, corner[0], corner[1])
		if rgb[2] != 255 || rgb[0] >= rgb[1] {
			t.Fatalf("expected corner pixel %v to be sky colored; got %v", corner, rgb)
		}
	}

	// The top row looks further up the gradient and is bluer than the bottom row
	top, bottom := pixel(frameBuffer, 0, 0), pixel(frameBuffer, 0, 8)
	if top[0] >= bottom[0] {
		t.Fatalf("expected top row to be bluer than bottom row; got top %v bottom %v", top, bottom)
	}
}

func TestRenderIsIndependentOfScheduling(t *testing.T) {
	sc := builtin.DiffuseSphere(0)

	single := renderFrame(t, sc, 1, 8, tracer.StripedScheduler(testFrameH).Schedule([]tracer.Tracer{nil}, testFrameH))
	striped := renderFrame(t, sc, 3, 8, tracer.StripedScheduler(2).Schedule(make([]tracer.Tracer, 3), testFrameH))

	if !bytes.Equal(single, striped) {
		t.Fatal("expected frame output to be independent of block scheduling")
	}
}

func TestRenderBlockOutOfBounds(t *testing.T) {
	tr := NewTracer("test")
	defer tr.Close()

	frameBuffer := make([]uint8, 3*testFrameW*testFrameH)
	if err := tr.Setup(builtin.DiffuseSphere(0), testFrameW, testFrameH, frameBuffer); err != nil {
		t.Fatal(err)
	}

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{BlockY: 8, BlockH: 2, SamplesPerPixel: 1, NumBounces: 1, DoneChan: doneChan, ErrChan: errChan})

	select {
	case <-doneChan:
		t.Fatal("expected block request to fail")
	case err := <-errChan:
		if err == nil {
			t.Fatal("expected an error")
		}
	}
}

func TestSetupErrors(t *testing.T) {
	tr := NewTracer("test")
	defer tr.Close()

	if err := tr.Setup(nil, 1, 1, make([]uint8, 3)); !errors.Is(err, tracer.ErrNoSceneData) {
		t.Fatalf("expected ErrNoSceneData; got %v", err)
	}
	if err := tr.Setup(scene.NewScene(), 1, 1, make([]uint8, 3)); err == nil {
		t.Fatal("expected error for scene without camera")
	}
	if err := tr.Setup(builtin.DiffuseSphere(0), 2, 2, make([]uint8, 3)); err == nil {
		t.Fatal("expected error for undersized frame buffer")
	}
}

func TestEnqueueOnClosedTracer(t *testing.T) {
	tr := NewTracer("test")
	tr.Close()

	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{BlockH: 1, ErrChan: errChan})
	if err := <-errChan; !errors.Is(err, tracer.ErrTracerClosed) {
		t.Fatalf("expected ErrTracerClosed; got %v", err)
	}
}

func TestStats(t *testing.T) {
	sc := builtin.DiffuseSphere(0)
	tr := NewTracer("test")
	defer tr.Close()

	frameBuffer := make([]uint8, 3*testFrameW*testFrameH)
	if err := tr.Setup(sc, testFrameW, testFrameH, frameBuffer); err != nil {
		t.Fatal(err)
	}

	doneChan := make(chan uint32, 2)
	errChan := make(chan error, 2)
	tr.Enqueue(tracer.BlockRequest{BlockY: 0, BlockH: 4, SamplesPerPixel: 2, NumBounces: 5, DoneChan: doneChan, ErrChan: errChan})
	tr.Enqueue(tracer.BlockRequest{BlockY: 4, BlockH: 5, SamplesPerPixel: 2, NumBounces: 5, DoneChan: doneChan, ErrChan: errChan})
	for i := 0; i < 2; i++ {
		select {
		case <-doneChan:
		case err := <-errChan:
			t.Fatal(err)
		}
	}

	stats := tr.Stats()
	if stats.BlockH != testFrameH || stats.Blocks != 2 {
		t.Fatalf("expected 2 blocks with %d rows; got %d blocks with %d rows", testFrameH, stats.Blocks, stats.BlockH)
	}
	if stats.Samples != 2*testFrameW*testFrameH {
		t.Fatalf("expected %d samples; got %d", 2*testFrameW*testFrameH, stats.Samples)
	}
	if stats.NonFiniteSamples != 0 {
		t.Fatalf("expected no non-finite samples; got %d", stats.NonFiniteSamples)
	}

	tr.ResetStats()
	if *tr.Stats() != (tracer.Stats{}) {
		t.Fatal("expected stats to be reset")
	}
}

// Render a frame using numTracers cpu tracers and the supplied block assignments.
func renderFrame(t *testing.T, sc *scene.Scene, numTracers int, spp uint32, assignments []tracer.BlockAssignment) []uint8 {
	t.Helper()

	frameBuffer := make([]uint8, 3*testFrameW*testFrameH)
	tracers := make([]tracer.Tracer, numTracers)
	for i := range tracers {
		tracers[i] = NewTracer("test")
		defer tracers[i].Close()
		if err := tracers[i].Setup(sc, testFrameW, testFrameH, frameBuffer); err != nil {
			t.Fatal(err)
		}
	}

	doneChan := make(chan uint32, len(assignments))
	errChan := make(chan error, len(assignments))
	for _, a := range assignments {
		tracers[a.Tracer].Enqueue(tracer.BlockRequest{
			BlockY:          a.BlockY,
			BlockH:          a.BlockH,
			SamplesPerPixel: spp,
			NumBounces:      10,
			Seed:            42,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
	}

	var rows uint32
	for range assignments {
		select {
		case blockH := <-doneChan:
			rows += blockH
		case err := <-errChan:
			t.Fatal(err)
		}
	}
	if rows != testFrameH {
		t.Fatalf("expected %d rendered rows; got %d", testFrameH, rows)
	}

	return frameBuffer
}

func pixel(frameBuffer []uint8, x, y int) [3]uint8 {
	offset := 3 * (y*testFrameW + x)
	return [3]uint8{frameBuffer[offset], frameBuffer[offset+1], frameBuffer[offset+2]}
}
