package resample

import (
	"math"
	"testing"
)

func TestLinearIdentity(t *testing.T) {
	in := []float32{0.1, -0.2, 0.3, -0.4, 0.5, -0.6}
	out := Linear(in, 2, 48000, 48000)

	if len(out) != len(in) {
		t.Fatalf("identity path changed length: got %d want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("identity path not bit-exact at %d: got %v want %v", i, out[i], in[i])
		}
	}
}

func TestLinearOutputFrameCount(t *testing.T) {
	// 10 source frames at 44100 -> target 48000: ceil(10*48000/44100) = 11
	srcFrames := 10
	channels := 2
	in := make([]float32, srcFrames*channels)
	for i := range in {
		in[i] = float32(i)
	}

	out := Linear(in, channels, 44100, 48000)
	gotFrames := len(out) / channels
	if gotFrames != 11 {
		t.Fatalf("expected 11 output frames, got %d", gotFrames)
	}
	if got := OutputFrames(srcFrames, 44100, 48000); got != 11 {
		t.Fatalf("OutputFrames mismatch: got %d want 11", got)
	}
}

func TestLinearFrameCountInvariantUpAndDown(t *testing.T) {
	rates := []struct{ src, dst int }{
		{44100, 48000},
		{48000, 44100},
		{22050, 48000},
		{48000, 8000},
	}
	srcFrames := 137
	channels := 2
	in := make([]float32, srcFrames*channels)
	for i := range in {
		in[i] = float32(math.Sin(float64(i)))
	}

	for _, r := range rates {
		out := Linear(in, channels, r.src, r.dst)
		wantFrames := OutputFrames(srcFrames, r.src, r.dst)
		gotFrames := len(out) / channels
		if gotFrames != wantFrames {
			t.Fatalf("rate %d->%d: got %d frames, want %d", r.src, r.dst, gotFrames, wantFrames)
		}
		if diff := gotFrames - int(math.Ceil(float64(srcFrames)*float64(r.dst)/float64(r.src))); diff > 1 || diff < -1 {
			t.Fatalf("rate %d->%d: frame count invariant violated by %d", r.src, r.dst, diff)
		}
	}
}

func TestLinearInterpolatesBetweenSamples(t *testing.T) {
	// mono, 3 source frames: 0.0, 1.0, 2.0 at rate 2, upsampled to rate 4.
	// Output frame 1 lands exactly halfway between input frames 0 and 1.
	in := []float32{0.0, 1.0, 2.0}
	out := Linear(in, 1, 2, 4)

	wantFrames := OutputFrames(3, 2, 4)
	if len(out) != wantFrames {
		t.Fatalf("expected %d output frames, got %d", wantFrames, len(out))
	}
	if out[0] != 0.0 {
		t.Fatalf("first output frame should equal first input frame, got %v", out[0])
	}
	if got := out[1]; math.Abs(float64(got)-0.5) > 1e-6 {
		t.Fatalf("expected interpolated value 0.5 at output frame 1, got %v", got)
	}
}
