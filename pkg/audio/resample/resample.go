// Package resample linearly maps an interleaved PCM buffer from one
// sample rate to another, preserving channel interleaving.
package resample

import "math"

// Linear resamples in (interleaved, channels-per-frame samples) from
// srcRate to dstRate. If srcRate == dstRate it returns in unchanged
// (identity fast path) — the caller must not mutate the result in that
// case, since it aliases the input.
//
// For an input of F frames the output has ceil(F*dstRate/srcRate)
// frames. Each output frame j is computed from source position
// t = j*srcRate/dstRate via linear interpolation between floor(t) and
// floor(t)+1, with the latter clamped to the last frame at the tail.
func Linear(in []float32, channels, srcRate, dstRate int) []float32 {
	if srcRate == dstRate || len(in) == 0 {
		return in
	}

	srcFrames := len(in) / channels
	dstFrames := int(math.Ceil(float64(srcFrames) * float64(dstRate) / float64(srcRate)))
	out := make([]float32, dstFrames*channels)

	ratio := float64(srcRate) / float64(dstRate)
	lastFrame := srcFrames - 1

	for j := 0; j < dstFrames; j++ {
		t := float64(j) * ratio
		i := int(math.Floor(t))
		frac := float32(t - math.Floor(t))

		i1 := i
		if i1 > lastFrame {
			i1 = lastFrame
		}
		i2 := i1 + 1
		if i2 > lastFrame {
			i2 = lastFrame
		}

		for c := 0; c < channels; c++ {
			a := in[i1*channels+c]
			b := in[i2*channels+c]
			out[j*channels+c] = a + frac*(b-a)
		}
	}

	return out
}

// OutputFrames returns the exact output frame count Linear will produce
// for the given source frame count and rate pair, without performing the
// interpolation. Useful for preallocating or for testing the invariant
// independently of the interpolation itself.
func OutputFrames(srcFrames, srcRate, dstRate int) int {
	if srcRate == dstRate {
		return srcFrames
	}
	return int(math.Ceil(float64(srcFrames) * float64(dstRate) / float64(srcRate)))
}
