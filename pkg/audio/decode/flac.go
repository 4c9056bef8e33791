package decode

import (
	"io"
	"log/slog"

	"github.com/mewkiz/flac"
)

func openFLAC(path string, logger *slog.Logger) (Decoder, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	sampleRate := int(stream.Info.SampleRate)
	bitsPerSample := int(stream.Info.BitsPerSample)

	var samples []float32
	for {
		frame, err := stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				break
			}
			// A single malformed frame must not fail the whole file:
			// log and skip to the next frame, per the decoder's
			// soft-skip contract for per-packet errors.
			logger.Warn("flac: skipping unreadable frame", "path", path, "error", err)
			continue
		}

		nSamples := len(frame.Subframes[0].Samples)
		for i := 0; i < nSamples; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, convertFLACSample(frame.Subframes[ch].Samples[i], bitsPerSample))
			}
		}
	}

	frames := int64(len(samples)) / int64(channels)

	return &bufferedDecoder{
		path:    path,
		samples: samples,
		meta: Metadata{
			SampleRate: sampleRate,
			Channels:   channels,
			Frames:     frames,
			Duration:   float64(frames) / float64(sampleRate),
		},
	}, nil
}

func convertFLACSample(s int32, bitsPerSample int) float32 {
	switch bitsPerSample {
	case 16:
		return int16ToFloat32(int(s))
	case 24:
		return int24ToFloat32(int(s))
	case 32:
		return int32ToFloat32(s)
	default:
		// Treat any other depth as already centered on the 24-bit range
		// mewkiz/flac normalizes subframe samples into, the common case
		// for odd bit depths in practice.
		return int24ToFloat32(int(s))
	}
}
