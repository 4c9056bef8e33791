package decode

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-audio/wav"
)

func openWAV(path string, logger *slog.Logger) (Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("not a valid WAV file")}
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		f.Close()
		return nil, &DecodeError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		logger.Warn("wav: error closing file after decode", "path", path, "error", err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		channels = int(dec.NumChans)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}

	samples := make([]float32, len(buf.Data))
	switch bitDepth {
	case 16:
		for i, s := range buf.Data {
			samples[i] = int16ToFloat32(s)
		}
	case 24:
		for i, s := range buf.Data {
			samples[i] = int24ToFloat32(s)
		}
	case 32:
		for i, s := range buf.Data {
			samples[i] = int32ToFloat32(int32(s))
		}
	default:
		logger.Warn("wav: unrecognized bit depth, assuming 16-bit", "path", path, "bitDepth", bitDepth)
		for i, s := range buf.Data {
			samples[i] = int16ToFloat32(s)
		}
	}

	frames := int64(len(samples)) / int64(channels)
	sampleRate := buf.Format.SampleRate
	if sampleRate <= 0 {
		sampleRate = int(dec.SampleRate)
	}

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
