package decode

import (
	"encoding/binary"
	"io"
	"log/slog"
	"os"

	"github.com/hajimehoshi/go-mp3"
)

// mp3Channels is fixed: go-mp3 always decodes to 16-bit stereo PCM.
const mp3Channels = 2

func openMP3(path string, logger *slog.Logger) (Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	samples, err := decodeMP3PCM(dec, path, logger)
	if err != nil {
		return nil, err
	}

	frames := int64(len(samples)) / mp3Channels
	sampleRate := dec.SampleRate()

	return &bufferedDecoder{
		path:    path,
		samples: samples,
		meta: Metadata{
			SampleRate: sampleRate,
			Channels:   mp3Channels,
			Frames:     frames,
			Duration:   float64(frames) / float64(sampleRate),
		},
	}, nil
}

// decodeMP3PCM reads raw little-endian int16 stereo PCM from dec in
// fixed-size chunks. go-mp3 decodes as one continuous stream rather than
// discrete packets, so a read error beyond a clean EOF ends decoding
// with whatever was already produced (logged, not fatal) instead of
// failing the whole file.
func decodeMP3PCM(dec *mp3.Decoder, path string, logger *slog.Logger) ([]float32, error) {
	const chunkBytes = 4096 * mp3Channels * 2 // frames * channels * sizeof(int16)
	chunk := make([]byte, chunkBytes)

	var out []float32
	for {
		n, err := io.ReadFull(dec, chunk)
		if n > 0 {
			out = append(out, pcm16LEToFloat32(chunk[:n])...)
		}
		if err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				logger.Warn("mp3: stream ended early", "path", path, "error", err)
			}
			return out, nil
		}
	}
}

func pcm16LEToFloat32(buf []byte) []float32 {
	n := len(buf) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(buf[i*2 : i*2+2]))
		out[i] = int16ToFloat32(int(v))
	}
	return out
}
