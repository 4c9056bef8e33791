// Package decode turns a compressed or PCM audio file into interleaved
// float32 PCM, normalizing WAV, MP3, and FLAC containers to one Decoder
// interface.
package decode

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// Metadata describes a decoded stream's shape.
type Metadata struct {
	SampleRate int
	Channels   int
	Frames     int64 // 0 if the container doesn't report a frame count up front
	Duration   float64
}

// Decoder produces interleaved float32 PCM packets from an audio file.
// Every backend decodes the whole file when it is opened, so decode
// errors surface from Open; Next only hands out the decoded PCM and
// returns io.EOF once it is exhausted. FLAC logs and skips a frame that
// fails to parse; MP3 logs the first read error and keeps the audio
// decoded before it; any WAV read error fails Open.
type Decoder interface {
	Metadata() Metadata
	Next() ([]float32, error)
	Seek(seconds float64) error
	Close() error
}

// ErrUnsupportedFormat is returned by Open when the file extension does
// not match a known container.
var ErrUnsupportedFormat = errors.New("decode: unsupported format")

// DecodeError wraps a fatal, non-recoverable decode failure (as opposed
// to the soft-skip path for individual bad packets).
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Open opens path, probing the container from its file extension, and
// returns a Decoder normalized to interleaved float32 PCM.
func Open(path string, logger *slog.Logger) (Decoder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return openWAV(path, logger)
	case ".mp3":
		return openMP3(path, logger)
	case ".flac":
		return openFLAC(path, logger)
	default:
		return nil, &DecodeError{Path: path, Err: ErrUnsupportedFormat}
	}
}

// DecodeAll repeats Next until end-of-stream, concatenating every packet
// into one owned interleaved float32 buffer plus the stream's metadata.
func DecodeAll(d Decoder) ([]float32, Metadata, error) {
	meta := d.Metadata()

	var out []float32
	for {
		packet, err := d.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, meta, err
		}
		out = append(out, packet...)
	}
	return out, meta, nil
}

// int16ToFloat32 converts signed 16-bit samples per spec's conversion
// rule: x / 32767.0.
func int16ToFloat32(x int) float32 {
	return float32(x) / 32767.0
}

// int24ToFloat32 converts signed 24-bit samples (sign-extended into an
// int) per spec's conversion rule: x / 8388608.0.
func int24ToFloat32(x int) float32 {
	return float32(x) / 8388608.0
}

// int32ToFloat32 converts signed 32-bit samples per spec's conversion
// rule: x / (i32 max).
func int32ToFloat32(x int32) float32 {
	return float32(x) / float32(1<<31-1)
}
