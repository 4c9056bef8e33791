package decode

import "io"

// packetFrames is the chunk size Next() hands back per call for the
// buffered backends. The whole file is decoded once at Open time (all
// three containers here are read start-to-finish cheaply enough for
// stem-length audio), then served as an iterator over fixed-size
// packets so callers that want streaming semantics — and DecodeAll,
// which just concatenates every packet — both work unchanged.
const packetFrames = 4096

// bufferedDecoder implements Decoder over an already fully-decoded
// interleaved float32 buffer. WAV, MP3, and FLAC backends all produce
// one of these; only the decode-to-buffer step differs between them.
type bufferedDecoder struct {
	path     string
	meta     Metadata
	samples  []float32 // interleaved, meta.Channels per frame
	cursor   int64     // next frame index to serve
	closeFn  func() error
}

func (d *bufferedDecoder) Metadata() Metadata { return d.meta }

func (d *bufferedDecoder) Next() ([]float32, error) {
	totalFrames := int64(len(d.samples)) / int64(d.meta.Channels)
	if d.cursor >= totalFrames {
		return nil, io.EOF
	}

	end := d.cursor + packetFrames
	if end > totalFrames {
		end = totalFrames
	}

	start := d.cursor * int64(d.meta.Channels)
	stop := end * int64(d.meta.Channels)
	d.cursor = end

	return d.samples[start:stop], nil
}

func (d *bufferedDecoder) Seek(seconds float64) error {
	if seconds < 0 {
		seconds = 0
	}
	totalFrames := int64(len(d.samples)) / int64(d.meta.Channels)
	frame := int64(seconds * float64(d.meta.SampleRate))
	if frame > totalFrames {
		frame = totalFrames
	}
	d.cursor = frame
	return nil
}

func (d *bufferedDecoder) Close() error {
	if d.closeFn == nil {
		return nil
	}
	return d.closeFn()
}
