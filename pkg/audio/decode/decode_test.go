package decode

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestInt16ToFloat32FullScale(t *testing.T) {
	cases := []struct {
		in   int
		want float32
	}{
		{32767, 1.0},
		{-32767, -1.0},
		{0, 0.0},
	}
	for _, c := range cases {
		got := int16ToFloat32(c.in)
		if math.Abs(float64(got-c.want)) > 1e-6 {
			t.Errorf("int16ToFloat32(%d) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestInt24ToFloat32FullScale(t *testing.T) {
	got := int24ToFloat32(8388608)
	if math.Abs(float64(got-1.0)) > 1e-6 {
		t.Errorf("int24ToFloat32(8388608) = %v, want 1.0", got)
	}
}

func TestInt32ToFloat32FullScale(t *testing.T) {
	got := int32ToFloat32(1<<31 - 1)
	if math.Abs(float64(got-1.0)) > 1e-6 {
		t.Errorf("int32ToFloat32(max int32) = %v, want 1.0", got)
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	_, err := Open("song.xyz", nil)
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	var de *DecodeError
	if !asDecodeError(err, &de) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
}

func asDecodeError(err error, target **DecodeError) bool {
	de, ok := err.(*DecodeError)
	if ok {
		*target = de
	}
	return ok
}

func TestBufferedDecoderIteratesPackets(t *testing.T) {
	channels := 2
	frames := packetFrames*2 + 10
	samples := make([]float32, frames*channels)
	for i := range samples {
		samples[i] = float32(i)
	}

	d := &bufferedDecoder{
		samples: samples,
		meta: Metadata{
			SampleRate: 48000,
			Channels:   channels,
			Frames:     int64(frames),
		},
	}

	var total int
	packets := 0
	for {
		packet, err := d.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		total += len(packet)
		packets++
	}

	if total != len(samples) {
		t.Fatalf("total samples served = %d, want %d", total, len(samples))
	}
	if packets != 3 {
		t.Fatalf("expected 3 packets (2 full + 1 partial), got %d", packets)
	}
}

func TestOpenWAVDecodesSynthesizedFixture(t *testing.T) {
	const (
		sampleRate = 44100
		channels   = 1
		frames     = 1000
	)

	pcm := make([]int, frames*channels)
	for i := range pcm {
		pcm[i] = (i % 200) * 100 // small sawtooth, well within int16 range
	}

	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := newWAVFixture(path, pcm, sampleRate, channels)
	if err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	defer f()

	d, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open(%q) = %v", path, err)
	}
	defer d.Close()

	meta := d.Metadata()
	if meta.SampleRate != sampleRate {
		t.Errorf("SampleRate = %d, want %d", meta.SampleRate, sampleRate)
	}
	if meta.Channels != channels {
		t.Errorf("Channels = %d, want %d", meta.Channels, channels)
	}
	if meta.Frames != frames {
		t.Errorf("Frames = %d, want %d", meta.Frames, frames)
	}

	got, _, err := DecodeAll(d)
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(got) != frames*channels {
		t.Fatalf("decoded %d samples, want %d", len(got), frames*channels)
	}

	want := int16ToFloat32(pcm[0])
	if math.Abs(float64(got[0]-want)) > 1e-4 {
		t.Errorf("first sample = %v, want %v", got[0], want)
	}
}

// newWAVFixture writes pcm as a 16-bit PCM WAV file at path and returns a
// cleanup func. pcm holds interleaved samples across channels.
func newWAVFixture(path string, pcm []int, sampleRate, channels int) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Data:           pcm,
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return nil, err
	}
	return func() { f.Close() }, nil
}

func TestBufferedDecoderSeekClampsAndRepositions(t *testing.T) {
	channels := 2
	sampleRate := 100
	frames := 50
	samples := make([]float32, frames*channels)

	d := &bufferedDecoder{
		samples: samples,
		meta: Metadata{
			SampleRate: sampleRate,
			Channels:   channels,
			Frames:     int64(frames),
		},
	}

	if err := d.Seek(1000); err != nil {
		t.Fatalf("seek failed: %v", err)
	}
	if _, err := d.Next(); err != io.EOF {
		t.Fatalf("expected EOF after seeking past the end, got %v", err)
	}

	if err := d.Seek(0.1); err != nil { // frame 10
		t.Fatalf("seek failed: %v", err)
	}
	packet, err := d.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantFrames := frames - 10
	if len(packet)/channels != wantFrames {
		t.Fatalf("expected %d frames remaining after seek, got %d", wantFrames, len(packet)/channels)
	}
}
