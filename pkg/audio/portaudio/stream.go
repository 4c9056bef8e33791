package portaudio

import (
	"sync"
	"time"
)

// RenderFunc fills out with one block of interleaved float32 samples,
// channels-interleaved (e.g. L,R,L,R,... for stereo). It is called from
// the render goroutine at device cadence and must not block for longer
// than the caller can tolerate underruns.
type RenderFunc func(out []float32)

// RenderStream drives output-only float32 playback through PortAudio by
// running a dedicated goroutine that alternates between asking the
// render function to fill a block and writing that block to the device.
// PortAudio's blocking Pa_WriteStream paces the loop, so this goroutine
// behaves like the realtime audio thread of a native callback API even
// though it is ordinary Go code pumped by a render-loop rather than a
// callback invoked directly by the C library.
type RenderStream struct {
	stream   *Stream
	channels int
	frames   int
	render   RenderFunc

	mu     sync.Mutex
	closed bool
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRenderStream opens a float32 output stream on device (nil selects
// the system default) at sampleRate/channels and starts the render loop.
// bufferDuration sizes the PortAudio buffer, trading latency for
// underrun resistance.
func NewRenderStream(device *DeviceInfo, sampleRate float64, channels int, bufferDuration time.Duration, render RenderFunc) (*RenderStream, error) {
	framesPerBuffer := int(sampleRate * bufferDuration.Seconds())
	if framesPerBuffer <= 0 {
		framesPerBuffer = 1
	}

	stream, err := openFloatOutputStream(device, channels, sampleRate, framesPerBuffer)
	if err != nil {
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}

	rs := &RenderStream{
		stream:   stream,
		channels: channels,
		frames:   framesPerBuffer,
		render:   render,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	go rs.renderLoop()

	return rs, nil
}

func (rs *RenderStream) renderLoop() {
	defer close(rs.doneCh)

	out := make([]float32, rs.frames*rs.channels)
	for {
		select {
		case <-rs.stopCh:
			return
		default:
		}

		for i := range out {
			out[i] = 0
		}
		rs.render(out)

		if err := rs.stream.WriteFloat32(out, rs.channels); err != nil {
			return
		}
	}
}

// Close stops the render loop and closes the underlying stream. It
// blocks until the render goroutine has exited.
func (rs *RenderStream) Close() error {
	rs.mu.Lock()
	if rs.closed {
		rs.mu.Unlock()
		return nil
	}
	rs.closed = true
	close(rs.stopCh)
	rs.mu.Unlock()

	<-rs.doneCh
	return rs.stream.Close()
}
