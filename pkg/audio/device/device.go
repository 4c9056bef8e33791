// Package device binds the mixer engine's render function to a real
// PortAudio output stream. It is the only place in the module that
// imports both pkg/audio/engine and pkg/audio/portaudio, keeping the
// CGO dependency out of the mixing logic itself.
package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/gigstage/stemengine/pkg/audio/engine"
	"github.com/gigstage/stemengine/pkg/audio/portaudio"
)

const defaultBufferDuration = 20 * time.Millisecond

// ErrDeviceInit is returned by Opener when the named output device
// cannot be found or opened.
var ErrDeviceInit = errors.New("device: initialization failed")

// ErrStreamError is returned when an already-open stream fails, e.g. on
// Close.
var ErrStreamError = errors.New("device: stream error")

type boundDevice struct {
	stream *portaudio.RenderStream
	rate   int
}

func (b *boundDevice) SampleRate() int { return b.rate }

func (b *boundDevice) Close() error {
	if err := b.stream.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStreamError, err)
	}
	return nil
}

// Opener returns an engine.DeviceOpener that opens a stereo float32
// output stream at sampleRate, bound to whatever render function the
// engine passes it. name == "" opens the system default output device;
// otherwise the device is looked up by exact name. PortAudio must
// already be initialized (portaudio.Initialize) before the returned
// opener is invoked.
func Opener(channels int, sampleRate float64) engine.DeviceOpener {
	return func(name string, render func(out []float32)) (engine.Device, error) {
		var info *portaudio.DeviceInfo
		if name != "" {
			found, err := portaudio.OutputDeviceByName(name)
			if err != nil {
				return nil, fmt.Errorf("device %q: %w: %w", name, ErrDeviceInit, err)
			}
			info = found
		}

		stream, err := portaudio.NewRenderStream(info, sampleRate, channels, defaultBufferDuration, render)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDeviceInit, err)
		}
		return &boundDevice{stream: stream, rate: int(sampleRate)}, nil
	}
}

// Names lists the output-capable device names PortAudio currently
// reports, for UI device pickers.
func Names() ([]string, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, d := range devices {
		if d.MaxOutputChannels > 0 {
			names = append(names, d.Name)
		}
	}
	return names, nil
}
