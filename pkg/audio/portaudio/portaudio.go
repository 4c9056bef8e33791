// Package portaudio provides Go bindings for the PortAudio library.
//
// This package uses CGO to interface with the PortAudio C library,
// providing a simple API for device enumeration and float32 audio output.
//
// For go build: requires portaudio installed via pkg-config (brew install portaudio)
package portaudio

/*
#cgo pkg-config: portaudio-2.0

#include <portaudio.h>
#include <stdlib.h>
#include <string.h>

// Wrapper functions using void* to avoid CGO type issues with PaStream
static PaError pa_open_stream(void **stream,
                              const PaStreamParameters *inputParams,
                              const PaStreamParameters *outputParams,
                              double sampleRate,
                              unsigned long framesPerBuffer,
                              PaStreamFlags streamFlags) {
    return Pa_OpenStream((PaStream**)stream, inputParams, outputParams, sampleRate,
                         framesPerBuffer, streamFlags, NULL, NULL);
}

static PaError pa_start_stream(void *stream) {
    return Pa_StartStream((PaStream*)stream);
}

static PaError pa_stop_stream(void *stream) {
    return Pa_StopStream((PaStream*)stream);
}

static PaError pa_close_stream(void *stream) {
    return Pa_CloseStream((PaStream*)stream);
}

static PaError pa_write_stream(void *stream, const void *buffer, unsigned long frames) {
    return Pa_WriteStream((PaStream*)stream, buffer, frames);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

var (
	initOnce sync.Once
	initErr  error
)

// paError converts a PortAudio error code to a Go error.
func paError(code C.PaError) error {
	if code == C.paNoError {
		return nil
	}
	return errors.New(C.GoString(C.Pa_GetErrorText(code)))
}

// Initialize initializes the PortAudio library.
// It is safe to call multiple times.
func Initialize() error {
	initOnce.Do(func() {
		initErr = paError(C.Pa_Initialize())
	})
	return initErr
}

// Terminate terminates the PortAudio library.
func Terminate() error {
	return paError(C.Pa_Terminate())
}

// DeviceInfo contains information about an audio device.
type DeviceInfo struct {
	Index                    int
	Name                     string
	MaxInputChannels         int
	MaxOutputChannels        int
	DefaultLowInputLatency   float64
	DefaultHighInputLatency  float64
	DefaultLowOutputLatency  float64
	DefaultHighOutputLatency float64
	DefaultSampleRate        float64
	IsDefaultInput           bool
	IsDefaultOutput          bool
}

// Devices returns a list of available audio devices.
func Devices() ([]DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	count := int(C.Pa_GetDeviceCount())
	if count < 0 {
		return nil, paError(C.PaError(count))
	}

	defaultInput := int(C.Pa_GetDefaultInputDevice())
	defaultOutput := int(C.Pa_GetDefaultOutputDevice())

	devices := make([]DeviceInfo, count)
	for i := 0; i < count; i++ {
		info := C.Pa_GetDeviceInfo(C.PaDeviceIndex(i))
		if info == nil {
			continue
		}
		devices[i] = DeviceInfo{
			Index:                    i,
			Name:                     C.GoString(info.name),
			MaxInputChannels:         int(info.maxInputChannels),
			MaxOutputChannels:        int(info.maxOutputChannels),
			DefaultLowInputLatency:   float64(info.defaultLowInputLatency),
			DefaultHighInputLatency:  float64(info.defaultHighInputLatency),
			DefaultLowOutputLatency:  float64(info.defaultLowOutputLatency),
			DefaultHighOutputLatency: float64(info.defaultHighOutputLatency),
			DefaultSampleRate:        float64(info.defaultSampleRate),
			IsDefaultInput:           i == defaultInput,
			IsDefaultOutput:          i == defaultOutput,
		}
	}
	return devices, nil
}

// DefaultInputDevice returns the default input device.
func DefaultInputDevice() (*DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	idx := C.Pa_GetDefaultInputDevice()
	if idx == C.paNoDevice {
		return nil, errors.New("no default input device")
	}

	info := C.Pa_GetDeviceInfo(idx)
	if info == nil {
		return nil, errors.New("failed to get device info")
	}

	return &DeviceInfo{
		Index:                   int(idx),
		Name:                    C.GoString(info.name),
		MaxInputChannels:        int(info.maxInputChannels),
		DefaultLowInputLatency:  float64(info.defaultLowInputLatency),
		DefaultHighInputLatency: float64(info.defaultHighInputLatency),
		DefaultSampleRate:       float64(info.defaultSampleRate),
		IsDefaultInput:          true,
	}, nil
}

// DefaultOutputDevice returns the default output device.
func DefaultOutputDevice() (*DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	idx := C.Pa_GetDefaultOutputDevice()
	if idx == C.paNoDevice {
		return nil, errors.New("no default output device")
	}

	info := C.Pa_GetDeviceInfo(idx)
	if info == nil {
		return nil, errors.New("failed to get device info")
	}

	return &DeviceInfo{
		Index:                    int(idx),
		Name:                     C.GoString(info.name),
		MaxOutputChannels:        int(info.maxOutputChannels),
		DefaultLowOutputLatency:  float64(info.defaultLowOutputLatency),
		DefaultHighOutputLatency: float64(info.defaultHighOutputLatency),
		DefaultSampleRate:        float64(info.defaultSampleRate),
		IsDefaultOutput:          true,
	}, nil
}

// PrintDevices prints all available devices to stdout.
func PrintDevices() error {
	devices, err := Devices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		marker := ""
		if d.IsDefaultInput {
			marker += " [DEFAULT INPUT]"
		}
		if d.IsDefaultOutput {
			marker += " [DEFAULT OUTPUT]"
		}
		fmt.Printf("%d: %s%s\n", d.Index, d.Name, marker)
		fmt.Printf("   Input channels: %d, Output channels: %d\n", d.MaxInputChannels, d.MaxOutputChannels)
		fmt.Printf("   Default sample rate: %.0f Hz\n", d.DefaultSampleRate)
	}
	return nil
}

// Stream represents an audio stream.
type Stream struct {
	stream     unsafe.Pointer
	buffer     unsafe.Pointer
	bufferSize int
	elemSize   int
	closed     bool
	mu         sync.Mutex
}

// OutputDeviceByName finds an output-capable device whose name matches
// exactly. Used by switch_audio_device, which identifies devices by name
// rather than by the platform-assigned index.
func OutputDeviceByName(name string) (*DeviceInfo, error) {
	devices, err := Devices()
	if err != nil {
		return nil, err
	}
	for i := range devices {
		if devices[i].Name == name && devices[i].MaxOutputChannels > 0 {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("portaudio: no output device named %q", name)
}

// openFloatOutputStream opens an output-only stream carrying interleaved
// float32 samples (C.paFloat32), on the given device (nil selects the
// system default). This is the format the mixer engine renders in; it
// lets the engine hand PortAudio its output block directly, with no
// int16 conversion step in the realtime path.
func openFloatOutputStream(device *DeviceInfo, channels int, sampleRate float64, framesPerBuffer int) (*Stream, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	var outputDevice C.PaDeviceIndex
	var latency C.PaTime
	if device != nil {
		outputDevice = C.PaDeviceIndex(device.Index)
		latency = C.PaTime(device.DefaultLowOutputLatency)
	} else {
		outputDevice = C.Pa_GetDefaultOutputDevice()
		if outputDevice == C.paNoDevice {
			return nil, errors.New("no default output device")
		}
		info := C.Pa_GetDeviceInfo(outputDevice)
		latency = info.defaultLowOutputLatency
	}

	outputParams := &C.PaStreamParameters{
		device:                    outputDevice,
		channelCount:              C.int(channels),
		sampleFormat:              C.paFloat32,
		suggestedLatency:          latency,
		hostApiSpecificStreamInfo: nil,
	}

	var paStream unsafe.Pointer
	err := paError(C.pa_open_stream(
		&paStream,
		nil,
		outputParams,
		C.double(sampleRate),
		C.ulong(framesPerBuffer),
		C.paClipOff,
	))
	if err != nil {
		return nil, err
	}

	bufferSize := framesPerBuffer * channels * 4 // float32 = 4 bytes

	return &Stream{
		stream:     paStream,
		buffer:     C.malloc(C.size_t(bufferSize)),
		bufferSize: bufferSize,
		elemSize:   4,
	}, nil
}

// Start starts the audio stream.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("stream closed")
	}
	return paError(C.pa_start_stream(s.stream))
}

// Stop stops the audio stream.
func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	return paError(C.pa_stop_stream(s.stream))
}

// Close closes the audio stream.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	C.pa_stop_stream(s.stream)
	err := paError(C.pa_close_stream(s.stream))
	C.free(s.buffer)
	return err
}

// WriteFloat32 writes interleaved float32 samples to an output stream
// opened with openFloatOutputStream. framesPerBuffer is samples / channels.
func (s *Stream) WriteFloat32(samples []float32, channels int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("stream closed")
	}
	if len(samples) == 0 {
		return nil
	}

	C.memcpy(s.buffer, unsafe.Pointer(&samples[0]), C.size_t(len(samples)*4))
	frames := len(samples) / channels
	return paError(C.pa_write_stream(s.stream, s.buffer, C.ulong(frames)))
}
