// Package engine implements the realtime multi-track mixer: a fixed
// array of stem slots, atomic per-stem/master controls, and the render
// function the audio subsystem calls at device cadence.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gigstage/stemengine/pkg/audio/pcm"
)

// Capacity presets; any value in [1, maxCapacity] is accepted by New.
const (
	Capacity16  = 16
	Capacity32  = 32
	Capacity64  = 64
	Capacity256 = 256
	maxCapacity = 256
)

var (
	// ErrInvalidCapacity is returned by New for a non-positive or
	// over-256 slot count.
	ErrInvalidCapacity = errors.New("engine: capacity must be in [1,256]")
	// ErrNoSlot is returned by LoadStemFromSamples when every slot is
	// occupied.
	ErrNoSlot = errors.New("engine: no free stem slot")
)

// PlaybackState is the engine's coarse transport state.
type PlaybackState int32

const (
	Stopped PlaybackState = iota
	Playing
	Paused
)

func (s PlaybackState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// StemBuffer is an immutable, shared, interleaved-stereo PCM buffer
// produced by the stem loader. Once constructed it is never mutated;
// engine slots and cache entries hold it by plain pointer — Go's garbage
// collector frees it once the last referencing pointer drops, standing
// in for the atomic-refcount handle a non-GC'd implementation needs.
type StemBuffer struct {
	Samples    []float32 // interleaved stereo, 2 samples per frame
	SampleRate int
	Frames     int
}

type stemSlot struct {
	buffer atomic.Pointer[StemBuffer]
	gain   pcm.AtomicFloat32
	muted  atomic.Bool
	solo   atomic.Bool
	peak   pcm.AtomicFloat32
}

// Device is the minimal device-side handle the engine needs for
// switch_audio_device: something that reports its stream's sample rate
// and can be torn down. pkg/audio/device supplies the PortAudio-backed
// implementation; this package stays free of any CGO dependency so the
// mixing logic can be exercised without an audio subsystem present.
type Device interface {
	SampleRate() int
	Close() error
}

// DeviceOpener opens a new output device bound to render (the engine
// passes its own Render method). name == "" selects the system default
// device.
type DeviceOpener func(name string, render func(out []float32)) (Device, error)

// Engine holds the active stems for one song and runs the realtime mix.
type Engine struct {
	logger *slog.Logger

	mu    sync.Mutex // guards slot assignment only; the RT path never waits on it
	slots []stemSlot

	state      atomic.Int32
	position   atomic.Int64 // interleaved sample units
	masterGain pcm.AtomicFloat32
	masterPeak pcm.AtomicFloat32

	targetRate int

	deviceMu sync.Mutex
	device   Device
}

// New constructs an Engine with the given fixed slot capacity and a
// target sample rate. The target rate is provisional until the first
// SwitchAudioDevice call reports the real device rate; loaded stems must
// already be resampled to whatever target rate is current.
func New(capacity, targetRate int, logger *slog.Logger) (*Engine, error) {
	if capacity <= 0 || capacity > maxCapacity {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		logger:     logger,
		slots:      make([]stemSlot, capacity),
		targetRate: targetRate,
	}
	e.masterGain.Store(1.0)
	return e, nil
}

// TargetSampleRate is the rate every loaded stem must already be
// resampled to.
func (e *Engine) TargetSampleRate() int { return e.targetRate }

// LoadStemFromSamples assigns buffer to the first empty slot and returns
// its index, or ErrNoSlot if every slot is occupied.
func (e *Engine) LoadStemFromSamples(buffer *StemBuffer) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.slots {
		if e.slots[i].buffer.Load() == nil {
			e.resetSlotLocked(i)
			e.slots[i].buffer.Store(buffer)
			return i, nil
		}
	}
	return 0, ErrNoSlot
}

func (e *Engine) resetSlotLocked(i int) {
	e.slots[i].gain.Store(1.0)
	e.slots[i].muted.Store(false)
	e.slots[i].solo.Store(false)
	e.slots[i].peak.Store(0)
}

// ClearStems empties every slot and resets position to 0.
func (e *Engine) ClearStems() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.slots {
		e.slots[i].buffer.Store(nil)
		e.resetSlotLocked(i)
	}
	e.position.Store(0)
}

func (e *Engine) slot(i int) (*stemSlot, bool) {
	if i < 0 || i >= len(e.slots) {
		e.logger.Warn("engine: slot index out of range", "index", i)
		return nil, false
	}
	return &e.slots[i], true
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetStemVolume clamps v to [0,1] and stores it atomically. Out-of-range
// indices are silently ignored (logged, never panics).
func (e *Engine) SetStemVolume(i int, v float32) {
	if s, ok := e.slot(i); ok {
		s.gain.Store(clampUnit(v))
	}
}

// StemVolume returns slot i's linear gain, 0 if the index is out of range.
func (e *Engine) StemVolume(i int) float32 {
	s, ok := e.slot(i)
	if !ok {
		return 0
	}
	return s.gain.Load()
}

// StemVolumeDB returns 20*log10(v), or negative infinity at v == 0.
func (e *Engine) StemVolumeDB(i int) float64 {
	v := e.StemVolume(i)
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(float64(v))
}

func (e *Engine) SetStemMute(i int, muted bool) {
	if s, ok := e.slot(i); ok {
		s.muted.Store(muted)
	}
}

func (e *Engine) IsStemMuted(i int) bool {
	s, ok := e.slot(i)
	return ok && s.muted.Load()
}

func (e *Engine) SetStemSolo(i int, solo bool) {
	if s, ok := e.slot(i); ok {
		s.solo.Store(solo)
	}
}

func (e *Engine) IsStemSoloed(i int) bool {
	s, ok := e.slot(i)
	return ok && s.solo.Load()
}

// StemPeak returns the max |sample| over the most recently rendered
// block for slot i.
func (e *Engine) StemPeak(i int) float32 {
	s, ok := e.slot(i)
	if !ok {
		return 0
	}
	return s.peak.Load()
}

func (e *Engine) SetMasterVolume(v float32) { e.masterGain.Store(clampUnit(v)) }
func (e *Engine) MasterVolume() float32     { return e.masterGain.Load() }
func (e *Engine) MasterPeak() float32       { return e.masterPeak.Load() }

func (e *Engine) Play() { e.state.Store(int32(Playing)) }

func (e *Engine) Pause() { e.state.Store(int32(Paused)) }

// Stop transitions to Stopped and atomically zeroes position.
func (e *Engine) Stop() {
	e.state.Store(int32(Stopped))
	e.position.Store(0)
}

func (e *Engine) State() PlaybackState { return PlaybackState(e.state.Load()) }

// longestStemFrames returns the interleaved-sample length of the longest
// currently assigned stem buffer.
func (e *Engine) longestStemFrames() int64 {
	var max int64
	for i := range e.slots {
		buf := e.slots[i].buffer.Load()
		if buf == nil {
			continue
		}
		if n := int64(len(buf.Samples)); n > max {
			max = n
		}
	}
	return max
}

// Duration is the length of the longest assigned stem, in seconds.
func (e *Engine) Duration() float64 {
	if e.targetRate <= 0 {
		return 0
	}
	return float64(e.longestStemFrames()) / float64(e.targetRate*2)
}

// Seek clamps seconds to [0, Duration()] and sets position accordingly,
// converting to the interleaved-sample-units index seconds*rate*2.
func (e *Engine) Seek(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	if d := e.Duration(); seconds > d {
		seconds = d
	}
	e.position.Store(int64(seconds * float64(e.targetRate) * 2))
}

// Position returns the current playback position in seconds.
func (e *Engine) Position() float64 {
	if e.targetRate <= 0 {
		return 0
	}
	return float64(e.position.Load()) / float64(e.targetRate*2)
}

// Render is the realtime callback body. output holds N interleaved
// stereo frames (len(output) == 2N). It must not allocate, lock anything
// a non-RT operation may hold, or perform I/O — every read here is
// either an atomic load or iteration over the fixed-size slot array.
func (e *Engine) Render(output []float32) {
	for i := range output {
		output[i] = 0
	}

	if PlaybackState(e.state.Load()) != Playing {
		return
	}

	anySolo := false
	for i := range e.slots {
		if e.slots[i].buffer.Load() != nil && e.slots[i].solo.Load() {
			anySolo = true
			break
		}
	}

	position := e.position.Load()
	maxLen := e.longestStemFrames()

	for i := range e.slots {
		buf := e.slots[i].buffer.Load()
		if buf == nil {
			e.slots[i].peak.Store(0)
			continue
		}

		var audible bool
		if anySolo {
			audible = e.slots[i].solo.Load() // solo takes precedence over mute
		} else {
			audible = !e.slots[i].muted.Load()
		}
		if !audible {
			e.slots[i].peak.Store(0)
			continue
		}

		gain := e.slots[i].gain.Load()
		var peak float32

		available := int64(len(buf.Samples)) - position
		if available > 0 {
			n := int64(len(output))
			if n > available {
				n = available
			}
			src := buf.Samples[position : position+n]
			for j, s := range src {
				v := s * gain
				output[j] += v
				if a := absf32(v); a > peak {
					peak = a
				}
			}
		}
		e.slots[i].peak.Store(peak)
	}

	masterGain := e.masterGain.Load()
	var masterPeak float32
	for i := range output {
		output[i] *= masterGain
		if a := absf32(output[i]); a > masterPeak {
			masterPeak = a
		}
	}
	e.masterPeak.Store(masterPeak)

	if position < maxLen {
		e.position.Store(position + int64(len(output)))
	}
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// SwitchAudioDevice tears down the current output device (if any) and
// opens a new one by name via opener, re-arming the callback with this
// engine's Render. If the new device reports a different sample rate,
// already loaded stems are no longer valid for it — the engine does not
// reload them itself; the caller must. The active rate is always
// available afterward via DeviceSampleRate.
func (e *Engine) SwitchAudioDevice(name string, opener DeviceOpener) error {
	e.deviceMu.Lock()
	defer e.deviceMu.Unlock()

	newDevice, err := opener(name, e.Render)
	if err != nil {
		return fmt.Errorf("engine: switch_audio_device %q: %w", name, err)
	}

	old := e.device
	e.device = newDevice
	e.targetRate = newDevice.SampleRate()

	if old != nil {
		if cerr := old.Close(); cerr != nil {
			e.logger.Warn("engine: error closing previous device", "error", cerr)
		}
	}
	return nil
}

// DeviceSampleRate is the active device's sample rate, or the
// provisional target rate if no device has been opened yet.
func (e *Engine) DeviceSampleRate() int {
	e.deviceMu.Lock()
	defer e.deviceMu.Unlock()
	if e.device == nil {
		return e.targetRate
	}
	return e.device.SampleRate()
}

// Close tears down the active device, if any.
func (e *Engine) Close() error {
	e.deviceMu.Lock()
	defer e.deviceMu.Unlock()
	if e.device == nil {
		return nil
	}
	err := e.device.Close()
	e.device = nil
	return err
}
