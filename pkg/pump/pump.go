// Package pump runs the cooperative polling loop that turns the mixer
// engine's atomic position, state, and peak-level fields into events a
// UI can subscribe to, without ever touching the engine's stem slots or
// buffers directly.
package pump

import (
	"time"

	"github.com/gigstage/stemengine/pkg/audio/engine"
	"github.com/gigstage/stemengine/pkg/events"
)

// Interval is the pump's polling cadence: 50ms, 20Hz.
const Interval = 50 * time.Millisecond

// EngineReader is the narrow slice of *engine.Engine the pump depends
// on — only atomic reads, never the slot array or stem buffers.
type EngineReader interface {
	Position() float64
	Duration() float64
	State() engine.PlaybackState
	MasterPeak() float32
}

// SlotReader exposes per-slot peak levels for the levels event. Engine
// satisfies this alongside EngineReader.
type SlotReader interface {
	StemPeak(i int) float32
}

// Pump polls an engine at Interval and publishes playback events to a
// bus until Stop is called.
type Pump struct {
	engine EngineReader
	slots  SlotReader
	slotN  int
	bus    *events.Bus

	stopCh chan struct{}
	doneCh chan struct{}
}

// New starts a Pump that polls engine (which must also implement
// SlotReader — *engine.Engine does) across slotCount slots and
// publishes to bus.
func New(eng interface {
	EngineReader
	SlotReader
}, slotCount int, bus *events.Bus) *Pump {
	p := &Pump{
		engine: eng,
		slots:  eng,
		slotN:  slotCount,
		bus:    bus,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Pump) run() {
	defer close(p.doneCh)

	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	var lastState engine.PlaybackState = -1

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			state := p.engine.State()
			p.bus.Publish(events.PlaybackPosition{
				Seconds:  p.engine.Position(),
				Duration: p.engine.Duration(),
			})
			if state != lastState {
				p.bus.Publish(events.PlaybackState{State: state.String()})
				lastState = state
			}

			peaks := make([]float32, p.slotN)
			for i := 0; i < p.slotN; i++ {
				peaks[i] = p.slots.StemPeak(i)
			}
			p.bus.Publish(events.PlaybackLevels{
				StemPeaks:  peaks,
				MasterPeak: p.engine.MasterPeak(),
			})
		}
	}
}

// Stop ends the polling loop and blocks until it has exited.
func (p *Pump) Stop() {
	select {
	case <-p.stopCh:
		return // already stopped
	default:
		close(p.stopCh)
	}
	<-p.doneCh
}
