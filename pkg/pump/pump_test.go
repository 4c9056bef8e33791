package pump

import (
	"testing"
	"time"

	"github.com/gigstage/stemengine/pkg/audio/engine"
	"github.com/gigstage/stemengine/pkg/events"
)

func TestPumpPublishesPositionAndLevels(t *testing.T) {
	eng, err := engine.New(4, 48000, nil)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	eng.LoadStemFromSamples(&engine.StemBuffer{Samples: make([]float32, 48000*2), Frames: 48000})
	eng.Play()

	bus := events.NewBus()
	defer bus.Close()
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	p := New(eng, 4, bus)
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	var sawPosition, sawLevels bool
	for !sawPosition || !sawLevels {
		select {
		case evt := <-sub:
			switch evt.(type) {
			case events.PlaybackPosition:
				sawPosition = true
			case events.PlaybackLevels:
				sawLevels = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for pump events")
		}
	}
}
