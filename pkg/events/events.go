// Package events defines the payload types published while a song
// loads, a setlist preloads, and playback runs, plus a minimal
// channel-based bus to carry them to a UI or other subscriber.
package events

import "github.com/gigstage/stemengine/pkg/buffer"

// historySize bounds how many recent events Bus.History replays to a
// subscriber that joins after playback has already started.
const historySize = 32

// StemLoading reports a single stem that finished loading successfully
// within a song's parallel load.
type StemLoading struct {
	SongName  string
	StemName  string
	Completed int
	Total     int
}

// StemComplete reports a whole song finishing its load (success or not).
type StemComplete struct {
	SongID string
	Err    error
}

// PreloadProgress reports progress through the preload scheduler's plan.
type PreloadProgress struct {
	SongID   string
	SongName string
	Priority string // "current", "next", "previous", "background"
	Index    int
	Total    int
}

// PreloadComplete marks the end of one preload pass over a setlist.
type PreloadComplete struct {
	SetlistID string
}

// PlaybackPosition is emitted by the level/event pump at its polling
// cadence while a song is loaded.
type PlaybackPosition struct {
	Seconds  float64
	Duration float64
}

// PlaybackState mirrors the engine's transport state.
type PlaybackState struct {
	State string // "stopped", "playing", "paused"
}

// PlaybackLevels carries the per-stem and master peak levels sampled
// from the most recently rendered block.
type PlaybackLevels struct {
	StemPeaks  []float32 // indexed by engine slot
	MasterPeak float32
}

// Bus is a minimal publish/subscribe channel fan-out. Publish never
// blocks: a subscriber that isn't keeping up simply misses events
// rather than stalling the publisher, since publishers here run on the
// level/event pump and loader goroutines, neither of which may stall.
type Bus struct {
	pub         chan any
	subscribe   chan chan any
	unsubscribe chan chan any
	history     *buffer.RingBuffer[any]
}

// NewBus creates a running Bus. Call Close to stop its dispatch loop.
func NewBus() *Bus {
	b := &Bus{
		pub:         make(chan any, 64),
		subscribe:   make(chan chan any),
		unsubscribe: make(chan chan any),
		history:     buffer.RingN[any](historySize),
	}
	go b.run()
	return b
}

func (b *Bus) run() {
	subscribers := make(map[chan any]struct{})
	for {
		select {
		case ch := <-b.subscribe:
			subscribers[ch] = struct{}{}
		case ch := <-b.unsubscribe:
			if _, ok := subscribers[ch]; ok {
				delete(subscribers, ch)
				close(ch)
			}
		case event, ok := <-b.pub:
			if !ok {
				for ch := range subscribers {
					close(ch)
				}
				return
			}
			b.history.Add(event)
			for ch := range subscribers {
				select {
				case ch <- event:
				default:
					// subscriber is behind; drop rather than block the publisher
				}
			}
		}
	}
}

// History returns the most recently published events, oldest first, up
// to historySize of them. A dashboard that subscribes mid-song uses
// this to paint its first frame before the next event arrives.
func (b *Bus) History() []any {
	return b.history.Bytes()
}

// Subscribe returns a channel that receives every event published
// after this call. The channel has a small buffer; a slow reader drops
// events instead of backpressuring publishers. Pass the returned
// channel to Unsubscribe to stop delivery.
func (b *Bus) Subscribe() chan any {
	ch := make(chan any, 32)
	b.subscribe <- ch
	return ch
}

// Unsubscribe stops delivery to a channel returned by Subscribe and
// closes it.
func (b *Bus) Unsubscribe(ch chan any) {
	b.unsubscribe <- ch
}

// Publish sends event to every current subscriber, non-blocking.
func (b *Bus) Publish(event any) {
	select {
	case b.pub <- event:
	default:
		// the dispatch loop is behind; drop rather than block the caller
	}
}

// Close stops the bus's dispatch loop and closes every subscriber channel.
func (b *Bus) Close() {
	close(b.pub)
}
