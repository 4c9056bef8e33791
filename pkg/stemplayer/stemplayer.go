// Package stemplayer is the facade a host application drives: it wires
// the catalog, stem loader, song cache, mixer engine, preload
// scheduler, and level/event pump behind the command surface a live
// performance needs, so callers never touch those collaborators
// directly.
package stemplayer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gigstage/stemengine/pkg/audio/device"
	"github.com/gigstage/stemengine/pkg/audio/engine"
	"github.com/gigstage/stemengine/pkg/audio/loader"
	"github.com/gigstage/stemengine/pkg/catalog"
	"github.com/gigstage/stemengine/pkg/events"
	"github.com/gigstage/stemengine/pkg/preload"
	"github.com/gigstage/stemengine/pkg/pump"
	"github.com/gigstage/stemengine/pkg/songcache"
)

// ErrStemNotLoaded is returned by facade operations that require a stem
// to be live in the engine (e.g. ToggleMute) when it isn't part of the
// currently loaded song.
var ErrStemNotLoaded = errors.New("stemplayer: stem not loaded")

// Config configures a new Player.
type Config struct {
	Catalog          catalog.Catalog
	CacheMaxBytes    int64
	SlotCapacity     int
	TargetSampleRate int
	Channels         int // 0 defaults to 2 (stereo)
	Logger           *slog.Logger
}

// Player is the stem player facade.
type Player struct {
	catalog   catalog.Catalog
	cache     *songcache.Cache
	engine    *engine.Engine
	scheduler *preload.Scheduler
	pump      *pump.Pump
	bus       *events.Bus
	logger    *slog.Logger
	channels  int

	mu            sync.Mutex
	currentSongID string
	stemSlot      map[string]int // stemID -> engine slot, for the currently loaded song
}

// New constructs a Player and starts its level/event pump.
func New(cfg Config) (*Player, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	channels := cfg.Channels
	if channels == 0 {
		channels = 2
	}

	eng, err := engine.New(cfg.SlotCapacity, cfg.TargetSampleRate, logger)
	if err != nil {
		return nil, err
	}

	cache := songcache.New(cfg.CacheMaxBytes)
	bus := events.NewBus()
	scheduler := preload.New(cfg.Catalog, cache, cfg.TargetSampleRate, bus, logger)

	p := &Player{
		catalog:   cfg.Catalog,
		cache:     cache,
		engine:    eng,
		scheduler: scheduler,
		bus:       bus,
		logger:    logger,
		channels:  channels,
		stemSlot:  make(map[string]int),
	}
	p.pump = pump.New(eng, cfg.SlotCapacity, bus)
	return p, nil
}

// Events exposes the facade's event bus for UI subscription.
func (p *Player) Events() *events.Bus { return p.bus }

// SwitchAudioDevice tears down the current output device and opens the
// named one; "" selects the system default. If the new device's sample
// rate differs from before, the caller must reload the current song —
// the facade does not do this automatically.
func (p *Player) SwitchAudioDevice(name string) error {
	opener := device.Opener(p.channels, float64(p.engine.TargetSampleRate()))
	return p.engine.SwitchAudioDevice(name, opener)
}

// LoadSong loads songID's stems into the engine, from the song cache if
// present, decoding and caching otherwise. It replaces whatever song was
// loaded before.
func (p *Player) LoadSong(ctx context.Context, songID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	song, err := p.catalog.Song(ctx, songID)
	if err != nil {
		return fmt.Errorf("stemplayer: load song %q: %w", songID, err)
	}

	stems, ok := p.cache.Get(songID)
	if !ok {
		stems, err = loader.LoadSong(song, p.engine.TargetSampleRate(), p.logger, func(prog loader.Progress) {
			p.bus.Publish(events.StemLoading{
				SongName:  prog.SongName,
				StemName:  prog.StemName,
				Completed: prog.Completed,
				Total:     prog.Total,
			})
		})
		if err != nil {
			p.bus.Publish(events.StemComplete{SongID: songID, Err: err})
			return fmt.Errorf("stemplayer: load song %q: %w", songID, err)
		}
		if cerr := p.cache.Insert(songID, stems); cerr != nil {
			p.logger.Warn("stemplayer: failed to cache song", "song", songID, "error", cerr)
		}
	}

	p.engine.ClearStems()
	slots := make(map[string]int, len(song.Stems))
	for _, stem := range song.Stems {
		buf, ok := stems[stem.StemID]
		if !ok {
			p.logger.Warn("stemplayer: stem missing from decoded set", "song", songID, "stem", stem.StemID)
			continue
		}
		idx, err := p.engine.LoadStemFromSamples(buf)
		if err != nil {
			p.logger.Warn("stemplayer: failed to assign stem slot", "stem", stem.StemID, "error", err)
			continue
		}
		slots[stem.StemID] = idx
		p.engine.SetStemVolume(idx, stem.Volume)
		p.engine.SetStemMute(idx, stem.Muted)
	}

	p.currentSongID = songID
	p.stemSlot = slots
	p.bus.Publish(events.StemComplete{SongID: songID})
	return nil
}

// PlaySong loads songID — resetting position to 0 and reassigning every
// stem, even if songID is already current — then starts playback.
func (p *Player) PlaySong(ctx context.Context, songID string) error {
	if err := p.LoadSong(ctx, songID); err != nil {
		return err
	}
	p.engine.Play()
	return nil
}

func (p *Player) Resume()              { p.engine.Play() }
func (p *Player) Pause()               { p.engine.Pause() }
func (p *Player) Stop()                { p.engine.Stop() }
func (p *Player) Seek(seconds float64) { p.engine.Seek(seconds) }

func (p *Player) slotFor(stemID string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, ok := p.stemSlot[stemID]
	return idx, ok
}

// SetStemVolume sets stemID's live gain (if currently loaded) and always
// persists the declared value through the catalog, so it survives the
// next load.
func (p *Player) SetStemVolume(ctx context.Context, stemID string, volume float32) error {
	if idx, ok := p.slotFor(stemID); ok {
		p.engine.SetStemVolume(idx, volume)
	}
	return p.catalog.SetStemVolume(ctx, stemID, volume)
}

// ToggleMute flips stemID's live mute flag and persists the result
// through the catalog.
func (p *Player) ToggleMute(ctx context.Context, stemID string) error {
	idx, ok := p.slotFor(stemID)
	if !ok {
		return fmt.Errorf("stemplayer: toggle mute %q: %w", stemID, ErrStemNotLoaded)
	}
	muted := !p.engine.IsStemMuted(idx)
	p.engine.SetStemMute(idx, muted)
	return p.catalog.SetStemMuted(ctx, stemID, muted)
}

// ToggleSolo flips stemID's live solo flag. Solo is a performance-time
// control, not a declared mix value, so it is never persisted through
// the catalog.
func (p *Player) ToggleSolo(stemID string) {
	idx, ok := p.slotFor(stemID)
	if !ok {
		return
	}
	p.engine.SetStemSolo(idx, !p.engine.IsStemSoloed(idx))
}

func (p *Player) SetMasterVolume(v float32) { p.engine.SetMasterVolume(v) }

// PreloadSetlist runs one preload pass over setlistID, treating
// currentIndex as the song presently selected.
func (p *Player) PreloadSetlist(ctx context.Context, setlistID string, currentIndex int) error {
	return p.scheduler.Run(ctx, setlistID, currentIndex)
}

func (p *Player) CacheStats() songcache.Stats { return p.cache.Stats() }
func (p *Player) SetCacheSize(maxBytes int64) { p.cache.SetMax(maxBytes) }
func (p *Player) ClearCache()                 { p.cache.Clear() }

// Close stops the level/event pump, tears down the output device (if
// any), and closes the event bus.
func (p *Player) Close() error {
	p.pump.Stop()
	err := p.engine.Close()
	p.bus.Close()
	return err
}
