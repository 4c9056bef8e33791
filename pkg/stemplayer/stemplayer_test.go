package stemplayer

import (
	"context"
	"errors"
	"testing"

	"github.com/gigstage/stemengine/pkg/audio/engine"
	"github.com/gigstage/stemengine/pkg/catalog"
	"github.com/gigstage/stemengine/pkg/songcache"
)

func newTestPlayer(t *testing.T) *Player {
	t.Helper()
	cat := catalog.NewMemory()
	p, err := New(Config{
		Catalog:          cat,
		CacheMaxBytes:    1 << 20,
		SlotCapacity:     8,
		TargetSampleRate: 48000,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestToggleMuteFailsForUnloadedStem(t *testing.T) {
	p := newTestPlayer(t)
	err := p.ToggleMute(context.Background(), "nope")
	if !errors.Is(err, ErrStemNotLoaded) {
		t.Fatalf("expected ErrStemNotLoaded toggling mute on a stem that isn't loaded, got %v", err)
	}
}

func TestToggleSoloIsNoOpForUnloadedStem(t *testing.T) {
	p := newTestPlayer(t)
	p.ToggleSolo("nope") // must not panic
}

func TestSetStemVolumePersistsThroughCatalogEvenWhenNotLive(t *testing.T) {
	cat := catalog.NewMemory()
	cat.PutSong(catalog.SongDescriptor{
		SongID: "song-1",
		Stems:  []catalog.StemDescriptor{{StemID: "vox", Volume: 0.5}},
	})
	p, err := New(Config{Catalog: cat, CacheMaxBytes: 1 << 20, SlotCapacity: 8, TargetSampleRate: 48000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if err := p.SetStemVolume(context.Background(), "vox", 0.1); err != nil {
		t.Fatalf("SetStemVolume: %v", err)
	}
	song, _ := cat.Song(context.Background(), "song-1")
	if song.Stems[0].Volume != 0.1 {
		t.Fatalf("volume not persisted: got %v", song.Stems[0].Volume)
	}
}

// newCachedSongPlayer returns a Player with songID already decoded and
// sitting in the song cache, so LoadSong/PlaySong never touch the real
// decoder — only the catalog/cache/engine wiring under test.
func newCachedSongPlayer(t *testing.T, songID string, frames int) *Player {
	t.Helper()
	cat := catalog.NewMemory()
	cat.PutSong(catalog.SongDescriptor{
		SongID: songID,
		Stems: []catalog.StemDescriptor{
			{StemID: "vox", Volume: 0.8},
			{StemID: "drums", Volume: 1.0, Muted: true},
		},
	})

	p, err := New(Config{Catalog: cat, CacheMaxBytes: 1 << 20, SlotCapacity: 8, TargetSampleRate: 48000})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { p.Close() })

	stems := songcache.Stems{
		"vox":   {Samples: make([]float32, frames*2), SampleRate: 48000, Frames: frames},
		"drums": {Samples: make([]float32, frames*2), SampleRate: 48000, Frames: frames},
	}
	if err := p.cache.Insert(songID, stems); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}
	return p
}

func TestLoadSongAssignsStemsAndAppliesDeclaredMix(t *testing.T) {
	p := newCachedSongPlayer(t, "song-1", 1000)

	if err := p.LoadSong(context.Background(), "song-1"); err != nil {
		t.Fatalf("LoadSong: %v", err)
	}

	voxIdx, ok := p.slotFor("vox")
	if !ok {
		t.Fatal("vox stem not assigned a slot after LoadSong")
	}
	if v := p.engine.StemVolume(voxIdx); v != 0.8 {
		t.Errorf("vox volume = %v, want 0.8", v)
	}

	drumsIdx, ok := p.slotFor("drums")
	if !ok {
		t.Fatal("drums stem not assigned a slot after LoadSong")
	}
	if !p.engine.IsStemMuted(drumsIdx) {
		t.Error("drums stem should be muted per catalog descriptor")
	}

	p.mu.Lock()
	current := p.currentSongID
	p.mu.Unlock()
	if current != "song-1" {
		t.Errorf("currentSongID = %q, want song-1", current)
	}
}

func TestPlaySongAlwaysReloadsEvenWhenAlreadyCurrent(t *testing.T) {
	p := newCachedSongPlayer(t, "song-1", 48000) // 1 second of audio

	if err := p.PlaySong(context.Background(), "song-1"); err != nil {
		t.Fatalf("PlaySong: %v", err)
	}

	p.Seek(0.5)
	p.Pause()
	if pos := p.engine.Position(); pos < 0.4 {
		t.Fatalf("test setup: expected seeked position near 0.5s, got %v", pos)
	}

	// Re-playing the same song must reset to position 0 rather than
	// resume from where it was paused.
	if err := p.PlaySong(context.Background(), "song-1"); err != nil {
		t.Fatalf("second PlaySong: %v", err)
	}
	if pos := p.engine.Position(); pos != 0 {
		t.Fatalf("position after replaying the same song = %v, want 0", pos)
	}
	if p.engine.State() != engine.Playing {
		t.Fatalf("state after PlaySong = %v, want Playing", p.engine.State())
	}
}

func TestPlaySongMissingSongReturnsError(t *testing.T) {
	p := newTestPlayer(t)
	if err := p.PlaySong(context.Background(), "nope"); err == nil {
		t.Fatal("expected an error playing an unknown song")
	}
}

func TestCacheSizeAndStats(t *testing.T) {
	p := newTestPlayer(t)
	stats := p.CacheStats()
	if stats.Count != 0 {
		t.Fatalf("expected empty cache, got %+v", stats)
	}
	p.SetCacheSize(2048)
	if p.CacheStats().MaxBytes != 2048 {
		t.Fatalf("SetCacheSize did not take effect: %+v", p.CacheStats())
	}
	p.ClearCache() // must not panic on an already-empty cache
}

func TestPreloadSetlistMissingSetlistReturnsError(t *testing.T) {
	p := newTestPlayer(t)
	if err := p.PreloadSetlist(context.Background(), "missing-setlist", 0); err == nil {
		t.Fatal("expected an error for an unknown setlist")
	}
}
