package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestMemorySongRoundTrip(t *testing.T) {
	m := NewMemory()
	m.PutSong(SongDescriptor{
		SongID: "song-1",
		Name:   "Test Song",
		Stems: []StemDescriptor{
			{StemID: "stem-vox", Path: "/stems/vox.wav", Volume: 0.8},
			{StemID: "stem-drums", Path: "/stems/drums.wav", Volume: 1.0},
		},
	})

	got, err := m.Song(context.Background(), "song-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Stems) != 2 {
		t.Fatalf("expected 2 stems, got %d", len(got.Stems))
	}

	// Mutating the returned descriptor must not affect the stored copy.
	got.Stems[0].Volume = 0.0
	again, _ := m.Song(context.Background(), "song-1")
	if again.Stems[0].Volume != 0.8 {
		t.Fatalf("catalog leaked a mutable reference: volume = %v", again.Stems[0].Volume)
	}
}

func TestMemorySongNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Song(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemorySetlistOrderPreserved(t *testing.T) {
	m := NewMemory()
	m.PutSetlist("set-1", []string{"song-a", "song-b", "song-c"})

	got, err := m.Setlist(context.Background(), "set-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"song-a", "song-b", "song-c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("setlist order mismatch at %d: got %v want %v", i, got, want)
		}
	}
}

func TestMemorySetStemVolumeAndMuted(t *testing.T) {
	m := NewMemory()
	m.PutSong(SongDescriptor{
		SongID: "song-1",
		Stems: []StemDescriptor{
			{StemID: "stem-vox", Volume: 0.5},
		},
	})

	if err := m.SetStemVolume(context.Background(), "stem-vox", 0.25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.SetStemMuted(context.Background(), "stem-vox", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	song, _ := m.Song(context.Background(), "song-1")
	if song.Stems[0].Volume != 0.25 {
		t.Fatalf("volume not persisted: got %v", song.Stems[0].Volume)
	}
	if !song.Stems[0].Muted {
		t.Fatal("muted flag not persisted")
	}
}

func TestMemorySetStemVolumeUnknownStem(t *testing.T) {
	m := NewMemory()
	err := m.SetStemVolume(context.Background(), "nope", 1.0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
