// Package catalog defines the seam between the playback core and the
// externally-owned song/setlist metadata store. Persistent storage is
// explicitly out of scope for the core; Catalog is the opaque interface
// the core calls through, and Memory is an in-memory reference
// implementation for tests and the demo CLI — not a production store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a song, setlist, or stem identifier is
// unknown to the catalog.
var ErrNotFound = errors.New("catalog: not found")

// StemDescriptor is the persisted shape of one stem: its source file,
// declared volume, and muted flag, per spec's persisted-state layout.
type StemDescriptor struct {
	StemID string
	Name   string
	Path   string
	Volume float32
	Muted  bool
}

// SongDescriptor is a song identity plus its ordered stems.
type SongDescriptor struct {
	SongID string
	Name   string
	Stems  []StemDescriptor
}

// Catalog is the core's only dependency on persisted metadata. The core
// neither writes nor reads any storage directly; every lookup and every
// declared-value change goes through this interface.
type Catalog interface {
	Song(ctx context.Context, songID string) (SongDescriptor, error)
	Setlist(ctx context.Context, setlistID string) ([]string, error)
	SetStemVolume(ctx context.Context, stemID string, volume float32) error
	SetStemMuted(ctx context.Context, stemID string, muted bool) error
}

// Memory is a process-local, non-persistent Catalog implementation.
type Memory struct {
	mu       sync.RWMutex
	songs    map[string]SongDescriptor
	setlists map[string][]string
	// stemSong maps a stem-id back to the song that owns it, so
	// SetStemVolume/SetStemMuted can locate and mutate the stem's
	// descriptor by id alone.
	stemSong map[string]string
}

// NewMemory creates an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		songs:    make(map[string]SongDescriptor),
		setlists: make(map[string][]string),
		stemSong: make(map[string]string),
	}
}

// PutSong registers or replaces a song descriptor.
func (m *Memory) PutSong(song SongDescriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.songs[song.SongID] = song
	for _, stem := range song.Stems {
		m.stemSong[stem.StemID] = song.SongID
	}
}

// PutSetlist registers or replaces a setlist's ordered song-id list.
func (m *Memory) PutSetlist(setlistID string, songIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := make([]string, len(songIDs))
	copy(ordered, songIDs)
	m.setlists[setlistID] = ordered
}

func (m *Memory) Song(_ context.Context, songID string) (SongDescriptor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	song, ok := m.songs[songID]
	if !ok {
		return SongDescriptor{}, fmt.Errorf("song %q: %w", songID, ErrNotFound)
	}
	// Return a deep-enough copy so callers can't mutate our stored stems.
	stems := make([]StemDescriptor, len(song.Stems))
	copy(stems, song.Stems)
	song.Stems = stems
	return song, nil
}

func (m *Memory) Setlist(_ context.Context, setlistID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	songIDs, ok := m.setlists[setlistID]
	if !ok {
		return nil, fmt.Errorf("setlist %q: %w", setlistID, ErrNotFound)
	}
	out := make([]string, len(songIDs))
	copy(out, songIDs)
	return out, nil
}

func (m *Memory) SetStemVolume(_ context.Context, stemID string, volume float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutateStemLocked(stemID, func(s *StemDescriptor) { s.Volume = volume })
}

func (m *Memory) SetStemMuted(_ context.Context, stemID string, muted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutateStemLocked(stemID, func(s *StemDescriptor) { s.Muted = muted })
}

func (m *Memory) mutateStemLocked(stemID string, apply func(*StemDescriptor)) error {
	songID, ok := m.stemSong[stemID]
	if !ok {
		return fmt.Errorf("stem %q: %w", stemID, ErrNotFound)
	}
	song := m.songs[songID]
	for i := range song.Stems {
		if song.Stems[i].StemID == stemID {
			apply(&song.Stems[i])
			m.songs[songID] = song
			return nil
		}
	}
	return fmt.Errorf("stem %q: %w", stemID, ErrNotFound)
}
