// Package songcache implements the byte-budgeted least-recently-used
// cache that holds fully-decoded stem buffers for songs already loaded
// once, so returning to a song skips decode and resample entirely.
package songcache

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/gigstage/stemengine/pkg/audio/engine"
)

// ErrSizeExceeded is returned by Insert when a single song's decoded
// size alone exceeds the cache's configured maximum — no amount of
// eviction can make room for it.
var ErrSizeExceeded = fmt.Errorf("songcache: entry exceeds cache max size")

// Stems is the decoded payload cached per song: stem id to buffer.
type Stems map[string]*engine.StemBuffer

type entry struct {
	songID string
	stems  Stems
	bytes  int64
}

func sizeOf(stems Stems) int64 {
	var total int64
	for _, s := range stems {
		total += int64(len(s.Samples)) * 4 // float32
	}
	return total
}

// Cache is a byte-budgeted LRU keyed by song id. All methods are safe
// for concurrent use; a single mutex guards the list and map together
// since entries must always move in lockstep.
type Cache struct {
	mu sync.Mutex

	ll    *list.List // front = most recently used
	items map[string]*list.Element

	maxBytes     int64
	currentBytes int64
}

// New creates an empty cache with the given byte budget.
func New(maxBytes int64) *Cache {
	return &Cache{
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		maxBytes: maxBytes,
	}
}

// Get returns the cached stems for songID and marks it most recently
// used, or ok == false if it is not cached.
func (c *Cache) Get(songID string) (stems Stems, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[songID]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).stems, true
}

// Contains reports whether songID is cached, without affecting recency.
func (c *Cache) Contains(songID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[songID]
	return ok
}

// Insert stores stems under songID as the most recently used entry,
// evicting least-recently-used entries until it fits the byte budget.
// Re-inserting an existing id replaces its entry and size. It returns
// ErrSizeExceeded if stems alone is larger than the cache's max.
func (c *Cache) Insert(songID string, stems Stems) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := sizeOf(stems)
	if size > c.maxBytes {
		return fmt.Errorf("song %q (%d bytes, max %d): %w", songID, size, c.maxBytes, ErrSizeExceeded)
	}

	if el, ok := c.items[songID]; ok {
		old := el.Value.(*entry)
		c.currentBytes -= old.bytes
		c.ll.Remove(el)
		delete(c.items, songID)
	}

	for c.currentBytes+size > c.maxBytes && c.ll.Len() > 0 {
		c.evictOldestLocked()
	}

	el := c.ll.PushFront(&entry{songID: songID, stems: stems, bytes: size})
	c.items[songID] = el
	c.currentBytes += size
	return nil
}

func (c *Cache) evictOldestLocked() {
	el := c.ll.Back()
	if el == nil {
		return
	}
	e := el.Value.(*entry)
	c.ll.Remove(el)
	delete(c.items, e.songID)
	c.currentBytes -= e.bytes
}

// Remove evicts songID if present; it is a no-op otherwise.
func (c *Cache) Remove(songID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[songID]
	if !ok {
		return
	}
	e := el.Value.(*entry)
	c.ll.Remove(el)
	delete(c.items, songID)
	c.currentBytes -= e.bytes
}

// Clear evicts every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.items = make(map[string]*list.Element)
	c.currentBytes = 0
}

// SetMax changes the byte budget, evicting least-recently-used entries
// immediately if the new budget is smaller than the current usage.
func (c *Cache) SetMax(maxBytes int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maxBytes = maxBytes
	for c.currentBytes > c.maxBytes && c.ll.Len() > 0 {
		c.evictOldestLocked()
	}
}

// Stats is a point-in-time snapshot of cache occupancy.
type Stats struct {
	Count        int
	CurrentBytes int64
	MaxBytes     int64
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Count: c.ll.Len(), CurrentBytes: c.currentBytes, MaxBytes: c.maxBytes}
}
