// Package preload implements the setlist-wide preloading scheduler: it
// walks a setlist in priority order (current song first, then the next
// two, then the previous one, then everything else in setlist order),
// decoding and caching each song that isn't cached yet.
package preload

import (
	"context"
	"log/slog"

	"github.com/gigstage/stemengine/pkg/audio/loader"
	"github.com/gigstage/stemengine/pkg/catalog"
	"github.com/gigstage/stemengine/pkg/events"
	"github.com/gigstage/stemengine/pkg/songcache"
)

type planItem struct {
	songID   string
	priority string
}

// buildPlan orders songIDs by priority around currentIndex: CURRENT,
// then NEXT (up to two songs ahead), then PREVIOUS (one song back), then
// every remaining song in setlist order. Each song id appears at most
// once, at its highest-priority slot.
func buildPlan(songIDs []string, currentIndex int) []planItem {
	var plan []planItem
	seen := make(map[int]bool, len(songIDs))

	add := func(idx int, priority string) {
		if idx < 0 || idx >= len(songIDs) || seen[idx] {
			return
		}
		seen[idx] = true
		plan = append(plan, planItem{songID: songIDs[idx], priority: priority})
	}

	add(currentIndex, "current")
	add(currentIndex+1, "next")
	add(currentIndex+2, "next")
	if currentIndex > 0 {
		add(currentIndex-1, "previous")
	}
	for i := range songIDs {
		add(i, "background")
	}
	return plan
}

// Scheduler runs preload passes over a catalog's setlists into a shared
// song cache.
type Scheduler struct {
	catalog    catalog.Catalog
	cache      *songcache.Cache
	targetRate int
	bus        *events.Bus
	logger     *slog.Logger
}

// New constructs a Scheduler. bus may be nil to disable progress events.
func New(cat catalog.Catalog, cache *songcache.Cache, targetRate int, bus *events.Bus, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{catalog: cat, cache: cache, targetRate: targetRate, bus: bus, logger: logger}
}

// Run executes one preload pass over setlistID, treating currentIndex
// as the song presently selected. It skips songs already cached,
// decodes and caches the rest in priority order, and logs past any
// single song's failure rather than aborting the whole pass.
func (s *Scheduler) Run(ctx context.Context, setlistID string, currentIndex int) error {
	songIDs, err := s.catalog.Setlist(ctx, setlistID)
	if err != nil {
		return err
	}

	plan := buildPlan(songIDs, currentIndex)
	total := len(plan)

	for i, item := range plan {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if s.cache.Contains(item.songID) {
			continue
		}

		song, err := s.catalog.Song(ctx, item.songID)
		if err != nil {
			s.logger.Warn("preload: song lookup failed", "song", item.songID, "error", err)
			continue
		}

		if s.bus != nil {
			s.bus.Publish(events.PreloadProgress{
				SongID:   item.songID,
				SongName: song.Name,
				Priority: item.priority,
				Index:    i + 1,
				Total:    total,
			})
		}

		stems, err := loader.LoadSong(song, s.targetRate, s.logger, nil)
		if err != nil {
			s.logger.Warn("preload: failed to load song", "song", item.songID, "error", err)
			continue
		}

		if err := s.cache.Insert(item.songID, stems); err != nil {
			s.logger.Warn("preload: failed to cache song", "song", item.songID, "error", err)
		}
	}

	if s.bus != nil {
		s.bus.Publish(events.PreloadComplete{SetlistID: setlistID})
	}
	return nil
}
