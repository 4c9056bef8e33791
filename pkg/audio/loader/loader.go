// Package loader decodes every stem of a song in parallel, resamples
// and channel-normalizes each to the engine's target format, and hands
// back the immutable buffers the mixer engine and song cache consume.
package loader

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gigstage/stemengine/pkg/audio/decode"
	"github.com/gigstage/stemengine/pkg/audio/engine"
	"github.com/gigstage/stemengine/pkg/audio/resample"
	"github.com/gigstage/stemengine/pkg/catalog"
)

// Progress is a best-effort loading update for one successfully loaded
// stem within a song's load. A stem that fails to load sends no update.
type Progress struct {
	SongName string
	StemName string
	Completed int
	Total     int
}

// ProgressFunc receives Progress updates. Implementations must not
// block — a slow or absent receiver must never stall decoding. The
// channel-based bus in pkg/events is the intended backing for this.
type ProgressFunc func(Progress)

type stemResult struct {
	stemID string
	buf    *engine.StemBuffer
	err    error
}

// LoadSong decodes and resamples every stem in song to targetRate,
// normalized to stereo, one goroutine per stem. It waits for every
// goroutine to finish even after the first failure, so a slow stem
// never becomes an orphaned goroutine, but returns the first error
// encountered — the whole batch fails together, as a song is only
// playable with every one of its stems present.
func LoadSong(song catalog.SongDescriptor, targetRate int, logger *slog.Logger, onProgress ProgressFunc) (map[string]*engine.StemBuffer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	results := make(chan stemResult, len(song.Stems))
	var wg sync.WaitGroup
	for _, stem := range song.Stems {
		wg.Add(1)
		go func(stem catalog.StemDescriptor) {
			defer wg.Done()
			buf, err := loadStem(stem, targetRate, logger)
			results <- stemResult{stemID: stem.StemID, buf: buf, err: err}
		}(stem)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string]*engine.StemBuffer, len(song.Stems))
	var firstErr error
	completed := 0
	total := len(song.Stems)

	stemName := make(map[string]string, len(song.Stems))
	for _, s := range song.Stems {
		if s.Name != "" {
			stemName[s.StemID] = s.Name
		} else {
			stemName[s.StemID] = s.StemID
		}
	}

	for r := range results {
		completed++
		if r.err != nil {
			logger.Warn("loader: stem failed to load", "song", song.Name, "stem", r.stemID, "error", r.err)
			if firstErr == nil {
				firstErr = fmt.Errorf("stem %q: %w", r.stemID, r.err)
			}
			continue
		}
		out[r.stemID] = r.buf
		if onProgress != nil {
			onProgress(Progress{
				SongName:  song.Name,
				StemName:  stemName[r.stemID],
				Completed: completed,
				Total:     total,
			})
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func loadStem(stem catalog.StemDescriptor, targetRate int, logger *slog.Logger) (*engine.StemBuffer, error) {
	dec, err := decode.Open(stem.Path, logger)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	samples, meta, err := decode.DecodeAll(dec)
	if err != nil {
		return nil, err
	}

	stereo := toStereo(samples, meta.Channels)
	if meta.SampleRate != targetRate && meta.SampleRate > 0 {
		stereo = resample.Linear(stereo, 2, meta.SampleRate, targetRate)
	}

	return &engine.StemBuffer{
		Samples:    stereo,
		SampleRate: targetRate,
		Frames:     len(stereo) / 2,
	}, nil
}

// toStereo normalizes an interleaved buffer to exactly 2 channels: mono
// is duplicated to L/R, and sources with more than 2 channels keep only
// the first two.
func toStereo(samples []float32, channels int) []float32 {
	switch channels {
	case 2:
		return samples
	case 1:
		out := make([]float32, len(samples)*2)
		for i, s := range samples {
			out[2*i] = s
			out[2*i+1] = s
		}
		return out
	default:
		frames := len(samples) / channels
		out := make([]float32, frames*2)
		for f := 0; f < frames; f++ {
			out[2*f] = samples[f*channels]
			out[2*f+1] = samples[f*channels+1]
		}
		return out
	}
}
