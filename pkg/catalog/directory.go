package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
}

// LoadDirectory builds a Memory catalog from a directory tree where each
// immediate subdirectory is a song and every audio file inside it is one
// of that song's stems. Song and stem ids are derived from directory and
// file names when unambiguous, and given a generated id only as a
// fallback for an empty name. A setlist named "all" is registered with
// every song in directory order.
func LoadDirectory(root string) (*Memory, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	m := NewMemory()
	var setlist []string

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		songDir := filepath.Join(root, entry.Name())
		song, err := loadSongDirectory(entry.Name(), songDir)
		if err != nil {
			return nil, err
		}
		if len(song.Stems) == 0 {
			continue
		}
		m.PutSong(song)
		setlist = append(setlist, song.SongID)
	}

	m.PutSetlist("all", setlist)
	return m, nil
}

func loadSongDirectory(name, dir string) (SongDescriptor, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return SongDescriptor{}, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

	songID := slugify(name)
	if songID == "" {
		songID = uuid.NewString()
	}

	song := SongDescriptor{SongID: songID, Name: name}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if !audioExtensions[ext] {
			continue
		}
		stemName := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		stemSlug := slugify(stemName)
		if stemSlug == "" {
			stemSlug = uuid.NewString()
		}
		stemID := songID + "/" + stemSlug
		song.Stems = append(song.Stems, StemDescriptor{
			StemID: stemID,
			Name:   stemName,
			Path:   filepath.Join(dir, f.Name()),
			Volume: 1.0,
		})
	}
	return song, nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '_':
			return '-'
		default:
			return -1
		}
	}, s)
	return strings.Trim(s, "-")
}
