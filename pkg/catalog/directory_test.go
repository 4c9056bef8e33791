package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDirectoryBuildsSongsAndSetlist(t *testing.T) {
	root := t.TempDir()

	song1 := filepath.Join(root, "Song One")
	if err := os.MkdirAll(song1, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Vocals.wav", "Drums.wav", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(song1, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m, err := LoadDirectory(root)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}

	setlist, err := m.Setlist(context.Background(), "all")
	if err != nil {
		t.Fatalf("Setlist: %v", err)
	}
	if len(setlist) != 1 {
		t.Fatalf("expected 1 song, got %d", len(setlist))
	}

	song, err := m.Song(context.Background(), setlist[0])
	if err != nil {
		t.Fatalf("Song: %v", err)
	}
	if song.Name != "Song One" {
		t.Fatalf("song name = %q, want %q", song.Name, "Song One")
	}
	if len(song.Stems) != 2 {
		t.Fatalf("expected 2 audio stems (notes.txt excluded), got %d", len(song.Stems))
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Song One":  "song-one",
		"  Trim  ":  "trim",
		"Vocals_01": "vocals-01",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
