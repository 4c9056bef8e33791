package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifestYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.yaml")
	content := `
songs:
  - id: song-1
    name: Song One
    stems:
      - id: song-1/vocals
        name: Vocals
        path: /tmp/vocals.wav
        volume: 0.8
      - id: song-1/drums
        name: Drums
        path: /tmp/drums.wav
        muted: true
setlists:
  all: [song-1]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	ctx := context.Background()
	ids, err := cat.Setlist(ctx, "all")
	if err != nil || len(ids) != 1 || ids[0] != "song-1" {
		t.Fatalf("Setlist(all) = %v, %v", ids, err)
	}

	song, err := cat.Song(ctx, "song-1")
	if err != nil {
		t.Fatalf("Song: %v", err)
	}
	if song.Name != "Song One" || len(song.Stems) != 2 {
		t.Fatalf("unexpected song: %+v", song)
	}
	if song.Stems[0].Volume != 0.8 {
		t.Fatalf("want declared volume 0.8, got %v", song.Stems[0].Volume)
	}
	if !song.Stems[1].Muted {
		t.Fatal("want drums stem muted")
	}
}

func TestLoadManifestDefaultsVolumeToUnity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	content := `{"songs":[{"id":"s","name":"S","stems":[{"id":"s/a","name":"A","path":"/tmp/a.wav"}]}],"setlists":{}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	song, err := cat.Song(context.Background(), "s")
	if err != nil {
		t.Fatal(err)
	}
	if song.Stems[0].Volume != 1.0 {
		t.Fatalf("want default volume 1.0, got %v", song.Stems[0].Volume)
	}
}
