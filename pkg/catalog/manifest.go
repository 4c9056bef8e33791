package catalog

import "github.com/gigstage/stemengine/pkg/cli"

// manifestSong and manifestStem mirror SongDescriptor/StemDescriptor with
// explicit tags, so fixture files written by hand use stable, lowercase
// keys regardless of whether they're YAML or JSON.
type manifestStem struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Path   string  `yaml:"path" json:"path"`
	Volume float32 `yaml:"volume" json:"volume"`
	Muted  bool    `yaml:"muted" json:"muted"`
}

type manifestSong struct {
	ID    string         `yaml:"id" json:"id"`
	Name  string         `yaml:"name" json:"name"`
	Stems []manifestStem `yaml:"stems" json:"stems"`
}

// Manifest is the on-disk shape of a hand-authored catalog fixture: a set
// of songs plus named setlists ordering them. It exists for the demo CLI
// and for tests that want a catalog without a real audio directory on
// disk — LoadDirectory remains the path for a real performance rig.
type Manifest struct {
	Songs    []manifestSong      `yaml:"songs" json:"songs"`
	Setlists map[string][]string `yaml:"setlists" json:"setlists"`
}

// LoadManifest reads a YAML or JSON fixture file (extension-sensed by
// cli.LoadRequest) and builds an in-memory catalog from it.
func LoadManifest(path string) (*Memory, error) {
	var manifest Manifest
	if err := cli.LoadRequest(path, &manifest); err != nil {
		return nil, err
	}

	m := NewMemory()
	for _, song := range manifest.Songs {
		sd := SongDescriptor{SongID: song.ID, Name: song.Name}
		for _, stem := range song.Stems {
			volume := stem.Volume
			if volume == 0 {
				volume = 1.0
			}
			sd.Stems = append(sd.Stems, StemDescriptor{
				StemID: stem.ID,
				Name:   stem.Name,
				Path:   stem.Path,
				Volume: volume,
				Muted:  stem.Muted,
			})
		}
		m.PutSong(sd)
	}
	for setlistID, songIDs := range manifest.Setlists {
		m.PutSetlist(setlistID, songIDs)
	}
	return m, nil
}
