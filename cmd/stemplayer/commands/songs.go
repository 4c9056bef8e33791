package commands

import (
	"github.com/spf13/cobra"

	"github.com/gigstage/stemengine/pkg/cli"
)

var songsCmd = &cobra.Command{
	Use:   "songs",
	Short: "List the songs and stems a catalog directory resolves to",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		songIDs, err := cat.Setlist(cmd.Context(), "all")
		if err != nil {
			return err
		}

		type stemView struct {
			ID   string `yaml:"id"`
			Name string `yaml:"name"`
		}
		type songView struct {
			ID    string     `yaml:"id"`
			Name  string     `yaml:"name"`
			Stems []stemView `yaml:"stems"`
		}

		var out []songView
		for _, id := range songIDs {
			song, err := cat.Song(cmd.Context(), id)
			if err != nil {
				return err
			}
			sv := songView{ID: song.SongID, Name: song.Name}
			for _, s := range song.Stems {
				sv.Stems = append(sv.Stems, stemView{ID: s.StemID, Name: s.Name})
			}
			out = append(out, sv)
		}

		return cli.Output(out, cli.OutputOptions{Format: cli.FormatYAML})
	},
}

func init() {
	rootCmd.AddCommand(songsCmd)
}
