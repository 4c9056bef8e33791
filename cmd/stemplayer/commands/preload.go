package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigstage/stemengine/pkg/cli"
	"github.com/gigstage/stemengine/pkg/events"
	"github.com/gigstage/stemengine/pkg/preload"
	"github.com/gigstage/stemengine/pkg/songcache"
)

var preloadSetlistID string
var preloadCurrentIndex int

var preloadCmd = &cobra.Command{
	Use:   "preload",
	Short: "Warm the song cache for a setlist, current song first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		cache := songcache.New(cacheMaxMB * 1024 * 1024)
		bus := events.NewBus()
		defer bus.Close()
		sub := bus.Subscribe()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for evt := range sub {
				switch e := evt.(type) {
				case events.PreloadProgress:
					fmt.Printf("[%d/%d %s] %s\n", e.Index, e.Total, e.Priority, e.SongName)
				case events.PreloadComplete:
					return
				}
			}
		}()

		scheduler := preload.New(cat, cache, targetSampleRate, bus, nil)
		if err := scheduler.Run(cmd.Context(), preloadSetlistID, preloadCurrentIndex); err != nil {
			return err
		}
		<-done

		stats := cache.Stats()
		cli.PrintSuccess("cached %d songs (%s)", stats.Count, cli.FormatBytes(stats.CurrentBytes))
		return nil
	},
}

func init() {
	preloadCmd.Flags().StringVar(&preloadSetlistID, "setlist", "all", "setlist id to preload")
	preloadCmd.Flags().IntVar(&preloadCurrentIndex, "index", 0, "index of the currently selected song within the setlist")
	rootCmd.AddCommand(preloadCmd)
}
