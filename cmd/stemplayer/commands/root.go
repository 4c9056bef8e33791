package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gigstage/stemengine/pkg/catalog"
)

var (
	verbose bool

	catalogDir       string
	manifestPath     string
	deviceName       string
	cacheMaxMB       int64
	targetSampleRate int
	slotCapacity     int
)

// loadCatalog resolves the catalog source for the current invocation: a
// hand-authored manifest fixture if --manifest was given, otherwise the
// --catalog audio directory.
func loadCatalog() (catalog.Catalog, error) {
	if manifestPath != "" {
		return catalog.LoadManifest(manifestPath)
	}
	return catalog.LoadDirectory(catalogDir)
}

var rootCmd = &cobra.Command{
	Use:   "stemplayer",
	Short: "Realtime multi-track stem player for live performance",
	Long: `stemplayer - play synchronized multi-track song stems live.

A catalog directory holds one subdirectory per song, each containing
that song's stem audio files (wav, mp3, flac). Use 'stemplayer songs'
to see what a catalog directory resolves to, then 'stemplayer play' to
play a song with live per-stem volume, mute, and solo control.

Examples:
  stemplayer songs --catalog ./setlist
  stemplayer play song-one --catalog ./setlist
  stemplayer preload --catalog ./setlist --setlist all`,
	SilenceUsage:  true,
	SilenceErrors: true,

	// Persisted settings fill in any of catalog/device/cache-mb/rate/slots
	// the user didn't pass explicitly on this invocation. This runs after
	// cobra.OnInitialize (settingsConfig is already loaded) and after flag
	// parsing, so cmd.Flags().Changed reflects the real command line.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		applyPersistedDefaults(cmd)
		return nil
	},
}

// applyPersistedDefaults overrides a flag's default with its persisted
// value from `stemplayer config set`, unless the user passed that flag
// explicitly on this invocation. Missing or unparseable persisted values
// are left alone; they never override an explicit flag.
func applyPersistedDefaults(cmd *cobra.Command) {
	if settingsConfig == nil {
		return
	}
	ctx, err := settingsConfig.GetContext(defaultContextName)
	if err != nil {
		return
	}

	if !cmd.Flags().Changed("catalog") {
		if v := ctx.GetExtra("catalog"); v != "" {
			catalogDir = v
		}
	}
	if !cmd.Flags().Changed("device") {
		if v := ctx.GetExtra("device"); v != "" {
			deviceName = v
		}
	}
	if !cmd.Flags().Changed("cache-mb") {
		if v := ctx.GetExtra("cache_mb"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				cacheMaxMB = n
			}
		}
	}
	if !cmd.Flags().Changed("rate") {
		if v := ctx.GetExtra("rate"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				targetSampleRate = n
			}
		}
	}
	if !cmd.Flags().Changed("slots") {
		if v := ctx.GetExtra("slots"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				slotCapacity = n
			}
		}
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initSettings)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog", ".", "catalog directory (one subdirectory per song)")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "load the catalog from a YAML/JSON fixture file instead of --catalog")
	rootCmd.PersistentFlags().StringVar(&deviceName, "device", "", "output device name (empty selects the system default)")
	rootCmd.PersistentFlags().Int64Var(&cacheMaxMB, "cache-mb", 512, "song cache size budget, in megabytes")
	rootCmd.PersistentFlags().IntVar(&targetSampleRate, "rate", 48000, "target sample rate all stems are resampled to")
	rootCmd.PersistentFlags().IntVar(&slotCapacity, "slots", engineSlotCapacityDefault, "fixed engine stem-slot capacity")
}

const engineSlotCapacityDefault = 32
