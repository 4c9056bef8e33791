package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gigstage/stemengine/pkg/audio/portaudio"
	"github.com/gigstage/stemengine/pkg/cli"
	"github.com/gigstage/stemengine/pkg/events"
	"github.com/gigstage/stemengine/pkg/stemplayer"
)

const dashboardRefresh = 100 * time.Millisecond
const dashboardLogLines = 6

var playCmd = &cobra.Command{
	Use:   "play <song-id>",
	Short: "Play a song and show the live level/position dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		songID := args[0]

		if err := portaudio.Initialize(); err != nil {
			return fmt.Errorf("play: %w", err)
		}
		defer portaudio.Terminate()

		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		logWriter := cli.NewLogWriter(dashboardLogLines)
		logLevel := slog.LevelInfo
		if verbose {
			logLevel = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: logLevel}))

		player, err := stemplayer.New(stemplayer.Config{
			Catalog:          cat,
			CacheMaxBytes:    cacheMaxMB * 1024 * 1024,
			SlotCapacity:     slotCapacity,
			TargetSampleRate: targetSampleRate,
			Logger:           logger,
		})
		if err != nil {
			return fmt.Errorf("play: %w", err)
		}
		defer player.Close()

		if err := player.SwitchAudioDevice(deviceName); err != nil {
			return fmt.Errorf("play: opening output device: %w", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := player.PlaySong(ctx, songID); err != nil {
			return fmt.Errorf("play: %w", err)
		}

		return runDashboard(ctx, player, logWriter)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runDashboard(ctx context.Context, player *stemplayer.Player, logWriter *cli.LogWriter) error {
	sub := player.Events().Subscribe()
	defer player.Events().Unsubscribe(sub)

	styles := cli.NewStyles(cli.DefaultTheme)

	var (
		stateStr     = "loading"
		positionLine string
		loadingLine  string
		levelsLine   string
	)

	for _, evt := range player.Events().History() {
		applyDashboardEvent(evt, &stateStr, &positionLine, &loadingLine, &levelsLine)
	}

	ticker := time.NewTicker(dashboardRefresh)
	defer ticker.Stop()

	render := func() {
		frame := cli.Frame{
			Styles: styles,
			Title:  "STEMPLAYER",
			Status: stateStr,
			Sections: []cli.Section{
				{Label: "Position", Content: func() []string { return []string{positionLine} }},
				{Label: "Levels", Content: func() []string { return []string{levelsLine} }},
				{Label: "Loading", Content: func() []string { return []string{loadingLine} }},
				{Label: "Log", Content: logWriter.Lines},
			},
			Help: "ctrl+c = stop",
		}
		fmt.Print("\033[H\033[2J")
		fmt.Println(frame.Render(78, 16))
	}

	for {
		select {
		case <-ctx.Done():
			player.Stop()
			return nil

		case evt, ok := <-sub:
			if !ok {
				return nil
			}
			applyDashboardEvent(evt, &stateStr, &positionLine, &loadingLine, &levelsLine)

		case <-ticker.C:
			render()
		}
	}
}

func applyDashboardEvent(evt any, stateStr, positionLine, loadingLine, levelsLine *string) {
	switch e := evt.(type) {
	case events.PlaybackPosition:
		*positionLine = fmt.Sprintf("%6.1fs / %6.1fs", e.Seconds, e.Duration)
	case events.PlaybackState:
		*stateStr = e.State
	case events.PlaybackLevels:
		*levelsLine = formatLevels(e)
	case events.StemLoading:
		*loadingLine = fmt.Sprintf("%s: %s (%d/%d)", e.SongName, e.StemName, e.Completed, e.Total)
	}
}

func formatLevels(e events.PlaybackLevels) string {
	bar := func(level float32) string {
		const width = 20
		n := int(level * width)
		if n > width {
			n = width
		}
		out := make([]byte, width)
		for i := range out {
			if i < n {
				out[i] = '#'
			} else {
				out[i] = '-'
			}
		}
		return string(out)
	}
	line := fmt.Sprintf("master [%s]", bar(e.MasterPeak))
	for i, p := range e.StemPeaks {
		if p == 0 {
			continue
		}
		line += fmt.Sprintf("  slot%d [%s]", i, bar(p))
	}
	return line
}
