package commands

import (
	"github.com/spf13/cobra"

	"github.com/gigstage/stemengine/pkg/audio/device"
	"github.com/gigstage/stemengine/pkg/audio/portaudio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio output devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := portaudio.Initialize(); err != nil {
			return err
		}
		defer portaudio.Terminate()

		if verbose {
			return portaudio.PrintDevices()
		}

		names, err := device.Names()
		if err != nil {
			return err
		}
		for _, name := range names {
			cmd.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
