package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigstage/stemengine/pkg/cli"
)

const defaultContextName = "default"

var settingsConfig *cli.Config

func initSettings() {
	cfg, err := cli.LoadConfig("stemplayer")
	if err != nil {
		// Deferred: only commands that actually need persisted settings
		// fail on this; commands that don't touch settings still work.
		return
	}
	if _, err := cfg.GetContext(defaultContextName); err != nil {
		_ = cfg.AddContext(defaultContextName, &cli.Context{})
	}
	settingsConfig = cfg
}

// Settings returns the loaded config, loading it on demand if
// initSettings didn't run yet (e.g. in tests).
func Settings() (*cli.Config, error) {
	if settingsConfig != nil {
		return settingsConfig, nil
	}
	cfg, err := cli.LoadConfig("stemplayer")
	if err != nil {
		return nil, fmt.Errorf("settings unavailable: %w", err)
	}
	settingsConfig = cfg
	return cfg, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or persist default settings (catalog directory, device, cache size)",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show persisted default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := Settings()
		if err != nil {
			return err
		}
		ctx, err := cfg.GetContext(defaultContextName)
		if err != nil {
			cli.PrintInfo("no settings saved yet")
			return nil
		}
		for _, key := range []string{"catalog", "device", "cache_mb", "rate", "slots"} {
			if v := ctx.GetExtra(key); v != "" {
				fmt.Printf("%s = %s\n", key, v)
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a default setting (catalog, device, cache_mb, rate, slots)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := Settings()
		if err != nil {
			return err
		}
		ctx, err := cfg.GetContext(defaultContextName)
		if err != nil {
			return err
		}
		ctx.SetExtra(args[0], args[1])
		if err := cfg.Save(); err != nil {
			return err
		}
		cli.PrintSuccess("saved %s = %s to %s", args[0], args[1], cfg.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
