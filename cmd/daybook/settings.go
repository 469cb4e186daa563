package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daybook-app/daybook/pkg/journal"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the singleton user settings record",
	Long:  `Provides commands for saving and showing the user settings (display name, primary goal, onboarding state).`,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save the user settings",
	Long:  `Creates the settings record on first use and updates it afterwards. Saving always marks onboarding as complete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		goal, _ := cmd.Flags().GetString("goal")

		if name == "" {
			return fmt.Errorf("name cannot be empty")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		settings, err := store.SaveSettings(cmd.Context(), name, goal)
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}

		fmt.Println("Settings saved successfully:")
		output, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format settings output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current user settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		settings, err := store.Settings(cmd.Context())
		if err != nil {
			if errors.Is(err, journal.ErrSettingsNotFound) {
				fmt.Println("No settings saved yet. Use 'daybook settings set --name ...' first.")
				return nil
			}
			return fmt.Errorf("failed to load settings: %w", err)
		}

		output, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format settings output: %w", err)
		}
		fmt.Println(string(output))
		return nil
	},
}

func initSettingsCmd() {
	settingsSetCmd.Flags().StringP("name", "n", "", "Display name of the user (required)")
	settingsSetCmd.MarkFlagRequired("name")
	settingsSetCmd.Flags().StringP("goal", "g", "", "Primary journaling goal")

	settingsCmd.AddCommand(settingsSetCmd, settingsShowCmd)
}
