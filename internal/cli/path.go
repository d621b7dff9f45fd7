package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/tgienger/smarttask/internal/config"
	"github.com/tgienger/smarttask/internal/db"
)

func pathCmd(o *config.Overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved file locations and stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*o)
			if err != nil {
				return err
			}

			source := cfg.Source
			if source == "" {
				source = "(none)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:   %s\n", source)
			fmt.Fprintf(out, "data:     %s\n", cfg.DataFile)
			fmt.Fprintf(out, "settings: %s\n", cfg.SettingsDB)
			fmt.Fprintf(out, "log:      %s\n", cfg.LogFile)

			prefs, err := storedPreferences(cfg.SettingsDB)
			if err != nil {
				return fmt.Errorf("read preferences: %w", err)
			}
			for _, k := range slices.Sorted(maps.Keys(prefs)) {
				fmt.Fprintf(out, "pref %s: %s\n", k, prefs[k])
			}
			return nil
		},
	}
}

// storedPreferences reads the preference store without creating it
func storedPreferences(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	store, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Settings()
}
