package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Settings holds the persisted defaults for all commands. Flags override
// individual fields per invocation; the file only changes the defaults.
type Settings struct {
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	MinContainers int    `toml:"min_containers"`
	MaxContainers int    `toml:"max_containers"`
	Seed          uint64 `toml:"seed"`
	MediaDir      string `toml:"media_dir"`
	Decor         bool   `toml:"decor"`
	Telemetry     bool   `toml:"telemetry"`
	Workers       int    `toml:"workers"`
	FPS           int    `toml:"fps"`
}

// defaultSettings are the built-in defaults used when no settings file exists.
var defaultSettings = Settings{
	Width:         1920,
	Height:        1080,
	MinContainers: 2,
	MaxContainers: 8,
	Seed:          42,
	Decor:         true,
	Telemetry:     true,
	Workers:       4,
	FPS:           10,
}

// settingsPath returns the settings file location, honoring
// XDG_CONFIG_HOME via os.UserConfigDir.
func settingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "videowall", "settings.toml"), nil
}

// loadSettings reads and parses the settings file at path.
func loadSettings(path string) (Settings, error) {
	cfg := defaultSettings
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return defaultSettings, err
	}
	return cfg, nil
}

// loadSettingsOrDefault loads the user settings file, falling back to the
// built-in defaults when the file is missing or unreadable. Command
// construction must not fail because of a broken settings file.
func loadSettingsOrDefault() Settings {
	path, err := settingsPath()
	if err != nil {
		return defaultSettings
	}
	cfg, err := loadSettings(path)
	if err != nil {
		return defaultSettings
	}
	return cfg
}

// saveSettings writes cfg as TOML to path, creating parent directories.
func saveSettings(path string, cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// newSettingsCmd creates the settings command group with show and init
// subcommands.
func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and initialize the settings file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadSettingsOrDefault()
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			path, err := settingsPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("settings file already exists: %s", path)
			}
			if err := saveSettings(path, defaultSettings); err != nil {
				return err
			}
			logger.Infof("Wrote %s", path)
			return nil
		},
	})

	return cmd
}
