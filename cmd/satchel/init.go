// Init command creates the configuration and data directories.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/stixkit/internal/sqlite"
	"github.com/mesh-intelligence/stixkit/pkg/types"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize satchel storage",
	Long:  "Create configuration and data directories, then initialize the storage backend.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	// PersistentPreRunE already created the config directory and a default
	// config.yaml. Initialize the data directory via Attach then Detach.
	dataDir, err := resolveDataDir()
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend(typeRegistry)
	if err := backend.Attach(cfg); err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	if err := backend.Detach(); err != nil {
		return fmt.Errorf("finalize storage: %w", err)
	}

	// Record the resolved data directory so later invocations find the same
	// store without the flag.
	configDir, err := resolveConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if err := persistConfig(configDir, cfg); err != nil {
		return fmt.Errorf("persist config: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Satchel initialized successfully")
	return nil
}

// persistConfig writes the effective configuration to config.yaml.
func persistConfig(configDir string, cfg types.Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(configDir, configFileExt), data, 0o644)
}
