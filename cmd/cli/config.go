package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yourusername/mediagrab-go/internal/app"
	"github.com/yourusername/mediagrab-go/internal/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the server configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with the default settings",
	Long:  `Writes the default server configuration. Without a path the file goes to ~/.mediagrab/config.yaml, one of the locations the server reads.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")

		written, err := initConfig(path, force)
		exitOnError(err)
		fmt.Printf("Config written to %s\n", written)
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

// initConfig writes the default config to path, or to the per-user location
// when path is empty. An existing file is kept unless force is set.
func initConfig(path string, force bool) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate home directory: %w", err)
		}
		path = filepath.Join(home, ".mediagrab", "config.yaml")
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists, use --force to overwrite", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	if err := app.SaveConfig(domain.DefaultConfig(), path); err != nil {
		return "", err
	}
	return path, nil
}
