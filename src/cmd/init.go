package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pboueri/outgit/src/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration in the current directory",
	Long:  `Create a .outgit directory with a default config.yaml that can be edited to adjust the remote, git command, dedup policy and watch behavior.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	projectRoot, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(projectRoot, ".outgit", "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", configPath)
	}

	if err := config.SaveConfig(projectRoot, config.GetDefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}
