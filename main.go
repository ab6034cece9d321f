package main

import (
	"os"
	"path/filepath"

	"github.com/pboueri/outgit/src/cmd"
	"github.com/pboueri/outgit/src/config"
	"github.com/pboueri/outgit/src/logger"
)

func main() {
	// Initialize logger with defaults first
	logger.Initialize()

	// Reinitialize the logger from config when the project carries one
	projectRoot, err := os.Getwd()
	if err == nil {
		if _, err := os.Stat(filepath.Join(projectRoot, ".outgit")); err == nil {
			if cfg, err := config.LoadConfig(projectRoot); err == nil {
				if err := config.InitializeLogger(cfg, projectRoot); err != nil {
					logger.Warn("Failed to initialize logger from config: %v", err)
				}
			}
		}
	}

	if err := cmd.Execute(); err != nil {
		logger.Error("Command failed: %v", err)
		os.Exit(1)
	}
}
