package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pboueri/outgit/src"
	"github.com/pboueri/outgit/src/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Version int           `yaml:"version"`
	Remote  string        `yaml:"remote"`
	Git     GitConfig     `yaml:"git"`
	Tracker TrackerConfig `yaml:"tracker"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

type GitConfig struct {
	Command string        `yaml:"command,omitempty"` // Git command line, shell-quoted
	Timeout time.Duration `yaml:"timeout"`
}

type TrackerConfig struct {
	DedupPolicy src.DedupPolicy `yaml:"dedup_policy,omitempty"`
	SyncedLimit int             `yaml:"synced_limit,omitempty"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

type LoggingConfig struct {
	Level string    `yaml:"level"`
	Sinks []LogSink `yaml:"sinks"`
}

type LogSink struct {
	Type      string `yaml:"type"`                 // "console" or "file"
	Filename  string `yaml:"filename,omitempty"`   // For file sink
	UseStderr bool   `yaml:"use_stderr,omitempty"` // For console sink
	Colorize  bool   `yaml:"colorize,omitempty"`   // For console sink
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Version: 1,
		Remote:  "origin",
		Git: GitConfig{
			Command: "git",
			Timeout: 30 * time.Second,
		},
		Tracker: TrackerConfig{
			DedupPolicy: src.DedupFirstSeenWins,
			SyncedLimit: 100,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
			Sinks: []LogSink{
				{
					Type:     "console",
					Colorize: true,
				},
			},
		},
	}
}

func LoadConfig(projectRoot string) (*Config, error) {
	configPath := filepath.Join(projectRoot, ".outgit", "config.yaml")

	// Default config
	config := GetDefaultConfig()

	// Check if config file exists
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// File doesn't exist, continue with defaults
	} else {
		// Parse YAML
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func SaveConfig(projectRoot string, config *Config) error {
	configPath := filepath.Join(projectRoot, ".outgit", "config.yaml")

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that enum-like fields hold recognized values.
func (c *Config) Validate() error {
	switch c.Tracker.DedupPolicy {
	case "", src.DedupFirstSeenWins, src.DedupModifiedOnMultiple:
	default:
		return fmt.Errorf("unknown dedup policy: %s", c.Tracker.DedupPolicy)
	}
	if c.Remote == "" {
		return fmt.Errorf("remote name must not be empty")
	}
	return nil
}

// MergeConfig merges override config into base config. Override values take precedence.
func MergeConfig(base, override *Config) *Config {
	if override == nil {
		return base
	}
	if base == nil {
		return override
	}

	// Create a copy of base
	result := *base

	if override.Remote != "" {
		result.Remote = override.Remote
	}

	// Merge Git config
	if override.Git.Command != "" {
		result.Git.Command = override.Git.Command
	}
	if override.Git.Timeout != 0 {
		result.Git.Timeout = override.Git.Timeout
	}

	// Merge Tracker config
	if override.Tracker.DedupPolicy != "" {
		result.Tracker.DedupPolicy = override.Tracker.DedupPolicy
	}
	if override.Tracker.SyncedLimit != 0 {
		result.Tracker.SyncedLimit = override.Tracker.SyncedLimit
	}

	// Merge Watch config
	if override.Watch.Debounce != 0 {
		result.Watch.Debounce = override.Watch.Debounce
	}

	// Merge Logging config
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if len(override.Logging.Sinks) > 0 {
		result.Logging.Sinks = override.Logging.Sinks
	}

	return &result
}

// LoadConfigFromFile loads configuration from a specific file
func LoadConfigFromFile(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// InitializeLogger sets up the logger based on config
func InitializeLogger(config *Config, projectRoot string) error {
	// Parse log level
	level, err := logger.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	// Create sinks
	var sinks []logger.Sink
	for _, sinkConfig := range config.Logging.Sinks {
		switch sinkConfig.Type {
		case "console":
			sink := logger.NewConsoleSink(sinkConfig.UseStderr, sinkConfig.Colorize)
			sinks = append(sinks, sink)
		case "file":
			filename := sinkConfig.Filename
			if filename == "" {
				filename = "outgit.log"
			}
			// If not absolute path, make it relative to project root
			if !filepath.IsAbs(filename) {
				filename = filepath.Join(projectRoot, ".outgit", filename)
			}
			sink, err := logger.NewFileSink(filename)
			if err != nil {
				return fmt.Errorf("failed to create file sink: %w", err)
			}
			sinks = append(sinks, sink)
		default:
			return fmt.Errorf("unknown sink type: %s", sinkConfig.Type)
		}
	}

	// Initialize logger
	logger.Initialize(sinks...)
	logger.SetLevel(level)

	return nil
}
