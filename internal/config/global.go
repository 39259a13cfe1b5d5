package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig holds per-user defaults stored in ~/.config/druggraph/config.yml.
type GlobalConfig struct {
	DataRoot string      `yaml:"data_root,omitempty"` // Parent of raw/, cleaned/, output/, cache/
	LogLevel string      `yaml:"log_level,omitempty"`
	LogFile  string      `yaml:"log_file,omitempty"`
	Mongo    MongoConfig `yaml:"mongo,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "druggraph"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/druggraph/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.DataRoot != "" {
		cfg.DataRoot = ExpandPath(cfg.DataRoot)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// applyTo copies the global settings that are set onto cfg.
func (g *GlobalConfig) applyTo(cfg *Config) {
	if g.DataRoot != "" {
		cfg.RawDir = filepath.Join(g.DataRoot, "raw")
		cfg.CleanedDir = filepath.Join(g.DataRoot, "cleaned")
		cfg.OutputPath = filepath.Join(g.DataRoot, "output", "drug_journal_mentions_graph.json")
		cfg.CacheDir = filepath.Join(g.DataRoot, "cache")
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.LogFile = g.LogFile
	}
	if g.Mongo.URI != "" {
		cfg.Mongo.URI = g.Mongo.URI
	}
	if g.Mongo.Database != "" {
		cfg.Mongo.Database = g.Mongo.Database
	}
	if g.Mongo.Collection != "" {
		cfg.Mongo.Collection = g.Mongo.Collection
	}
}
