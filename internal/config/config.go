// Package config handles pipeline configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config locates the pipeline's inputs and outputs.
type Config struct {
	RawDir     string      `yaml:"raw_dir"`             // Directory with drugs.csv, pubmed.csv, pubmed.json, clinical_trials.csv
	CleanedDir string      `yaml:"cleaned_dir"`         // Directory for cleaned CSV tables
	OutputPath string      `yaml:"output_path"`         // Mention graph JSON file
	CacheDir   string      `yaml:"cache_dir"`           // Directory for the SQLite query cache
	LogLevel   string      `yaml:"log_level,omitempty"` // logrus level name
	LogFile    string      `yaml:"log_file,omitempty"`  // Optional rotating log file
	Mongo      MongoConfig `yaml:"mongo,omitempty"`     // Optional export target
}

// MongoConfig names the collection that receives exported mention graphs.
type MongoConfig struct {
	URI        string `yaml:"uri,omitempty"`
	Database   string `yaml:"database,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

const (
	// ConfigFile is the project config file looked up in the working directory.
	ConfigFile = "druggraph.yml"
	// EnvFile is the dotenv file loaded before environment overrides.
	EnvFile = ".env"
	// DBFile is the query cache file name inside CacheDir.
	DBFile = "mentions.db"
)

// Environment variables that override file settings.
const (
	EnvRawDir     = "DRUGGRAPH_RAW_DIR"
	EnvCleanedDir = "DRUGGRAPH_CLEANED_DIR"
	EnvOutput     = "DRUGGRAPH_OUTPUT"
	EnvCacheDir   = "DRUGGRAPH_CACHE_DIR"
	EnvLogLevel   = "DRUGGRAPH_LOG_LEVEL"
	EnvMongoURI   = "DRUGGRAPH_MONGO_URI"
)

// ErrEmptyPath is returned by Validate when a required path is unset.
var ErrEmptyPath = errors.New("path is required")

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		RawDir:     filepath.Join("data", "raw"),
		CleanedDir: filepath.Join("data", "cleaned"),
		OutputPath: filepath.Join("data", "output", "drug_journal_mentions_graph.json"),
		CacheDir:   filepath.Join("data", "cache"),
		LogLevel:   "info",
		Mongo: MongoConfig{
			Database:   "druggraph",
			Collection: "mentions",
		},
	}
}

// Load builds the configuration from defaults, the global config, the
// project config file, a .env file, and the environment, in increasing
// precedence. If path is empty, ConfigFile in the working directory is used
// when present. An explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	global, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	global.applyTo(cfg)

	explicit := path != ""
	if !explicit {
		path = ConfigFile
	}
	// A missing project config is fine unless it was asked for
	if err := cfg.mergeFile(path); err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return nil, err
	}

	_ = godotenv.Load(EnvFile) // Optional; absent file is fine
	cfg.ApplyEnv()
	cfg.ExpandPaths()

	return cfg, nil
}

// mergeFile overlays the YAML file at path onto c. Fields absent from the
// file keep their current values.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from DRUGGRAPH_* environment variables.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvRawDir, &c.RawDir},
		{EnvCleanedDir, &c.CleanedDir},
		{EnvOutput, &c.OutputPath},
		{EnvCacheDir, &c.CacheDir},
		{EnvLogLevel, &c.LogLevel},
		{EnvMongoURI, &c.Mongo.URI},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// ExpandPaths expands a leading ~ in every path setting.
func (c *Config) ExpandPaths() {
	c.RawDir = ExpandPath(c.RawDir)
	c.CleanedDir = ExpandPath(c.CleanedDir)
	c.OutputPath = ExpandPath(c.OutputPath)
	c.CacheDir = ExpandPath(c.CacheDir)
	c.LogFile = ExpandPath(c.LogFile)
}

// Validate checks that required paths are set and the log level is known.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"raw_dir", c.RawDir},
		{"cleaned_dir", c.CleanedDir},
		{"output_path", c.OutputPath},
		{"cache_dir", c.CacheDir},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s: %w", r.name, ErrEmptyPath)
		}
	}

	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
	}
	return nil
}

// ValidateMongo checks that a MongoDB export target is fully configured.
func (c *Config) ValidateMongo() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is not configured (set %s or mongo.uri in %s)", EnvMongoURI, ConfigFile)
	}
	if c.Mongo.Database == "" || c.Mongo.Collection == "" {
		return fmt.Errorf("mongo.database and mongo.collection are required")
	}
	return nil
}

// DBPath returns the path of the SQLite query cache.
func (c *Config) DBPath() string {
	return filepath.Join(c.CacheDir, DBFile)
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
