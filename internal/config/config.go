package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"sortlab/internal/sorting"
)

// DefaultPath is where the CLI looks for its config file.
var DefaultPath = filepath.Join(".sortlab", "config.yaml")

// Config holds all sortlab configuration.
type Config struct {
	// Random dataset generation
	Dataset DatasetConfig `yaml:"dataset"`

	// Comparison runs
	Compare CompareConfig `yaml:"compare"`

	// Files written by a run
	Output OutputConfig `yaml:"output"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DatasetConfig configures random data generation.
type DatasetConfig struct {
	Count int    `yaml:"count"`
	Max   int    `yaml:"max"`  // inclusive upper bound of generated values
	Seed  uint64 `yaml:"seed"` // 0 = random seed per run
}

// CompareConfig configures which algorithms run and at which stride.
type CompareConfig struct {
	Step       int      `yaml:"step"`
	Algorithms []string `yaml:"algorithms"` // empty = all
}

// OutputConfig names the files a comparison writes to.
type OutputConfig struct {
	Results  string `yaml:"results"`
	Chart    string `yaml:"chart"`
	Database string `yaml:"database"`
	History  bool   `yaml:"history"` // record runs in the database
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Count: 1000,
			Max:   1000,
		},
		Compare: CompareConfig{
			Step: 50,
		},
		Output: OutputConfig{
			Results:  "results.csv",
			Chart:    "chart.png",
			Database: filepath.Join(".sortlab", "history.db"),
			History:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("SORTLAB_RESULTS"); path != "" {
		c.Output.Results = path
	}
	if path := os.Getenv("SORTLAB_CHART"); path != "" {
		c.Output.Chart = path
	}
	if path := os.Getenv("SORTLAB_DB"); path != "" {
		c.Output.Database = path
	}
	if level := os.Getenv("SORTLAB_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Dataset.Count < 0 {
		return fmt.Errorf("dataset.count cannot be negative: %d", c.Dataset.Count)
	}
	if c.Dataset.Max < 0 {
		return fmt.Errorf("dataset.max cannot be negative: %d", c.Dataset.Max)
	}
	if c.Compare.Step <= 0 {
		return fmt.Errorf("compare.step must be positive: %d", c.Compare.Step)
	}
	if _, err := sorting.Resolve(c.Compare.Algorithms); err != nil {
		return fmt.Errorf("compare.algorithms: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}
