package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for an evaluation run.
type Config struct {
	DataRoots []string `yaml:"data_roots"`
	BatchSize int      `yaml:"batch_size"`
	Channels  int      `yaml:"channels"`
	Height    int      `yaml:"height"`
	Width     int      `yaml:"width"`
	LatentDim int      `yaml:"latent_dim"`
	TopK      int      `yaml:"top_k"`
	Samples   int      `yaml:"samples"`
	Seed      int64    `yaml:"seed"`
	LogEvery  int      `yaml:"log_every"`
	History   string   `yaml:"history"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	DataRoot  string
	BatchSize int
	LatentDim int
	TopK      int
	Seed      int64
	LogEvery  int
	History   string
}

// Load reads and validates a Config from YAML. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override. A data root
// override replaces the configured roots.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.DataRoot != "" {
		c.DataRoots = []string{o.DataRoot}
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.LatentDim > 0 {
		c.LatentDim = o.LatentDim
	}
	if o.TopK > 0 {
		c.TopK = o.TopK
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.History != "" {
		c.History = o.History
	}
}

// Validate verifies the config is runnable and fills defaults.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.DataRoots) == 0 {
		return errors.New("at least one data root must be set")
	}
	for i, root := range c.DataRoots {
		if root == "" {
			return fmt.Errorf("data_roots[%d] is empty", i)
		}
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.Channels == 0 {
		c.Channels = 3
	}
	if c.Channels != 1 && c.Channels != 3 && c.Channels != 4 {
		return fmt.Errorf("channels must be 1, 3 or 4 (got %d)", c.Channels)
	}
	if c.Height <= 0 || c.Width <= 0 {
		return fmt.Errorf("height and width must be > 0 (got %dx%d)", c.Height, c.Width)
	}
	if c.LatentDim == 0 {
		c.LatentDim = 16
	}
	if c.LatentDim < 0 {
		return fmt.Errorf("latent_dim must be > 0 (got %d)", c.LatentDim)
	}
	if c.TopK == 0 {
		c.TopK = 5
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be > 0 (got %d)", c.TopK)
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples must be >= 0 (got %d)", c.Samples)
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 50
	}
	return nil
}
