package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Shortener Shortener `yaml:"shortener"`
	Logging   Logging   `yaml:"logging"`
}

type Shortener struct {
	// ModulusBits sizes the scramble space at 2^ModulusBits codes.
	ModulusBits uint `yaml:"modulus_bits"`
	// Multiplier is the odd scramble multiplier.
	Multiplier uint64 `yaml:"multiplier"`
	// BucketCount is the number of buckets in each index table.
	BucketCount int `yaml:"bucket_count"`
	// MaxURLLength caps the length of URLs accepted at the command line.
	MaxURLLength int `yaml:"max_url_length"`
}

var defaultShortener = Shortener{
	ModulusBits:  40,
	Multiplier:   36779219,
	BucketCount:  1009,
	MaxURLLength: 1024,
}

type Logging struct {
	Path    string `yaml:"path"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

var defaultLogging = Logging{
	Path:  "./logs/url-shortener.log",
	Level: "info",
}

// Load reads configuration from the YAML file at path, falling back to
// defaults for anything unset. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	setDefaults(&cfg)

	if path == "" {
		return &cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Shortener = defaultShortener
	cfg.Logging = defaultLogging
}
