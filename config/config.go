package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// ErrMissingAPIKey is returned when no judgment credential is configured.
var ErrMissingAPIKey = errors.New("DASHSCOPE_API_KEY is not set")

// Judgment model tiers, strongest to cheapest.
const (
	ModelMax   = "qwen-max"
	ModelPlus  = "qwen-plus"
	ModelTurbo = "qwen-turbo"
)

// Config holds everything the scanner needs before it starts: the judgment
// credential and endpoint, the retry policy, and the output surfaces.
type Config struct {
	APIKey         string   `yaml:"api_key"`
	BaseURL        string   `yaml:"base_url"`
	Model          string   `yaml:"model"`
	MaxRetries     int      `yaml:"max_retries"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	OutputDir      string   `yaml:"output_dir"`
	Formats        []string `yaml:"formats"`
}

func Default() *Config {
	return &Config{
		BaseURL:        "https://dashscope.aliyuncs.com/compatible-mode/v1",
		Model:          ModelMax,
		MaxRetries:     3,
		TimeoutSeconds: 60,
		OutputDir:      "output",
		Formats:        []string{"json", "text"},
	}
}

// Load builds the effective configuration: defaults, then the optional YAML
// file, then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DASHSCOPE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("NPD_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("NPD_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("NPD_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("NPD_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSeconds = n
		}
	}
}

// Validate rejects configurations the scan cannot start with. Failures here
// are fatal and happen before any file is parsed.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BaseURL == "" {
		return errors.New("judgment endpoint base URL cannot be empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	for _, format := range c.Formats {
		switch format {
		case "json", "sarif", "text":
		default:
			return fmt.Errorf("unknown report format %q", format)
		}
	}
	return nil
}
