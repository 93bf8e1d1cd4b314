package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultConfigFile is the optional YAML config looked up next to the binary.
const DefaultConfigFile = "idr-formatter.yaml"

// Config represents the complete application configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/formatter.log"`
}

// ProcessingConfig contains pipeline tunables.
type ProcessingConfig struct {
	// Workers bounds concurrent file processing in batch mode. Zero means
	// one worker per CPU.
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"0" validate:"min=0"`
	// OutputDir overrides the default of writing next to each input file.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// Load loads configuration from environment variables (IDR_ prefix) layered
// over the optional YAML config file.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom is Load with an explicit config file path, for tests.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("IDR", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// applyDefaults fills zero values that envconfig defaults miss when a YAML
// file overwrote the struct.
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/formatter.log"
	}
	if c.Processing.Workers == 0 {
		c.Processing.Workers = runtime.NumCPU()
	}
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}
