package config

import (
	"fmt"
	"slices"

	"github.com/spf13/viper"
)

// Formats lists the supported report formats.
var Formats = []string{"console", "json", "markdown", "yaml", "xlsx"}

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error", "disabled"}

// Config represents the ccscore configuration
type Config struct {
	Inputs          []string       `mapstructure:"inputs"`
	Format          string         `mapstructure:"format"`
	Output          string         `mapstructure:"output"`
	Quiet           bool           `mapstructure:"quiet"`
	Verbose         bool           `mapstructure:"verbose"`
	LogLevel        string         `mapstructure:"logLevel"`
	Sheet           string         `mapstructure:"sheet"`
	ExpectedCenters int            `mapstructure:"expectedCenters"`
	WeakThreshold   float64        `mapstructure:"weakThreshold"`
	Concurrency     int            `mapstructure:"concurrency"`
	Parallel        bool           `mapstructure:"parallel"`
	Baseline        BaselineConfig `mapstructure:"baseline"`
}

// BaselineConfig controls warning suppression
type BaselineConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Create  bool   `mapstructure:"create"`
	Path    string `mapstructure:"path"`
}

// LoadConfig loads configuration from various sources
func LoadConfig(inputs []string) (*Config, error) {
	viper.SetDefault("format", "console")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("logLevel", "warn")
	viper.SetDefault("sheet", "")
	viper.SetDefault("expectedCenters", 24)
	viper.SetDefault("weakThreshold", 85.0)
	viper.SetDefault("concurrency", 4)
	viper.SetDefault("parallel", true)
	viper.SetDefault("baseline.enabled", false)
	viper.SetDefault("baseline.create", false)
	viper.SetDefault("baseline.path", ".ccscorebaseline.json")

	// Config file locations
	configPaths := []string{".ccscorerc.json", ".ccscorerc.yaml", ".ccscorerc.yml"}
	for _, path := range configPaths {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err == nil {
			break
		}
	}

	// Environment variables
	viper.SetEnvPrefix("CCSCORE")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Arguments take precedence over configured inputs
	if len(inputs) > 0 {
		config.Inputs = inputs
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if !slices.Contains(Formats, config.Format) {
		return fmt.Errorf("invalid format: %s. Must be one of %v", config.Format, Formats)
	}

	if !slices.Contains(LogLevels, config.LogLevel) {
		return fmt.Errorf("invalid log level: %s. Must be one of %v", config.LogLevel, LogLevels)
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if config.WeakThreshold <= 0 || config.WeakThreshold > 100 {
		return fmt.Errorf("weak threshold must be within (0, 100], got %g", config.WeakThreshold)
	}

	if config.ExpectedCenters < 0 {
		return fmt.Errorf("expected centers cannot be negative")
	}

	// Spreadsheets cannot be written to stdout
	if config.Format == "xlsx" && config.Output == "" {
		return fmt.Errorf("output file is required when format is 'xlsx'")
	}

	return nil
}
