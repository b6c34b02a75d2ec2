package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// PipelineConfig controls cleaning and aggregation behaviour
type PipelineConfig struct {
	// CancellationMarker is the invoice prefix marking a reversal.
	CancellationMarker string `yaml:"cancellation_marker" envconfig:"CANCELLATION_MARKER" validate:"required"`

	// MaxErrorRate is the tolerated fraction of rows failing to parse
	// before the whole load is rejected.
	MaxErrorRate float64 `yaml:"max_error_rate" envconfig:"MAX_ERROR_RATE" validate:"gte=0,lte=1"`

	// IncludeAnonymous controls whether rows without a customer identifier
	// feed country/product/time aggregates.
	IncludeAnonymous bool `yaml:"include_anonymous" envconfig:"INCLUDE_ANONYMOUS"`

	// DateFormats are tried in order when parsing invoice timestamps.
	DateFormats []string `yaml:"date_formats" envconfig:"DATE_FORMATS"`

	// TopN bounds ranked outputs (top products, top countries).
	TopN int `yaml:"top_n" envconfig:"TOP_N" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// envPrefix namespaces all environment variables, e.g. RETAIL_PIPELINE_TOP_N.
const envPrefix = "RETAIL"

// Default bounds a single pipeline run.
const DefaultTimeout = 30 * time.Minute

// DefaultConfig returns the built-in configuration defaults.
func DefaultConfig() Config {
	return Config{
		Pipeline: PipelineConfig{
			CancellationMarker: "C",
			MaxErrorRate:       0.05,
			IncludeAnonymous:   true,
			DateFormats: []string{
				"2006-01-02 15:04:05",
				"1/2/2006 15:04",
				time.RFC3339,
			},
			TopN: 10,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/retail.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "data/reports",
			ChartsDir:  "data/charts",
			LogsDir:    "logs",
		},
	}
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(configFilePath())
}

// LoadFrom loads configuration using the given YAML file path. A missing
// file is not an error; defaults plus environment apply.
func LoadFrom(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	// Environment overrides anything set so far.
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate checks the configuration using struct tags
func (c *Config) validate() error {
	return validator.New().Struct(c)
}

// configFilePath returns the config file location, overridable via env.
func configFilePath() string {
	if p := os.Getenv(envPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}
	return "retail.yaml"
}
