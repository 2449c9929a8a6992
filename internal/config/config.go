package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
// Report policy (machine allow-list, WPCS threshold) is deliberately not
// configurable; those live as constants in the report package.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/reportgen.log"`
}

// Default returns the built-in configuration used when no file or
// environment overrides are present.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/reportgen.log",
		},
	}
}

// Load builds the configuration from, in increasing precedence:
// built-in defaults, an optional YAML file, then REPORTGEN_* environment
// variables (a .env file is honored if present).
func Load(configPath string) (*Config, error) {
	// Load .env if present; absence is not an error
	_ = godotenv.Load()

	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides overlays REPORTGEN_* environment variables on cfg.
// Only variables that are actually set win over file values; envconfig alone
// would re-apply defaults for the unset ones and clobber the YAML layer.
func applyEnvOverrides(cfg *Config) {
	overlay := Config{}
	if err := envconfig.Process("reportgen", &overlay); err != nil {
		return
	}

	if _, ok := os.LookupEnv("REPORTGEN_LOGGING_LEVEL"); ok {
		cfg.Logging.Level = overlay.Logging.Level
	}
	if _, ok := os.LookupEnv("REPORTGEN_LOGGING_OUTPUT"); ok {
		cfg.Logging.Output = overlay.Logging.Output
	}
	if _, ok := os.LookupEnv("REPORTGEN_LOGGING_FILE_PATH"); ok {
		cfg.Logging.FilePath = overlay.Logging.FilePath
	}
}
