// Package config loads the analyzer configuration from environment variables
// (BRANCHPULSE_ prefix) layered under an optional YAML file. The score
// thresholds and the organic-share constant live here: together they are the
// entire tunable surface of the core.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "branchcli/internal/errors"
	"branchcli/internal/scoring"
)

// Config is the complete analyzer configuration.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Scoring  scoring.Rules  `yaml:"scoring" envconfig:"SCORING"`
}

// PathsConfig contains the file system locations the analyzer touches.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/analyzer.log"`
}

// AnalysisConfig holds derivation constants.
type AnalysisConfig struct {
	// OrganicShare is the assumed fraction of new users acquired without
	// marketing spend, used by the CAC denominator.
	OrganicShare float64 `yaml:"organic_share" envconfig:"ORGANIC_SHARE" default:"0.20" validate:"gte=0,lt=1"`
}

var validate = validator.New()

// Load builds the configuration: envconfig defaults and environment first,
// then the YAML file (if present) overriding field by field, then path
// resolution and validation. A missing file at the default location is fine;
// an explicitly requested file that cannot be read is fatal.
func Load(configFile string) (*Config, error) {
	var cfg Config
	cfg.Scoring = scoring.DefaultRules()

	if err := envconfig.Process("BRANCHPULSE", &cfg); err != nil {
		return nil, apperrors.NewConfigurationError("config", "environment parsing failed", err)
	}

	explicit := configFile != ""
	if configFile == "" {
		configFile = "branchpulse.yaml"
	}
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, apperrors.NewConfigurationError("config",
				fmt.Sprintf("cannot parse %s", configFile), err)
		}
	} else if explicit {
		return nil, apperrors.NewConfigurationError("config",
			fmt.Sprintf("cannot read %s", configFile), err)
	}

	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolvePaths makes every directory absolute relative to the working
// directory and anchors the log file under the logs dir when it is relative.
func (c *Config) resolvePaths() {
	c.Paths.DataDir = absPath(c.Paths.DataDir)
	c.Paths.ReportsDir = absPath(c.Paths.ReportsDir)
	c.Paths.LogsDir = absPath(c.Paths.LogsDir)
	if !filepath.IsAbs(c.Logging.FilePath) {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, filepath.Base(c.Logging.FilePath))
	}
}

func absPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// Validate checks field constraints and the scoring rule contract.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigurationError("config", "invalid configuration", err)
	}
	return c.Scoring.Validate()
}
