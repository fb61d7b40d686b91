// Package config holds the run configuration for the dew point analysis
// pipeline. Values layer in order: built-in defaults (the study's fixed
// constants), an optional YAML file, then environment variables with the
// DEW prefix. CLI flags applied by the caller take final precedence.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig locates the source dataset.
type InputConfig struct {
	DataPath string `yaml:"data_path" envconfig:"DATA_PATH" validate:"required"`
}

// OutputConfig names every artifact the pipeline writes.
type OutputConfig struct {
	Dir            string `yaml:"dir" envconfig:"DIR" validate:"required"`
	SubmissionFile string `yaml:"submission_file" envconfig:"SUBMISSION_FILE" validate:"required"`
	SummaryFile    string `yaml:"summary_file" envconfig:"SUMMARY_FILE" validate:"required"`
	WorkbookFile   string `yaml:"workbook_file" envconfig:"WORKBOOK_FILE"`
	PlotsDir       string `yaml:"plots_dir" envconfig:"PLOTS_DIR"`
}

// PipelineConfig carries the analysis parameters. Defaults reproduce the
// reference run exactly.
type PipelineConfig struct {
	TrainFraction float64 `yaml:"train_fraction" envconfig:"TRAIN_FRACTION" validate:"gt=0,lt=1"`
	Seed          int64   `yaml:"seed" envconfig:"SEED"`
	TreeCount     int     `yaml:"tree_count" envconfig:"TREE_COUNT" validate:"gt=0"`
	MissingPolicy string  `yaml:"missing_policy" envconfig:"MISSING_POLICY" validate:"oneof=skip fail"`
}

// LoggingConfig controls slog construction.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Default returns the built-in configuration with the study's fixed
// constants (seed 10, 70/30 split, 100 trees).
func Default() Config {
	return Config{
		Input: InputConfig{
			DataPath: "data.csv",
		},
		Output: OutputConfig{
			Dir:            "output",
			SubmissionFile: "submission.csv",
			SummaryFile:    "summary.txt",
			WorkbookFile:   "analysis.xlsx",
			PlotsDir:       "plots",
		},
		Pipeline: PipelineConfig{
			TrainFraction: 0.7,
			Seed:          10,
			TreeCount:     100,
			MissingPolicy: "skip",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "stdout",
			FilePath: "logs/dewpoint.log",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at
// configPath if it exists (empty path skips the file layer), then DEW_*
// environment variables, then validation.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := loadFromFile(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("DEW", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays YAML values onto cfg.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", c.Logging.Output)
	}
	return nil
}
