package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the application configuration, loaded from YAML with
// environment-variable overrides.
type Config struct {
	Env string `yaml:"env" env:"AWLENS_ENV" env-default:"local"`

	Log struct {
		Level  string `yaml:"level" env:"AWLENS_LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"AWLENS_LOG_FORMAT" env-default:"console"`
	} `yaml:"log"`

	Store struct {
		// Path of the event database written by the tracking service.
		// Opened read-only; this tool never writes to it.
		Path string `yaml:"path" env:"AWLENS_STORE_PATH"`
	} `yaml:"store"`

	Analysis struct {
		// Path of the JSON document holding project and category definitions.
		ConfigPath string `yaml:"config_path" env:"AWLENS_ANALYSIS_CONFIG"`
		// Gap below which consecutive same-context events are merged, seconds.
		MergeGapSeconds int `yaml:"merge_gap_seconds" env:"AWLENS_MERGE_GAP" env-default:"2"`
		// Focus-session defaults.
		FocusMinMinutes   int    `yaml:"focus_min_minutes" env:"AWLENS_FOCUS_MIN" env-default:"30"`
		FocusGapTolerance int    `yaml:"focus_gap_seconds" env:"AWLENS_FOCUS_GAP" env-default:"120"`
		WeekStart         string `yaml:"week_start" env:"AWLENS_WEEK_START" env-default:"monday"`
		ReportSampleLimit int    `yaml:"report_sample_limit" env:"AWLENS_SAMPLE_LIMIT" env-default:"5"`
		TopN              int    `yaml:"top_n" env:"AWLENS_TOP_N" env-default:"10"`
	} `yaml:"analysis"`
}

// LoadConfig reads the config file at path, falling back to environment
// variables only when the file does not exist.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultPath("awlens", "events.db")
	}
	if cfg.Analysis.ConfigPath == "" {
		cfg.Analysis.ConfigPath = defaultPath("awlens", "analysis.json")
	}

	return &cfg, nil
}

func defaultPath(dir, file string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", file)
	}
	return filepath.Join(base, dir, file)
}
