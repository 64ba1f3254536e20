// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"roommates/core/money"
	"roommates/internal/errors"
	"roommates/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "ROOMMATES_"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Estimation contains the shared-cost estimator gates
	Estimation EstimationConfig `json:"estimation"`

	// Input contains parsing settings for the record files
	Input InputConfig `json:"input"`

	// Weather contains temperature index settings
	Weather WeatherConfig `json:"weather"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Storage contains bill history store configuration
	Storage StorageConfig `json:"storage"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EstimationConfig contains regression acceptance thresholds
type EstimationConfig struct {
	// MinRSquared rejects models that explain less of the variance
	MinRSquared float64 `json:"min_rsquared"`

	// MaxMAPE rejects models that miss the current bill by more than this fraction
	MaxMAPE float64 `json:"max_mape"`

	// ImplausibleShare logs a warning when the estimated shared amount is at
	// least this fraction of the amount due
	ImplausibleShare float64 `json:"implausible_share"`
}

// InputConfig contains record file settings
type InputConfig struct {
	// DateLayout is the Go time layout of dates in record files
	DateLayout string `json:"date_layout"`

	// Delimiter separates columns in interval and bill files
	Delimiter string `json:"delimiter"`

	// Currency is the currency of bill amounts
	Currency money.Currency `json:"currency"`
}

// WeatherConfig contains temperature index settings
type WeatherConfig struct {
	// ComfortTemperature is the daily mean temperature needing no heating or cooling
	ComfortTemperature float64 `json:"comfort_temperature"`

	// DateLayout is the Go time layout of dates in weather files
	DateLayout string `json:"date_layout"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// NoColor disables terminal colors
	NoColor bool `json:"no_color"`

	// ShowComponents lists each bill under every invoice
	ShowComponents bool `json:"show_components"`
}

// StorageConfig contains bill history store settings
type StorageConfig struct {
	// DatabasePath is the path to the sqlite history database
	DatabasePath string `json:"database_path"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".roommates", "history.db")

	return &Config{
		Version: "1.0",
		Estimation: EstimationConfig{
			MinRSquared:      0.70,
			MaxMAPE:          0.20,
			ImplausibleShare: 0.95,
		},
		Input: InputConfig{
			DateLayout: "01/02/2006",
			Delimiter:  "\t",
			Currency:   money.USD,
		},
		Weather: WeatherConfig{
			ComfortTemperature: 70,
			DateLayout:         "2006-01-02",
		},
		Output: OutputConfig{
			DefaultFormat:  "cli",
			NoColor:        false,
			ShowComponents: true,
		},
		Storage: StorageConfig{
			DatabasePath: dbPath,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "parsing %s", path)
	}

	return config, nil
}

// LoadEnv reads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return godotenv.Load(present...)
}

// ApplyEnv overlays ROOMMATES_* environment variables onto c
func (c *Config) ApplyEnv() error {
	var problems []string

	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	if v, ok := lookup("CURRENCY"); ok {
		c.Input.Currency = money.Currency(strings.ToUpper(v))
	}
	if v, ok := lookup("DATE_LAYOUT"); ok {
		c.Input.DateLayout = v
	}
	if v, ok := lookup("DB_PATH"); ok {
		c.Storage.DatabasePath = v
	}
	if v, ok := lookup("MIN_RSQUARED"); ok {
		if f, err := strconv.ParseFloat(v, 64); err != nil {
			problems = append(problems, fmt.Sprintf("%sMIN_RSQUARED: %v", EnvPrefix, err))
		} else {
			c.Estimation.MinRSquared = f
		}
	}
	if v, ok := lookup("MAX_MAPE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err != nil {
			problems = append(problems, fmt.Sprintf("%sMAX_MAPE: %v", EnvPrefix, err))
		} else {
			c.Estimation.MaxMAPE = f
		}
	}
	if v, ok := lookup("NO_COLOR"); ok {
		c.Output.NoColor = v != "" && v != "0" && strings.ToLower(v) != "false"
	}

	if len(problems) > 0 {
		return errors.Config(strings.Join(problems, "; "))
	}
	return nil
}

func lookup(key string) (string, bool) {
	return os.LookupEnv(EnvPrefix + key)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var problems []string

	if c.Estimation.MinRSquared < 0 || c.Estimation.MinRSquared > 1 {
		problems = append(problems, fmt.Sprintf("min_rsquared %g must be within [0, 1]", c.Estimation.MinRSquared))
	}
	if c.Estimation.MaxMAPE < 0 {
		problems = append(problems, fmt.Sprintf("max_mape %g cannot be negative", c.Estimation.MaxMAPE))
	}
	if !c.Input.Currency.Known() {
		problems = append(problems, fmt.Sprintf("unsupported currency %q", c.Input.Currency))
	}
	if c.Input.DateLayout == "" {
		problems = append(problems, "date_layout cannot be empty")
	}
	if len([]rune(c.Input.Delimiter)) != 1 {
		problems = append(problems, fmt.Sprintf("delimiter %q must be a single character", c.Input.Delimiter))
	}
	switch c.Output.DefaultFormat {
	case "cli", "json", "markdown", "text":
	default:
		problems = append(problems, fmt.Sprintf("invalid output format %q: must be one of cli, json, markdown, text", c.Output.DefaultFormat))
	}

	if len(problems) > 0 {
		return errors.Config(strings.Join(problems, "; "))
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
