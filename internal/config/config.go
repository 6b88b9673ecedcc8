package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rewired-gh/eventwindow/internal/compare"
	"github.com/rewired-gh/eventwindow/internal/export"
	"github.com/rewired-gh/eventwindow/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Reference ReferenceConfig `mapstructure:"reference"`
	Data      DataConfig      `mapstructure:"data"`
	GDP       GDPConfig       `mapstructure:"gdp"`
	Window    WindowConfig    `mapstructure:"window"`
	Market    MarketConfig    `mapstructure:"market"`
	GDPWindow GDPWindowConfig `mapstructure:"gdp_window"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ReferenceConfig holds the "as-of" year every year bound is checked against
type ReferenceConfig struct {
	AsOfYear int `mapstructure:"as_of_year"` // 0 = current calendar year
}

// MarketFile names one market index table
type MarketFile struct {
	Name string `mapstructure:"name"`
	File string `mapstructure:"file"`
}

// DataConfig holds input file locations
type DataConfig struct {
	GDPFile          string       `mapstructure:"gdp_file"`
	CPIFile          string       `mapstructure:"cpi_file"`
	EventsFile       string       `mapstructure:"events_file"`
	GDPAggregateFile string       `mapstructure:"gdp_aggregate_file"`
	Markets          []MarketFile `mapstructure:"markets"`
}

// GDPConfig holds the possible year bounds of the GDP table
type GDPConfig struct {
	MinPossibleYear int `mapstructure:"min_possible_year"`
}

// WindowConfig holds the anchor window settings
type WindowConfig struct {
	Length     int    `mapstructure:"length"`
	Anchor     string `mapstructure:"anchor"`
	UpperBound string `mapstructure:"upper_bound"`
}

// MarketConfig holds the market comparison settings
type MarketConfig struct {
	ValueKind string `mapstructure:"value_kind"`
	FirstYear int    `mapstructure:"first_year"`
	LastYear  int    `mapstructure:"last_year"`
	Frequency string `mapstructure:"frequency"`
}

// GDPWindowConfig holds the event-vs-GDP level view settings
type GDPWindowConfig struct {
	Padding   int `mapstructure:"padding"`
	FirstYear int `mapstructure:"first_year"` // 0 = first year of the series
	LastYear  int `mapstructure:"last_year"`  // 0 = last year of the series
}

// OutputConfig holds where and how result tables are written
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("EVENTWINDOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("reference.as_of_year", 0)

	// Data defaults
	v.SetDefault("data.gdp_file", "data/WorldDataBank-GDP.csv")
	v.SetDefault("data.cpi_file", "data/CPI.csv")
	v.SetDefault("data.events_file", "data/events.csv")
	v.SetDefault("data.gdp_aggregate_file", "data/GDP-by-year.csv")

	v.SetDefault("gdp.min_possible_year", 1960)

	// Window defaults
	v.SetDefault("window.length", 2)
	v.SetDefault("window.anchor", "start_year")
	v.SetDefault("window.upper_bound", "inclusive")

	// Market defaults
	v.SetDefault("market.value_kind", "nominal")
	v.SetDefault("market.frequency", "monthly")

	v.SetDefault("gdp_window.padding", compare.DefaultPadding)

	// Output defaults
	v.SetDefault("output.dir", "./out")
	v.SetDefault("output.format", export.FormatCSV)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Reference.AsOfYear < 0 {
		return fmt.Errorf("reference.as_of_year must not be negative")
	}

	// Validate Data config
	for i, m := range c.Data.Markets {
		if m.Name == "" || m.File == "" {
			return fmt.Errorf("data.markets[%d] needs both name and file", i)
		}
	}
	if n := len(c.Data.Markets); n != 0 && n != 2 {
		return fmt.Errorf("data.markets must list exactly two indexes, got %d", n)
	}

	if c.GDP.MinPossibleYear < 0 {
		return fmt.Errorf("gdp.min_possible_year must not be negative")
	}

	// Validate Window config
	if c.Window.Length < 0 {
		return fmt.Errorf("window.length must be at least 0")
	}
	if _, err := models.ParseAnchorRule(c.Window.Anchor); err != nil {
		return fmt.Errorf("window.anchor: %w", err)
	}
	bound, err := models.ParseUpperBound(c.Window.UpperBound)
	if err != nil {
		return fmt.Errorf("window.upper_bound: %w", err)
	}
	if bound == models.UpperExclusive && c.Window.Length == 0 {
		return fmt.Errorf("window.length must be at least 1 with an exclusive upper bound")
	}

	// Validate Market config
	if _, err := compare.ParseValueKind(c.Market.ValueKind); err != nil {
		return fmt.Errorf("market.value_kind: %w", err)
	}
	if _, err := compare.ParseFrequency(c.Market.Frequency); err != nil {
		return fmt.Errorf("market.frequency: %w", err)
	}
	if c.Market.FirstYear != 0 && c.Market.LastYear != 0 && c.Market.FirstYear > c.Market.LastYear {
		return fmt.Errorf("market.first_year must not be after market.last_year")
	}

	if c.GDPWindow.Padding < 0 {
		return fmt.Errorf("gdp_window.padding must be at least 0")
	}

	// Validate Output config
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	validFormats := map[string]bool{export.FormatCSV: true, export.FormatXLSX: true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output.format must be one of: csv, xlsx")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// AsOf returns the reference year, falling back to now's year when unset.
// Only the command line layer calls this; core packages take the year as a parameter.
func (c *Config) AsOf(now time.Time) int {
	if c.Reference.AsOfYear != 0 {
		return c.Reference.AsOfYear
	}
	return now.Year()
}

// AnchorRule returns the parsed window.anchor.
func (c *Config) AnchorRule() models.AnchorRule {
	rule, _ := models.ParseAnchorRule(c.Window.Anchor)
	return rule
}

// UpperBound returns the parsed window.upper_bound.
func (c *Config) UpperBound() models.UpperBound {
	bound, _ := models.ParseUpperBound(c.Window.UpperBound)
	return bound
}

// ValueKind returns the parsed market.value_kind.
func (c *Config) ValueKind() compare.ValueKind {
	kind, _ := compare.ParseValueKind(c.Market.ValueKind)
	return kind
}

// Frequency returns the parsed market.frequency.
func (c *Config) Frequency() compare.Frequency {
	freq, _ := compare.ParseFrequency(c.Market.Frequency)
	return freq
}

// MarketCoverage returns the configured market coverage.
func (c *Config) MarketCoverage() compare.Coverage {
	return compare.Coverage{FirstYear: c.Market.FirstYear, LastYear: c.Market.LastYear}
}
