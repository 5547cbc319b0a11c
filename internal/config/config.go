package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rfmkit/rfm/internal/rfm"
)

// FileName is the default config file name.
const FileName = "rfm.yaml"

// Config represents the top-level rfm.yaml configuration.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Binning BinningConfig `yaml:"binning"`
	Columns ColumnsConfig `yaml:"columns"`
	Dates   DatesConfig   `yaml:"dates"`
	Names   NamesConfig   `yaml:"names"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig defines the trailing analysis window.
type WindowConfig struct {
	Days  int    `yaml:"days" validate:"gte=0"`
	Today string `yaml:"today,omitempty"` // "YYYY-MM-DD"; empty = current date
}

// BinningConfig controls the quantile scores.
type BinningConfig struct {
	Bins int `yaml:"bins" validate:"gte=2"`
}

// ColumnsConfig names the input columns.
type ColumnsConfig struct {
	ID    string `yaml:"id" validate:"required"`
	Order string `yaml:"order" validate:"required"`
	Date  string `yaml:"date" validate:"required"`
	Value string `yaml:"value" validate:"required"`
}

// DatesConfig lists accepted input layouts and the output layout (Go time format).
type DatesConfig struct {
	Layouts []string `yaml:"layouts" validate:"min=1,dive,required"`
	Output  string   `yaml:"output" validate:"required"`
}

// NamesConfig picks the built-in label language and per-bin overrides.
type NamesConfig struct {
	Language  string         `yaml:"language" validate:"omitempty,oneof=en ru"`
	Recency   map[int]string `yaml:"recency,omitempty"`
	Frequency map[int]string `yaml:"frequency,omitempty"`
	Monetary  map[int]string `yaml:"monetary,omitempty"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads an rfm.yaml file from disk and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard segmentation defaults.
func Default() *Config {
	return &Config{
		Window:  WindowConfig{Days: rfm.DefaultWindowDays},
		Binning: BinningConfig{Bins: rfm.DefaultBins},
		Columns: ColumnsConfig{
			ID:    rfm.DefaultIDColumn,
			Order: rfm.DefaultOrderColumn,
			Date:  rfm.DefaultDateColumn,
			Value: rfm.DefaultValueColumn,
		},
		Dates: DatesConfig{
			Layouts: append([]string(nil), rfm.DefaultDateLayouts...),
			Output:  rfm.DefaultOutputDateLayout,
		},
		Names:   NamesConfig{Language: "en"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Validate checks field ranges and required values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.today(); err != nil {
		return err
	}
	return nil
}

// Params converts the config into segmentation parameters.
func (c *Config) Params() (rfm.Params, error) {
	today, err := c.today()
	if err != nil {
		return rfm.Params{}, err
	}
	names, err := rfm.NamesFor(c.Names.Language)
	if err != nil {
		return rfm.Params{}, err
	}
	override(names.Recency, c.Names.Recency)
	override(names.Frequency, c.Names.Frequency)
	override(names.Monetary, c.Names.Monetary)

	return rfm.Params{
		Today:            today,
		WindowDays:       c.Window.Days,
		Bins:             c.Binning.Bins,
		IDColumn:         c.Columns.ID,
		OrderColumn:      c.Columns.Order,
		DateColumn:       c.Columns.Date,
		ValueColumn:      c.Columns.Value,
		DateLayouts:      c.Dates.Layouts,
		OutputDateLayout: c.Dates.Output,
		Names:            names,
	}, nil
}

func (c *Config) today() (time.Time, error) {
	if c.Window.Today == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.Window.Today)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing window.today %q: %w", c.Window.Today, err)
	}
	return t, nil
}

func override(dst rfm.NameTable, src map[int]string) {
	for bin, name := range src {
		dst[bin] = name
	}
}
