package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Default values for a fresh configuration.
const (
	DefaultCountry         = "se"
	DefaultRowThreshold    = 0.01
	DefaultPackagingPrefix = "F19."
	DefaultConcurrency     = 4
	DefaultOutputFormat    = "table"
	DefaultPrecision       = 3
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"

	configFileName = "config.yaml"
	maxPrecision   = 10
	maxConcurrency = 64
)

// Validation errors.
var (
	ErrUnknownKey         = errors.New("unknown configuration key")
	ErrMissingCountry     = errors.New("engine.country must be set")
	ErrInvalidThreshold   = errors.New("engine.row_threshold must be in [0,1]")
	ErrInvalidConcurrency = errors.New("engine.concurrency must be between 1 and 64")
	ErrInvalidFormat      = errors.New("output.default_format must be table, json, ndjson or csv")
	ErrInvalidPrecision   = errors.New("output.precision must be between 0 and 10")
	ErrInvalidLogLevel    = errors.New("invalid logging.level")
	ErrInvalidLogFormat   = errors.New("logging.format must be console or json")
)

// Config is the foodprint configuration file.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Data    DataConfig    `yaml:"data"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`

	configPath string
}

// EngineConfig holds the computation settings.
type EngineConfig struct {
	Country         string   `yaml:"country"`
	RowThreshold    float64  `yaml:"row_threshold"`
	PackagingPrefix string   `yaml:"packaging_prefix"`
	TransportExempt []string `yaml:"transport_exempt,omitempty"`
	WithWaste       bool     `yaml:"with_waste"`
	Concurrency     int      `yaml:"concurrency"`
}

// DataConfig locates reference data.
type DataConfig struct {
	// Dataset is the path of the dataset bundle (YAML or JSON).
	Dataset string `yaml:"dataset"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// Defaults returns a configuration with built-in defaults and no file path.
func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			Country:         DefaultCountry,
			RowThreshold:    DefaultRowThreshold,
			PackagingPrefix: DefaultPackagingPrefix,
			WithWaste:       true,
			Concurrency:     DefaultConcurrency,
		},
		Output: OutputConfig{
			DefaultFormat: DefaultOutputFormat,
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// New returns the defaults overlaid with the global config file, when one
// exists, and with environment overrides. A config file that fails to parse
// is ignored.
func New() *Config {
	cfg := Defaults()
	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
		if _, statErr := os.Stat(cfg.configPath); statErr == nil {
			_ = cfg.loadFrom(cfg.configPath)
		}
	}
	cfg.ApplyEnvOverrides()
	return cfg
}

// Load reads path over the built-in defaults. The result remembers path for
// Save.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if err := cfg.loadFrom(path); err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

func (c *Config) loadFrom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Path returns the file Save writes to.
func (c *Config) Path() string {
	return c.configPath
}

// SetPath changes the file Save writes to.
func (c *Config) SetPath(path string) {
	c.configPath = path
}

// Save writes the configuration to its path, creating parent directories.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config has no file path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// ApplyEnvOverrides applies FOODPRINT_COUNTRY, FOODPRINT_DATA,
// FOODPRINT_LOG_LEVEL, FOODPRINT_LOG_FORMAT and FOODPRINT_OUTPUT_FORMAT.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FOODPRINT_COUNTRY"); v != "" {
		c.Engine.Country = v
	}
	if v := os.Getenv("FOODPRINT_DATA"); v != "" {
		c.Data.Dataset = v
	}
	if v := os.Getenv("FOODPRINT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FOODPRINT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("FOODPRINT_OUTPUT_FORMAT"); v != "" {
		c.Output.DefaultFormat = v
	}
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Engine.Country) == "" {
		return ErrMissingCountry
	}
	if c.Engine.RowThreshold < 0 || c.Engine.RowThreshold > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, c.Engine.RowThreshold)
	}
	if c.Engine.Concurrency < 1 || c.Engine.Concurrency > maxConcurrency {
		return fmt.Errorf("%w: got %d", ErrInvalidConcurrency, c.Engine.Concurrency)
	}
	if !slices.Contains(OutputFormats(), c.Output.DefaultFormat) {
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		return fmt.Errorf("%w: got %d", ErrInvalidPrecision, c.Output.Precision)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil || c.Logging.Level == "" {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	return nil
}

// OutputFormats lists the supported output formats.
func OutputFormats() []string {
	return []string{"table", "json", "ndjson", "csv"}
}

// field binds a dotted key to a Config field.
type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringField(p func(c *Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

//nolint:gochecknoglobals // Key table for Get/Set.
var fields = map[string]field{
	"engine.country":          stringField(func(c *Config) *string { return &c.Engine.Country }),
	"engine.packaging_prefix": stringField(func(c *Config) *string { return &c.Engine.PackagingPrefix }),
	"engine.row_threshold": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Engine.RowThreshold, 'g', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			c.Engine.RowThreshold = f
			return nil
		},
	},
	"engine.transport_exempt": {
		get: func(c *Config) string { return strings.Join(c.Engine.TransportExempt, ",") },
		set: func(c *Config, v string) error {
			c.Engine.TransportExempt = nil
			for _, code := range strings.Split(v, ",") {
				if code = strings.TrimSpace(code); code != "" {
					c.Engine.TransportExempt = append(c.Engine.TransportExempt, code)
				}
			}
			return nil
		},
	},
	"engine.with_waste": {
		get: func(c *Config) string { return strconv.FormatBool(c.Engine.WithWaste) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			c.Engine.WithWaste = b
			return nil
		},
	},
	"engine.concurrency":    intField(func(c *Config) *int { return &c.Engine.Concurrency }),
	"data.dataset":          stringField(func(c *Config) *string { return &c.Data.Dataset }),
	"output.default_format": stringField(func(c *Config) *string { return &c.Output.DefaultFormat }),
	"output.precision":      intField(func(c *Config) *int { return &c.Output.Precision }),
	"logging.level":         stringField(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format":        stringField(func(c *Config) *string { return &c.Logging.Format }),
	"logging.file":          stringField(func(c *Config) *string { return &c.Logging.File }),
}

func intField(p func(c *Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*p(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*p(c) = n
			return nil
		},
	}
}

// Keys returns every settable key in sorted order.
func Keys() []string {
	return slices.Sorted(maps.Keys(fields))
}

// Get returns the value of a dotted key such as "engine.country".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set parses value into the field named by key. The result is not
// validated; call Validate before Save.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := f.set(c, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
