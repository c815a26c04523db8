package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/gogpu/pageview"
	"github.com/gogpu/pageview/cache"
)

var (
	errConfigInvalid  = errors.New("invalid config")
	errConfigRead     = errors.New("cannot read config file")
	errBadResolution  = errors.New("dpi must be positive")
	errBadCacheSize   = errors.New("cache_size must be positive")
	errMissingDocPath = errors.New("missing document path")
)

// Config holds the settings shared by all subcommands.
type Config struct {
	DPI       int    `json:"dpi"`
	CacheSize int    `json:"cache_size"` //nolint:tagliatelle // snake_case for config file
	Invert    bool   `json:"invert"`
	Password  string `json:"password,omitempty"`
	Type      string `json:"type,omitempty"`
	Verbose   bool   `json:"verbose"`
}

// DefaultConfig returns the configuration used when no file or flag sets a
// value.
func DefaultConfig() Config {
	return Config{
		DPI:       pageview.DefaultResolution,
		CacheSize: cache.DefaultCapacity,
	}
}

// parseConfig decodes a HuJSON config file over base. Keys missing from the
// file keep their base value.
func parseConfig(data []byte, base Config) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}
	cfg := base
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return cfg, nil
}

// loadConfigFile reads path over base. An empty path returns base.
func loadConfigFile(path string, base Config) (Config, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", errConfigRead, path)
	}
	cfg, err := parseConfig(data, base)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.DPI <= 0 {
		return errBadResolution
	}
	if cfg.CacheSize <= 0 {
		return errBadCacheSize
	}
	return nil
}

// commonFlags are the flags every subcommand accepts.
type commonFlags struct {
	configPath string
	overrides  Config
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	def := DefaultConfig()
	fs.StringVarP(&c.configPath, "config", "c", "", "HuJSON config file")
	fs.IntVar(&c.overrides.DPI, "dpi", def.DPI, "render resolution in pixels per inch")
	fs.IntVar(&c.overrides.CacheSize, "cache-size", def.CacheSize, "number of pages kept loaded")
	fs.BoolVar(&c.overrides.Invert, "invert", false, "invert rendered colors")
	fs.StringVar(&c.overrides.Password, "password", "", "document password")
	fs.StringVarP(&c.overrides.Type, "type", "t", "", "document MIME type (default: from file extension)")
	fs.BoolVarP(&c.overrides.Verbose, "verbose", "v", false, "log cache activity to stderr")
}

// resolve merges defaults, the config file and the flags that were set on
// the command line, in that order.
func (c *commonFlags) resolve(fs *flag.FlagSet) (Config, error) {
	cfg, err := loadConfigFile(c.configPath, DefaultConfig())
	if err != nil {
		return Config{}, err
	}
	if fs.Changed("dpi") {
		cfg.DPI = c.overrides.DPI
	}
	if fs.Changed("cache-size") {
		cfg.CacheSize = c.overrides.CacheSize
	}
	if fs.Changed("invert") {
		cfg.Invert = c.overrides.Invert
	}
	if fs.Changed("password") {
		cfg.Password = c.overrides.Password
	}
	if fs.Changed("type") {
		cfg.Type = c.overrides.Type
	}
	if fs.Changed("verbose") {
		cfg.Verbose = c.overrides.Verbose
	}
	if err := validateConfig(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errConfigInvalid, err)
	}
	return cfg, nil
}
