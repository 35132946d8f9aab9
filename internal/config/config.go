// Package config loads optional converter settings from an HCL or TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/ohh2stars/internal/converter"
	"github.com/lox/ohh2stars/internal/fileutil"
)

// Config holds settings shared by the convert, batch and watch commands.
type Config struct {
	LogLevel     string   `hcl:"log_level,optional" toml:"log_level"`
	JSONLogs     bool     `hcl:"json_logs,optional" toml:"json_logs"`
	Workers      int      `hcl:"workers,optional" toml:"workers"`
	Extensions   []string `hcl:"extensions,optional" toml:"extensions"`
	OutputDir    string   `hcl:"output_dir,optional" toml:"output_dir"`
	OutputSuffix string   `hcl:"output_suffix,optional" toml:"output_suffix"`
	Overwrite    bool     `hcl:"overwrite,optional" toml:"overwrite"`
	Watch        *Watch   `hcl:"watch,block" toml:"watch"`
}

// Watch configures watch-folder mode.
type Watch struct {
	Interval  string `hcl:"interval,optional" toml:"interval"`
	StateFile string `hcl:"state_file,optional" toml:"state_file"`
}

const defaultWatchInterval = 5 * time.Second

// Default returns the settings used when no config file is present.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		Workers:      0,
		Extensions:   append([]string(nil), converter.DefaultExtensions...),
		OutputSuffix: fileutil.DefaultOutputSuffix,
		Watch:        &Watch{Interval: defaultWatchInterval.String()},
	}
}

// Load reads path, choosing TOML for .toml files and HCL otherwise. A
// missing file yields Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config: %w", err)
		}
	default:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}
		diags = gohcl.DecodeBody(file.Body, nil, &cfg)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if len(c.Extensions) == 0 {
		c.Extensions = def.Extensions
	}
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Extensions[i] = "." + ext
		}
	}
	if c.OutputSuffix == "" {
		c.OutputSuffix = def.OutputSuffix
	}
	if c.Watch == nil {
		c.Watch = def.Watch
	}
	if c.Watch.Interval == "" {
		c.Watch.Interval = def.Watch.Interval
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if _, err := c.WatchInterval(); err != nil {
		return err
	}
	return nil
}

// WatchInterval parses the watch polling interval.
func (c *Config) WatchInterval() (time.Duration, error) {
	if c.Watch == nil || c.Watch.Interval == "" {
		return defaultWatchInterval, nil
	}
	d, err := time.ParseDuration(c.Watch.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid watch interval %q: %w", c.Watch.Interval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch interval must be positive, got %s", d)
	}
	return d, nil
}
