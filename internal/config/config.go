package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kvgauge/plugin/internal/session"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

// Default action identifiers shipped in the plugin manifest.
const (
	ActionCPUUsage = "com.gerp93.kvgauge.cpuusage"
	ActionCPUTemp  = "com.gerp93.kvgauge.cputemp"
	ActionCPUClock = "com.gerp93.kvgauge.cpuclock"
)

type Config struct {
	Refresh   RefreshConfig     `yaml:"refresh"`
	Actions   map[string]string `yaml:"actions"`
	Log       LogConfig         `yaml:"log"`
	Transport TransportConfig   `yaml:"transport"`
}

type RefreshConfig struct {
	DefaultInterval time.Duration `yaml:"default_interval"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type TransportConfig struct {
	Host         string        `yaml:"host"`
	SendBuffer   int           `yaml:"send_buffer"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

func defaultConfig() *Config {
	return &Config{
		Refresh: RefreshConfig{
			DefaultInterval: session.DefaultInterval,
		},
		Actions: map[string]string{
			ActionCPUUsage: "usage",
			ActionCPUTemp:  "temperature",
			ActionCPUClock: "clock",
		},
		Log: LogConfig{
			File:       "kvgauge.log",
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Transport: TransportConfig{
			Host:         "127.0.0.1",
			SendBuffer:   64,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Load reads the YAML settings file at path over the defaults. A missing
// file is not an error; the plugin runs on defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Refresh.DefaultInterval <= 0 {
		return fmt.Errorf("refresh.default_interval must be positive, got %v", c.Refresh.DefaultInterval)
	}
	if _, err := c.ActionKinds(); err != nil {
		return err
	}
	return nil
}

// ActionKinds resolves the action map into metric kinds.
func (c *Config) ActionKinds() (map[string]session.MetricKind, error) {
	kinds := make(map[string]session.MetricKind, len(c.Actions))
	for action, name := range c.Actions {
		k, err := session.ParseMetricKind(name)
		if err != nil {
			return nil, fmt.Errorf("actions[%s]: %w", action, err)
		}
		kinds[action] = k
	}
	return kinds, nil
}

// Writer returns a size-rotated log file writer, or nil when file logging
// is disabled. Relative paths resolve against baseDir.
func (l LogConfig) Writer(baseDir string) io.WriteCloser {
	if l.File == "" {
		return nil
	}
	path := l.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAgeDays,
	}
}
