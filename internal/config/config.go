// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/stepdeck/internal/slideshow"
)

// Config holds all configuration values for stepdeck.
type Config struct {
	Start        int    `mapstructure:"start" yaml:"start"`
	Loop         bool   `mapstructure:"loop" yaml:"loop"`
	AutoPlay     string `mapstructure:"autoplay" yaml:"autoplay"`
	AutoFocus    bool   `mapstructure:"auto_focus" yaml:"auto_focus"`
	PreviewSteps bool   `mapstructure:"preview_steps" yaml:"preview_steps"`
	CodeTheme    string `mapstructure:"code_theme" yaml:"code_theme"`
	LineNumbers  bool   `mapstructure:"line_numbers" yaml:"line_numbers"`
	TabWidth     int    `mapstructure:"tab_width" yaml:"tab_width"`
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFile      string `mapstructure:"log_file" yaml:"log_file"`
	PreviewAddr  string `mapstructure:"preview_addr" yaml:"preview_addr"`
	ShareHost    string `mapstructure:"share_host" yaml:"share_host"`
	SharePort    int    `mapstructure:"share_port" yaml:"share_port"`
	Remote       bool   `mapstructure:"remote" yaml:"remote"`
	Watch        bool   `mapstructure:"watch" yaml:"watch"`
}

// defaults are applied before any config file or env var.
var defaults = map[string]any{
	"start":         0,
	"loop":          false,
	"autoplay":      "0s",
	"auto_focus":    true,
	"preview_steps": false,
	"code_theme":    "monokai",
	"line_numbers":  true,
	"tab_width":     4,
	"data_dir":      ".stepdeck",
	"log_level":     "info",
	"log_file":      "",
	"preview_addr":  "",
	"share_host":    "127.0.0.1",
	"share_port":    0,
	"remote":        false,
	"watch":         true,
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AutoPlay:    "0s",
		AutoFocus:   true,
		CodeTheme:   "monokai",
		LineNumbers: true,
		TabWidth:    4,
		DataDir:     ".stepdeck",
		LogLevel:    "info",
		ShareHost:   "127.0.0.1",
		Watch:       true,
	}
}

// Load loads configuration with full precedence:
// ENV vars > project config > XDG global config > defaults.
// CLI flags and deck front matter are layered on top by the caller.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("stepdeck")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("STEPDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings so Unmarshal sees keys that only exist in the env
	for key := range defaults {
		env := "STEPDECK_" + strings.ToUpper(key)
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if _, err := cfg.AutoPlayInterval(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// AutoPlayInterval parses the autoplay setting. A bare integer is taken as
// milliseconds; an empty value means autoplay is off.
func (c *Config) AutoPlayInterval() (time.Duration, error) {
	return ParseInterval(c.AutoPlay)
}

// ParseInterval parses a duration string or integer milliseconds.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("invalid autoplay %q: must not be negative", s)
		}
		return d, nil
	}
	var ms int64
	if _, err := fmt.Sscanf(s, "%d", &ms); err != nil || fmt.Sprint(ms) != s {
		return 0, fmt.Errorf("invalid autoplay %q: want a duration like 4s or milliseconds", s)
	}
	if ms < 0 {
		return 0, fmt.Errorf("invalid autoplay %q: must not be negative", s)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Code returns the editor configuration held in the config file.
func (c *Config) Code() slideshow.CodeConfig {
	lineNumbers := c.LineNumbers
	return slideshow.CodeConfig{
		Theme:       c.CodeTheme,
		LineNumbers: &lineNumbers,
		TabWidth:    c.TabWidth,
	}
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/stepdeck/stepdeck.yml or $XDG_CONFIG_HOME/stepdeck/stepdeck.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stepdeck", "stepdeck.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stepdeck", "stepdeck.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "stepdeck.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
