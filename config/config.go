package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const EnvConfigPath = "MINITOP_CONFIG"

const (
	defaultSampleInterval  = time.Second
	defaultRefreshInterval = 500 * time.Millisecond
	defaultCapacity        = 1024
	defaultBackend         = "auto"
	defaultCPUThreshold    = 80
	defaultMemThresholdMB  = 1024
	defaultAlertCooldown   = time.Minute
	defaultLogLevel        = "info"
)

// Config is the on-disk settings file.
type Config struct {
	SampleInterval  Duration          `json:"sample_interval"`
	RefreshInterval Duration          `json:"refresh_interval"`
	Capacity        int               `json:"capacity"`
	Backend         string            `json:"backend"`
	CPUThreshold    float64           `json:"cpu_threshold"`
	MemThresholdMB  float64           `json:"mem_threshold_mb"`
	AlertCooldown   Duration          `json:"alert_cooldown"`
	ActiveWebhook   string            `json:"active_webhook"`
	Webhooks        map[string]string `json:"webhooks"`
	OTLPEndpoint    string            `json:"otlp_endpoint,omitempty"`
	LogFile         string            `json:"log_file,omitempty"`
	LogLevel        string            `json:"log_level"`
}

// Duration marshals as a Go duration string such as "1.5s".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns a config with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero or invalid fields with defaults.
func (c *Config) Normalize() {
	if c.SampleInterval <= 0 {
		c.SampleInterval = Duration(defaultSampleInterval)
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = Duration(defaultRefreshInterval)
	}
	if c.Capacity <= 0 {
		c.Capacity = defaultCapacity
	}
	if c.Backend == "" {
		c.Backend = defaultBackend
	}
	if c.CPUThreshold <= 0 {
		c.CPUThreshold = defaultCPUThreshold
	}
	if c.MemThresholdMB <= 0 {
		c.MemThresholdMB = defaultMemThresholdMB
	}
	if c.AlertCooldown <= 0 {
		c.AlertCooldown = Duration(defaultAlertCooldown)
	}
	if c.Webhooks == nil {
		c.Webhooks = map[string]string{}
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// WebhookURL returns the URL of the active webhook, or "" when none is set.
func (c *Config) WebhookURL() string {
	return c.Webhooks[c.ActiveWebhook]
}

// Dir is the directory holding the config and log files.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".minitop")
}

// DefaultPath honours MINITOP_CONFIG before falling back to Dir.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.json")
}

// Load reads path. A missing file is created with defaults; a malformed one
// is an error and is left untouched.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg as indented JSON, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
