package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config models dropline.yml (or dropline.toml).
type Config struct {
	Storage Storage `yaml:"storage" toml:"storage"`
	Latency Latency `yaml:"latency" toml:"latency"`
	Gate    Gate    `yaml:"gate" toml:"gate"`
	Stock   Stock   `yaml:"stock" toml:"stock"`
	Log     Log     `yaml:"log" toml:"log"`
}

type Storage struct {
	Backend string `yaml:"backend" toml:"backend"`
	Key     string `yaml:"key" toml:"key"`
	// Path is the document file for the file backend; empty means the workspace default.
	Path string `yaml:"path" toml:"path"`
}

type Latency struct {
	List   Duration `yaml:"list" toml:"list"`
	Get    Duration `yaml:"get" toml:"get"`
	Create Duration `yaml:"create" toml:"create"`
	Update Duration `yaml:"update" toml:"update"`
	Delete Duration `yaml:"delete" toml:"delete"`
}

type Gate struct {
	Passphrase   string   `yaml:"passphrase" toml:"passphrase"`
	ScreenDelay  Duration `yaml:"screen_delay" toml:"screen_delay"`
	ConfirmDelay Duration `yaml:"confirm_delay" toml:"confirm_delay"`
}

type Stock struct {
	Low      int `yaml:"low" toml:"low"`
	Critical int `yaml:"critical" toml:"critical"`
}

type Log struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Duration reads "300ms"-style strings from either config format.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

var (
	backends   = []string{BackendSQLite, BackendFile, BackendMemory}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

var fileNames = []string{"dropline.yml", "dropline.yaml", "dropline.toml"}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	cfg, err := LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config %s not found; create one with dropline config init", Path(workspace))
	}
	return cfg, nil
}

// LoadOptional returns nil,nil if no config file exists in workspace.
func LoadOptional(workspace string) (*Config, error) {
	for _, name := range fileNames {
		path := filepath.Join(workspaceDir(workspace), name)
		cfg, err := FromFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return nil, nil
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if !oneOf(c.Storage.Backend, backends) {
		return fmt.Errorf("config.storage.backend must be one of %s", strings.Join(backends, ", "))
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("config.storage.key is required")
	}
	for name, d := range map[string]Duration{
		"list": c.Latency.List, "get": c.Latency.Get, "create": c.Latency.Create,
		"update": c.Latency.Update, "delete": c.Latency.Delete,
	} {
		if d.Duration < 0 {
			return fmt.Errorf("config.latency.%s must not be negative", name)
		}
	}
	if c.Gate.Passphrase == "" {
		return fmt.Errorf("config.gate.passphrase is required")
	}
	if c.Gate.ScreenDelay.Duration < 0 || c.Gate.ConfirmDelay.Duration < 0 {
		return fmt.Errorf("config.gate delays must not be negative")
	}
	if c.Stock.Critical < 0 || c.Stock.Low < c.Stock.Critical {
		return fmt.Errorf("config.stock requires 0 <= critical <= low")
	}
	if !oneOf(c.Log.Level, logLevels) {
		return fmt.Errorf("config.log.level must be one of %s", strings.Join(logLevels, ", "))
	}
	if !oneOf(c.Log.Format, logFormats) {
		return fmt.Errorf("config.log.format must be one of %s", strings.Join(logFormats, ", "))
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func workspaceDir(workspace string) string {
	if workspace == "" {
		return "."
	}
	return workspace
}

// Path returns the default config file path for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspaceDir(workspace), fileNames[0])
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Missing keys keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromTOML parses and validates config from raw TOML bytes.
func FromTOML(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config toml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads config from path, choosing the format by extension.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FromTOML(data)
	}
	return FromYAML(data)
}

const defaultTemplate = `storage:
  backend: sqlite
  key: leaked_episodes
  path: ""

latency:
  list: 300ms
  get: 200ms
  create: 500ms
  update: 400ms
  delete: 300ms

gate:
  passphrase: Loki1loki
  screen_delay: 800ms
  confirm_delay: 500ms

stock:
  low: 10
  critical: 3

log:
  level: info
  format: console
`
