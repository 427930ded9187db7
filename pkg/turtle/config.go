package turtle

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultConfigFile = "turtle-teleop.toml"
	DefaultBridgeURL  = "ws://localhost:9090"
	EnvPrefix         = "TURTLE"
)

// Config holds the teleoperation configuration.
type Config struct {
	ScaleLinear  float64      `toml:"scale_linear" split_words:"true"`
	ScaleAngular float64      `toml:"scale_angular" split_words:"true"`
	LogLevel     string       `toml:"log_level" split_words:"true"`
	Bridge       BridgeConfig `toml:"bridge" split_words:"true"`
	Spawn        SpawnBounds  `toml:"spawn" split_words:"true"`
}

// BridgeConfig holds the rosbridge connection settings.
type BridgeConfig struct {
	URL         string        `toml:"url" split_words:"true"`
	CallTimeout time.Duration `toml:"call_timeout" split_words:"true"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ScaleLinear:  2.0,
		ScaleAngular: 2.0,
		LogLevel:     "info",
		Bridge: BridgeConfig{
			URL:         DefaultBridgeURL,
			CallTimeout: 5 * time.Second,
		},
		Spawn: DefaultSpawnBounds(),
	}
}

// LoadConfig loads configuration from the default config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom layers the file at path (if it exists) and then
// TURTLE_* environment variables over the defaults.
func LoadConfigFrom(path string) (*Config, error) {
	cfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile layers only the file at path (if it exists) over the
// defaults. The environment is not consulted.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks the configuration for values the controller cannot use.
func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"scale_linear":    c.ScaleLinear,
		"scale_angular":   c.ScaleAngular,
		"spawn.max_x":     c.Spawn.MaxX,
		"spawn.max_y":     c.Spawn.MaxY,
		"spawn.max_theta": c.Spawn.MaxTheta,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("config: %s must be finite", name)
		}
	}
	if c.Spawn.MaxX < 0 || c.Spawn.MaxY < 0 || c.Spawn.MaxTheta < 0 {
		return fmt.Errorf("config: spawn bounds must not be negative")
	}
	if c.Bridge.CallTimeout <= 0 {
		return fmt.Errorf("config: bridge.call_timeout must be positive")
	}
	return nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// ConfigExists returns true if the file at path exists.
func ConfigExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
