package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"go-kontrol/control"
)

// EnvPath overrides the config file location
const EnvPath = "GO_KONTROL_CONFIG"

var ErrInvalid = errors.New("invalid config")

// ChannelConfig is the persisted form of a control.Channel
type ChannelConfig struct {
	Kind  string `yaml:"kind"`
	Index int    `yaml:"index"`
}

// BindingConfig is the persisted form of a control.Binding.
// Empty component or attribute means the binding is not configured yet.
type BindingConfig struct {
	Component string        `yaml:"component,omitempty"`
	Attribute string        `yaml:"attribute,omitempty"`
	Scale     int           `yaml:"scale"`
	Channel   ChannelConfig `yaml:"channel"`
}

// OwnerConfig is the binding list owned by one scene object
type OwnerConfig struct {
	Object   string          `yaml:"object"`
	Bindings []BindingConfig `yaml:"bindings"`
}

// Config is the main configuration structure
type Config struct {
	Port     string        `yaml:"port,omitempty"`
	FreezeCC int           `yaml:"freeze_cc"`
	TickRate int           `yaml:"tick_rate"`
	Palette  string        `yaml:"palette,omitempty"`
	Debug    bool          `yaml:"debug,omitempty"`
	Owners   []OwnerConfig `yaml:"owners,omitempty"`
}

// envOverrides are the settings that can come from the environment.
// Unset variables leave the pointer nil.
type envOverrides struct {
	Port     *string `env:"GO_KONTROL_PORT"`
	FreezeCC *int    `env:"GO_KONTROL_FREEZE_CC"`
	TickRate *int    `env:"GO_KONTROL_TICK_RATE"`
	Palette  *string `env:"GO_KONTROL_PALETTE"`
	Debug    *bool   `env:"GO_KONTROL_DEBUG"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Port:     "nanokontrol",
		FreezeCC: 43,
		TickRate: 60,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-kontrol"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, or returns defaults if it does not
// exist. Environment overrides are applied on top of either.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any GO_KONTROL_* variables that are set
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.Port != nil {
		cfg.Port = *o.Port
	}
	if o.FreezeCC != nil {
		cfg.FreezeCC = *o.FreezeCC
	}
	if o.TickRate != nil {
		cfg.TickRate = *o.TickRate
	}
	if o.Palette != nil {
		cfg.Palette = *o.Palette
	}
	if o.Debug != nil {
		cfg.Debug = *o.Debug
	}
	return nil
}

// Validate checks ranges and channel names
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, c.TickRate)
	}
	if c.FreezeCC < 0 || c.FreezeCC > 127 {
		return fmt.Errorf("%w: freeze_cc must be 0-127, got %d", ErrInvalid, c.FreezeCC)
	}
	seen := map[string]bool{}
	for _, o := range c.Owners {
		if o.Object == "" {
			return fmt.Errorf("%w: owner without object name", ErrInvalid)
		}
		if seen[o.Object] {
			return fmt.Errorf("%w: duplicate owner %q", ErrInvalid, o.Object)
		}
		seen[o.Object] = true
		if _, err := o.ToBindings(); err != nil {
			return fmt.Errorf("%w: owner %q: %w", ErrInvalid, o.Object, err)
		}
	}
	return nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FindOwner finds an owner config by object name
func (c *Config) FindOwner(object string) *OwnerConfig {
	for i := range c.Owners {
		if c.Owners[i].Object == object {
			return &c.Owners[i]
		}
	}
	return nil
}

// SetOwner adds or replaces the bindings of an owner
func (c *Config) SetOwner(o OwnerConfig) {
	for i := range c.Owners {
		if c.Owners[i].Object == o.Object {
			c.Owners[i] = o
			return
		}
	}
	c.Owners = append(c.Owners, o)
}

// ToBindings converts the persisted bindings to runtime bindings
func (o OwnerConfig) ToBindings() ([]*control.Binding, error) {
	out := make([]*control.Binding, 0, len(o.Bindings))
	for i, bc := range o.Bindings {
		b, err := bc.ToBinding()
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// ToBinding converts one persisted binding
func (bc BindingConfig) ToBinding() (*control.Binding, error) {
	kind, err := control.ParseKind(bc.Channel.Kind)
	if err != nil {
		return nil, err
	}
	ch, err := control.NewChannel(kind, bc.Channel.Index)
	if err != nil {
		return nil, err
	}
	b := control.NewBinding(ch)
	b.Scale = bc.Scale
	if bc.Component != "" || bc.Attribute != "" {
		b.SetTarget(bc.Component, bc.Attribute)
	}
	return b, nil
}

// FromBindings builds the persisted form of an owner's bindings
func FromBindings(object string, bindings []control.Binding) OwnerConfig {
	o := OwnerConfig{Object: object, Bindings: make([]BindingConfig, 0, len(bindings))}
	for _, b := range bindings {
		bc := BindingConfig{
			Scale: b.Scale,
			Channel: ChannelConfig{
				Kind:  strings.ToLower(b.Channel.Kind.String()),
				Index: b.Channel.Index,
			},
		}
		if b.Target != nil {
			bc.Component = b.Target.Component
			bc.Attribute = b.Target.Attribute
		}
		o.Bindings = append(o.Bindings, bc)
	}
	return o
}
