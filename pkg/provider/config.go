package provider

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures configuration for one or more crypto providers.
type Config struct {
	Default   string                     `yaml:"default"`
	Providers map[string]*ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes how to construct a specific provider instance.
// String fields support ${ENV_VAR} expansion so credentials stay out of the
// config file.
type ProviderConfig struct {
	Type      string `yaml:"type"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Testnet   bool   `yaml:"testnet"`

	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

// ProviderBuilder constructs a Provider from configuration.
type ProviderBuilder func(name string, cfg *ProviderConfig) (Provider, error)

var (
	providerRegistry   = make(map[string]ProviderBuilder)
	providerRegistryMu sync.RWMutex
)

// RegisterProvider associates a builder with a provider type. Implementations
// call it from init so importing the package is enough to enable the type.
func RegisterProvider(typeName string, builder ProviderBuilder) {
	providerRegistryMu.Lock()
	defer providerRegistryMu.Unlock()
	providerRegistry[strings.ToLower(strings.TrimSpace(typeName))] = builder
}

func lookupProviderBuilder(typeName string) (ProviderBuilder, bool) {
	providerRegistryMu.RLock()
	defer providerRegistryMu.RUnlock()
	builder, ok := providerRegistry[strings.ToLower(strings.TrimSpace(typeName))]
	return builder, ok
}

// LoadConfig reads provider configuration from disk.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open provider config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read provider config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal provider config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	if c.Providers == nil {
		c.Providers = make(map[string]*ProviderConfig)
	}
	for name, provider := range c.Providers {
		if provider == nil {
			provider = &ProviderConfig{}
			c.Providers[name] = provider
		}
		provider.expandEnv()
		if err := provider.parseDurations(name); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProviderConfig) expandEnv() {
	p.Type = strings.TrimSpace(os.ExpandEnv(p.Type))
	p.BaseURL = strings.TrimSpace(os.ExpandEnv(p.BaseURL))
	p.APIKey = strings.TrimSpace(os.ExpandEnv(p.APIKey))
	p.APISecret = strings.TrimSpace(os.ExpandEnv(p.APISecret))
	p.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(p.TimeoutRaw))
}

func (p *ProviderConfig) parseDurations(name string) error {
	if p.TimeoutRaw == "" {
		p.Timeout = 0
		return nil
	}
	d, err := time.ParseDuration(p.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("provider %s: invalid timeout %q: %w", name, p.TimeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("provider %s: timeout must be positive, got %s", name, d)
	}
	p.Timeout = d
	return nil
}

// Validate ensures all configured providers are buildable.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("provider config: providers cannot be empty")
	}
	if c.Default != "" {
		if _, ok := c.Providers[c.Default]; !ok {
			return fmt.Errorf("provider config: default provider %q not defined", c.Default)
		}
	}

	for name, provider := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("provider config: provider name cannot be empty")
		}
		if err := provider.validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProviderConfig) validate(name string) error {
	if p == nil {
		return fmt.Errorf("provider config: provider %s is nil", name)
	}
	if strings.TrimSpace(p.Type) == "" {
		return fmt.Errorf("provider config: provider %s must specify type", name)
	}
	if _, ok := lookupProviderBuilder(p.Type); !ok {
		return fmt.Errorf("provider config: provider %s has unsupported type %q: %w", name, p.Type, ErrNoEligibleProvider)
	}
	if p.APIKey == "" || p.APISecret == "" {
		return fmt.Errorf("provider config: provider %s requires api_key and api_secret", name)
	}
	return nil
}

// Factory hands out provider instances by canonical name. Each instance is
// built once per factory and reused on subsequent calls.
type Factory struct {
	cfg *Config

	mu        sync.Mutex
	instances map[Name]Provider
}

// NewFactory wraps a loaded configuration.
func NewFactory(cfg *Config) *Factory {
	return &Factory{
		cfg:       cfg,
		instances: make(map[Name]Provider),
	}
}

// Create returns the provider registered for name, building it on first use.
// Unknown or unconfigured names yield ErrNoEligibleProvider.
func (f *Factory) Create(name Name) (Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if instance, ok := f.instances[name]; ok {
		return instance, nil
	}

	entryName, entry, ok := f.lookupConfig(name)
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", name, ErrNoEligibleProvider)
	}
	builder, ok := lookupProviderBuilder(entry.Type)
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", name, ErrNoEligibleProvider)
	}
	instance, err := builder(entryName, entry)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", entryName, err)
	}
	f.instances[name] = instance
	return instance, nil
}

// Default resolves the configured default provider entry.
func (f *Factory) Default() (Provider, error) {
	if f.cfg == nil || f.cfg.Default == "" {
		return nil, fmt.Errorf("provider config: %w", ErrNoEligibleProvider)
	}
	entry := f.cfg.Providers[f.cfg.Default]
	if entry == nil {
		return nil, fmt.Errorf("provider %q: %w", f.cfg.Default, ErrNoEligibleProvider)
	}
	name, err := ParseName(entry.Type)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", f.cfg.Default, ErrNoEligibleProvider)
	}
	return f.Create(name)
}

func (f *Factory) lookupConfig(name Name) (string, *ProviderConfig, bool) {
	if f.cfg == nil {
		return "", nil, false
	}
	for entryName, entry := range f.cfg.Providers {
		if entry == nil {
			continue
		}
		if strings.EqualFold(entry.Type, string(name)) {
			return entryName, entry, true
		}
	}
	return "", nil, false
}
