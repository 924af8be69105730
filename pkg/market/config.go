package market

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"coinsignals-api/pkg/confkit"
)

// Config describes the provider chain and the orchestration policy.
type Config struct {
	// Priority lists provider names in the order fallback mode tries them.
	// Providers not listed follow in name order.
	Priority []string `yaml:"priority"`

	TimeoutRaw     string        `yaml:"timeout"`
	Timeout        time.Duration `yaml:"-"`
	Retries        int           `yaml:"retries"`
	BackoffBaseRaw string        `yaml:"backoff_base"`
	BackoffBase    time.Duration `yaml:"-"`

	Providers map[string]*ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents configuration for a single market provider.
type ProviderConfig struct {
	Type     string `yaml:"type"`
	Disabled bool   `yaml:"disabled"`

	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`

	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
	RateLimit      float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst          int           `yaml:"burst"`

	// Symbols extends the provider's built-in canonical id -> provider id table.
	Symbols map[string]string `yaml:"symbols"`
}

// ProviderBuilder constructs a Provider from configuration.
type ProviderBuilder func(name string, cfg *ProviderConfig) (Provider, error)

var (
	providerRegistry   = make(map[string]ProviderBuilder)
	providerRegistryMu sync.RWMutex
)

// RegisterProvider registers a market provider constructor.
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

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// MustLoad reads market configuration from the default project location and panics on error.
func MustLoad() *Config {
	path := confkit.MustProjectPath("etc/market.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	confkit.LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read market config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal market config: %w", err)
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
	var err error
	if c.Timeout, err = parseDuration("timeout", c.TimeoutRaw); err != nil {
		return fmt.Errorf("market config: %w", err)
	}
	if c.BackoffBase, err = parseDuration("backoff_base", c.BackoffBaseRaw); err != nil {
		return fmt.Errorf("market config: %w", err)
	}
	for i, name := range c.Priority {
		c.Priority[i] = strings.TrimSpace(name)
	}
	for name, provider := range c.Providers {
		if provider == nil {
			provider = &ProviderConfig{}
			c.Providers[name] = provider
		}
		provider.expandEnv()
		if provider.HTTPTimeout, err = parseDuration("http_timeout", provider.HTTPTimeoutRaw); err != nil {
			return fmt.Errorf("market provider %s: %w", name, err)
		}
	}
	return nil
}

func (p *ProviderConfig) expandEnv() {
	p.Type = strings.TrimSpace(os.ExpandEnv(p.Type))
	p.BaseURL = strings.TrimSpace(os.ExpandEnv(p.BaseURL))
	p.APIKey = strings.TrimSpace(os.ExpandEnv(p.APIKey))
	p.HTTPTimeoutRaw = strings.TrimSpace(os.ExpandEnv(p.HTTPTimeoutRaw))
}

func parseDuration(field, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(os.ExpandEnv(raw))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", field, d)
	}
	return d, nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("market config: providers cannot be empty")
	}
	if c.Retries < 0 {
		return fmt.Errorf("market config: retries must not be negative, got %d", c.Retries)
	}
	seen := make(map[string]struct{}, len(c.Priority))
	for _, name := range c.Priority {
		if _, ok := c.Providers[name]; !ok {
			return fmt.Errorf("market config: priority references undefined provider %q", name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("market config: provider %q listed twice in priority", name)
		}
		seen[name] = struct{}{}
	}
	for name, provider := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("market config: provider name cannot be empty")
		}
		if err := provider.validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProviderConfig) validate(name string) error {
	if p == nil {
		return fmt.Errorf("market config: provider %s is nil", name)
	}
	if strings.TrimSpace(p.Type) == "" {
		return fmt.Errorf("market config: provider %s must specify type", name)
	}
	if _, ok := lookupProviderBuilder(p.Type); !ok {
		return fmt.Errorf("market config: provider %s has unsupported type %q", name, p.Type)
	}
	if p.RateLimit < 0 || p.Burst < 0 {
		return fmt.Errorf("market config: provider %s rate_limit and burst must not be negative", name)
	}
	return nil
}

// ChainOrder returns enabled provider names in fallback priority order.
func (c *Config) ChainOrder() []string {
	order := make([]string, 0, len(c.Providers))
	listed := make(map[string]struct{}, len(c.Priority))
	for _, name := range c.Priority {
		listed[name] = struct{}{}
		if p := c.Providers[name]; p != nil && !p.Disabled {
			order = append(order, name)
		}
	}
	rest := make([]string, 0, len(c.Providers))
	for name, p := range c.Providers {
		if _, ok := listed[name]; ok || p == nil || p.Disabled {
			continue
		}
		rest = append(rest, name)
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// BuildProviders instantiates the provider chain in priority order.
func (c *Config) BuildProviders() ([]Provider, error) {
	names := c.ChainOrder()
	result := make([]Provider, 0, len(names))
	for _, name := range names {
		providerCfg := c.Providers[name]
		builder, ok := lookupProviderBuilder(providerCfg.Type)
		if !ok {
			return nil, fmt.Errorf("market provider %s: unsupported type %q", name, providerCfg.Type)
		}
		provider, err := builder(name, providerCfg)
		if err != nil {
			return nil, fmt.Errorf("market provider %s: %w", name, err)
		}
		result = append(result, provider)
	}
	return result, nil
}

// Orchestrator builds an orchestrator from the configured policy.
func (c *Config) Orchestrator() *Orchestrator {
	opts := []OrchestratorOption{WithRetries(c.Retries), WithCallTimeout(c.Timeout)}
	if c.BackoffBaseRaw != "" {
		opts = append(opts, WithBackoffBase(c.BackoffBase))
	}
	return NewOrchestrator(opts...)
}
