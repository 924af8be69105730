package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"coinsignals-api/pkg/confkit"
	marketpkg "coinsignals-api/pkg/market"
)

// CacheConf sizes the in-process cache. TTLs are in seconds.
type CacheConf struct {
	Realtime   int `json:",default=60"`
	Historical int `json:",default=300"`
	Listing    int `json:",default=3600"`
	Capacity   int `json:",default=1000"`
}

// WarmupConf drives the optional cache warmer. An empty Schedule disables it.
type WarmupConf struct {
	Schedule string   `json:",optional"`
	Symbols  []string `json:",optional"`
	Days     int      `json:",default=30"`
}

// DefaultMarketFile is loaded from the main config's directory when Market.File is unset.
const DefaultMarketFile = "market.yaml"

type Config struct {
	rest.RestConf
	// Env indicates the running environment: test | dev | prod
	Env    string     `json:",default=test"`
	Cache  CacheConf  `json:",optional"`
	Warmup WarmupConf `json:",optional"`

	Market confkit.Section[marketpkg.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "", "test", "dev", "prod":
		if strings.TrimSpace(c.Env) == "" {
			c.Env = "test"
		}
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateWarmup()
}

func (c *Config) validateCache() error {
	if c.Cache.Realtime <= 0 {
		return errors.New("config: cache.realtime must be positive")
	}
	if c.Cache.Historical <= 0 {
		return errors.New("config: cache.historical must be positive")
	}
	if c.Cache.Listing <= 0 {
		return errors.New("config: cache.listing must be positive")
	}
	if c.Cache.Capacity <= 0 {
		return errors.New("config: cache.capacity must be positive")
	}
	return nil
}

func (c *Config) validateWarmup() error {
	if strings.TrimSpace(c.Warmup.Schedule) == "" {
		return nil
	}
	if _, err := cron.ParseStandard(c.Warmup.Schedule); err != nil {
		return fmt.Errorf("config: warmup.schedule: %w", err)
	}
	if len(c.Warmup.Symbols) == 0 {
		return errors.New("config: warmup.symbols required when warmup.schedule is set")
	}
	if c.Warmup.Days < 1 || c.Warmup.Days > 365 {
		return errors.New("config: warmup.days must be within [1, 365]")
	}
	return nil
}

func (c *Config) hydrateSections() error {
	if err := c.Market.HydrateDefault(c.baseDir, DefaultMarketFile, marketpkg.LoadConfig); err != nil {
		return fmt.Errorf("load market config: %w", err)
	}
	return nil
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
