package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "coinsignals-api/pkg/market/exchanges/coingecko"
	_ "coinsignals-api/pkg/market/exchanges/cryptocompare"
)

func validConfig() *Config {
	return &Config{
		Cache: CacheConf{Realtime: 60, Historical: 300, Listing: 3600, Capacity: 1000},
	}
}

// Test_hydrateSections_withEnv verifies env expansion and market section
// hydration without going through go-zero conf.Load.
func Test_hydrateSections_withEnv(t *testing.T) {
	dir := t.TempDir()

	marketYAML := []byte(`
priority: [gecko, cc]
timeout: ${MKT_TIMEOUT}
retries: 2
backoff_base: 250ms
providers:
  gecko:
    type: coingecko
    base_url: ${GECKO_BASE}
  cc:
    type: cryptocompare
    api_key: ${CC_KEY}
    http_timeout: 4s
`)
	if err := os.WriteFile(filepath.Join(dir, "market.yaml"), marketYAML, 0o600); err != nil {
		t.Fatalf("write market.yaml: %v", err)
	}

	t.Setenv("MKT_TIMEOUT", "7s")
	t.Setenv("GECKO_BASE", "https://gecko.local/api/v3")
	t.Setenv("CC_KEY", "cc-secret")

	cfg := validConfig()
	cfg.baseDir = dir
	cfg.Market.File = "market.yaml"
	if err := cfg.hydrateSections(); err != nil {
		t.Fatalf("hydrateSections: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	mkt := cfg.Market.Value
	if mkt == nil {
		t.Fatalf("Market section not hydrated")
	}
	if mkt.Timeout != 7*time.Second || mkt.BackoffBase != 250*time.Millisecond {
		t.Fatalf("durations not parsed, got timeout=%s backoff_base=%s", mkt.Timeout, mkt.BackoffBase)
	}
	if got := mkt.Providers["gecko"].BaseURL; got != "https://gecko.local/api/v3" {
		t.Fatalf("gecko base_url not expanded, got %q", got)
	}
	if got := mkt.Providers["cc"].APIKey; got != "cc-secret" {
		t.Fatalf("cc api_key not expanded, got %q", got)
	}
	if got := mkt.Providers["cc"].HTTPTimeout; got != 4*time.Second {
		t.Fatalf("cc http_timeout got %s", got)
	}

	providers, err := mkt.BuildProviders()
	if err != nil {
		t.Fatalf("BuildProviders: %v", err)
	}
	if len(providers) != 2 || providers[0].Name() != "gecko" || providers[1].Name() != "cc" {
		t.Fatalf("unexpected chain order")
	}
	if mkt.Orchestrator().Retries() != 2 {
		t.Fatalf("retries not applied")
	}
}

func TestLoad_mainFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "market.yaml"), []byte(`
providers:
  gecko:
    type: coingecko
`), 0o600); err != nil {
		t.Fatalf("write market.yaml: %v", err)
	}
	mainYAML := []byte(`
Name: coinsignals-api
Host: 127.0.0.1
Port: 8899
Env: dev
Cache:
  Realtime: 30
Market:
  File: market.yaml
`)
	mainPath := filepath.Join(dir, "coinsignals.yaml")
	if err := os.WriteFile(mainPath, mainYAML, 0o600); err != nil {
		t.Fatalf("write main config: %v", err)
	}

	cfg, err := Load(mainPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "dev" || cfg.Port != 8899 {
		t.Fatalf("unexpected main values env=%s port=%d", cfg.Env, cfg.Port)
	}
	if cfg.Cache.Realtime != 30 || cfg.Cache.Historical != 300 || cfg.Cache.Listing != 3600 {
		t.Fatalf("unexpected cache ttls %+v", cfg.Cache)
	}
	if cfg.Cache.Capacity != 1000 {
		t.Fatalf("capacity default not applied, got %d", cfg.Cache.Capacity)
	}
	if cfg.Market.Value == nil || cfg.Market.File != filepath.Join(dir, "market.yaml") {
		t.Fatalf("market section not resolved, file=%q", cfg.Market.File)
	}
	if cfg.BaseDir() != dir || cfg.MainPath() != mainPath {
		t.Fatalf("paths not recorded")
	}
}

func TestValidate_CacheBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Capacity = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected cache.capacity validation error")
	}
}

func TestValidate_Env(t *testing.T) {
	cfg := validConfig()
	cfg.Env = "staging"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected env validation error")
	}
	cfg.Env = ""
	if err := cfg.Validate(); err != nil || cfg.Env != "test" {
		t.Fatalf("empty env should default to test, got %q err=%v", cfg.Env, err)
	}
}

func TestValidate_Warmup(t *testing.T) {
	cfg := validConfig()
	cfg.Warmup = WarmupConf{Schedule: "not a cron", Symbols: []string{"bitcoin"}, Days: 30}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected schedule validation error")
	}
	cfg.Warmup.Schedule = "*/5 * * * *"
	cfg.Warmup.Symbols = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected symbols validation error")
	}
	cfg.Warmup.Symbols = []string{"bitcoin"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func Test_hydrateSections_defaultMarketFile(t *testing.T) {
	dir := t.TempDir()
	cfg := validConfig()
	cfg.baseDir = dir
	if err := cfg.hydrateSections(); err != nil {
		t.Fatalf("hydrateSections without market.yaml: %v", err)
	}
	if cfg.Market.Loaded() {
		t.Fatalf("market section must stay empty when no file exists")
	}

	if err := os.WriteFile(filepath.Join(dir, DefaultMarketFile), []byte("providers:\n  gecko:\n    type: coingecko\n"), 0o600); err != nil {
		t.Fatalf("write market.yaml: %v", err)
	}
	if err := cfg.hydrateSections(); err != nil {
		t.Fatalf("hydrateSections: %v", err)
	}
	if !cfg.Market.Loaded() || cfg.Market.Value.Providers["gecko"] == nil {
		t.Fatalf("default market.yaml not picked up")
	}
}
