package market_test

import (
	"os"
	"path/filepath"
	"testing"

	market "coinsignals-api/pkg/market"
	_ "coinsignals-api/pkg/market/exchanges/coinmarketcap"
)

// Ensures env placeholders are expanded and durations parsed.
func TestMarketConfig_EnvExpansionAndDurations(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CMC_BASE_URL", "https://cmc.test")
	t.Setenv("COINMARKETCAP_API_KEY", "cmc-secret")
	t.Setenv("MKT_TIMEOUT", "9s")
	t.Setenv("HTTP_TOUT", "13s")

	yaml := []byte(`
timeout: ${MKT_TIMEOUT}
providers:
  cmc:
    type: coinmarketcap
    base_url: ${CMC_BASE_URL}
    api_key: ${COINMARKETCAP_API_KEY}
    http_timeout: ${HTTP_TOUT}
    symbols:
      pepe: PEPE
`)
	path := filepath.Join(dir, "market.yaml")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := market.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	p := cfg.Providers["cmc"]
	if p == nil {
		t.Fatalf("provider cmc missing")
	}
	if p.BaseURL != "https://cmc.test" || p.APIKey != "cmc-secret" {
		t.Fatalf("placeholders not expanded, base_url=%q api_key=%q", p.BaseURL, p.APIKey)
	}
	if cfg.Timeout.String() != "9s" || p.HTTPTimeout.String() != "13s" {
		t.Fatalf("durations not parsed, timeout=%s http_timeout=%s", cfg.Timeout, p.HTTPTimeout)
	}
	if p.Symbols["pepe"] != "PEPE" {
		t.Fatalf("symbols not parsed: %v", p.Symbols)
	}
}

// An unset key expands to empty; the provider still builds and reports itself
// as requiring a credential.
func TestMarketConfig_MissingKeyStillBuilds(t *testing.T) {
	os.Unsetenv("COINMARKETCAP_API_KEY_UNSET")
	cfg, err := market.LoadConfigFromReader(stringsReader(`
providers:
  cmc:
    type: coinmarketcap
    api_key: ${COINMARKETCAP_API_KEY_UNSET}
`))
	if err != nil {
		t.Fatalf("LoadConfigFromReader: %v", err)
	}
	providers, err := cfg.BuildProviders()
	if err != nil {
		t.Fatalf("BuildProviders: %v", err)
	}
	if len(providers) != 1 || !providers[0].RequiresCredential() {
		t.Fatalf("expected one credentialed provider")
	}
}
