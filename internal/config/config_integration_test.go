package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "coinsignals-api/internal/config"
	"coinsignals-api/internal/svc"
)

// Loads the shipped etc/ files and builds the full provider chain from them.
func TestMustLoadAndProviders(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("COINPAPRIKA_API_KEY", "paprika-test")
	t.Setenv("CRYPTOCOMPARE_API_KEY", "")

	mainPath, err := filepath.Abs(filepath.Join("..", "..", "etc", "coinsignals.yaml"))
	require.NoError(t, err)

	cfg := appconfig.MustLoad(mainPath)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, []string{"bitcoin", "ethereum", "chainlink"}, cfg.Warmup.Symbols)
	require.True(t, cfg.Market.Loaded())

	sc := svc.NewServiceContext(*cfg, mainPath)
	names := make([]string, 0, len(sc.MarketProviders))
	for _, p := range sc.MarketProviders {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"coingecko", "coincap", "coinlore", "coinpaprika", "cryptocompare", "coinmarketcap"}, names)

	infos := sc.Market.Providers()
	require.Len(t, infos, 6)
	assert.Contains(t, infos[0].Capabilities, "history")
	orch := sc.MarketConfig.Orchestrator()
	assert.Equal(t, sc.MarketConfig.Retries, orch.Retries())

	// The two history providers must exhaust their retries inside the REST timeout
	// so the 503 body is written before go-zero's timeout handler answers.
	restTimeout := time.Duration(cfg.Timeout) * time.Millisecond
	assert.Less(t, orch.Budget(2), restTimeout)
}
