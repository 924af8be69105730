package svc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinsignals-api/internal/config"
	"coinsignals-api/internal/svc"
	marketpkg "coinsignals-api/pkg/market"
)

func TestNewServiceContext_fromMarketFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CRYPTOCOMPARE_API_KEY", "")
	market := `
priority: [coinlore, coingecko]
retries: 2
providers:
  coingecko:
    type: coingecko
  coinlore:
    type: coinlore
  cryptocompare:
    type: cryptocompare
    api_key: ${CRYPTOCOMPARE_API_KEY}
  paprika:
    type: coinpaprika
    disabled: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "market.yaml"), []byte(market), 0o600))

	cfg := config.Config{Env: "test", Cache: config.CacheConf{Realtime: 60, Historical: 300, Listing: 3600, Capacity: 10}}
	ctx := svc.NewServiceContext(cfg, filepath.Join(dir, "coinsignals.yaml"))

	require.NotNil(t, ctx.MarketConfig)
	names := make([]string, len(ctx.MarketProviders))
	for i, p := range ctx.MarketProviders {
		names[i] = p.Name()
	}
	assert.Equal(t, []string{"coinlore", "coingecko", "cryptocompare"}, names)

	infos := ctx.Market.Providers()
	require.Len(t, infos, 3)
	assert.True(t, infos[2].RequiresCredential)
	assert.Equal(t, 0, ctx.Cache.Len())
}

func TestNewWithProviders_TTLsFromConfig(t *testing.T) {
	cfg := config.Config{Cache: config.CacheConf{Realtime: 5, Historical: 50, Listing: 500, Capacity: 2}}
	ctx, err := svc.NewWithProviders(cfg, nil, marketpkg.NewOrchestrator())
	require.NoError(t, err)

	assert.Equal(t, marketpkg.TTLs{Realtime: 5e9, Historical: 50e9, Listing: 500e9}, ctx.TTL.Market())
	assert.Empty(t, ctx.Market.Providers())
}
