//go:build integration
// +build integration

package market_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	market "coinsignals-api/pkg/market"
	_ "coinsignals-api/pkg/market/exchanges/coincap"
	_ "coinsignals-api/pkg/market/exchanges/coingecko"
	_ "coinsignals-api/pkg/market/exchanges/coinlore"
)

// Hits the public keyless APIs.
func newLiveService(t *testing.T) *market.Service {
	t.Helper()
	cfg, err := market.LoadConfigFromReader(strings.NewReader(`
priority: [coingecko, coincap, coinlore]
timeout: 10s
retries: 2
backoff_base: 1s
providers:
  coingecko:
    type: coingecko
  coincap:
    type: coincap
  coinlore:
    type: coinlore
`))
	require.NoError(t, err)
	providers, err := cfg.BuildProviders()
	require.NoError(t, err)
	require.Len(t, providers, 3)
	return market.NewService(providers, nil, market.WithOrchestrator(cfg.Orchestrator()))
}

func TestFetchRealtime_Integration(t *testing.T) {
	svc := newLiveService(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap := svc.FetchRealtime(ctx, "bitcoin")
	if snap.Empty() {
		t.Skip("no public provider answered")
	}
	require.NotNil(t, snap.Price)
	assert.Greater(t, *snap.Price, 0.0)
	assert.NotEmpty(t, snap.Sources)
}

func TestSignals_Integration(t *testing.T) {
	svc := newLiveService(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	resp, err := svc.Signals(ctx, "bitcoin", 90, "")
	if err != nil {
		t.Skipf("historical providers unavailable: %v", err)
	}
	assert.NotEmpty(t, resp.Historical)
	for name, points := range resp.Signals {
		for _, p := range points {
			assert.False(t, p.Time.IsZero(), name)
		}
	}
}
