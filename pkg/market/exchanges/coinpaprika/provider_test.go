package coinpaprika

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinsignals-api/pkg/market"
)

const historyBody = `[
	{"time_open":"2024-03-01T00:00:00Z","time_close":"2024-03-01T23:59:59Z","open":100,"high":110,"low":90,"close":105,"volume":5,"market_cap":1000},
	{"time_open":"2024-03-02T00:00:00Z","time_close":"2024-03-02T23:59:59Z","open":105,"high":120,"low":100,"close":115,"volume":7,"market_cap":1100},
	{"time_open":"not-a-time","open":1,"high":1,"low":1,"close":1,"volume":1,"market_cap":1}
]`

func newMockServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/tickers/btc-bitcoin", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer pk", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"btc-bitcoin","quotes":{"USD":{"price":50200,"market_cap":982000000000,"volume_24h":13000000000,"percent_change_24h":0.5}}}`))
	})
	mux.HandleFunc("/v1/coins/btc-bitcoin/ohlcv/historical", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-02-04", r.URL.Query().Get("start"))
		assert.Equal(t, "2024-03-05", r.URL.Query().Get("end"))
		_, _ = w.Write([]byte(historyBody))
	})
	mux.HandleFunc("/v1/coins", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"btc-bitcoin"},{"id":"eth-ethereum"}]`))
	})
	mux.HandleFunc("/v1/exchanges", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"binance"}]`))
	})
	return httptest.NewServer(mux)
}

func TestProviderRequiresKey(t *testing.T) {
	provider := New("paprika", &market.ProviderConfig{BaseURL: "http://127.0.0.1:0"})
	assert.True(t, provider.RequiresCredential())

	_, err := provider.Quote(context.Background(), "bitcoin")
	require.ErrorIs(t, err, market.ErrNotApplicable)
	_, err = provider.History(context.Background(), market.HistoryRequest{Symbol: "bitcoin", Days: 30})
	require.ErrorIs(t, err, market.ErrNotApplicable)
	_, err = provider.ListCoins(context.Background())
	require.ErrorIs(t, err, market.ErrNotApplicable)
}

func TestProviderQuote(t *testing.T) {
	server := newMockServer(t)
	defer server.Close()
	provider := New("paprika", &market.ProviderConfig{BaseURL: server.URL, APIKey: "pk"})

	obs, err := provider.Quote(context.Background(), "bitcoin")
	require.NoError(t, err)
	require.NotNil(t, obs.Price)
	assert.InDelta(t, 50200.0, *obs.Price, 1e-9)
	require.NotNil(t, obs.Change24h)
	assert.InDelta(t, 0.5, *obs.Change24h, 1e-9)

	_, err = provider.Quote(context.Background(), "unlisted-coin")
	require.ErrorIs(t, err, market.ErrNotApplicable)
}

func TestProviderHistory(t *testing.T) {
	server := newMockServer(t)
	defer server.Close()
	provider := New("paprika", &market.ProviderConfig{BaseURL: server.URL, APIKey: "pk"})
	provider.now = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }

	h, err := provider.History(context.Background(), market.HistoryRequest{Symbol: "bitcoin", Days: 30})
	require.NoError(t, err)
	require.Len(t, h.OHLC, 2)
	require.Len(t, h.Volumes, 2)
	require.Len(t, h.MarketCaps, 2)

	series := market.BuildSeries("bitcoin", 30, h)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), series.Points[1].Time)
	assert.InDelta(t, 1100.0, series.Points[1].MarketCap, 1e-9)
}

func TestProviderListings(t *testing.T) {
	server := newMockServer(t)
	defer server.Close()
	provider := New("paprika", &market.ProviderConfig{BaseURL: server.URL, APIKey: "pk"})

	coins, err := provider.ListCoins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"btc-bitcoin", "eth-ethereum"}, coins)

	exchanges, err := provider.ListExchanges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"binance"}, exchanges)
}
