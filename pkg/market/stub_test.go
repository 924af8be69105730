package market

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/mock"
)

// stubProvider is a scripted Provider. quote and history are invoked with the
// 1-based call number.
type stubProvider struct {
	name       string
	credential bool

	quote   func(ctx context.Context, call int) (*Observation, error)
	history func(ctx context.Context, call int) (*History, error)

	quoteCalls   atomic.Int32
	historyCalls atomic.Int32
}

func (s *stubProvider) Name() string             { return s.name }
func (s *stubProvider) RequiresCredential() bool { return s.credential }

func (s *stubProvider) Quote(ctx context.Context, symbol string) (*Observation, error) {
	n := int(s.quoteCalls.Add(1))
	if s.quote == nil {
		return nil, ErrNotApplicable
	}
	return s.quote(ctx, n)
}

// historyStub adds the history capability to stubProvider.
type historyStub struct {
	*stubProvider
}

func (h historyStub) History(ctx context.Context, req HistoryRequest) (*History, error) {
	n := int(h.historyCalls.Add(1))
	return h.history(ctx, n)
}

// mockLister is a testify mock with the coin and exchange listing capabilities.
type mockLister struct {
	mock.Mock
	name string
}

func (m *mockLister) Name() string             { return m.name }
func (m *mockLister) RequiresCredential() bool { return false }

func (m *mockLister) Quote(ctx context.Context, symbol string) (*Observation, error) {
	return nil, ErrNotApplicable
}

func (m *mockLister) ListCoins(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockLister) ListExchanges(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// mapCache is a minimal Cache without expiry.
type mapCache struct {
	mu     sync.Mutex
	values map[string]any
	ttls   map[string]time.Duration
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]any), ttls: make(map[string]time.Duration)}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *mapCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	c.ttls[key] = ttl
}

func (c *mapCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]any)
	c.ttls = make(map[string]time.Duration)
}

func (c *mapCache) ttl(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[key]
}

func quoteOf(price float64) func(context.Context, int) (*Observation, error) {
	return func(context.Context, int) (*Observation, error) {
		return &Observation{Price: Float(price)}, nil
	}
}

func fastOrchestrator(retries int) *Orchestrator {
	return NewOrchestrator(WithRetries(retries), WithBackoffBase(0), WithCallTimeout(time.Second))
}

// dailyHistory returns n daily candles starting 2024-01-01 with closes 100, 101, ...
func dailyHistory(n int) *History {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := &History{}
	for i := 0; i < n; i++ {
		ts := start.AddDate(0, 0, i)
		c := 100 + float64(i)
		h.OHLC = append(h.OHLC, Candle{Time: ts, Open: c - 0.5, High: c + 1, Low: c - 1, Close: c})
		h.Volumes = append(h.Volumes, Sample{Time: ts, Value: 10 + float64(i)})
		h.MarketCaps = append(h.MarketCaps, Sample{Time: ts, Value: 1000 * c})
	}
	return h
}
