package market

import (
	"context"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"
	"github.com/zeromicro/go-zero/core/syncx"
)

const (
	defaultRealtimeTTL   = time.Minute
	defaultHistoricalTTL = 5 * time.Minute
	defaultListingTTL    = time.Hour
)

// TTLs holds the cache lifetime for each kind of cached value.
type TTLs struct {
	Realtime   time.Duration
	Historical time.Duration
	Listing    time.Duration
}

// Service is the aggregation engine: it resolves historical series, realtime
// consensus snapshots and listings through an ordered provider chain, caching
// results in the supplied Cache.
type Service struct {
	providers []Provider
	orch      *Orchestrator
	cache     Cache
	ttl       TTLs
	flight    syncx.SingleFlight
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithOrchestrator replaces the default orchestrator.
func WithOrchestrator(o *Orchestrator) ServiceOption {
	return func(s *Service) {
		if o != nil {
			s.orch = o
		}
	}
}

// WithTTLs overrides cache lifetimes; zero fields keep their defaults.
func WithTTLs(ttl TTLs) ServiceOption {
	return func(s *Service) {
		if ttl.Realtime > 0 {
			s.ttl.Realtime = ttl.Realtime
		}
		if ttl.Historical > 0 {
			s.ttl.Historical = ttl.Historical
		}
		if ttl.Listing > 0 {
			s.ttl.Listing = ttl.Listing
		}
	}
}

// NewService wires providers, in priority order, to cache.
func NewService(providers []Provider, cache Cache, opts ...ServiceOption) *Service {
	chain := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			chain = append(chain, p)
		}
	}
	s := &Service{
		providers: chain,
		orch:      NewOrchestrator(),
		cache:     cache,
		ttl: TTLs{
			Realtime:   defaultRealtimeTTL,
			Historical: defaultHistoricalTTL,
			Listing:    defaultListingTTL,
		},
		flight: syncx.NewSingleFlight(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeSymbol converts a caller-supplied symbol to its canonical form.
func NormalizeSymbol(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}

// Providers describes the configured chain in priority order.
func (s *Service) Providers() []ProviderInfo {
	infos := make([]ProviderInfo, len(s.providers))
	for i, p := range s.providers {
		infos[i] = Describe(p)
	}
	return infos
}

// FetchHistorical returns the OHLCV series for symbol over the last days,
// from the first history provider that yields a non-empty series. It fails
// with ErrNoDataAvailable when the chain is exhausted.
func (s *Service) FetchHistorical(ctx context.Context, symbol string, days int, exchange string) (*Series, error) {
	symbol = NormalizeSymbol(symbol)
	key := HistoricalKey(symbol, days, exchange)
	if series, ok := lookup[*Series](ctx, s.cache, "historical", key); ok {
		return series.Clone(), nil
	}

	value, err := s.share(ctx, key, func(ctx context.Context) (any, error) {
		req := HistoryRequest{Symbol: symbol, Days: days, Exchange: exchange}
		series, _, err := Fallback(ctx, s.orch, "history", symbol, s.providers,
			func(ctx context.Context, p Provider) (*Series, error) {
				return HistorySeries(ctx, p, req)
			},
			func(series *Series) bool { return series.Len() > 0 })
		if err != nil {
			return nil, err
		}
		s.store(key, series, s.ttl.Historical)
		return series, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Series).Clone(), nil
}

// FetchRealtime returns the median consensus of every provider's quote. It
// never fails: with no usable quotes every field of the snapshot is nil.
func (s *Service) FetchRealtime(ctx context.Context, symbol string) *Snapshot {
	symbol = NormalizeSymbol(symbol)
	key := RealtimeKey(symbol)
	if snap, ok := lookup[*Snapshot](ctx, s.cache, "realtime", key); ok {
		return snap.Clone()
	}

	value, _ := s.share(ctx, key, func(ctx context.Context) (any, error) {
		observations, report := s.orch.Consensus(ctx, s.providers, symbol)
		snap := Merge(observations)
		if snap.UpdatedAt.IsZero() {
			snap.UpdatedAt = time.Now().UTC()
		}
		logx.WithContext(ctx).Infof("market: consensus symbol=%s sources=%d report=[%s]", symbol, len(snap.Sources), report)
		if !snap.Empty() {
			s.store(key, snap, s.ttl.Realtime)
		}
		return snap, nil
	})
	snap, _ := value.(*Snapshot)
	if snap == nil {
		return &Snapshot{UpdatedAt: time.Now().UTC()}
	}
	return snap.Clone()
}

// ListSupportedCoins returns the coin ids of the first provider able to list them.
func (s *Service) ListSupportedCoins(ctx context.Context) ([]string, error) {
	return s.list(ctx, "coins", CoinsKey(), func(ctx context.Context, p Provider) ([]string, error) {
		lister, ok := p.(CoinLister)
		if !ok {
			return nil, ErrNotApplicable
		}
		return lister.ListCoins(ctx)
	})
}

// ListSupportedExchanges returns the exchange ids of the first provider able to list them.
func (s *Service) ListSupportedExchanges(ctx context.Context) ([]string, error) {
	return s.list(ctx, "exchanges", ExchangesKey(), func(ctx context.Context, p Provider) ([]string, error) {
		lister, ok := p.(ExchangeLister)
		if !ok {
			return nil, ErrNotApplicable
		}
		return lister.ListExchanges(ctx)
	})
}

func (s *Service) list(ctx context.Context, op, key string, call func(context.Context, Provider) ([]string, error)) ([]string, error) {
	if ids, ok := lookup[[]string](ctx, s.cache, op, key); ok {
		return append([]string(nil), ids...), nil
	}
	value, err := s.share(ctx, key, func(ctx context.Context) (any, error) {
		ids, _, err := Fallback(ctx, s.orch, op, "", s.providers, call,
			func(ids []string) bool { return len(ids) > 0 })
		if err != nil {
			return nil, err
		}
		s.store(key, ids, s.ttl.Listing)
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), value.([]string)...), nil
}

// Volume returns the volume column of the historical series for symbol.
func (s *Service) Volume(ctx context.Context, symbol string, days int) ([]Sample, error) {
	series, err := s.FetchHistorical(ctx, symbol, days, "")
	if err != nil {
		return nil, err
	}
	samples := make([]Sample, len(series.Points))
	for i, p := range series.Points {
		samples[i] = Sample{Time: p.Time, Value: p.Volume}
	}
	return samples, nil
}

// Signals runs the whole pipeline: historical series and realtime consensus
// are fetched concurrently, indicators are derived and the response assembled.
// Only a historical failure is returned as an error.
func (s *Service) Signals(ctx context.Context, symbol string, days int, exchange string) (*Response, error) {
	symbol = NormalizeSymbol(symbol)
	var (
		series   *Series
		realtime *Snapshot
	)
	err := mr.Finish(func() error {
		var err error
		series, err = s.FetchHistorical(ctx, symbol, days, exchange)
		return err
	}, func() error {
		realtime = s.FetchRealtime(ctx, symbol)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return Assemble(symbol, series, ComputeIndicators(series), realtime), nil
}

// ClearCache drops every cached value. It is safe to call repeatedly.
func (s *Service) ClearCache() {
	if s.cache != nil {
		s.cache.Clear()
	}
}

type flightResult struct {
	value any
	err   error
}

// share runs fn once per key for all concurrent callers. fn is detached from
// the cancellation of whichever caller started it and bounded by the chain
// budget instead; each caller stops waiting when its own ctx is done.
func (s *Service) share(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	result := make(chan flightResult, 1)
	go func() {
		value, err := s.flight.Do(key, func() (any, error) {
			flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.orch.Budget(len(s.providers)))
			defer cancel()
			return fn(flightCtx)
		})
		result <- flightResult{value: value, err: err}
	}()

	select {
	case r := <-result:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) store(key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	s.cache.Set(key, value, ttl)
}

func lookup[T any](ctx context.Context, cache Cache, kind, key string) (T, bool) {
	var zero T
	if cache == nil {
		return zero, false
	}
	raw, ok := cache.Get(key)
	if !ok {
		recordCacheLookup(kind, false)
		return zero, false
	}
	value, ok := raw.(T)
	recordCacheLookup(kind, ok)
	if ok {
		logx.WithContext(ctx).Debugf("market: cache hit key=%s", key)
	}
	return value, ok
}
