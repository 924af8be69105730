package warmer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"

	"coinsignals-api/internal/config"
	"coinsignals-api/pkg/market"
)

const (
	defaultWorkers = 4
	runTimeout     = 2 * time.Minute
)

// Fetcher is the part of market.Service the warmer drives.
type Fetcher interface {
	FetchHistorical(ctx context.Context, symbol string, days int, exchange string) (*market.Series, error)
	FetchRealtime(ctx context.Context, symbol string) *market.Snapshot
}

var _ Fetcher = (*market.Service)(nil)

// Result summarises one warm-up run.
type Result struct {
	Symbols  int
	Failures int
}

// Warmer keeps the historical and realtime cache entries of a fixed symbol
// list populated on a cron schedule.
type Warmer struct {
	cron    *cron.Cron
	fetcher Fetcher
	symbols []string
	days    int
	running atomic.Bool
}

// New returns nil when the schedule is empty.
func New(cfg config.WarmupConf, fetcher Fetcher) (*Warmer, error) {
	if strings.TrimSpace(cfg.Schedule) == "" {
		return nil, nil
	}
	w := &Warmer{
		cron:    cron.New(),
		fetcher: fetcher,
		symbols: normalise(cfg.Symbols),
		days:    cfg.Days,
	}
	if len(w.symbols) == 0 {
		return nil, fmt.Errorf("warmer: no symbols configured")
	}
	if _, err := w.cron.AddFunc(cfg.Schedule, w.tick); err != nil {
		return nil, fmt.Errorf("warmer: register schedule %q: %w", cfg.Schedule, err)
	}
	return w, nil
}

func (w *Warmer) Start() {
	w.cron.Start()
	logx.Infof("warmer: started symbols=%v days=%d", w.symbols, w.days)
}

// Stop waits for a running warm-up to finish.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
	logx.Info("warmer: stopped")
}

func (w *Warmer) tick() {
	if !w.running.CompareAndSwap(false, true) {
		logx.Info("warmer: previous run still in progress, skipping")
		return
	}
	defer w.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	w.Run(ctx)
}

// Run warms every symbol once. Historical failures are counted; realtime
// consensus never fails.
func (w *Warmer) Run(ctx context.Context) Result {
	var failures atomic.Int32
	mr.ForEach(func(source chan<- string) {
		for _, s := range w.symbols {
			source <- s
		}
	}, func(symbol string) {
		if _, err := w.fetcher.FetchHistorical(ctx, symbol, w.days, ""); err != nil {
			failures.Add(1)
			logx.WithContext(ctx).Errorf("warmer: historical symbol=%s days=%d: %v", symbol, w.days, err)
		}
		w.fetcher.FetchRealtime(ctx, symbol)
	}, mr.WithWorkers(defaultWorkers), mr.WithContext(ctx))

	res := Result{Symbols: len(w.symbols), Failures: int(failures.Load())}
	logx.WithContext(ctx).Infof("warmer: run done symbols=%d failures=%d", res.Symbols, res.Failures)
	return res
}

func normalise(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = market.NormalizeSymbol(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
