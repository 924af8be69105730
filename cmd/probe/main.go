package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinsignals-api/internal/cli"
	"coinsignals-api/internal/config"
	"coinsignals-api/pkg/market"
	_ "coinsignals-api/pkg/market/exchanges/coincap"
	_ "coinsignals-api/pkg/market/exchanges/coingecko"
	_ "coinsignals-api/pkg/market/exchanges/coinlore"
	_ "coinsignals-api/pkg/market/exchanges/coinmarketcap"
	_ "coinsignals-api/pkg/market/exchanges/coinpaprika"
	_ "coinsignals-api/pkg/market/exchanges/cryptocompare"
)

const probeTimeout = 90 * time.Second

var (
	configFile = flag.String("f", "etc/coinsignals.yaml", "the config file")
	symbol     = flag.String("symbol", "bitcoin", "coin id to probe")
	days       = flag.Int("days", 30, "history range in days, 0 to skip history")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	appCfg, err := config.Load(*configFile)
	if err != nil {
		log.Printf("[probe] Warning: failed to load app config: %v", err)
		appCfg = &config.Config{Env: "test"}
	}
	for _, line := range cli.ConfigSummaryLines(appCfg) {
		log.Printf("  - %s", line)
	}

	var (
		providers []market.Provider
		orch      *market.Orchestrator
	)
	if marketCfg := appCfg.Market.Value; marketCfg != nil {
		providers, err = marketCfg.BuildProviders()
		if err != nil {
			log.Fatalf("[probe] build providers: %v", err)
		}
		orch = marketCfg.Orchestrator()
	} else {
		providers, orch = config.MustBuildMarketProviders()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	sym := market.NormalizeSymbol(*symbol)
	probeQuotes(ctx, orch, providers, sym)
	if *days > 0 {
		probeHistory(ctx, orch, providers, sym, *days)
	}
}

// probeQuotes prints each provider's outcome and the merged consensus.
func probeQuotes(ctx context.Context, orch *market.Orchestrator, providers []market.Provider, sym string) {
	start := time.Now()
	observations, report := orch.Consensus(ctx, providers, sym)
	elapsed := time.Since(start)

	byProvider := make(map[string]market.Observation, len(observations))
	for _, o := range observations {
		byProvider[o.Provider] = o
	}
	for _, outcome := range report {
		switch outcome.Status {
		case market.OutcomeSuccess:
			o := byProvider[outcome.Provider]
			log.Printf("[quote.%s] [OK] price=%s market_cap=%s volume_24h=%s change_24h=%s",
				outcome.Provider, num(o.Price), num(o.MarketCap), num(o.Volume24h), num(o.Change24h))
		case market.OutcomeSkipped:
			log.Printf("[quote.%s] [SKIP] %v", outcome.Provider, outcome.Err)
		default:
			log.Printf("[quote.%s] [ERROR] %v", outcome.Provider, outcome.Err)
		}
	}

	snap := market.Merge(observations)
	log.Printf("[consensus.%s] price=%s market_cap=%s volume_24h=%s change_24h=%s sources=%v, took %dms",
		sym, num(snap.Price), num(snap.MarketCap), num(snap.Volume24h), num(snap.Change24h),
		snap.Sources, elapsed.Milliseconds())
}

func probeHistory(ctx context.Context, orch *market.Orchestrator, providers []market.Provider, sym string, days int) {
	start := time.Now()
	req := market.HistoryRequest{Symbol: sym, Days: days}
	series, report, err := market.Fallback(ctx, orch, "history", sym, providers,
		func(ctx context.Context, p market.Provider) (*market.Series, error) {
			return market.HistorySeries(ctx, p, req)
		},
		func(s *market.Series) bool { return s.Len() > 0 })
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("[history.%s] [ERROR] %v, took %dms", sym, err, elapsed.Milliseconds())
		return
	}
	first, last := series.Points[0], series.Points[series.Len()-1]
	log.Printf("[history.%s] [OK] via %v points=%d from=%s to=%s last_close=%.4f, took %dms",
		sym, report.Succeeded(), series.Len(), first.Time.Format(time.DateOnly), last.Time.Format(time.DateOnly),
		last.Close, elapsed.Milliseconds())

	signals := market.ComputeIndicators(series)
	for _, name := range []string{market.IndicatorRSI, market.IndicatorMACD, market.IndicatorSMA20} {
		points := signals[name]
		if len(points) == 0 {
			log.Printf("  - %s: not enough data", name)
			continue
		}
		log.Printf("  - %s: %.4f", name, points[len(points)-1].Value)
	}
}

func num(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}
