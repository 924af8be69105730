package svc

import (
	"log"

	"coinsignals-api/internal/cache"
	"coinsignals-api/internal/config"
	"coinsignals-api/pkg/confkit"
	marketpkg "coinsignals-api/pkg/market"
	_ "coinsignals-api/pkg/market/exchanges/coincap"
	_ "coinsignals-api/pkg/market/exchanges/coingecko"
	_ "coinsignals-api/pkg/market/exchanges/coinlore"
	_ "coinsignals-api/pkg/market/exchanges/coinmarketcap"
	_ "coinsignals-api/pkg/market/exchanges/coinpaprika"
	_ "coinsignals-api/pkg/market/exchanges/cryptocompare"
)

type ServiceContext struct {
	Config config.Config

	MarketConfig    *marketpkg.Config
	MarketProviders []marketpkg.Provider

	TTL    cache.TTLSet
	Cache  *cache.Store
	Market *marketpkg.Service
}

func NewServiceContext(c config.Config, mainConfigPath string) *ServiceContext {
	if !c.Market.Loaded() {
		if err := c.Market.HydrateDefault(confkit.BaseDir(mainConfigPath), config.DefaultMarketFile, marketpkg.LoadConfig); err != nil {
			log.Fatalf("failed to load market config: %v", err)
		}
	}
	marketCfg := c.Market.Value
	if marketCfg == nil {
		marketCfg = config.MustLoadMarket()
	}

	providers, err := marketCfg.BuildProviders()
	if err != nil {
		log.Fatalf("failed to build market providers: %v", err)
	}
	if len(providers) == 0 {
		log.Fatalf("market config has no enabled providers")
	}

	svc, err := NewWithProviders(c, providers, marketCfg.Orchestrator())
	if err != nil {
		log.Fatalf("failed to init cache: %v", err)
	}
	svc.MarketConfig = marketCfg
	return svc
}

// NewWithProviders builds a context around an explicit provider chain.
func NewWithProviders(c config.Config, providers []marketpkg.Provider, orch *marketpkg.Orchestrator) (*ServiceContext, error) {
	store, err := cache.NewStore(c.Cache.Capacity)
	if err != nil {
		return nil, err
	}
	ttl := cache.NewTTLSet(c.Cache)
	return &ServiceContext{
		Config:          c,
		MarketProviders: providers,
		TTL:             ttl,
		Cache:           store,
		Market: marketpkg.NewService(providers, store,
			marketpkg.WithOrchestrator(orch),
			marketpkg.WithTTLs(ttl.Market())),
	}, nil
}
