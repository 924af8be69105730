package config

import (
	"coinsignals-api/pkg/market"
)

// MustLoadMarket loads etc/market.yaml from the project root and panics on error.
// Tools that only need the provider chain use it instead of the main config.
func MustLoadMarket() *market.Config {
	return market.MustLoad()
}

// MustBuildMarketProviders builds the configured provider chain in priority order.
func MustBuildMarketProviders() ([]market.Provider, *market.Orchestrator) {
	cfg := MustLoadMarket()
	providers, err := cfg.BuildProviders()
	if err != nil {
		panic(err)
	}
	return providers, cfg.Orchestrator()
}
