package market

import (
	"context"
	"errors"
)

// ErrNotApplicable is returned by an adapter that cannot serve a request at
// all: the credential is missing, the symbol is not in its mapping table, or
// it lacks the capability. The orchestrator skips the provider without
// charging a retry.
var ErrNotApplicable = errors.New("market: provider not applicable")

// Provider exposes a single source of realtime market data.
type Provider interface {
	// Name identifies the provider in logs, outcomes and metrics.
	Name() string
	// RequiresCredential reports whether the provider needs an API key.
	RequiresCredential() bool
	// Quote returns the provider's normalised view of symbol. Missing fields
	// are left nil.
	Quote(ctx context.Context, symbol string) (*Observation, error)
}

// HistoryProvider is implemented by providers that can return historical OHLC,
// volume and market cap sub-series.
type HistoryProvider interface {
	Provider
	History(ctx context.Context, req HistoryRequest) (*History, error)
}

// CoinLister is implemented by providers that can list supported coin ids.
type CoinLister interface {
	Provider
	ListCoins(ctx context.Context) ([]string, error)
}

// ExchangeLister is implemented by providers that can list supported exchange ids.
type ExchangeLister interface {
	Provider
	ListExchanges(ctx context.Context) ([]string, error)
}

// ProviderInfo summarises a configured provider for health output.
type ProviderInfo struct {
	Name               string   `json:"name"`
	RequiresCredential bool     `json:"requires_credential"`
	Capabilities       []string `json:"capabilities"`
}

// Describe reports the name and capabilities of p.
func Describe(p Provider) ProviderInfo {
	info := ProviderInfo{
		Name:               p.Name(),
		RequiresCredential: p.RequiresCredential(),
		Capabilities:       []string{"quote"},
	}
	if _, ok := p.(HistoryProvider); ok {
		info.Capabilities = append(info.Capabilities, "history")
	}
	if _, ok := p.(CoinLister); ok {
		info.Capabilities = append(info.Capabilities, "coins")
	}
	if _, ok := p.(ExchangeLister); ok {
		info.Capabilities = append(info.Capabilities, "exchanges")
	}
	return info
}
