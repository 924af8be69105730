package coinlore

import (
	"context"
	"fmt"
	"net/url"

	"coinsignals-api/pkg/market"
	"coinsignals-api/pkg/market/exchanges/restclient"
)

const (
	TypeName       = "coinlore"
	defaultBaseURL = "https://api.coinlore.net"
)

// CoinLore keys tickers by numeric id.
var defaultIDs = map[string]string{
	"bitcoin":     "90",
	"ethereum":    "80",
	"tether":      "518",
	"ripple":      "58",
	"binancecoin": "2710",
	"solana":      "48543",
	"cardano":     "257",
	"dogecoin":    "2",
	"chainlink":   "2751",
	"litecoin":    "1",
	"polkadot":    "45219",
}

// Provider reads CoinLore tickers.
type Provider struct {
	name    string
	client  *restclient.Client
	symbols market.SymbolMap
}

func New(name string, cfg *market.ProviderConfig, opts ...restclient.Option) *Provider {
	if cfg == nil {
		cfg = &market.ProviderConfig{}
	}
	if name == "" {
		name = TypeName
	}
	return &Provider{
		name:    name,
		client:  restclient.New(name, defaultBaseURL, append(restclient.ConfigOptions(cfg), opts...)...),
		symbols: market.NewSymbolMap(defaultIDs, cfg.Symbols, false),
	}
}

func init() {
	market.RegisterProvider(TypeName, func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		return New(name, cfg), nil
	})
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) RequiresCredential() bool { return false }

func (p *Provider) Quote(ctx context.Context, symbol string) (*market.Observation, error) {
	id, err := p.symbols.Resolve(symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	query := url.Values{}
	query.Set("id", id)
	doc, err := p.client.Get(ctx, "/api/ticker/", query)
	if err != nil {
		return nil, err
	}
	ticker := doc.Get("0")
	if !ticker.IsObject() {
		return nil, fmt.Errorf("%s: no ticker for id %s", p.name, id)
	}
	return &market.Observation{
		Provider:  p.name,
		Price:     restclient.Number(ticker.Get("price_usd")),
		MarketCap: restclient.Number(ticker.Get("market_cap_usd")),
		Volume24h: restclient.Number(ticker.Get("volume24")),
		Change24h: restclient.Number(ticker.Get("percent_change_24h")),
	}, nil
}
