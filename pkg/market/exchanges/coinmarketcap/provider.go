package coinmarketcap

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"coinsignals-api/pkg/market"
	"coinsignals-api/pkg/market/exchanges/restclient"
)

const (
	TypeName       = "coinmarketcap"
	defaultBaseURL = "https://pro-api.coinmarketcap.com"
	apiKeyHeader   = "X-CMC_PRO_API_KEY"
)

// Provider reads CoinMarketCap latest quotes. It requires an api key.
type Provider struct {
	name    string
	apiKey  string
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
	options := append(restclient.ConfigOptions(cfg), restclient.WithHeader(apiKeyHeader, cfg.APIKey))
	return &Provider{
		name:    name,
		apiKey:  cfg.APIKey,
		client:  restclient.New(name, defaultBaseURL, append(options, opts...)...),
		symbols: market.NewSymbolMap(market.CommonTickers, cfg.Symbols, false),
	}
}

func init() {
	market.RegisterProvider(TypeName, func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		return New(name, cfg), nil
	})
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) RequiresCredential() bool { return true }

func (p *Provider) Quote(ctx context.Context, symbol string) (*market.Observation, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%s: api key missing: %w", p.name, market.ErrNotApplicable)
	}
	ticker, err := p.symbols.Resolve(symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	ticker = strings.ToUpper(ticker)

	query := url.Values{}
	query.Set("symbol", ticker)
	query.Set("convert", "USD")
	doc, err := p.client.Get(ctx, "/v1/cryptocurrency/quotes/latest", query)
	if err != nil {
		return nil, err
	}
	if code := doc.Get("status.error_code").Int(); code != 0 {
		return nil, fmt.Errorf("%s: error %d: %s", p.name, code, doc.Get("status.error_message").String())
	}
	usd := doc.Get("data").Get(ticker).Get("quote.USD")
	if !usd.IsObject() {
		return nil, fmt.Errorf("%s: no USD quote for %s", p.name, ticker)
	}
	return &market.Observation{
		Provider:  p.name,
		Price:     restclient.Number(usd.Get("price")),
		MarketCap: restclient.Number(usd.Get("market_cap")),
		Volume24h: restclient.Number(usd.Get("volume_24h")),
		Change24h: restclient.Number(usd.Get("percent_change_24h")),
	}, nil
}
