package coincap

import (
	"context"
	"fmt"
	"net/url"

	"coinsignals-api/pkg/market"
	"coinsignals-api/pkg/market/exchanges/restclient"
)

const (
	TypeName       = "coincap"
	defaultBaseURL = "https://api.coincap.io"
	listLimit      = "2000"
)

var (
	_ market.CoinLister     = (*Provider)(nil)
	_ market.ExchangeLister = (*Provider)(nil)
)

// Provider reads CoinCap asset quotes. CoinCap encodes every number as a
// string.
type Provider struct {
	name    string
	client  *restclient.Client
	symbols market.SymbolMap
}

// New constructs a CoinCap provider. A configured api key is sent as a bearer token.
func New(name string, cfg *market.ProviderConfig, opts ...restclient.Option) *Provider {
	if cfg == nil {
		cfg = &market.ProviderConfig{}
	}
	if name == "" {
		name = TypeName
	}
	options := restclient.ConfigOptions(cfg)
	if cfg.APIKey != "" {
		options = append(options, restclient.WithHeader("Authorization", "Bearer "+cfg.APIKey))
	}
	return &Provider{
		name:    name,
		client:  restclient.New(name, defaultBaseURL, append(options, opts...)...),
		symbols: market.NewSymbolMap(nil, cfg.Symbols, true),
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
	doc, err := p.client.Get(ctx, "/v2/assets/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	data := doc.Get("data")
	if !data.IsObject() {
		return nil, fmt.Errorf("%s: no asset data for %s", p.name, id)
	}
	return &market.Observation{
		Provider:  p.name,
		Price:     restclient.Number(data.Get("priceUsd")),
		MarketCap: restclient.Number(data.Get("marketCapUsd")),
		Volume24h: restclient.Number(data.Get("volumeUsd24Hr")),
		Change24h: restclient.Number(data.Get("changePercent24Hr")),
	}, nil
}

func (p *Provider) ListCoins(ctx context.Context) ([]string, error) {
	query := url.Values{}
	query.Set("limit", listLimit)
	doc, err := p.client.Get(ctx, "/v2/assets", query)
	if err != nil {
		return nil, err
	}
	return restclient.Strings(doc.Get("data"), "id"), nil
}

func (p *Provider) ListExchanges(ctx context.Context) ([]string, error) {
	doc, err := p.client.Get(ctx, "/v2/exchanges", nil)
	if err != nil {
		return nil, err
	}
	return restclient.Strings(doc.Get("data"), "exchangeId"), nil
}
