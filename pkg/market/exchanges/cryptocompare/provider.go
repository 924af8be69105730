package cryptocompare

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"coinsignals-api/pkg/market"
	"coinsignals-api/pkg/market/exchanges/restclient"
)

const (
	TypeName       = "cryptocompare"
	defaultBaseURL = "https://min-api.cryptocompare.com"
)

// Provider reads CryptoCompare full price data. It requires an api key.
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
	options := restclient.ConfigOptions(cfg)
	if cfg.APIKey != "" {
		options = append(options, restclient.WithHeader("Authorization", "Apikey "+cfg.APIKey))
	}
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

// Quote reads RAW.<SYM>.USD. Volume is the quote-currency (USD) volume.
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
	query.Set("fsyms", ticker)
	query.Set("tsyms", "USD")
	doc, err := p.client.Get(ctx, "/data/pricemultifull", query)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(doc.Get("Response").String(), "Error") {
		return nil, fmt.Errorf("%s: %s", p.name, doc.Get("Message").String())
	}
	raw := doc.Get("RAW").Get(ticker).Get("USD")
	if !raw.IsObject() {
		return nil, fmt.Errorf("%s: no USD data for %s", p.name, ticker)
	}
	return &market.Observation{
		Provider:  p.name,
		Price:     restclient.Number(raw.Get("PRICE")),
		MarketCap: restclient.Number(raw.Get("MKTCAP")),
		Volume24h: restclient.Number(raw.Get("VOLUME24HOURTO")),
		Change24h: restclient.Number(raw.Get("CHANGEPCT24HOUR")),
	}, nil
}
