package coinpaprika

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"coinsignals-api/pkg/market"
	"coinsignals-api/pkg/market/exchanges/restclient"
)

const (
	TypeName       = "coinpaprika"
	defaultBaseURL = "https://api.coinpaprika.com"
	dateLayout     = "2006-01-02"
)

var defaultIDs = map[string]string{
	"bitcoin":     "btc-bitcoin",
	"ethereum":    "eth-ethereum",
	"tether":      "usdt-tether",
	"ripple":      "xrp-xrp",
	"binancecoin": "bnb-binance-coin",
	"solana":      "sol-solana",
	"cardano":     "ada-cardano",
	"dogecoin":    "doge-dogecoin",
	"chainlink":   "link-chainlink",
	"litecoin":    "ltc-litecoin",
	"polkadot":    "dot-polkadot",
}

var (
	_ market.HistoryProvider = (*Provider)(nil)
	_ market.CoinLister      = (*Provider)(nil)
	_ market.ExchangeLister  = (*Provider)(nil)
)

// Provider reads CoinPaprika tickers and daily OHLCV. It requires an api key.
type Provider struct {
	name    string
	apiKey  string
	client  *restclient.Client
	symbols market.SymbolMap
	now     func() time.Time
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
		options = append(options, restclient.WithHeader("Authorization", "Bearer "+cfg.APIKey))
	}
	return &Provider{
		name:    name,
		apiKey:  cfg.APIKey,
		client:  restclient.New(name, defaultBaseURL, append(options, opts...)...),
		symbols: market.NewSymbolMap(defaultIDs, cfg.Symbols, false),
		now:     time.Now,
	}
}

func init() {
	market.RegisterProvider(TypeName, func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		return New(name, cfg), nil
	})
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) RequiresCredential() bool { return true }

func (p *Provider) resolve(symbol string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("%s: api key missing: %w", p.name, market.ErrNotApplicable)
	}
	id, err := p.symbols.Resolve(symbol)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.name, err)
	}
	return id, nil
}

func (p *Provider) Quote(ctx context.Context, symbol string) (*market.Observation, error) {
	id, err := p.resolve(symbol)
	if err != nil {
		return nil, err
	}
	doc, err := p.client.Get(ctx, "/v1/tickers/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	usd := doc.Get("quotes.USD")
	if !usd.IsObject() {
		return nil, fmt.Errorf("%s: no USD quote for %s", p.name, id)
	}
	return &market.Observation{
		Provider:  p.name,
		Price:     restclient.Number(usd.Get("price")),
		MarketCap: restclient.Number(usd.Get("market_cap")),
		Volume24h: restclient.Number(usd.Get("volume_24h")),
		Change24h: restclient.Number(usd.Get("percent_change_24h")),
	}, nil
}

// History requests daily OHLCV rows covering the last req.Days days. Each
// row carries its own volume and market cap, so all three sub-series share
// the same timestamps.
func (p *Provider) History(ctx context.Context, req market.HistoryRequest) (*market.History, error) {
	id, err := p.resolve(req.Symbol)
	if err != nil {
		return nil, err
	}
	end := p.now().UTC()
	query := url.Values{}
	query.Set("start", end.AddDate(0, 0, -req.Days).Format(dateLayout))
	query.Set("end", end.Format(dateLayout))
	query.Set("limit", "366")
	doc, err := p.client.Get(ctx, "/v1/coins/"+url.PathEscape(id)+"/ohlcv/historical", query)
	if err != nil {
		return nil, err
	}

	history := &market.History{Provider: p.name}
	doc.ForEach(func(_, row gjson.Result) bool {
		ts, err := time.Parse(time.RFC3339, row.Get("time_open").String())
		if err != nil {
			return true
		}
		ts = ts.UTC()
		o, h, l, c := restclient.Number(row.Get("open")), restclient.Number(row.Get("high")),
			restclient.Number(row.Get("low")), restclient.Number(row.Get("close"))
		if o != nil && h != nil && l != nil && c != nil {
			history.OHLC = append(history.OHLC, market.Candle{Time: ts, Open: *o, High: *h, Low: *l, Close: *c})
		}
		if v := restclient.Number(row.Get("volume")); v != nil {
			history.Volumes = append(history.Volumes, market.Sample{Time: ts, Value: *v})
		}
		if mc := restclient.Number(row.Get("market_cap")); mc != nil {
			history.MarketCaps = append(history.MarketCaps, market.Sample{Time: ts, Value: *mc})
		}
		return true
	})
	return history, nil
}

func (p *Provider) ListCoins(ctx context.Context) ([]string, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%s: api key missing: %w", p.name, market.ErrNotApplicable)
	}
	doc, err := p.client.Get(ctx, "/v1/coins", nil)
	if err != nil {
		return nil, err
	}
	return restclient.Strings(doc, "id"), nil
}

func (p *Provider) ListExchanges(ctx context.Context) ([]string, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%s: api key missing: %w", p.name, market.ErrNotApplicable)
	}
	doc, err := p.client.Get(ctx, "/v1/exchanges", nil)
	if err != nil {
		return nil, err
	}
	return restclient.Strings(doc, "id"), nil
}
