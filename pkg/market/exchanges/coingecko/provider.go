package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"

	"coinsignals-api/pkg/market"
	"coinsignals-api/pkg/market/exchanges/restclient"
)

const (
	TypeName       = "coingecko"
	defaultBaseURL = "https://api.coingecko.com/api/v3"
	apiKeyHeader   = "x-cg-demo-api-key"
)

var (
	_ market.HistoryProvider = (*Provider)(nil)
	_ market.CoinLister      = (*Provider)(nil)
	_ market.ExchangeLister  = (*Provider)(nil)
)

// Provider reads quotes, OHLC history and listings from CoinGecko. Coin ids
// are CoinGecko ids, which are the canonical ids, so mapping is identity.
type Provider struct {
	name    string
	client  *restclient.Client
	symbols market.SymbolMap
}

// New constructs a CoinGecko provider. The api key is optional.
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

// Quote reads market_data from the coin detail endpoint.
func (p *Provider) Quote(ctx context.Context, symbol string) (*market.Observation, error) {
	id, err := p.symbols.Resolve(symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	query := url.Values{}
	query.Set("localization", "false")
	query.Set("tickers", "false")
	query.Set("community_data", "false")
	query.Set("developer_data", "false")
	doc, err := p.client.Get(ctx, "/coins/"+url.PathEscape(id), query)
	if err != nil {
		return nil, err
	}
	md := doc.Get("market_data")
	if !md.Exists() {
		return nil, fmt.Errorf("%s: market_data missing for %s", p.name, id)
	}
	return &market.Observation{
		Provider:  p.name,
		Price:     restclient.Number(md.Get("current_price.usd")),
		MarketCap: restclient.Number(md.Get("market_cap.usd")),
		Volume24h: restclient.Number(md.Get("total_volume.usd")),
		Change24h: restclient.Number(md.Get("price_change_percentage_24h")),
	}, nil
}

// History combines the OHLC endpoint with the volume and market cap columns
// of market_chart. Both are requested concurrently.
func (p *Provider) History(ctx context.Context, req market.HistoryRequest) (*market.History, error) {
	id, err := p.symbols.Resolve(req.Symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	if req.Exchange != "" {
		logx.WithContext(ctx).Debugf("%s: exchange hint %q ignored", p.name, req.Exchange)
	}
	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(req.Days))

	var ohlc, chart gjson.Result
	err = mr.Finish(func() error {
		var err error
		ohlc, err = p.client.Get(ctx, "/coins/"+url.PathEscape(id)+"/ohlc", query)
		return err
	}, func() error {
		var err error
		chart, err = p.client.Get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", query)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &market.History{
		Provider:   p.name,
		OHLC:       parseCandles(ohlc),
		Volumes:    parsePairs(chart.Get("total_volumes")),
		MarketCaps: parsePairs(chart.Get("market_caps")),
	}, nil
}

// ListCoins returns every CoinGecko coin id.
func (p *Provider) ListCoins(ctx context.Context) ([]string, error) {
	doc, err := p.client.Get(ctx, "/coins/list", nil)
	if err != nil {
		return nil, err
	}
	return restclient.Strings(doc, "id"), nil
}

// ListExchanges returns every CoinGecko exchange id.
func (p *Provider) ListExchanges(ctx context.Context) ([]string, error) {
	doc, err := p.client.Get(ctx, "/exchanges/list", nil)
	if err != nil {
		return nil, err
	}
	return restclient.Strings(doc, "id"), nil
}

// parseCandles reads [[ms, open, high, low, close], ...]; incomplete rows are dropped.
func parseCandles(doc gjson.Result) []market.Candle {
	rows := doc.Array()
	candles := make([]market.Candle, 0, len(rows))
	for _, row := range rows {
		cols := row.Array()
		if len(cols) < 5 {
			continue
		}
		ts, ok := restclient.UnixMillis(cols[0])
		if !ok {
			continue
		}
		o, h, l, c := restclient.Number(cols[1]), restclient.Number(cols[2]), restclient.Number(cols[3]), restclient.Number(cols[4])
		if o == nil || h == nil || l == nil || c == nil {
			continue
		}
		candles = append(candles, market.Candle{Time: ts, Open: *o, High: *h, Low: *l, Close: *c})
	}
	return candles
}

// parsePairs reads [[ms, value], ...].
func parsePairs(doc gjson.Result) []market.Sample {
	rows := doc.Array()
	samples := make([]market.Sample, 0, len(rows))
	for _, row := range rows {
		cols := row.Array()
		if len(cols) < 2 {
			continue
		}
		ts, ok := restclient.UnixMillis(cols[0])
		if !ok {
			continue
		}
		v := restclient.Number(cols[1])
		if v == nil {
			continue
		}
		samples = append(samples, market.Sample{Time: ts, Value: *v})
	}
	return samples
}
