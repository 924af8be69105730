package market

import (
	"fmt"
	"strings"
)

// SymbolMap resolves canonical coin ids to a provider's own identifiers.
type SymbolMap struct {
	ids      map[string]string
	identity bool
}

// NewSymbolMap merges the provider's defaults with configured overrides.
// With identity set, symbols missing from the table resolve to themselves.
func NewSymbolMap(defaults, overrides map[string]string, identity bool) SymbolMap {
	ids := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		ids[NormalizeSymbol(k)] = v
	}
	for k, v := range overrides {
		if v = strings.TrimSpace(v); v != "" {
			ids[NormalizeSymbol(k)] = v
		}
	}
	return SymbolMap{ids: ids, identity: identity}
}

// Resolve returns the provider id for symbol, or ErrNotApplicable.
func (m SymbolMap) Resolve(symbol string) (string, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return "", fmt.Errorf("empty symbol: %w", ErrNotApplicable)
	}
	if id, ok := m.ids[symbol]; ok {
		return id, nil
	}
	if m.identity {
		return symbol, nil
	}
	return "", fmt.Errorf("symbol %q not mapped: %w", symbol, ErrNotApplicable)
}

// CommonTickers maps canonical ids of widely listed coins to their exchange
// ticker, for providers keyed by ticker.
var CommonTickers = map[string]string{
	"bitcoin":     "BTC",
	"ethereum":    "ETH",
	"tether":      "USDT",
	"ripple":      "XRP",
	"binancecoin": "BNB",
	"solana":      "SOL",
	"cardano":     "ADA",
	"dogecoin":    "DOGE",
	"chainlink":   "LINK",
	"litecoin":    "LTC",
	"polkadot":    "DOT",
}
