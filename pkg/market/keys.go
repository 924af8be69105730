package market

import (
	"strconv"
	"strings"
	"time"
)

// KeyNamespace prefixes every cache key built by this package.
const KeyNamespace = "coinsignals"

// Cache is the key/value store the Service keeps fetched data in. Values are
// owned by the cache once stored.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Clear()
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, KeyNamespace)
	for _, part := range parts {
		clean := strings.ToLower(strings.TrimSpace(part))
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// HistoricalKey identifies a cached OHLCV series.
func HistoricalKey(symbol string, days int, exchange string) string {
	return formatKey("historical", symbol, strconv.Itoa(days), exchange)
}

// RealtimeKey identifies a cached consensus snapshot.
func RealtimeKey(symbol string) string {
	return formatKey("realtime", symbol)
}

// CoinsKey identifies the cached coin list.
func CoinsKey() string {
	return formatKey("coins")
}

// ExchangesKey identifies the cached exchange list.
func ExchangesKey() string {
	return formatKey("exchanges")
}
