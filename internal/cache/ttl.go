package cache

import (
	"time"

	"coinsignals-api/internal/config"
	"coinsignals-api/pkg/market"
)

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLRealtime   TTLClass = "realtime"
	TTLHistorical TTLClass = "historical"
	TTLListing    TTLClass = "listing"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Realtime   time.Duration
	Historical time.Duration
	Listing    time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheConf) TTLSet {
	return TTLSet{
		Realtime:   durationOrDefault(cfg.Realtime, time.Minute),
		Historical: durationOrDefault(cfg.Historical, 5*time.Minute),
		Listing:    durationOrDefault(cfg.Listing, time.Hour),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLRealtime:
		return t.Realtime
	case TTLHistorical:
		return t.Historical
	case TTLListing:
		return t.Listing
	default:
		return 0
	}
}

// Market returns the set in the shape market.Service expects.
func (t TTLSet) Market() market.TTLs {
	return market.TTLs{
		Realtime:   t.Duration(TTLRealtime),
		Historical: t.Duration(TTLHistorical),
		Listing:    t.Duration(TTLListing),
	}
}
