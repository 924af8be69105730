package market

import (
	"time"
)

// Observation is one provider's view of the realtime market for a symbol.
// Any of the numeric fields may be nil when the provider did not report it.
type Observation struct {
	Provider  string
	FetchedAt time.Time
	Price     *float64 // USD
	MarketCap *float64 // USD
	Volume24h *float64 // USD
	Change24h *float64 // percent
}

// HasPrice reports whether the observation carries a usable price.
func (o *Observation) HasPrice() bool {
	return o != nil && o.Price != nil
}

// Snapshot is the consensus of every observation gathered in one request.
type Snapshot struct {
	Price     *float64  `json:"price"`
	MarketCap *float64  `json:"market_cap"`
	Volume24h *float64  `json:"volume_24h"`
	Change24h *float64  `json:"change_24h"`
	Sources   []string  `json:"sources"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Empty reports whether no field of the snapshot is defined.
func (s *Snapshot) Empty() bool {
	return s == nil || (s.Price == nil && s.MarketCap == nil && s.Volume24h == nil && s.Change24h == nil)
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Price:     cloneFloat(s.Price),
		MarketCap: cloneFloat(s.MarketCap),
		Volume24h: cloneFloat(s.Volume24h),
		Change24h: cloneFloat(s.Change24h),
		UpdatedAt: s.UpdatedAt,
	}
	if s.Sources != nil {
		out.Sources = append([]string(nil), s.Sources...)
	}
	return out
}

// Point is one aligned OHLCV record.
type Point struct {
	Time      time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	MarketCap float64   `json:"market_cap"`
}

// Series is an OHLCV series ordered by strictly increasing timestamps.
type Series struct {
	Symbol string
	Days   int
	Points []Point
}

// Len returns the number of points.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Closes extracts the close column.
func (s *Series) Closes() []float64 {
	if s == nil {
		return nil
	}
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Clone returns a copy that shares nothing with s.
func (s *Series) Clone() *Series {
	if s == nil {
		return nil
	}
	points := make([]Point, len(s.Points))
	copy(points, s.Points)
	return &Series{Symbol: s.Symbol, Days: s.Days, Points: points}
}

// Candle is a raw OHLC bar as reported by a history provider.
type Candle struct {
	Time  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Sample is a raw timestamped value (volume, market cap).
type Sample struct {
	Time  time.Time `json:"timestamp"`
	Value float64   `json:"value"`
}

// History bundles the three sub-series a history provider returns. They are
// joined on timestamp by BuildSeries.
type History struct {
	Provider   string
	OHLC       []Candle
	Volumes    []Sample
	MarketCaps []Sample
}

// Empty reports whether the history has no OHLC data to join.
func (h *History) Empty() bool {
	return h == nil || len(h.OHLC) == 0
}

// HistoryRequest describes a historical lookup.
type HistoryRequest struct {
	Symbol   string
	Days     int
	Exchange string // optional venue hint
}

// Float returns a pointer to v, for populating optional fields.
func Float(v float64) *float64 {
	return &v
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
