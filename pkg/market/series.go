package market

import (
	"context"
	"sort"
	"time"
)

// DailyResampleMaxDays is the largest requested range that is collapsed to
// one point per UTC day.
const DailyResampleMaxDays = 90

// BuildSeries joins the sub-series of h and, for ranges of up to
// DailyResampleMaxDays, resamples the result to daily points.
func BuildSeries(symbol string, days int, h *History) *Series {
	series := &Series{Symbol: symbol, Days: days}
	if h.Empty() {
		return series
	}
	points := JoinHistory(*h)
	if days <= DailyResampleMaxDays {
		points = ResampleDaily(points)
	}
	series.Points = points
	return series
}

// HistorySeries fetches req from p and builds its series. A provider without
// the history capability is not applicable.
func HistorySeries(ctx context.Context, p Provider, req HistoryRequest) (*Series, error) {
	hp, ok := p.(HistoryProvider)
	if !ok {
		return nil, ErrNotApplicable
	}
	h, err := hp.History(ctx, req)
	if err != nil {
		return nil, err
	}
	return BuildSeries(req.Symbol, req.Days, h), nil
}

// JoinHistory inner-joins OHLC candles with volume and market cap samples on
// exact timestamp equality. The result is sorted with unique timestamps;
// candles lacking either a volume or a market cap sample are dropped.
func JoinHistory(h History) []Point {
	volumes := indexSamples(h.Volumes)
	caps := indexSamples(h.MarketCaps)

	candles := make([]Candle, len(h.OHLC))
	copy(candles, h.OHLC)
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	points := make([]Point, 0, len(candles))
	for _, c := range candles {
		key := c.Time.UnixNano()
		volume, ok := volumes[key]
		if !ok {
			continue
		}
		marketCap, ok := caps[key]
		if !ok {
			continue
		}
		if n := len(points); n > 0 && points[n-1].Time.Equal(c.Time) {
			continue
		}
		points = append(points, Point{
			Time:      c.Time.UTC(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    volume,
			MarketCap: marketCap,
		})
	}
	return points
}

func indexSamples(samples []Sample) map[int64]float64 {
	index := make(map[int64]float64, len(samples))
	for _, s := range samples {
		key := s.Time.UnixNano()
		if _, seen := index[key]; seen {
			continue
		}
		index[key] = s.Value
	}
	return index
}

// ResampleDaily collapses sorted points into one point per UTC calendar day:
// open first, high max, low min, close last, volume summed, market cap last.
// Days without points do not appear in the output.
func ResampleDaily(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]Point, 0, len(points))
	var current Point
	var day time.Time
	open := false
	for _, p := range points {
		d := p.Time.UTC().Truncate(24 * time.Hour)
		if !open || !d.Equal(day) {
			if open {
				out = append(out, current)
			}
			day = d
			current = Point{
				Time:      d,
				Open:      p.Open,
				High:      p.High,
				Low:       p.Low,
				Close:     p.Close,
				Volume:    p.Volume,
				MarketCap: p.MarketCap,
			}
			open = true
			continue
		}
		if p.High > current.High {
			current.High = p.High
		}
		if p.Low < current.Low {
			current.Low = p.Low
		}
		current.Close = p.Close
		current.Volume += p.Volume
		current.MarketCap = p.MarketCap
	}
	if open {
		out = append(out, current)
	}
	return out
}
