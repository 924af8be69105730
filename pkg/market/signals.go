package market

import (
	"math"
	"time"

	"coinsignals-api/pkg/market/indicators"
)

// Indicator names as they appear in responses.
const (
	IndicatorRSI        = "rsi"
	IndicatorMACD       = "macd"
	IndicatorSignalLine = "signal_line"
	IndicatorHistogram  = "histogram"
	IndicatorSMA20      = "sma20"
	IndicatorUpperBand  = "upper_band"
	IndicatorLowerBand  = "lower_band"
)

const (
	rsiPeriod       = 14
	smaPeriod       = 20
	bollingerPeriod = 20
	bollingerWidth  = 2.0
)

// IndicatorPoint is a defined indicator value at a series timestamp.
type IndicatorPoint struct {
	Time  time.Time `json:"timestamp"`
	Value float64   `json:"value"`
}

// IndicatorSeries holds only the timestamps where the indicator is defined.
type IndicatorSeries []IndicatorPoint

// ComputeIndicators derives the fixed indicator set from the close column of
// series. Each result omits timestamps whose lookback window is incomplete.
func ComputeIndicators(series *Series) map[string]IndicatorSeries {
	closes := series.Closes()
	macd, signal, hist := indicators.MACD(closes)
	_, upper, lower := indicators.Bollinger(closes, bollingerPeriod, bollingerWidth)

	raw := map[string][]float64{
		IndicatorRSI:        indicators.RSI(closes, rsiPeriod),
		IndicatorMACD:       macd,
		IndicatorSignalLine: signal,
		IndicatorHistogram:  hist,
		IndicatorSMA20:      indicators.SMA(closes, smaPeriod),
		IndicatorUpperBand:  upper,
		IndicatorLowerBand:  lower,
	}

	out := make(map[string]IndicatorSeries, len(raw))
	for name, values := range raw {
		out[name] = toIndicatorSeries(series, values)
	}
	return out
}

func toIndicatorSeries(series *Series, values []float64) IndicatorSeries {
	points := make(IndicatorSeries, 0, len(values))
	for i, v := range values {
		if i >= series.Len() || !isFinite(v) {
			continue
		}
		points = append(points, IndicatorPoint{Time: series.Points[i].Time, Value: v})
	}
	return points
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
