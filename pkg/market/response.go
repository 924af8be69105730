package market

// Response is the payload returned for a signals request.
type Response struct {
	CoinID     string                     `json:"coin_id"`
	Historical []Point                    `json:"historical_data"`
	Signals    map[string]IndicatorSeries `json:"signals"`
	Realtime   *Snapshot                  `json:"realtime"`
}

// Assemble reindexes every indicator onto the timestamp domain of series,
// drops undefined values and merges the result with the realtime snapshot.
func Assemble(symbol string, series *Series, signals map[string]IndicatorSeries, realtime *Snapshot) *Response {
	domain := make(map[int64]struct{}, series.Len())
	historical := make([]Point, 0, series.Len())
	if series != nil {
		for _, p := range series.Points {
			domain[p.Time.UnixNano()] = struct{}{}
			historical = append(historical, p)
		}
	}

	aligned := make(map[string]IndicatorSeries, len(signals))
	for name, points := range signals {
		kept := make(IndicatorSeries, 0, len(points))
		for _, p := range points {
			if _, ok := domain[p.Time.UnixNano()]; !ok || !isFinite(p.Value) {
				continue
			}
			kept = append(kept, p)
		}
		aligned[name] = kept
	}

	if realtime == nil {
		realtime = &Snapshot{}
	}
	return &Response{
		CoinID:     symbol,
		Historical: historical,
		Signals:    aligned,
		Realtime:   realtime,
	}
}
