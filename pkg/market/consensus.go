package market

import (
	"sort"
	"time"
)

// Merge folds observations into one snapshot. Each field is the median of
// the non-nil values reported for it; a field nobody reported stays nil.
func Merge(observations []Observation) *Snapshot {
	var prices, caps, volumes, changes []float64
	sources := make([]string, 0, len(observations))
	latest := time.Time{}
	for _, obs := range observations {
		contributed := false
		if obs.HasPrice() {
			prices = append(prices, *obs.Price)
			contributed = true
		}
		if obs.MarketCap != nil {
			caps = append(caps, *obs.MarketCap)
			contributed = true
		}
		if obs.Volume24h != nil {
			volumes = append(volumes, *obs.Volume24h)
			contributed = true
		}
		if obs.Change24h != nil {
			changes = append(changes, *obs.Change24h)
			contributed = true
		}
		if contributed {
			sources = append(sources, obs.Provider)
		}
		if obs.FetchedAt.After(latest) {
			latest = obs.FetchedAt
		}
	}
	return &Snapshot{
		Price:     medianPtr(prices),
		MarketCap: medianPtr(caps),
		Volume24h: medianPtr(volumes),
		Change24h: medianPtr(changes),
		Sources:   sources,
		UpdatedAt: latest,
	}
}

// Median returns the median of values; ok is false for an empty slice.
// The input is not modified.
func Median(values []float64) (median float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

func medianPtr(values []float64) *float64 {
	m, ok := Median(values)
	if !ok {
		return nil
	}
	return &m
}
