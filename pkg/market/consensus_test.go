package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		ok     bool
	}{
		{"empty", nil, 0, false},
		{"single", []float64{7}, 7, true},
		{"even", []float64{20, 10}, 15, true},
		{"odd", []float64{30, 10, 20}, 20, true},
		{"outlier", []float64{100, 101, 99, 5000}, 100.5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.values)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_, _ = Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestMergePerFieldMedian(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	observations := []Observation{
		{Provider: "a", FetchedAt: t0, Price: Float(10), MarketCap: Float(1000)},
		{Provider: "b", FetchedAt: t0.Add(time.Second), Price: Float(20), Volume24h: Float(5)},
		{Provider: "c", FetchedAt: t0.Add(2 * time.Second), Price: Float(30), MarketCap: Float(3000)},
		{Provider: "d", FetchedAt: t0.Add(time.Hour)},
	}

	snap := Merge(observations)
	require.NotNil(t, snap.Price)
	assert.InDelta(t, 20.0, *snap.Price, 1e-12)
	require.NotNil(t, snap.MarketCap)
	assert.InDelta(t, 2000.0, *snap.MarketCap, 1e-12)
	require.NotNil(t, snap.Volume24h)
	assert.InDelta(t, 5.0, *snap.Volume24h, 1e-12)
	assert.Nil(t, snap.Change24h, "no provider reported change")
	assert.Equal(t, []string{"a", "b", "c"}, snap.Sources, "d contributed nothing")
	assert.Equal(t, t0.Add(time.Hour), snap.UpdatedAt)
}

func TestMergeEmpty(t *testing.T) {
	snap := Merge(nil)
	assert.True(t, snap.Empty())
	assert.Nil(t, snap.Price)
	assert.Empty(t, snap.Sources)
}

func TestSnapshotClone(t *testing.T) {
	snap := &Snapshot{Price: Float(1), Sources: []string{"a"}}
	c := snap.Clone()
	*c.Price = 2
	c.Sources[0] = "b"
	assert.InDelta(t, 1.0, *snap.Price, 1e-12)
	assert.Equal(t, "a", snap.Sources[0])
}
