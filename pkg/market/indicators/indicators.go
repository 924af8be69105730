package indicators

import "math"

// All functions return a slice aligned with the input. Positions where the
// lookback window is incomplete hold NaN.

// SMA produces the simple moving average over a trailing window of period values.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) == 0 {
		return []float64{}
	}
	result := nanSlice(len(values))
	for i := period - 1; i < len(values); i++ {
		sum, ok := windowSum(values, i, period)
		if !ok {
			continue
		}
		result[i] = sum / float64(period)
	}
	return result
}

// RollingStdDev produces the sample (n-1) standard deviation over a trailing window.
func RollingStdDev(values []float64, period int) []float64 {
	if period <= 0 || len(values) == 0 {
		return []float64{}
	}
	result := nanSlice(len(values))
	if period < 2 {
		return result
	}
	for i := period - 1; i < len(values); i++ {
		sum, ok := windowSum(values, i, period)
		if !ok {
			continue
		}
		mean := sum / float64(period)
		var squares float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			squares += d * d
		}
		result[i] = math.Sqrt(squares / float64(period-1))
	}
	return result
}

// EMA produces the exponential moving average with smoothing 2/(period+1).
// The recursion starts at the first defined value and the output stays NaN
// until period defined values have been consumed.
func EMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) == 0 {
		return []float64{}
	}
	result := nanSlice(len(values))
	alpha := 2.0 / float64(period+1)

	var ema float64
	seen := 0
	for i, v := range values {
		if math.IsNaN(v) {
			if seen >= period {
				result[i] = ema
			}
			continue
		}
		if seen == 0 {
			ema = v
		} else {
			ema = alpha*v + (1-alpha)*ema
		}
		seen++
		if seen >= period {
			result[i] = ema
		}
	}
	return result
}

// MACD returns the MACD(12,26) line, its 9-period signal line and the histogram.
func MACD(values []float64) ([]float64, []float64, []float64) {
	if len(values) == 0 {
		return []float64{}, []float64{}, []float64{}
	}
	ema12 := EMA(values, 12)
	ema26 := EMA(values, 26)

	macd := make([]float64, len(values))
	for i := range values {
		if math.IsNaN(ema12[i]) || math.IsNaN(ema26[i]) {
			macd[i] = math.NaN()
		} else {
			macd[i] = ema12[i] - ema26[i]
		}
	}

	signal := EMA(macd, 9)
	hist := make([]float64, len(values))
	for i := range hist {
		if math.IsNaN(macd[i]) || math.IsNaN(signal[i]) {
			hist[i] = math.NaN()
		} else {
			hist[i] = macd[i] - signal[i]
		}
	}
	return macd, signal, hist
}

// RSI computes the Relative Strength Index using simple moving averages of
// gains and losses. The first value has no predecessor and counts as an
// unchanged period, so output starts at index period-1.
func RSI(values []float64, period int) []float64 {
	if period <= 0 || len(values) == 0 {
		return []float64{}
	}
	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		switch {
		case change > 0:
			gains[i] = change
		case change < 0:
			losses[i] = -change
		}
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)
	rsi := nanSlice(len(values))
	for i := range rsi {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) {
			continue
		}
		rsi[i] = computeRSI(avgGain[i], avgLoss[i])
	}
	return rsi
}

// Bollinger returns the middle band (SMA) and the bands k sample standard
// deviations above and below it.
func Bollinger(values []float64, period int, k float64) (middle, upper, lower []float64) {
	middle = SMA(values, period)
	std := RollingStdDev(values, period)
	upper = nanSlice(len(middle))
	lower = nanSlice(len(middle))
	for i := range middle {
		if math.IsNaN(middle[i]) || math.IsNaN(std[i]) {
			continue
		}
		upper[i] = middle[i] + k*std[i]
		lower[i] = middle[i] - k*std[i]
	}
	return middle, upper, lower
}

// computeRSI maps average gain and loss to RSI. Without losses RS is
// unbounded and RSI is 100.
func computeRSI(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

func windowSum(values []float64, end, period int) (float64, bool) {
	sum := 0.0
	for j := end - period + 1; j <= end; j++ {
		if math.IsNaN(values[j]) {
			return 0, false
		}
		sum += values[j]
	}
	return sum, true
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
