package regime

import (
	"math"
	"sort"
)

// Rolling statistics over trailing windows. Undefined values are NaN; a
// window containing any NaN yields NaN, so warm-up propagates through the
// pipeline without special cases.

// simpleReturns computes (p[t] / p[t-1]) - 1, NaN at index 0.
func simpleReturns(prices []float64) []float64 {
	out := make([]float64, len(prices))
	if len(out) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(prices); i++ {
		out[i] = prices[i]/prices[i-1] - 1
	}
	return out
}

// rollingStd computes the trailing sample standard deviation (ddof=1).
// A window below 2 never defines a value.
func rollingStd(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for t := range xs {
		out[t] = math.NaN()
		if window < 2 || t+1 < window {
			continue
		}
		win := xs[t+1-window : t+1]
		if hasNaN(win) {
			continue
		}
		sum, sum2 := 0.0, 0.0
		for _, x := range win {
			sum += x
			sum2 += x * x
		}
		n := float64(window)
		mean := sum / n
		variance := (sum2 - n*mean*mean) / (n - 1)
		if variance < 0 {
			variance = 0
		}
		out[t] = math.Sqrt(variance)
	}
	return out
}

// rollingMedian computes the trailing median over window points.
func rollingMedian(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	buf := make([]float64, window)
	for t := range xs {
		out[t] = math.NaN()
		if window < 1 || t+1 < window {
			continue
		}
		win := xs[t+1-window : t+1]
		if hasNaN(win) {
			continue
		}
		copy(buf, win)
		sort.Float64s(buf)
		if window%2 == 1 {
			out[t] = buf[window/2]
		} else {
			out[t] = (buf[window/2-1] + buf[window/2]) / 2
		}
	}
	return out
}

// simpleSlope computes (p[t] - p[t-lookback]) / lookback, the average price
// change per bar over the lookback. NaN for the first lookback points.
func simpleSlope(prices []float64, lookback int) []float64 {
	out := make([]float64, len(prices))
	for t := range prices {
		if t < lookback {
			out[t] = math.NaN()
			continue
		}
		out[t] = (prices[t] - prices[t-lookback]) / float64(lookback)
	}
	return out
}

func hasNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
