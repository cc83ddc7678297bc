package stats

import "demandcast/internal/series"

// RollingWindow is the trailing window used for the level overlay.
func RollingWindow(g series.Granularity) int {
	switch g {
	case series.Daily:
		return 7
	case series.Weekly:
		return 4
	default:
		return 3
	}
}

// RollingAverage returns the trailing mean over up to window values, rounded to two decimals.
// The first entries average whatever history is available.
func RollingAverage(values []float64, window int) []float64 {
	window = max(1, window)
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := min(i+1, window)
		out[i] = Round2(sum / float64(n))
	}
	return out
}
