package stats

import "math"

// MAE is the mean absolute error of pred against actual over their common length.
func MAE(actual, pred []float64) float64 {
	n := min(len(actual), len(pred))
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += math.Abs(actual[i] - pred[i])
	}
	return sum / float64(n)
}

// RMSE is the root mean squared error of pred against actual.
func RMSE(actual, pred []float64) float64 {
	n := min(len(actual), len(pred))
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := actual[i] - pred[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// MAPE is the mean absolute percentage error in percent. Zero actuals are
// skipped; the result is zero when none remain.
func MAPE(actual, pred []float64) float64 {
	n := min(len(actual), len(pred))
	sum := 0.0
	count := 0
	for i := 0; i < n; i++ {
		if actual[i] == 0 {
			continue
		}
		sum += math.Abs((actual[i] - pred[i]) / actual[i])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count) * 100
}
