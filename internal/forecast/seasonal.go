package forecast

import "gonum.org/v1/gonum/stat"

// SeasonalNaiveModel repeats the last full season of the training data.
type SeasonalNaiveModel struct{}

func (SeasonalNaiveModel) Forecast(train []float64, horizon, seasonLength int) ([]float64, error) {
	if err := checkInput(train, horizon); err != nil {
		return nil, err
	}

	n := len(train)
	s := clampSeason(seasonLength, n)
	out := make([]float64, horizon)
	for i := range out {
		out[i] = train[n-s+i%s]
	}
	return clipAll(out), nil
}

// TrendSeasonalIndex fits an OLS line over the observation index and adds a
// zero-mean additive seasonal index built from the per-slot mean residual.
// Fewer than three points fall back to Holt.
type TrendSeasonalIndex struct{}

func (TrendSeasonalIndex) Forecast(train []float64, horizon, seasonLength int) ([]float64, error) {
	if err := checkInput(train, horizon); err != nil {
		return nil, err
	}

	n := len(train)
	if n < 3 {
		return HoltLinear{}.Forecast(train, horizon, seasonLength)
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(x, train, nil, false)

	index := SeasonalIndex(train, intercept, slope, clampSeason(seasonLength, n))
	s := len(index)

	out := make([]float64, horizon)
	for h := range out {
		t := n + h
		out[h] = intercept + slope*float64(t) + index[t%s]
	}
	return clipAll(out), nil
}

// SeasonalIndex averages the residuals around intercept + slope*i per slot i mod s,
// then shifts the slots so they sum to zero.
func SeasonalIndex(train []float64, intercept, slope float64, s int) []float64 {
	sums := make([]float64, s)
	counts := make([]int, s)
	for i, v := range train {
		sums[i%s] += v - (intercept + slope*float64(i))
		counts[i%s]++
	}

	index := make([]float64, s)
	for i := range index {
		if counts[i] > 0 {
			index[i] = sums[i] / float64(counts[i])
		}
	}

	mean := stat.Mean(index, nil)
	for i := range index {
		index[i] -= mean
	}
	return index
}
