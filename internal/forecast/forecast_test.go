package forecast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestHolt_TwoPoints(t *testing.T) {
	got, err := HoltLinear{}.Forecast([]float64{10, 12}, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{14, 16, 18}, got)
}

func TestHolt_SinglePointRepeats(t *testing.T) {
	got, err := HoltLinear{}.Forecast([]float64{42}, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{42, 42, 42}, got)

	got, err = HoltLinear{}.Forecast([]float64{-3}, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, got)
}

func TestHolt_LinearContinues(t *testing.T) {
	got, err := HoltLinear{}.Forecast(linear(10, 1, 1), 2, 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 12}, got)
}

func TestHolt_ClipsNegativeTrend(t *testing.T) {
	got, err := HoltLinear{}.Forecast([]float64{10, 8, 6, 4, 2}, 4, 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, got)
}

func TestFitHolt_TieKeepsFirstPair(t *testing.T) {
	fit, err := FitHolt(make([]float64, 8))
	require.NoError(t, err)
	assert.Equal(t, 0.1, fit.Alpha)
	assert.Equal(t, 0.1, fit.Beta)
	assert.Zero(t, fit.MAE)
}

func TestFitHolt_Deterministic(t *testing.T) {
	train := []float64{12, 15, 11, 19, 14, 22, 17, 25, 13, 28, 21, 30}
	first, err := FitHolt(train)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := FitHolt(train)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSeasonalNaive(t *testing.T) {
	train := linear(14, 1, 1)

	got, err := SeasonalNaiveModel{}.Forecast(train, 7, 7)
	require.NoError(t, err)
	assert.Equal(t, train[7:14], got)

	got, err = SeasonalNaiveModel{}.Forecast(train, 10, 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 9, 10, 11, 12, 13, 14, 8, 9, 10}, got)
}

func TestSeasonalNaive_SeasonLongerThanHistory(t *testing.T) {
	got, err := SeasonalNaiveModel{}.Forecast([]float64{1, 2, 3}, 4, 12)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 1}, got)
}

func TestTrendSeasonal_Linear(t *testing.T) {
	got, err := TrendSeasonalIndex{}.Forecast(linear(10, 0, 2), 2, 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 22}, got)
}

func TestTrendSeasonal_ShortFallsBackToHolt(t *testing.T) {
	train := []float64{10, 12}
	want, err := HoltLinear{}.Forecast(train, 3, 7)
	require.NoError(t, err)

	got, err := TrendSeasonalIndex{}.Forecast(train, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTrendSeasonal_NonNegativeAndRounded(t *testing.T) {
	train := []float64{50, 5, 40, 3, 30, 2, 20, 1, 10, 0}
	got, err := TrendSeasonalIndex{}.Forecast(train, 6, 2)
	require.NoError(t, err)
	require.Len(t, got, 6)
	for _, v := range got {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.InDelta(t, v, float64(int64(v*100+0.5))/100, 1e-9)
	}
}

func TestSeasonalIndex_ZeroMean(t *testing.T) {
	train := []float64{3, 9, 4, 8, 5, 12, 6, 10}
	index := SeasonalIndex(train, 2, 0.5, 3)
	require.Len(t, index, 3)

	sum := 0.0
	for _, v := range index {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestForecastInputErrors(t *testing.T) {
	for _, m := range Models() {
		_, err := Run(m, nil, 3, 7)
		assert.ErrorIs(t, err, ErrEmptyTrain, string(m))

		_, err = Run(m, []float64{1, 2, 3}, 0, 7)
		assert.ErrorIs(t, err, ErrHorizon, string(m))
	}
}

func TestParseModel(t *testing.T) {
	for _, m := range Models() {
		got, err := ParseModel(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseModel("arima")
	var ume *UnknownModelError
	require.True(t, errors.As(err, &ume))
	assert.Equal(t, "arima", ume.ID)
	assert.Contains(t, err.Error(), "holt, seasonal_naive, trend_seasonal")

	_, err = ParseModel(Auto)
	assert.Error(t, err)
}

func TestModelLabels(t *testing.T) {
	assert.Equal(t, "Holt linear trend", Holt.Label())
	assert.Equal(t, "Seasonal naive", SeasonalNaive.Label())
	assert.Equal(t, "Trend + seasonal index", TrendSeasonal.Label())
	assert.Equal(t, []Model{Holt, SeasonalNaive, TrendSeasonal}, Models())
}
