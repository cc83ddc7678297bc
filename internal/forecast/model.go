package forecast

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"demandcast/internal/stats"
)

// Model identifies one of the supported forecasting heuristics.
type Model string

const (
	Holt          Model = "holt"
	SeasonalNaive Model = "seasonal_naive"
	TrendSeasonal Model = "trend_seasonal"

	// Auto is the selection mode that defers to benchmark ranking. It is not a Model of its own.
	Auto = "auto"
)

// Models returns every model in canonical benchmark order.
func Models() []Model {
	return []Model{Holt, SeasonalNaive, TrendSeasonal}
}

// Label is the display name of m.
func (m Model) Label() string {
	switch m {
	case Holt:
		return "Holt linear trend"
	case SeasonalNaive:
		return "Seasonal naive"
	case TrendSeasonal:
		return "Trend + seasonal index"
	}
	return string(m)
}

// Description summarizes how m forecasts.
func (m Model) Description() string {
	switch m {
	case Holt:
		return "Double exponential smoothing with alpha and beta picked by grid search on in-sample one-step error."
	case SeasonalNaive:
		return "Repeats the last full season."
	case TrendSeasonal:
		return "Least-squares linear trend plus the average residual at each seasonal position."
	}
	return ""
}

// UnknownModelError is returned for model ids outside the closed set.
type UnknownModelError struct {
	ID string
}

func (e *UnknownModelError) Error() string {
	ids := make([]string, 0, 3)
	for _, m := range Models() {
		ids = append(ids, string(m))
	}
	return fmt.Sprintf("Unknown model %q. Expected one of: %s.", e.ID, strings.Join(ids, ", "))
}

// ParseModel resolves a model id.
func ParseModel(id string) (Model, error) {
	for _, m := range Models() {
		if string(m) == id {
			return m, nil
		}
	}
	return "", &UnknownModelError{ID: id}
}

// Forecaster produces horizon point forecasts following train.
type Forecaster interface {
	Forecast(train []float64, horizon, seasonLength int) ([]float64, error)
}

var (
	ErrEmptyTrain = errors.New("training data must contain at least one value")
	ErrHorizon    = errors.New("horizon must be at least 1")
)

// For returns the Forecaster implementing m.
func For(m Model) (Forecaster, error) {
	switch m {
	case Holt:
		return HoltLinear{}, nil
	case SeasonalNaive:
		return SeasonalNaiveModel{}, nil
	case TrendSeasonal:
		return TrendSeasonalIndex{}, nil
	}
	return nil, &UnknownModelError{ID: string(m)}
}

// Run forecasts with model m.
func Run(m Model, train []float64, horizon, seasonLength int) ([]float64, error) {
	f, err := For(m)
	if err != nil {
		return nil, err
	}
	return f.Forecast(train, horizon, seasonLength)
}

func checkInput(train []float64, horizon int) error {
	if len(train) == 0 {
		return ErrEmptyTrain
	}
	if horizon < 1 {
		return ErrHorizon
	}
	return nil
}

// clip rounds to two decimals and floors at zero.
func clip(v float64) float64 {
	return math.Max(0, stats.Round2(v))
}

func clipAll(values []float64) []float64 {
	for i, v := range values {
		values[i] = clip(v)
	}
	return values
}

func clampSeason(seasonLength, n int) int {
	return max(1, min(seasonLength, n))
}
