package forecast

import (
	"math"
	"runtime"

	"demandcast/internal/stats"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// holtGrid holds the candidate values for both smoothing factors.
var holtGrid = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}

// HoltLinear is double exponential smoothing with level and additive trend.
// The smoothing factors are chosen by grid search on in-sample one-step error.
type HoltLinear struct{}

// HoltFit is the outcome of the smoothing-factor search.
type HoltFit struct {
	Alpha float64
	Beta  float64
	MAE   float64
}

func (HoltLinear) Forecast(train []float64, horizon, _ int) ([]float64, error) {
	if err := checkInput(train, horizon); err != nil {
		return nil, err
	}

	out := make([]float64, horizon)
	if len(train) == 1 {
		for i := range out {
			out[i] = train[0]
		}
		return clipAll(out), nil
	}

	fit, err := FitHolt(train)
	if err != nil {
		return nil, err
	}
	level, trend, _ := holtSmooth(train, fit.Alpha, fit.Beta)
	for h := 1; h <= horizon; h++ {
		out[h-1] = level + float64(h)*trend
	}
	return clipAll(out), nil
}

// FitHolt scores every (alpha, beta) pair of the grid by the MAE of its
// in-sample one-step forecasts against train[1:]. The lowest score wins; ties
// keep the pair that comes first with alpha as the outer loop.
func FitHolt(train []float64) (HoltFit, error) {
	if len(train) < 2 {
		return HoltFit{}, ErrEmptyTrain
	}

	k := len(holtGrid)
	scores := make([]float64, k*k)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for ai, alpha := range holtGrid {
		g.Go(func() error {
			for bi, beta := range holtGrid {
				_, _, fitted := holtSmooth(train, alpha, beta)
				scores[ai*k+bi] = stats.MAE(train[1:], fitted)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return HoltFit{}, err
	}

	best := HoltFit{MAE: math.Inf(1)}
	for i, score := range scores {
		if score < best.MAE {
			best = HoltFit{Alpha: holtGrid[i/k], Beta: holtGrid[i%k], MAE: score}
		}
	}

	log.Debug().
		Float64("alpha", best.Alpha).
		Float64("beta", best.Beta).
		Float64("mae", best.MAE).
		Msg("Selected Holt smoothing factors")
	return best, nil
}

// holtSmooth runs the recursions over train and returns the final level and
// trend plus the in-sample one-step forecasts for train[1:]. The forecast for
// step t is the previous level plus the trend already updated at t.
func holtSmooth(train []float64, alpha, beta float64) (level, trend float64, fitted []float64) {
	level = train[0]
	trend = train[1] - train[0]
	fitted = make([]float64, 0, len(train)-1)
	for t := 1; t < len(train); t++ {
		prevLevel := level
		level = alpha*train[t] + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		fitted = append(fitted, prevLevel+trend)
	}
	return level, trend, fitted
}
