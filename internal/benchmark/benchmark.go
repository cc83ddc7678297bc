package benchmark

import (
	"slices"

	"demandcast/internal/forecast"
	"demandcast/internal/series"
	"demandcast/internal/stats"

	"github.com/rs/zerolog/log"
)

// MinHoldout is the smallest holdout a benchmark will use when the history allows it.
const MinHoldout = 3

// Score is the holdout accuracy of one model.
type Score struct {
	Model forecast.Model `json:"model"`
	Label string         `json:"label"`
	MAE   float64        `json:"mae"`
	RMSE  float64        `json:"rmse"`
	MAPE  float64        `json:"mape"`
}

// Result holds the ranked scores, best first.
type Result struct {
	Holdout int     `json:"holdout"`
	Train   int     `json:"train"`
	Scores  []Score `json:"scores"`
}

// EffectiveHoldout clamps the requested holdout to [MinHoldout, n/2]; the upper bound wins.
func EffectiveHoldout(n, requested int) int {
	return min(max(MinHoldout, requested), n/2)
}

// Run trains every model on all but the last h values, forecasts h steps and
// scores them against the held-out tail. Scores are sorted by ascending MAE;
// equal MAE keeps the canonical model order.
func Run(values []float64, holdout, seasonLength int) (*Result, error) {
	h := EffectiveHoldout(len(values), holdout)
	if h < 1 {
		return nil, &series.InsufficientDataError{Msg: "Need at least 2 time points to hold out a validation window."}
	}

	train := values[:len(values)-h]
	test := values[len(values)-h:]

	res := &Result{Holdout: h, Train: len(train)}
	for _, m := range forecast.Models() {
		pred, err := forecast.Run(m, train, h, seasonLength)
		if err != nil {
			return nil, err
		}
		res.Scores = append(res.Scores, Score{
			Model: m,
			Label: m.Label(),
			MAE:   stats.MAE(test, pred),
			RMSE:  stats.RMSE(test, pred),
			MAPE:  stats.MAPE(test, pred),
		})
	}

	slices.SortStableFunc(res.Scores, func(a, b Score) int {
		switch {
		case a.MAE < b.MAE:
			return -1
		case a.MAE > b.MAE:
			return 1
		}
		return 0
	})

	log.Debug().
		Int("holdout", h).
		Str("best", string(res.Scores[0].Model)).
		Float64("mae", res.Scores[0].MAE).
		Msg("Benchmarked models")
	return res, nil
}

// Select resolves the model to use: "auto" takes the best-ranked score,
// anything else must name a model and overrides the ranking.
func Select(scores []Score, choice string) (forecast.Model, error) {
	if choice == forecast.Auto || choice == "" {
		if len(scores) == 0 {
			return "", &series.InsufficientDataError{Msg: "No benchmark scores available for automatic model selection."}
		}
		return scores[0].Model, nil
	}
	return forecast.ParseModel(choice)
}
