package benchmark

import (
	"fmt"
	"slices"

	"demandcast/internal/forecast"
	"demandcast/internal/series"
	"demandcast/internal/stats"
)

// WalkForwardConfig defines the parameters for a rolling-origin backtest.
type WalkForwardConfig struct {
	Model          forecast.Model
	Horizon        int // Steps forecast at every checkpoint
	StepSize       int // Steps between checkpoints; defaults to Horizon
	SeasonLength   int
	MinTrain       int // Smallest training window allowed; defaults to 2*SeasonLength
	MaxCheckpoints int // Zero means no limit
}

// ValidationCheckpoint is one cut point in the past where the model was refit.
type ValidationCheckpoint struct {
	Date      string    `json:"date"`
	TrainSize int       `json:"train_size"`
	Actual    []float64 `json:"actual"`
	Predicted []float64 `json:"predicted"`
	MAE       float64   `json:"mae"`
	MAPE      float64   `json:"mape"`
}

// WalkForwardResult holds the aggregate results of the backtest.
type WalkForwardResult struct {
	Model             forecast.Model         `json:"model"`
	Checkpoints       []ValidationCheckpoint `json:"checkpoints"`
	MeanMAE           float64                `json:"mean_mae"`
	MeanMAPE          float64                `json:"mean_mape"`
	ValidationMessage string                 `json:"validation_message"`
}

// WalkForward walks backwards from the end of s, refitting cfg.Model on the
// history before each cut and scoring the next Horizon points. Checkpoints are
// returned oldest first.
func WalkForward(s series.Series, cfg WalkForwardConfig) (WalkForwardResult, error) {
	if cfg.Horizon < 1 {
		return WalkForwardResult{}, forecast.ErrHorizon
	}
	if cfg.StepSize < 1 {
		cfg.StepSize = cfg.Horizon
	}
	if cfg.MinTrain < 1 {
		cfg.MinTrain = max(MinHoldout, 2*cfg.SeasonLength)
	}

	result := WalkForwardResult{Model: cfg.Model, Checkpoints: make([]ValidationCheckpoint, 0)}
	values := s.Values()

	for cut := len(values) - cfg.Horizon; cut >= cfg.MinTrain; cut -= cfg.StepSize {
		if cfg.MaxCheckpoints > 0 && len(result.Checkpoints) >= cfg.MaxCheckpoints {
			break
		}

		train := values[:cut]
		actual := values[cut : cut+cfg.Horizon]
		pred, err := forecast.Run(cfg.Model, train, cfg.Horizon, cfg.SeasonLength)
		if err != nil {
			return WalkForwardResult{}, err
		}

		result.Checkpoints = append(result.Checkpoints, ValidationCheckpoint{
			Date:      s[cut].Date.Format(series.DateLayout),
			TrainSize: cut,
			Actual:    append([]float64(nil), actual...),
			Predicted: pred,
			MAE:       stats.MAE(actual, pred),
			MAPE:      stats.MAPE(actual, pred),
		})
	}

	if len(result.Checkpoints) == 0 {
		result.ValidationMessage = "Insufficient history for a walk-forward backtest at this horizon."
		return result, nil
	}

	slices.Reverse(result.Checkpoints)

	for _, cp := range result.Checkpoints {
		result.MeanMAE += cp.MAE
		result.MeanMAPE += cp.MAPE
	}
	result.MeanMAE /= float64(len(result.Checkpoints))
	result.MeanMAPE /= float64(len(result.Checkpoints))

	result.ValidationMessage = fmt.Sprintf("Walk-Forward Analysis: %s refit at %d checkpoints, mean MAE %.2f (MAPE %.1f%%).",
		cfg.Model.Label(), len(result.Checkpoints), result.MeanMAE, result.MeanMAPE)

	latest := result.Checkpoints[len(result.Checkpoints)-1]
	if len(result.Checkpoints) > 3 && latest.MAE > 1.5*result.MeanMAE {
		result.ValidationMessage += " Warning: the most recent checkpoint is markedly less accurate than the average."
	}

	return result, nil
}
