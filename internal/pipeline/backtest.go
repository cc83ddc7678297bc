package pipeline

import (
	"demandcast/internal/benchmark"
	"demandcast/internal/forecast"

	"github.com/rs/zerolog/log"
)

// Backtest is a walk-forward check of one model on a prepared series.
type Backtest struct {
	Model        forecast.Model              `json:"model"`
	Label        string                      `json:"label"`
	AutoSelected bool                        `json:"auto_selected"`
	Horizon      int                         `json:"horizon"`
	WalkForward  benchmark.WalkForwardResult `json:"walk_forward"`
}

// BacktestOptions tune the checkpoint spacing. Zero values use the defaults of
// benchmark.WalkForward.
type BacktestOptions struct {
	StepSize       int
	MaxCheckpoints int
}

// Backtest refits p.Model at successive cut points and scores the next
// p.Horizon periods. With model auto, the holdout benchmark picks the model first.
func (s *Session) Backtest(p Params, opts BacktestOptions) (*Backtest, *Prepared, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}

	prep, err := s.Prepare(p)
	if err != nil {
		return nil, nil, err
	}
	values := prep.Regular.Points.Values()

	auto := p.Model == "" || p.Model == forecast.Auto
	var model forecast.Model
	if auto {
		bench, err := benchmark.Run(values, p.Holdout, p.SeasonLength)
		if err != nil {
			return nil, nil, err
		}
		model = bench.Scores[0].Model
	} else {
		model, err = forecast.ParseModel(p.Model)
		if err != nil {
			return nil, nil, err
		}
	}

	wf, err := benchmark.WalkForward(prep.Regular.Points, benchmark.WalkForwardConfig{
		Model:          model,
		Horizon:        p.Horizon,
		StepSize:       opts.StepSize,
		SeasonLength:   p.SeasonLength,
		MaxCheckpoints: opts.MaxCheckpoints,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("source", s.source).
		Str("model", string(model)).
		Int("checkpoints", len(wf.Checkpoints)).
		Float64("meanMAE", wf.MeanMAE).
		Msg("Walk-forward backtest complete")

	return &Backtest{
		Model:        model,
		Label:        model.Label(),
		AutoSelected: auto,
		Horizon:      p.Horizon,
		WalkForward:  wf,
	}, prep, nil
}
