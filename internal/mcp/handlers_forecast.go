package mcp

import (
	"context"

	"demandcast/internal/forecast"
	"demandcast/internal/pipeline"
	"demandcast/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ForecastRunInput struct {
	DatasetID       string `json:"dataset_id" jsonschema:"Id returned by dataset_load."`
	DateColumn      string `json:"date_column,omitempty" jsonschema:"Date column. Defaults to the suggested one."`
	TargetColumn    string `json:"target_column,omitempty" jsonschema:"Numeric column to forecast. Defaults to the suggested one."`
	MetricLabel     string `json:"metric_label,omitempty" jsonschema:"Unit shown in KPI names, e.g. units or cases."`
	Horizon         *int   `json:"horizon,omitempty" jsonschema:"Number of future periods to forecast. Must be at least 1."`
	SeasonLength    *int   `json:"season_length,omitempty" jsonschema:"Periods per season, e.g. 7 for daily data with a weekly cycle."`
	Holdout         *int   `json:"holdout,omitempty" jsonschema:"Trailing periods held out to score the models. At least 3; capped at half the series."`
	MissingStrategy string `json:"missing_strategy,omitempty" jsonschema:"How to fill gaps: interpolate or forward."`
	Model           string `json:"model,omitempty" jsonschema:"auto, holt, seasonal_naive or trend_seasonal."`
}

type ForecastBacktestInput struct {
	DatasetID       string `json:"dataset_id" jsonschema:"Id returned by dataset_load."`
	DateColumn      string `json:"date_column,omitempty" jsonschema:"Date column. Defaults to the suggested one."`
	TargetColumn    string `json:"target_column,omitempty" jsonschema:"Numeric column to forecast. Defaults to the suggested one."`
	Horizon         *int   `json:"horizon,omitempty" jsonschema:"Periods scored after each checkpoint."`
	SeasonLength    *int   `json:"season_length,omitempty" jsonschema:"Periods per season."`
	Holdout         *int   `json:"holdout,omitempty" jsonschema:"Holdout used to pick the model when model is auto."`
	MissingStrategy string `json:"missing_strategy,omitempty" jsonschema:"How to fill gaps: interpolate or forward."`
	Model           string `json:"model,omitempty" jsonschema:"auto, holt, seasonal_naive or trend_seasonal."`
	StepSize        int    `json:"step_size,omitempty" jsonschema:"Periods between checkpoints. Defaults to the horizon."`
	MaxCheckpoints  int    `json:"max_checkpoints,omitempty" jsonschema:"Upper bound on checkpoints, most recent first. Zero means no limit."`
}

type ForecastModelsInput struct{}

type ModelInfo struct {
	ID          forecast.Model `json:"id"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
}

// params layers the tool arguments over the configured defaults.
func (s *Server) params(in ForecastRunInput) pipeline.Params {
	p := s.cfg.RunParams()
	p.DateColumn = in.DateColumn
	p.TargetColumn = in.TargetColumn
	if in.MetricLabel != "" {
		p.MetricLabel = in.MetricLabel
	}
	if in.Horizon != nil {
		p.Horizon = *in.Horizon
	}
	if in.SeasonLength != nil {
		p.SeasonLength = *in.SeasonLength
	}
	if in.Holdout != nil {
		p.Holdout = *in.Holdout
	}
	if in.MissingStrategy != "" {
		p.MissingStrategy = in.MissingStrategy
	}
	if in.Model != "" {
		p.Model = in.Model
	}
	return p
}

func (s *Server) handleForecastRun(ctx context.Context, req *mcp.CallToolRequest, in ForecastRunInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.store.Get(in.DatasetID)
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	res, err := ds.Session.Run(s.params(in))
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	var charts []string
	if s.cfg.EnableMermaidCharts {
		charts = []string{
			visuals.GenerateForecastChart(res),
			visuals.GenerateModelChart(res.Scores),
			visuals.GenerateSeasonalityChart(res.Seasonal),
			visuals.GenerateHistogramChart(res.Histogram),
		}
	}
	return nil, WrapResponse(res, res.Warnings(), charts...), nil
}

func (s *Server) handleForecastBacktest(ctx context.Context, req *mcp.CallToolRequest, in ForecastBacktestInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	ds, err := s.store.Get(in.DatasetID)
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	p := s.params(ForecastRunInput{
		DateColumn:      in.DateColumn,
		TargetColumn:    in.TargetColumn,
		Horizon:         in.Horizon,
		SeasonLength:    in.SeasonLength,
		Holdout:         in.Holdout,
		MissingStrategy: in.MissingStrategy,
		Model:           in.Model,
	})
	bt, prep, err := ds.Session.Backtest(p, pipeline.BacktestOptions{
		StepSize:       in.StepSize,
		MaxCheckpoints: in.MaxCheckpoints,
	})
	if err != nil {
		return nil, ResponseEnvelope{}, err
	}

	var charts []string
	if s.cfg.EnableMermaidCharts {
		charts = []string{visuals.GenerateBacktestChart(&bt.WalkForward)}
	}
	return nil, WrapResponse(bt, prep.Warnings(), charts...), nil
}

func (s *Server) handleForecastModels(ctx context.Context, req *mcp.CallToolRequest, in ForecastModelsInput) (*mcp.CallToolResult, ResponseEnvelope, error) {
	models := forecast.Models()
	out := make([]ModelInfo, len(models))
	for i, m := range models {
		out[i] = ModelInfo{ID: m, Label: m.Label(), Description: m.Description()}
	}
	return nil, WrapResponse(out, nil), nil
}
