package pipeline

import (
	"fmt"

	"demandcast/internal/benchmark"
	"demandcast/internal/forecast"
	"demandcast/internal/ingest"
	"demandcast/internal/series"
	"demandcast/internal/stats"

	"github.com/rs/zerolog/log"
)

// MinRunPoints is the shortest regular series that can be benchmarked.
const MinRunPoints = 12

// Session holds the parsed rows of one input so that runs with different
// parameters do not re-read the source.
type Session struct {
	source string
	table  *ingest.Table
}

// NewSession wraps a parsed table. source is a display name such as the file path.
func NewSession(source string, table *ingest.Table) *Session {
	return &Session{source: source, table: table}
}

// Source returns the display name of the input.
func (s *Session) Source() string {
	return s.source
}

// Headers returns the column names of the input.
func (s *Session) Headers() []string {
	return s.table.Headers
}

// RowCount returns the number of data rows.
func (s *Session) RowCount() int {
	return len(s.table.Rows)
}

// Rows returns the cached raw rows.
func (s *Session) Rows() []ingest.Row {
	return s.table.Rows
}

// SuggestedColumns returns the guessed date and target columns.
func (s *Session) SuggestedColumns() (dateCol, targetCol string) {
	return ingest.GuessColumns(s.table.Headers)
}

// Prepared is the regularized series and its descriptive analysis, without forecasting.
type Prepared struct {
	DateColumn    string
	TargetColumn  string
	InvalidDates  int
	InvalidValues int
	Regular       series.Regular
	Profile       stats.Profile
	Seasonal      stats.SeasonalProfile
	Histogram     stats.Histogram
	Rolling       []float64
	RollingWindow int
}

// Prepare aggregates, imputes and profiles the selected columns. Empty
// column names fall back to the suggested ones.
func (s *Session) Prepare(p Params) (*Prepared, error) {
	dateCol, targetCol := p.DateColumn, p.TargetColumn
	guessDate, guessTarget := s.SuggestedColumns()
	if dateCol == "" {
		dateCol = guessDate
	}
	if targetCol == "" {
		targetCol = guessTarget
	}

	agg, err := series.Aggregate(s.table.Rows, dateCol, targetCol)
	if err != nil {
		return nil, err
	}

	strategy := series.Strategy(p.MissingStrategy)
	if strategy == "" {
		strategy = series.StrategyInterpolate
	}
	reg := series.Impute(agg.Series, strategy)
	values := reg.Points.Values()
	window := stats.RollingWindow(reg.Granularity)

	return &Prepared{
		DateColumn:    dateCol,
		TargetColumn:  targetCol,
		InvalidDates:  agg.InvalidDates,
		InvalidValues: agg.InvalidValues,
		Regular:       reg,
		Profile:       stats.Describe(reg),
		Seasonal:      stats.Seasonality(reg.Points, reg.Granularity),
		Histogram:     stats.NewHistogram(values, stats.DefaultBins),
		Rolling:       stats.RollingAverage(values, window),
		RollingWindow: window,
	}, nil
}

// Warnings lists data quality notes about the prepared series.
func (p *Prepared) Warnings() []string {
	return qualityWarnings(p.InvalidDates, p.InvalidValues, p.TargetColumn, p.Profile)
}

// Run executes the full analysis: validation, preparation, benchmarking,
// model choice and the final forecast on the whole regular series.
func (s *Session) Run(p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	auto := p.Model == "" || p.Model == forecast.Auto
	if !auto {
		if _, err := forecast.ParseModel(p.Model); err != nil {
			return nil, err
		}
	}

	prep, err := s.Prepare(p)
	if err != nil {
		return nil, err
	}
	points := prep.Regular.Points
	if len(points) < MinRunPoints {
		return nil, &series.InsufficientDataError{Msg: fmt.Sprintf("Need at least %d time points for reliable benchmarking.", MinRunPoints)}
	}

	values := points.Values()
	bench, err := benchmark.Run(values, p.Holdout, p.SeasonLength)
	if err != nil {
		return nil, err
	}
	chosen, err := benchmark.Select(bench.Scores, p.Model)
	if err != nil {
		return nil, err
	}

	future, err := forecast.Run(chosen, values, p.Horizon, p.SeasonLength)
	if err != nil {
		return nil, err
	}

	step := prep.Regular.StepDays
	last := points[len(points)-1].Date
	forecastPoints := make([]Point, len(future))
	for i, v := range future {
		forecastPoints[i] = Point{
			Date:  last.AddDate(0, 0, step*(i+1)).Format(series.DateLayout),
			Value: v,
		}
	}

	history := make([]Point, len(points))
	for i, o := range points {
		history[i] = Point{Date: o.Date.Format(series.DateLayout), Value: o.Value}
	}

	metric := p.MetricLabel
	if metric == "" {
		metric = "units"
	}

	res := &Result{
		Source:        s.source,
		DateColumn:    prep.DateColumn,
		TargetColumn:  prep.TargetColumn,
		MetricLabel:   metric,
		InvalidDates:  prep.InvalidDates,
		InvalidValues: prep.InvalidValues,
		Profile:       prep.Profile,
		KPIs:          BuildKPIs(prep.Profile, metric),
		Seasonal:      prep.Seasonal,
		Histogram:     prep.Histogram,
		History:       history,
		Rolling:       prep.Rolling,
		RollingWindow: prep.RollingWindow,
		Holdout:       bench.Holdout,
		Scores:        bench.Scores,
		Chosen:        chosen,
		ChosenLabel:   chosen.Label(),
		AutoSelected:  auto,
		Forecast:      forecastPoints,
		Summary: fmt.Sprintf("Selected model: %s. Inferred granularity: %s (~%d day interval).",
			chosen.Label(), prep.Regular.Granularity, step),
	}

	log.Info().
		Str("source", s.source).
		Int("points", len(points)).
		Str("granularity", string(prep.Regular.Granularity)).
		Str("model", string(chosen)).
		Int("horizon", p.Horizon).
		Msg("Forecast run complete")

	return res, nil
}
