package pipeline

import (
	"fmt"
	"strconv"

	"demandcast/internal/benchmark"
	"demandcast/internal/forecast"
	"demandcast/internal/stats"
)

// Point is a dated value in the output contract.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// KPI is one labelled headline figure.
type KPI struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Result is everything a host needs to present one run.
type Result struct {
	Source        string                `json:"source,omitempty"`
	DateColumn    string                `json:"date_column"`
	TargetColumn  string                `json:"target_column"`
	MetricLabel   string                `json:"metric_label"`
	InvalidDates  int                   `json:"invalid_dates"`
	InvalidValues int                   `json:"invalid_values"`
	Profile       stats.Profile         `json:"profile"`
	KPIs          []KPI                 `json:"kpis"`
	Seasonal      stats.SeasonalProfile `json:"seasonal"`
	Histogram     stats.Histogram       `json:"histogram"`
	History       []Point               `json:"history"`
	Rolling       []float64             `json:"rolling"`
	RollingWindow int                   `json:"rolling_window"`
	Holdout       int                   `json:"holdout"`
	Scores        []benchmark.Score     `json:"scores"`
	Chosen        forecast.Model        `json:"chosen_model"`
	ChosenLabel   string                `json:"chosen_label"`
	AutoSelected  bool                  `json:"auto_selected"`
	Forecast      []Point               `json:"forecast"`
	Summary       string                `json:"summary"`
}

// BuildKPIs renders the headline figures of a profile. Metric-valued entries
// carry the metric label in their name.
func BuildKPIs(p stats.Profile, metric string) []KPI {
	f2 := func(v float64) string { return stats.FormatFixed(v, 2) }
	return []KPI{
		{"Observations", strconv.Itoa(p.Observations)},
		{"Granularity", fmt.Sprintf("%s (~%d day step)", p.Granularity, p.StepDays)},
		{"Start date", p.StartDate},
		{"End date", p.EndDate},
		{fmt.Sprintf("Mean (%s)", metric), f2(p.Mean)},
		{fmt.Sprintf("Std dev (%s)", metric), f2(p.StdDev)},
		{"Coeff. variation", f2(p.CV)},
		{fmt.Sprintf("Min / Max (%s)", metric), f2(p.Min) + " / " + f2(p.Max)},
		{"Outliers (|z|>=3)", strconv.Itoa(p.Outliers)},
		{"Missing periods filled", strconv.Itoa(p.MissingAdded)},
	}
}

// Labels returns history dates followed by forecast dates, the shared x axis of the forecast chart.
func (r *Result) Labels() []string {
	out := make([]string, 0, len(r.History)+len(r.Forecast))
	for _, p := range r.History {
		out = append(out, p.Date)
	}
	for _, p := range r.Forecast {
		out = append(out, p.Date)
	}
	return out
}

// IsChosen reports whether m is the model used for the final forecast.
func (r *Result) IsChosen(m forecast.Model) bool {
	return r.Chosen == m
}

// Warnings lists data quality notes worth showing next to the result.
func (r *Result) Warnings() []string {
	return qualityWarnings(r.InvalidDates, r.InvalidValues, r.TargetColumn, r.Profile)
}

func qualityWarnings(invalidDates, invalidValues int, targetCol string, p stats.Profile) []string {
	var out []string
	if invalidDates > 0 || invalidValues > 0 {
		out = append(out, fmt.Sprintf("Dropped %d rows with unreadable dates and %d rows with unreadable %s values.",
			invalidDates, invalidValues, targetCol))
	}
	if p.MissingAdded > 0 {
		out = append(out, fmt.Sprintf("%d missing periods were filled before modelling.", p.MissingAdded))
	}
	if p.Outliers > 0 {
		out = append(out, fmt.Sprintf("%d periods lie %g or more standard deviations from the mean.", p.Outliers, stats.OutlierZ))
	}
	return out
}
