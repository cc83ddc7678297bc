package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"demandcast/internal/forecast"
	"demandcast/internal/ingest"
	"demandcast/internal/series"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// csvSession builds a session with one row per offset, skipping the offsets in skip.
func csvSession(t *testing.T, n, stepDays int, skip map[int]bool) *Session {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("order_date,units_sold\n")
	for i := 0; i < n; i++ {
		if skip[i] {
			continue
		}
		d := start.AddDate(0, 0, i*stepDays)
		v := 100 + 3*(i%7) + i
		fmt.Fprintf(&sb, "%s,%d\n", d.Format("2006-01-02"), v)
	}
	table, err := ingest.ParseCSV(sb.String())
	require.NoError(t, err)
	return NewSession("test.csv", table)
}

func TestRun_EndToEnd(t *testing.T) {
	s := csvSession(t, 31, 1, map[int]bool{10: true})

	p := DefaultParams()
	p.Horizon = 5
	p.TargetColumn = "units_sold"

	res, err := s.Run(p)
	require.NoError(t, err)

	assert.Equal(t, "order_date", res.DateColumn)
	assert.Equal(t, 31, res.Profile.Observations)
	assert.Equal(t, 1, res.Profile.MissingAdded)
	assert.Equal(t, series.Daily, res.Profile.Granularity)

	require.Len(t, res.Scores, 3)
	for i := 1; i < len(res.Scores); i++ {
		assert.LessOrEqual(t, res.Scores[i-1].MAE, res.Scores[i].MAE)
	}
	assert.True(t, res.AutoSelected)
	assert.Equal(t, res.Scores[0].Model, res.Chosen)

	require.Len(t, res.Forecast, 5)
	assert.Equal(t, "2024-02-01", res.Forecast[0].Date)
	assert.Equal(t, "2024-02-05", res.Forecast[4].Date)
	for _, fp := range res.Forecast {
		assert.GreaterOrEqual(t, fp.Value, 0.0)
	}

	assert.Len(t, res.History, 31)
	assert.Len(t, res.Rolling, 31)
	assert.Equal(t, 7, res.RollingWindow)
	assert.Len(t, res.Labels(), 36)
	assert.Equal(t, 14, res.Holdout)
	assert.Equal(t, "Average by weekday", res.Seasonal.Title)
	assert.Len(t, res.Histogram.Bins, 12)
	assert.Contains(t, res.Summary, "Inferred granularity: Daily (~1 day interval).")
	assert.Contains(t, res.Summary, "Selected model: "+res.Chosen.Label())
}

func TestRun_EndToEnd_ShortHoldout(t *testing.T) {
	s := csvSession(t, 30, 1, map[int]bool{12: true})

	p := DefaultParams()
	p.Horizon = 5
	p.SeasonLength = 7
	p.Holdout = 5
	p.Model = forecast.Auto

	res, err := s.Run(p)
	require.NoError(t, err)

	assert.Equal(t, 30, res.Profile.Observations)
	assert.Equal(t, 1, res.Profile.MissingAdded)
	assert.Equal(t, 5, res.Holdout)

	require.Len(t, res.Scores, 3)
	for i := 1; i < len(res.Scores); i++ {
		assert.LessOrEqual(t, res.Scores[i-1].MAE, res.Scores[i].MAE)
	}

	require.Len(t, res.Forecast, 5)
	prev, err := time.Parse("2006-01-02", res.History[len(res.History)-1].Date)
	require.NoError(t, err)
	for _, fp := range res.Forecast {
		assert.GreaterOrEqual(t, fp.Value, 0.0)
		d, err := time.Parse("2006-01-02", fp.Date)
		require.NoError(t, err)
		assert.Equal(t, prev.AddDate(0, 0, 1), d)
		prev = d
	}
}

func TestRun_ExtremeValues(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("order_date,units_sold\n")
	for i := 0; i < 14; i++ {
		v := "1e308"
		if i%2 == 1 {
			v = "-1e308"
		}
		fmt.Fprintf(&sb, "%s,%s\n", start.AddDate(0, 0, i).Format("2006-01-02"), v)
	}
	table, err := ingest.ParseCSV(sb.String())
	require.NoError(t, err)
	s := NewSession("extreme.csv", table)

	assert.NotPanics(t, func() {
		res, err := s.Run(DefaultParams())
		require.NoError(t, err)
		assert.Len(t, res.Histogram.Bins, 12)
		assert.Len(t, res.Forecast, DefaultParams().Horizon)
	})
}

func TestRun_OverflowingDailyTotals(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("order_date,units_sold\n")
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		fmt.Fprintf(&sb, "%s,1e308\n%s,1e308\n", d, d)
	}
	table, err := ingest.ParseCSV(sb.String())
	require.NoError(t, err)
	s := NewSession("overflow.csv", table)

	var res *Result
	assert.NotPanics(t, func() { res, err = s.Run(DefaultParams()) })
	assert.Nil(t, res)
	var ide *series.InsufficientDataError
	require.True(t, errors.As(err, &ide))
	assert.Contains(t, ide.Error(), "invalid metric values: 28")
}

func TestRun_WeeklyDates(t *testing.T) {
	s := csvSession(t, 16, 7, nil)

	p := DefaultParams()
	p.Horizon = 3
	p.Model = string(forecast.SeasonalNaive)
	p.SeasonLength = 4

	res, err := s.Run(p)
	require.NoError(t, err)

	assert.Equal(t, forecast.SeasonalNaive, res.Chosen)
	assert.False(t, res.AutoSelected)
	assert.Equal(t, 8, res.Holdout)

	last, err := time.Parse("2006-01-02", res.History[len(res.History)-1].Date)
	require.NoError(t, err)
	for i, fp := range res.Forecast {
		assert.Equal(t, last.AddDate(0, 0, 7*(i+1)).Format("2006-01-02"), fp.Date)
	}
	assert.Equal(t, series.Weekly, res.Profile.Granularity)
	assert.Equal(t, "Average by month", res.Seasonal.Title)
	assert.Equal(t, 4, res.RollingWindow)
}

func TestRun_ValidationErrors(t *testing.T) {
	s := csvSession(t, 20, 1, nil)

	tests := []struct {
		name   string
		mutate func(*Params)
		want   string
	}{
		{"Horizon", func(p *Params) { p.Horizon = 0 }, "Forecast horizon must be a positive integer."},
		{"SeasonLength", func(p *Params) { p.SeasonLength = -1 }, "Season length must be a positive integer."},
		{"Holdout", func(p *Params) { p.Holdout = 2 }, "Validation holdout must be at least 3."},
		{"Strategy", func(p *Params) { p.MissingStrategy = "mean" }, "Missing-value strategy must be one of: interpolate, forward."},
		{"FirstViolationWins", func(p *Params) { p.Horizon = 0; p.Holdout = 1 }, "Forecast horizon must be a positive integer."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			_, err := s.Run(p)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.want, ve.Error())
		})
	}
}

func TestRun_UnknownModel(t *testing.T) {
	s := csvSession(t, 20, 1, nil)

	p := DefaultParams()
	p.Model = "lstm"
	_, err := s.Run(p)

	var ume *forecast.UnknownModelError
	assert.True(t, errors.As(err, &ume))
}

func TestRun_TooFewPoints(t *testing.T) {
	s := csvSession(t, 11, 1, nil)

	_, err := s.Run(DefaultParams())
	var ide *series.InsufficientDataError
	require.True(t, errors.As(err, &ide))
	assert.Equal(t, "Need at least 12 time points for reliable benchmarking.", ide.Error())
}

func TestRun_NoValidRows(t *testing.T) {
	s := csvSession(t, 20, 1, nil)

	p := DefaultParams()
	p.TargetColumn = "missing_column"
	_, err := s.Run(p)

	var ide *series.InsufficientDataError
	require.True(t, errors.As(err, &ide))
	assert.Contains(t, ide.Error(), "invalid metric values: 20")
}

func TestPrepare_UsesSuggestedColumns(t *testing.T) {
	table, err := ingest.ParseCSV("ds;y\n2024-01-01;1\n2024-01-03;3\n2024-01-04;4\n")
	require.NoError(t, err)
	s := NewSession("inline", table)

	d, v := s.SuggestedColumns()
	assert.Equal(t, "ds", d)
	assert.Equal(t, "y", v)

	p := DefaultParams()
	p.MissingStrategy = "forward"
	prep, err := s.Prepare(p)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 3, 4}, prep.Regular.Points.Values())
	assert.Equal(t, 3, s.RowCount())
	assert.Equal(t, []string{"ds", "y"}, s.Headers())
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 14, p.Horizon)
	assert.Equal(t, 7, p.SeasonLength)
	assert.Equal(t, 14, p.Holdout)
	assert.Equal(t, "interpolate", p.MissingStrategy)
	assert.Equal(t, forecast.Auto, p.Model)
	assert.Equal(t, "units", p.MetricLabel)
	assert.NoError(t, p.Validate())
}

func TestLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("horizon: 3\nmodel: holt\nmetric_label: cases\n"), 0644))

	p, err := LoadParams(path, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 3, p.Horizon)
	assert.Equal(t, "holt", p.Model)
	assert.Equal(t, "cases", p.MetricLabel)
	assert.Equal(t, 7, p.SeasonLength)

	require.NoError(t, os.WriteFile(path, []byte("horizon: [oops"), 0644))
	_, err = LoadParams(path, DefaultParams())
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestBuildKPIs(t *testing.T) {
	s := csvSession(t, 20, 1, nil)
	p := DefaultParams()
	p.MetricLabel = "boxes"

	res, err := s.Run(p)
	require.NoError(t, err)
	require.Len(t, res.KPIs, 10)
	assert.Equal(t, "Observations", res.KPIs[0].Name)
	assert.Equal(t, "20", res.KPIs[0].Value)
	assert.Equal(t, "Daily (~1 day step)", res.KPIs[1].Value)
	assert.Equal(t, "Mean (boxes)", res.KPIs[4].Name)
}

func TestResult_Warnings(t *testing.T) {
	assert.Empty(t, (&Result{}).Warnings())

	r := &Result{InvalidValues: 3, TargetColumn: "qty"}
	r.Profile.Outliers = 2
	w := r.Warnings()
	require.Len(t, w, 2)
	assert.Equal(t, "Dropped 0 rows with unreadable dates and 3 rows with unreadable qty values.", w[0])
	assert.Equal(t, "2 periods lie 3 or more standard deviations from the mean.", w[1])
}

func TestBacktest(t *testing.T) {
	s := csvSession(t, 60, 1, nil)

	p := DefaultParams()
	p.Horizon = 7
	p.Model = string(forecast.SeasonalNaive)

	bt, prep, err := s.Backtest(p, BacktestOptions{MaxCheckpoints: 3})
	require.NoError(t, err)
	assert.Equal(t, forecast.SeasonalNaive, bt.Model)
	assert.False(t, bt.AutoSelected)
	assert.Equal(t, 7, bt.Horizon)
	assert.Len(t, bt.WalkForward.Checkpoints, 3)
	assert.Len(t, prep.Regular.Points, 60)
	assert.Empty(t, prep.Warnings())
}

func TestBacktest_AutoPicksBenchmarkWinner(t *testing.T) {
	s := csvSession(t, 40, 1, nil)

	bt, _, err := s.Backtest(DefaultParams(), BacktestOptions{})
	require.NoError(t, err)
	assert.True(t, bt.AutoSelected)

	res, err := s.Run(DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, res.Chosen, bt.Model)
}

func TestBacktest_Validates(t *testing.T) {
	s := csvSession(t, 20, 1, nil)
	p := DefaultParams()
	p.Horizon = 0

	_, _, err := s.Backtest(p, BacktestOptions{})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}
