package visuals

import (
	"fmt"
	"math"
	"strings"
	"time"

	"demandcast/internal/benchmark"
	"demandcast/internal/pipeline"
	"demandcast/internal/series"
	"demandcast/internal/stats"

	"gonum.org/v1/gonum/floats"
)

// maxPoints is roughly where Mermaid's xychart layout starts overlapping axis labels.
const maxPoints = 60

// GenerateForecastChart creates a Mermaid xychart-beta with the regular history followed by
// the forecast as one path, and the rolling average held flat across the horizon.
func GenerateForecastChart(res *pipeline.Result) string {
	if res == nil || len(res.History) == 0 {
		return ""
	}

	labels := res.Labels()
	path := make([]float64, 0, len(labels))
	baseline := make([]float64, 0, len(labels))
	for i, p := range res.History {
		path = append(path, p.Value)
		if i < len(res.Rolling) {
			baseline = append(baseline, res.Rolling[i])
		}
	}
	last := 0.0
	if len(baseline) > 0 {
		last = baseline[len(baseline)-1]
	}
	for len(baseline) < len(res.History) {
		baseline = append(baseline, last)
	}
	for _, p := range res.Forecast {
		path = append(path, p.Value)
		baseline = append(baseline, last)
	}

	rate := subsampleRate(len(labels))
	dateFormat := "Jan02"
	if res.Profile.Granularity == series.Monthly {
		dateFormat = "Jan06"
	}

	var xs, ys, rs []string
	maxY := 0.0
	for i := range labels {
		if i%rate == 0 || i == len(labels)-1 {
			xs = append(xs, fmt.Sprintf("\"%s\"", shortDate(labels[i], dateFormat)))
			ys = append(ys, fmt.Sprintf("%.1f", path[i]))
			rs = append(rs, fmt.Sprintf("%.1f", baseline[i]))
		}
		maxY = math.Max(maxY, path[i])
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"History and Forecast (%s)\"\n", res.ChosenLabel))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(xs, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"%s\" 0 --> %d\n", axisLabel(res.MetricLabel), ceilY(maxY)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(ys, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(rs, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateSeasonalityChart creates a Mermaid bar chart of the average per weekday or month.
func GenerateSeasonalityChart(profile stats.SeasonalProfile) string {
	if len(profile.Labels) == 0 {
		return ""
	}

	var labels, values []string
	maxVal := 0.0
	for i, l := range profile.Labels {
		labels = append(labels, fmt.Sprintf("\"%s\"", l))
		values = append(values, fmt.Sprintf("%.1f", profile.Values[i]))
		maxVal = math.Max(maxVal, profile.Values[i])
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"%s\"\n", profile.Title))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Average\" 0 --> %d\n", ceilY(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateHistogramChart creates a Mermaid bar chart of the value distribution.
func GenerateHistogramChart(h stats.Histogram) string {
	if len(h.Bins) == 0 {
		return ""
	}

	var labels, values []string
	maxVal := 0
	for _, b := range h.Bins {
		labels = append(labels, fmt.Sprintf("\"%s\"", b.Label))
		values = append(values, fmt.Sprintf("%d", b.Count))
		maxVal = max(maxVal, b.Count)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Value Distribution\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Periods\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateModelChart creates a Mermaid bar chart of holdout MAE per model, best first.
func GenerateModelChart(scores []benchmark.Score) string {
	if len(scores) == 0 {
		return ""
	}

	var labels, values []string
	maxVal := 0.0
	for _, s := range scores {
		labels = append(labels, fmt.Sprintf("\"%s\"", s.Label))
		values = append(values, fmt.Sprintf("%.2f", s.MAE))
		maxVal = math.Max(maxVal, s.MAE)
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Holdout Error by Model (MAE)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"MAE\" 0 --> %d\n", ceilY(maxVal)))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateBacktestChart creates a Mermaid line chart of actual against predicted totals per checkpoint.
func GenerateBacktestChart(res *benchmark.WalkForwardResult) string {
	if res == nil || len(res.Checkpoints) == 0 {
		return ""
	}

	var labels, actual, predicted []string
	maxY := 0.0
	for _, c := range res.Checkpoints {
		labels = append(labels, fmt.Sprintf("\"%s\"", shortDate(c.Date, "Jan02")))
		a, p := floats.Sum(c.Actual), floats.Sum(c.Predicted)
		actual = append(actual, fmt.Sprintf("%.1f", a))
		predicted = append(predicted, fmt.Sprintf("%.1f", p))
		maxY = math.Max(maxY, math.Max(a, p))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Walk-Forward Backtest (%s)\"\n", res.Model.Label()))
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Horizon Total\" 0 --> %d\n", ceilY(maxY)))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(actual, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(predicted, ", ")))
	sb.WriteString("```")
	return sb.String()
}

func subsampleRate(n int) int {
	if n > maxPoints {
		return int(math.Ceil(float64(n) / maxPoints))
	}
	return 1
}

func ceilY(v float64) int {
	return max(1, int(math.Ceil(v*1.1)))
}

func shortDate(s, layout string) string {
	t, err := time.Parse(series.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format(layout)
}

func axisLabel(metric string) string {
	if metric == "" {
		return "Value"
	}
	return strings.ReplaceAll(metric, "\"", "'")
}
