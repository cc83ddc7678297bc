package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"demandcast/internal/benchmark"
	"demandcast/internal/pipeline"
	"demandcast/internal/stats"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ChosenMarker flags the model used for the final forecast.
const ChosenMarker = "★"

// Printer writes styled output to one writer.
type Printer struct {
	w  io.Writer
	st Styles
}

// NewPrinter returns a Printer whose colour profile is detected from w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, st: NewStyles(lipgloss.NewRenderer(w))}
}

// Result prints the headline, KPI panel, model ranking and forecast of a run.
func (p *Printer) Result(res *pipeline.Result) {
	fmt.Fprintln(p.w, p.st.Title.Render("Demand forecast"))
	if res.Source != "" {
		fmt.Fprintln(p.w, p.st.Muted.Render(fmt.Sprintf("%s · %s → %s", res.Source, res.DateColumn, res.TargetColumn)))
	}
	for _, w := range res.Warnings() {
		fmt.Fprintln(p.w, p.st.Warning.Render("⚠ "+w))
	}
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.KPIPanel(res.KPIs))
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.st.Subtitle.Render(fmt.Sprintf("Model benchmark (holdout %d)", res.Holdout)))
	fmt.Fprintln(p.w, p.ModelTable(res))
	fmt.Fprintln(p.w, p.st.Bold.Render(res.Summary))
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.st.Subtitle.Render(fmt.Sprintf("Forecast (%s)", res.MetricLabel)))
	fmt.Fprintln(p.w, p.ForecastTable(res.Forecast))
}

// KPIPanel lays the KPIs out in a bordered two-column box.
func (p *Printer) KPIPanel(kpis []pipeline.KPI) string {
	width := 0
	for _, k := range kpis {
		width = max(width, lipgloss.Width(k.Name))
	}
	lines := make([]string, len(kpis))
	for i, k := range kpis {
		name := p.st.KPIName.Render(k.Name + strings.Repeat(" ", width-lipgloss.Width(k.Name)))
		lines[i] = name + "  " + p.st.KPIValue.Render(k.Value)
	}
	return p.st.Box.Render(strings.Join(lines, "\n"))
}

// ModelTable ranks the benchmark scores, marking the chosen model.
func (p *Printer) ModelTable(res *pipeline.Result) string {
	rows := make([][]string, len(res.Scores))
	chosenRow := -1
	for i, s := range res.Scores {
		label := s.Label
		if res.IsChosen(s.Model) {
			label += " " + ChosenMarker
			chosenRow = i
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			label,
			stats.FormatFixed(s.MAE, 2),
			stats.FormatFixed(s.RMSE, 2),
			stats.FormatFixed(s.MAPE, 2),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.st.Muted).
		Headers("#", "Model", "MAE", "RMSE", "MAPE %").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return p.st.Header
			case row == chosenRow:
				return p.st.Chosen
			default:
				return p.st.Cell
			}
		}).
		String()
}

// ForecastTable lists the forecast dates and values.
func (p *Printer) ForecastTable(points []pipeline.Point) string {
	rows := make([][]string, len(points))
	for i, pt := range points {
		rows[i] = []string{pt.Date, stats.FormatFixed(pt.Value, 2)}
	}
	return p.simpleTable([]string{"Date", "Forecast"}, rows)
}

// Backtest prints the walk-forward checkpoints and verdict.
func (p *Printer) Backtest(res *benchmark.WalkForwardResult) {
	fmt.Fprintln(p.w, p.st.Subtitle.Render("Walk-forward backtest"))
	if len(res.Checkpoints) > 0 {
		rows := make([][]string, len(res.Checkpoints))
		for i, c := range res.Checkpoints {
			rows[i] = []string{c.Date, strconv.Itoa(c.TrainSize), stats.FormatFixed(c.MAE, 2), stats.FormatFixed(c.MAPE, 2)}
		}
		fmt.Fprintln(p.w, p.simpleTable([]string{"Cut date", "Train", "MAE", "MAPE %"}, rows))
	}
	fmt.Fprintln(p.w, res.ValidationMessage)
}

// Inspect prints what is known about an input before any run.
func (p *Printer) Inspect(s *pipeline.Session, preview int) {
	dateCol, targetCol := s.SuggestedColumns()
	fmt.Fprintln(p.w, p.st.Title.Render(s.Source()))
	fmt.Fprintln(p.w, p.KPIPanel([]pipeline.KPI{
		{Name: "Rows", Value: strconv.Itoa(s.RowCount())},
		{Name: "Columns", Value: strconv.Itoa(len(s.Headers()))},
		{Name: "Suggested date column", Value: dateCol},
		{Name: "Suggested target column", Value: targetCol},
	}))

	rows := s.Rows()
	if preview > len(rows) {
		preview = len(rows)
	}
	out := make([][]string, preview)
	for i := 0; i < preview; i++ {
		line := make([]string, len(s.Headers()))
		for j, h := range s.Headers() {
			line[j] = rows[i][h]
		}
		out[i] = line
	}
	fmt.Fprintln(p.w, p.simpleTable(s.Headers(), out))
}

// Error prints err in the error style.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.st.Error.Render("✗ "+err.Error()))
}

func (p *Printer) simpleTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.st.Muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.st.Header
			}
			return p.st.Cell
		}).
		String()
}
