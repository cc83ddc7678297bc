package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"demandcast/internal/ingest"
	"demandcast/internal/pipeline"
	"demandcast/internal/report"
	"demandcast/internal/ui"
	"demandcast/internal/visuals"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var forecastOpts struct {
	dateCol      string
	targetCol    string
	metric       string
	horizon      int
	seasonLength int
	holdout      int
	missing      string
	model        string
	paramsFile   string
	sheet        string
	interactive  bool
	jsonOut      bool
	mermaid      bool
	reportPath   string
	open         bool
	walkForward  bool
}

var forecastCmd = &cobra.Command{
	Use:   "forecast FILE",
	Short: "Profile a series, benchmark the models and forecast ahead",
	Long: `Reads FILE (delimited text or .xlsx), aggregates the date/target columns per day, fills gaps,
benchmarks the models on a holdout and forecasts with the best one (or --model).

Parameters are layered: built-in defaults, DEFAULT_* environment settings, --params YAML file, then flags.`,
	Args: cobra.ExactArgs(1),
	RunE: runForecast,
}

func runForecast(cmd *cobra.Command, args []string) error {
	o := forecastOpts
	out := cmd.OutOrStdout()

	session, err := openSession(args[0], o.sheet)
	if err != nil {
		return err
	}

	p := cfg.RunParams()
	if o.paramsFile != "" {
		if p, err = pipeline.LoadParams(o.paramsFile, p); err != nil {
			return err
		}
	}
	applyFlags(cmd, &p)

	if o.interactive {
		suggestedDate, suggestedTarget := session.SuggestedColumns()
		choice, err := ui.SelectColumns(session.Headers(), ui.ColumnChoice{
			DateColumn:   firstNonEmpty(p.DateColumn, suggestedDate),
			TargetColumn: firstNonEmpty(p.TargetColumn, suggestedTarget),
			MetricLabel:  p.MetricLabel,
		})
		if err != nil {
			return err
		}
		p.DateColumn, p.TargetColumn, p.MetricLabel = choice.DateColumn, choice.TargetColumn, choice.MetricLabel
	}

	res, err := session.Run(p)
	if err != nil {
		return err
	}

	var bt *pipeline.Backtest
	if o.walkForward {
		if bt, _, err = session.Backtest(p, pipeline.BacktestOptions{}); err != nil {
			return err
		}
	}

	if o.jsonOut {
		if err := writeJSON(out, res, bt); err != nil {
			return err
		}
	} else {
		printer := ui.NewPrinter(out)
		printer.Result(res)
		if bt != nil {
			fmt.Fprintln(out)
			printer.Backtest(&bt.WalkForward)
		}
	}

	if o.mermaid {
		charts := []string{
			visuals.GenerateForecastChart(res),
			visuals.GenerateModelChart(res.Scores),
			visuals.GenerateSeasonalityChart(res.Seasonal),
			visuals.GenerateHistogramChart(res.Histogram),
		}
		if bt != nil {
			charts = append(charts, visuals.GenerateBacktestChart(&bt.WalkForward))
		}
		for _, c := range charts {
			if c != "" {
				fmt.Fprintf(out, "\n%s\n", c)
			}
		}
	}

	if o.reportPath != "" || o.open {
		path := o.reportPath
		if path == "" {
			path = report.DefaultPath(cfg.ReportDir, res.Source, time.Now())
		}
		opts := report.Options{}
		if bt != nil {
			opts.Backtest = &bt.WalkForward
		}
		if err := report.WriteFile(path, res, opts); err != nil {
			return err
		}
		if !o.jsonOut {
			fmt.Fprintf(out, "\nReport written to %s\n", path)
		}
		if o.open {
			if err := report.Open(path); err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to open report in browser")
			}
		}
	}
	return nil
}

// applyFlags overrides p with the flags the user actually set.
func applyFlags(cmd *cobra.Command, p *pipeline.Params) {
	o := forecastOpts
	f := cmd.Flags()
	if f.Changed("date-col") {
		p.DateColumn = o.dateCol
	}
	if f.Changed("target-col") {
		p.TargetColumn = o.targetCol
	}
	if f.Changed("metric") {
		p.MetricLabel = strings.TrimSpace(o.metric)
	}
	if f.Changed("horizon") {
		p.Horizon = o.horizon
	}
	if f.Changed("season-length") {
		p.SeasonLength = o.seasonLength
	}
	if f.Changed("holdout") {
		p.Holdout = o.holdout
	}
	if f.Changed("missing") {
		p.MissingStrategy = o.missing
	}
	if f.Changed("model") {
		p.Model = o.model
	}
}

func writeJSON(w io.Writer, res *pipeline.Result, bt *pipeline.Backtest) error {
	doc := struct {
		*pipeline.Result
		Warnings []string           `json:"warnings,omitempty"`
		Backtest *pipeline.Backtest `json:"backtest,omitempty"`
	}{res, res.Warnings(), bt}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// openSession reads a file into a session, resolving relative paths against
// the working directory first and DATA_PATH second.
func openSession(path, sheet string) (*pipeline.Session, error) {
	if !filepath.IsAbs(path) && !exists(path) && cfg != nil {
		path = cfg.ResolvePath(path)
	}

	var (
		table *ingest.Table
		err   error
	)
	if sheet != "" {
		table, err = ingest.ReadWorkbook(path, sheet)
	} else {
		table, err = ingest.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("rows", len(table.Rows)).Strs("headers", table.Headers).Msg("Input loaded")
	return pipeline.NewSession(path, table), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	f := forecastCmd.Flags()
	f.StringVar(&forecastOpts.dateCol, "date-col", "", "date column (default: guessed from headers)")
	f.StringVar(&forecastOpts.targetCol, "target-col", "", "numeric column to forecast (default: guessed from headers)")
	f.StringVar(&forecastOpts.metric, "metric", "units", "unit label shown in KPIs")
	f.IntVar(&forecastOpts.horizon, "horizon", 14, "periods to forecast")
	f.IntVar(&forecastOpts.seasonLength, "season-length", 7, "periods per season")
	f.IntVar(&forecastOpts.holdout, "holdout", 14, "trailing periods used to score models (min 3)")
	f.StringVar(&forecastOpts.missing, "missing", "interpolate", "gap filling: interpolate or forward")
	f.StringVar(&forecastOpts.model, "model", "auto", "auto, holt, seasonal_naive or trend_seasonal")
	f.StringVar(&forecastOpts.paramsFile, "params", "", "YAML file with run parameters")
	f.StringVar(&forecastOpts.sheet, "sheet", "", "workbook sheet (default: first sheet)")
	f.BoolVarP(&forecastOpts.interactive, "interactive", "i", false, "choose columns interactively")
	f.BoolVar(&forecastOpts.jsonOut, "json", false, "print the result as JSON")
	f.BoolVar(&forecastOpts.mermaid, "mermaid", false, "print Mermaid charts")
	f.StringVar(&forecastOpts.reportPath, "report", "", "write an HTML report to this path")
	f.BoolVar(&forecastOpts.open, "open", false, "open the HTML report in a browser (writes to REPORT_DIR when --report is not set)")
	f.BoolVar(&forecastOpts.walkForward, "walk-forward", false, "also run a walk-forward backtest of the chosen model")
	rootCmd.AddCommand(forecastCmd)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
