package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"demandcast/internal/benchmark"
	"demandcast/internal/pipeline"
	"demandcast/internal/stats"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

// ChartJS is the charting library the page loads.
const ChartJS = "https://cdn.jsdelivr.net/npm/chart.js@4.4.1/dist/chart.umd.min.js"

var (
	//go:embed assets/report.html.tmpl
	pageTemplate string

	//go:embed assets/report.js
	chartScript string

	page = template.Must(template.New("report").Funcs(template.FuncMap{
		"fixed": stats.FormatFixed,
	}).Parse(pageTemplate))

	minifyOnce sync.Once
	minified   string
	minifyErr  error
)

// Options carry the optional parts of a report.
type Options struct {
	Title     string
	Backtest  *benchmark.WalkForwardResult
	Generated time.Time
}

type view struct {
	Title     string
	Generated string
	Result    *pipeline.Result
	Backtest  *benchmark.WalkForwardResult
	Warnings  []string
	ChartJS   string
	Script    template.JS
}

// Script returns the chart script, minified once per process.
func Script() (string, error) {
	minifyOnce.Do(func() {
		result := api.Transform(chartScript, api.TransformOptions{
			Loader:            api.LoaderJS,
			Target:            api.ES2017,
			MinifyWhitespace:  true,
			MinifyIdentifiers: true,
			MinifySyntax:      true,
		})
		if len(result.Errors) > 0 {
			msgs := make([]string, len(result.Errors))
			for i, m := range result.Errors {
				msgs[i] = m.Text
			}
			minifyErr = fmt.Errorf("failed to minify chart script: %s", strings.Join(msgs, "; "))
			return
		}
		minified = string(result.Code)
		log.Debug().Int("bytes", len(chartScript)).Int("minified", len(minified)).Msg("Minified report script")
	})
	return minified, minifyErr
}

// Render writes a self-contained HTML report for res.
func Render(w io.Writer, res *pipeline.Result, opts Options) error {
	if res == nil {
		return fmt.Errorf("no result to render")
	}
	script, err := Script()
	if err != nil {
		return err
	}

	title := opts.Title
	if title == "" {
		title = "Demand forecast"
		if res.Source != "" {
			title += ": " + filepath.Base(res.Source)
		}
	}
	generated := opts.Generated
	if generated.IsZero() {
		generated = time.Now()
	}

	v := view{
		Title:     title,
		Generated: generated.Format("2006-01-02 15:04"),
		Result:    res,
		Backtest:  opts.Backtest,
		Warnings:  res.Warnings(),
		ChartJS:   ChartJS,
		Script:    template.JS(script),
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// WriteFile renders the report to path, creating its directory.
func WriteFile(path string, res *pipeline.Result, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := Render(f, res, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	log.Info().Str("path", path).Msg("Report written")
	return nil
}

// Open shows the report in the default browser.
func Open(path string) error {
	return browser.OpenFile(path)
}

// DefaultPath names a report after its source and the time it was produced.
func DefaultPath(dir, source string, now time.Time) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "dataset"
	}
	return filepath.Join(dir, fmt.Sprintf("%s-forecast-%s.html", base, now.Format("20060102-150405")))
}
