package engine

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Output formats understood by Save.
const (
	FormatCSV      = "csv"
	FormatEuropean = "european"
	FormatXLSX     = "xlsx"
)

// Stores split every day's demand so that the files carry several rows per date.
var Stores = []string{"north", "south"}

// Weekday multipliers, Sunday first.
var weekly = [7]float64{0.8, 1.0, 1.05, 1.1, 1.15, 1.3, 0.9}

type GeneratorConfig struct {
	Scenario     string // mild, chaos or drift
	Distribution string // "uniform" or "weibull" noise
	Count        int    // Number of periods
	StepDays     int    // Spacing between periods; defaults to 1
	Now          time.Time
	Seed         int64
}

// Record is one store's demand on one date.
type Record struct {
	Date  time.Time
	Store string
	Units float64
}

// Generate produces Count periods of synthetic demand ending at cfg.Now: a
// linear trend times a weekly pattern times noise, split across Stores.
func Generate(cfg GeneratorConfig) []Record {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.StepDays < 1 {
		cfg.StepDays = 1
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	end := time.Date(cfg.Now.Year(), cfg.Now.Month(), cfg.Now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -cfg.StepDays*(cfg.Count-1))

	var records []Record
	for i := 0; i < cfg.Count; i++ {
		date := start.AddDate(0, 0, i*cfg.StepDays)

		// 1. Scenario parameters
		level, slope, noise, gapRate, spikeRate := 100.0, 0.5, 0.05, 0.0, 0.0
		switch cfg.Scenario {
		case "chaos":
			noise, gapRate, spikeRate = 0.25, 0.1, 0.05
		case "drift":
			if i > cfg.Count/2 {
				level *= 1.4
				slope = 1.5
			}
		}

		// 2. Missing periods, except at the edges so the range is stable
		if i > 0 && i < cfg.Count-1 && rng.Float64() < gapRate {
			continue
		}

		// 3. Sample demand
		base := (level + slope*float64(i)) * weekly[date.Weekday()]
		var factor float64
		if cfg.Distribution == "weibull" {
			factor = 1 + noise*(weibullSample(rng, 2.0, 1.0)-0.886)
		} else {
			factor = 1 + noise*(2*rng.Float64()-1)
		}
		if rng.Float64() < spikeRate {
			factor *= 3
		}
		total := math.Max(0, math.Round(base*factor))

		// 4. Split across stores
		share := math.Round(total * 0.6)
		records = append(records,
			Record{Date: date, Store: Stores[0], Units: share},
			Record{Date: date, Store: Stores[1], Units: total - share},
		)
	}
	return records
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// CSV renders records as delimited text. FormatEuropean uses ';' and
// European number notation; anything else is plain comma-separated.
func CSV(records []Record, format string) string {
	var sb strings.Builder
	if format == FormatEuropean {
		sb.WriteString("Datum;Filiale;Sales\n")
		for _, r := range records {
			fmt.Fprintf(&sb, "%s;%s;%s\n", r.Date.Format("2006-01-02"), r.Store, europeanNumber(r.Units))
		}
		return sb.String()
	}
	sb.WriteString("date,store,demand\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "%s,%s,%s\n", r.Date.Format("2006-01-02"), r.Store, strconv.FormatFloat(r.Units, 'f', -1, 64))
	}
	return sb.String()
}

// europeanNumber formats v as 1.234,00.
func europeanNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(whole, "-")
	whole = strings.TrimPrefix(whole, "-")

	var grouped []string
	for len(whole) > 3 {
		grouped = append([]string{whole[len(whole)-3:]}, grouped...)
		whole = whole[:len(whole)-3]
	}
	grouped = append([]string{whole}, grouped...)

	out := strings.Join(grouped, ".") + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Save writes records to outDir/<name>.<ext> and returns the path.
func Save(outDir, name string, records []Record, format string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	if format == FormatXLSX {
		path := filepath.Join(outDir, name+".xlsx")
		return path, saveWorkbook(path, records)
	}

	path := filepath.Join(outDir, name+".csv")
	return path, os.WriteFile(path, []byte(CSV(records, format)), 0644)
}

// saveWorkbook stores dates as Excel serial numbers, the way spreadsheets keep them.
func saveWorkbook(path string, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []any{"Date", "Store", "Qty"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	epoch := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Date.Sub(epoch).Hours() / 24, r.Store, r.Units}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
