package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"demandcast/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, chaos, drift")
	distribution := flag.String("distribution", "uniform", "Noise distribution: uniform, weibull")
	format := flag.String("format", engine.FormatCSV, "Output format: csv, european, xlsx")
	outDir := flag.String("out", "./.cache", "Output directory for mock files")
	count := flag.Int("count", 120, "Number of periods to generate")
	step := flag.Int("step", 1, "Days between periods")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		StepDays:     *step,
		Now:          time.Now(),
		Seed:         *seed,
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d, Step: %dd) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, cfg.StepDays, *outDir)

	records := engine.Generate(cfg)

	name := fmt.Sprintf("demand_%s", cfg.Scenario)
	path, err := engine.Save(*outDir, name, records, *format)
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Done. Wrote %d rows to %s\n", len(records), path)
}
