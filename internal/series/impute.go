package series

import (
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

// Strategy selects how grid slots without an observation are filled.
type Strategy string

const (
	StrategyInterpolate Strategy = "interpolate"
	StrategyForward     Strategy = "forward"
)

// Impute places s on a uniform grid whose step is the median spacing of the
// input, then fills the slots that have no observation. Observations that do
// not fall on the grid are dropped. The input is not modified.
func Impute(s Series, strategy Strategy) Regular {
	if len(s) < 2 {
		points := make(Series, len(s))
		copy(points, s)
		return Regular{Points: points, StepDays: 1, Granularity: Daily}
	}

	step := inferStep(s)
	known := make(map[time.Time]float64, len(s))
	for _, o := range s {
		known[Day(o.Date)] = o.Value
	}

	first, last := Day(s[0].Date), Day(s[len(s)-1].Date)
	var dates []time.Time
	var present []bool
	for d := first; !d.After(last); d = d.AddDate(0, 0, step) {
		dates = append(dates, d)
		_, ok := known[d]
		present = append(present, ok)
	}

	values := make([]float64, len(dates))
	added := 0
	for i, d := range dates {
		if present[i] {
			values[i] = known[d]
			continue
		}
		added++
		if strategy == StrategyForward {
			if i > 0 {
				values[i] = values[i-1]
			}
			continue
		}
		values[i] = interpolate(values, present, i)
	}

	points := make(Series, len(dates))
	for i, d := range dates {
		points[i] = Observation{Date: d, Value: values[i]}
	}

	log.Debug().
		Int("step", step).
		Int("slots", len(points)).
		Int("added", added).
		Str("strategy", string(strategy)).
		Msg("Imputed regular series")

	return Regular{
		Points:      points,
		StepDays:    step,
		Added:       added,
		Granularity: GranularityFor(step),
	}
}

// interpolate fills slot i from the nearest filled slot on each side. Slots
// left of i are already filled because the grid is walked in order.
func interpolate(values []float64, present []bool, i int) float64 {
	prev := i - 1
	next := -1
	for j := i + 1; j < len(present); j++ {
		if present[j] {
			next = j
			break
		}
	}

	switch {
	case prev >= 0 && next >= 0:
		ratio := float64(i-prev) / float64(next-prev)
		return values[prev] + ratio*(values[next]-values[prev])
	case prev >= 0:
		return values[prev]
	case next >= 0:
		return values[next]
	}
	return 0
}

// inferStep is the lower-middle median of the positive whole-day gaps.
func inferStep(s Series) int {
	var gaps []int
	for i := 1; i < len(s); i++ {
		days := int(math.Round(Day(s[i].Date).Sub(Day(s[i-1].Date)).Hours() / 24))
		if days > 0 {
			gaps = append(gaps, days)
		}
	}
	if len(gaps) == 0 {
		return 1
	}
	slices.Sort(gaps)
	return max(1, gaps[(len(gaps)-1)/2])
}
