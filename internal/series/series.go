package series

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day key used in outputs.
const DateLayout = "2006-01-02"

// Observation is one calendar day and its summed value.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is an ascending, duplicate-free sequence of observations.
type Series []Observation

// Values returns the observation values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, o := range s {
		out[i] = o.Value
	}
	return out
}

// Labels returns the observation dates as YYYY-MM-DD keys.
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, o := range s {
		out[i] = o.Date.Format(DateLayout)
	}
	return out
}

// Granularity is the human label for the inferred spacing of a series.
type Granularity string

const (
	Daily   Granularity = "Daily"
	Weekly  Granularity = "Weekly"
	Monthly Granularity = "Monthly"
)

// GranularityFor maps a step in days to its label.
func GranularityFor(stepDays int) Granularity {
	switch {
	case stepDays <= 2:
		return Daily
	case stepDays <= 10:
		return Weekly
	case stepDays <= 40:
		return Monthly
	default:
		return Granularity(fmt.Sprintf("Custom (~%d days)", stepDays))
	}
}

// Regular is a series on a uniform grid of StepDays, produced by Impute.
type Regular struct {
	Points      Series      `json:"points"`
	StepDays    int         `json:"step_days"`
	Added       int         `json:"added"`
	Granularity Granularity `json:"granularity"`
}

// InsufficientDataError reports that too few usable points remain for a stage.
type InsufficientDataError struct {
	Msg string
}

func (e *InsufficientDataError) Error() string {
	return e.Msg
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
