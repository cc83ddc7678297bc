package stats

import (
	"math"

	"demandcast/internal/series"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// OutlierZ is the absolute z-score at or above which a point counts as an outlier.
const OutlierZ = 3.0

// Profile holds the descriptive statistics of a regular series.
type Profile struct {
	Observations int                `json:"observations"`
	StartDate    string             `json:"start_date"`
	EndDate      string             `json:"end_date"`
	Mean         float64            `json:"mean"`
	Median       float64            `json:"median"`
	StdDev       float64            `json:"std_dev"`
	CV           float64            `json:"cv"`
	Min          float64            `json:"min"`
	Max          float64            `json:"max"`
	Outliers     int                `json:"outliers"`
	MissingAdded int                `json:"missing_added"`
	Granularity  series.Granularity `json:"granularity"`
	StepDays     int                `json:"step_days"`
}

// Describe summarizes r. StdDev is the sample deviation (n-1), zero below two
// points; CV is zero when the mean is zero; outliers are zero when StdDev is zero.
func Describe(r series.Regular) Profile {
	p := Profile{
		Observations: len(r.Points),
		MissingAdded: r.Added,
		Granularity:  r.Granularity,
		StepDays:     r.StepDays,
	}
	if len(r.Points) == 0 {
		return p
	}

	values := r.Points.Values()
	p.StartDate = r.Points[0].Date.Format(series.DateLayout)
	p.EndDate = r.Points[len(r.Points)-1].Date.Format(series.DateLayout)
	p.Mean = stat.Mean(values, nil)
	p.Median = CalculateMedian(values)
	p.Min = floats.Min(values)
	p.Max = floats.Max(values)

	if len(values) > 1 {
		p.StdDev = stat.StdDev(values, nil)
	}
	if p.Mean != 0 {
		p.CV = p.StdDev / p.Mean
	}
	if p.StdDev > 0 {
		for _, v := range values {
			if math.Abs((v-p.Mean)/p.StdDev) >= OutlierZ {
				p.Outliers++
			}
		}
	}
	return p
}
