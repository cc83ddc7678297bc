package stats

import "demandcast/internal/series"

var (
	weekdayLabels = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	monthLabels   = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// SeasonalProfile is the average value per calendar bucket.
type SeasonalProfile struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Seasonality buckets daily series by weekday and everything else by month.
// Each bucket holds the mean of its members rounded to two decimals, or zero when empty.
func Seasonality(points series.Series, g series.Granularity) SeasonalProfile {
	byWeekday := g == series.Daily

	labels := monthLabels
	title := "Average by month"
	if byWeekday {
		labels = weekdayLabels
		title = "Average by weekday"
	}

	sums := make([]float64, len(labels))
	counts := make([]int, len(labels))
	for _, o := range points {
		idx := int(o.Date.UTC().Month()) - 1
		if byWeekday {
			idx = int(o.Date.UTC().Weekday())
		}
		sums[idx] += o.Value
		counts[idx]++
	}

	values := make([]float64, len(labels))
	for i := range values {
		if counts[i] > 0 {
			values[i] = Round2(sums[i] / float64(counts[i]))
		}
	}

	return SeasonalProfile{
		Title:  title,
		Labels: append([]string(nil), labels...),
		Values: values,
	}
}
