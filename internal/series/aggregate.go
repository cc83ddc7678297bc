package series

import (
	"fmt"
	"math"
	"sort"
	"time"

	"demandcast/internal/ingest"

	"github.com/rs/zerolog/log"
)

// Aggregation is the outcome of collapsing raw rows into one value per day.
type Aggregation struct {
	Series        Series `json:"series"`
	InvalidDates  int    `json:"invalid_dates"`
	InvalidValues int    `json:"invalid_values"`
}

// Aggregate parses dateCol and valueCol of every row, sums values sharing a
// UTC calendar day and returns the days in ascending order. Rows with an
// unreadable date are counted as invalid dates; rows with a readable date but a
// non-finite value are counted as invalid values. Both are dropped, as are
// days whose sum overflows.
func Aggregate(rows []ingest.Row, dateCol, valueCol string) (*Aggregation, error) {
	agg := &Aggregation{}
	sums := make(map[time.Time]float64)
	rowsPerDay := make(map[time.Time]int)

	for _, row := range rows {
		dt, ok := ingest.ParseDateValue(row[dateCol])
		if !ok {
			agg.InvalidDates++
			continue
		}
		v := ingest.ParseNumericValue(row[valueCol])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			agg.InvalidValues++
			continue
		}
		sums[Day(dt)] += v
		rowsPerDay[Day(dt)]++
	}

	// Days whose total overflowed are dropped and their rows count as invalid values.
	for d, v := range sums {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			agg.InvalidValues += rowsPerDay[d]
			delete(sums, d)
		}
	}

	if len(sums) == 0 {
		return nil, &InsufficientDataError{
			Msg: fmt.Sprintf("No valid rows found after parsing selected columns. Invalid dates: %d, invalid metric values: %d.", agg.InvalidDates, agg.InvalidValues),
		}
	}

	agg.Series = make(Series, 0, len(sums))
	for d, v := range sums {
		agg.Series = append(agg.Series, Observation{Date: d, Value: v})
	}
	sort.Slice(agg.Series, func(i, j int) bool {
		return agg.Series[i].Date.Before(agg.Series[j].Date)
	})

	if agg.InvalidDates+agg.InvalidValues > 0 {
		log.Warn().
			Int("invalidDates", agg.InvalidDates).
			Int("invalidValues", agg.InvalidValues).
			Msg("Dropped unparseable rows during aggregation")
	}
	log.Debug().Int("rows", len(rows)).Int("days", len(agg.Series)).Msg("Aggregated rows by day")

	return agg, nil
}
