package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultBins is the number of histogram bins used for the value distribution.
const DefaultBins = 12

// Bin is one equal-width slice of the value range.
type Bin struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// Histogram is the distribution of series values.
type Histogram struct {
	Bins []Bin `json:"bins"`
}

// NewHistogram splits [min, max] of values into equal-width bins. A constant
// series produces a single bin holding every value.
func NewHistogram(values []float64, bins int) Histogram {
	if len(values) == 0 || bins < 1 {
		return Histogram{}
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return Histogram{Bins: []Bin{{
			Label: FormatFixed(lo, 1) + "-" + FormatFixed(hi, 1),
			Start: lo,
			End:   hi,
			Count: len(values),
		}}}
	}

	width := (hi - lo) / float64(bins)
	if math.IsInf(width, 0) {
		// hi-lo overflowed; dividing first keeps the width finite.
		width = hi/float64(bins) - lo/float64(bins)
	}
	h := Histogram{Bins: make([]Bin, bins)}
	for i := range h.Bins {
		start := lo + float64(i)*width
		end := start + width
		h.Bins[i] = Bin{
			Label: FormatFixed(start, 0) + "-" + FormatFixed(end, 0),
			Start: start,
			End:   end,
		}
	}

	for _, v := range values {
		pos := (v - lo) / width
		if math.IsInf(v-lo, 0) {
			pos = v/width - lo/width
		}
		idx := int(math.Floor(pos))
		idx = max(0, min(idx, bins-1))
		h.Bins[idx].Count++
	}
	return h
}
