package stats

import (
	"math"
	"testing"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name            string
		actual, pred    []float64
		mae, rmse, mape float64
	}{
		{"Exact", []float64{1, 2, 3}, []float64{1, 2, 3}, 0, 0, 0},
		{"Offsets", []float64{10, 20}, []float64{12, 16}, 3, math.Sqrt(10), 20},
		{"ZeroActualSkippedForMAPE", []float64{0, 10}, []float64{5, 15}, 5, 5, 50},
		{"AllZeroActuals", []float64{0, 0}, []float64{1, 1}, 1, 1, 0},
		{"Empty", nil, nil, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MAE(tt.actual, tt.pred); math.Abs(got-tt.mae) > 1e-9 {
				t.Errorf("MAE = %v, want %v", got, tt.mae)
			}
			if got := RMSE(tt.actual, tt.pred); math.Abs(got-tt.rmse) > 1e-9 {
				t.Errorf("RMSE = %v, want %v", got, tt.rmse)
			}
			if got := MAPE(tt.actual, tt.pred); math.Abs(got-tt.mape) > 1e-9 {
				t.Errorf("MAPE = %v, want %v", got, tt.mape)
			}
		})
	}
}
