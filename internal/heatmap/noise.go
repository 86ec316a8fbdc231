package heatmap

import (
	"math"

	"geoveil/internal/types"
)

// laplaceDraw returns one Laplace-mechanism noise value with scale
// 1/epsilon, using the inverse-CDF construction over u ~ U[-0.5, 0.5):
//
//	(1/epsilon) * sign(u) * ln(1 - 2|u|)
//
// From this construction the value is effectively subtracted from the true
// count by the caller. The draw at u = -0.5 would hit ln(0); it is resampled.
func laplaceDraw(epsilon float64, src types.RandSource) float64 {
	for {
		u := src.Float64() - 0.5
		scaled := 1 - 2*math.Abs(u)
		if scaled <= 0 {
			continue
		}
		return (1 / epsilon) * sign(u) * math.Log(scaled)
	}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// noisedCount applies the mechanism to a raw cell count.
func noisedCount(raw int, epsilon float64, src types.RandSource) int {
	return int(math.Round(float64(raw) - laplaceDraw(epsilon, src)))
}
