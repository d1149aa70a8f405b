package render

import (
	"math"
)

// HistInfo describes the bins of a histogram.
type HistInfo struct {
	Min, Max float64
	Bins     int
	// Log spaces the bins evenly in log10(x). Min must then be positive.
	Log bool
}

// Histogram bins xs. centers are the bin midpoints (geometric midpoints for
// logarithmic bins). Values outside of [Min, Max] and NaNs are dropped; Max
// itself goes in the last bin.
func Histogram(xs []float64, info HistInfo) (centers []float64, counts []int) {
	lo, hi := info.Min, info.Max
	if info.Log {
		lo, hi = math.Log10(lo), math.Log10(hi)
	}
	width := (hi - lo) / float64(info.Bins)

	centers = make([]float64, info.Bins)
	counts = make([]int, info.Bins)
	for i := range centers {
		c := lo + (float64(i)+0.5)*width
		if info.Log {
			c = math.Pow(10, c)
		}
		centers[i] = c
	}

	for _, x := range xs {
		if math.IsNaN(x) || x < info.Min || x > info.Max {
			continue
		}
		if info.Log {
			x = math.Log10(x)
		}
		i := int((x - lo) / width)
		if i == info.Bins {
			i--
		}
		counts[i]++
	}

	return centers, counts
}
