package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brakepad/microgen/geom"
	"github.com/brakepad/microgen/io"
)

func TestHistogramLinear(t *testing.T) {
	xs := []float64{0, 0.5, 1, 1.5, 2, 3.99, 4, 4.5, -1, math.NaN()}
	centers, counts := Histogram(xs, HistInfo{Min: 0, Max: 4, Bins: 4})

	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, centers)
	assert.Equal(t, []int{2, 2, 1, 2}, counts)
}

func TestHistogramLog(t *testing.T) {
	xs := []float64{1, 5, 10, 50, 99, 100, 1000}
	centers, counts := Histogram(xs, HistInfo{Min: 1, Max: 100, Bins: 2, Log: true})

	assert.InDelta(t, math.Sqrt(10), centers[0], 1e-12)
	assert.InDelta(t, math.Sqrt(1000), centers[1], 1e-12)
	assert.Equal(t, []int{2, 4}, counts)
}

func TestRadiusRatios(t *testing.T) {
	rows := []io.QualityRow{
		{ID: 1, Quality: geom.Quality{RadiusRatio: 3.5}},
		{ID: 2, Quality: geom.Quality{RadiusRatio: math.Inf(1), Degenerate: true}},
		{ID: 3, Quality: geom.Quality{RadiusRatio: 40, Bad: true}},
		{ID: 4, Quality: geom.Quality{RadiusRatio: math.NaN()}},
	}

	ratios, degenerate := RadiusRatios(rows)
	assert.Equal(t, []float64{3.5, 40}, ratios)
	assert.Equal(t, 2, degenerate)

	info := QualityHistInfo(ratios)
	assert.Equal(t, 3.0, info.Min)
	assert.Equal(t, 40.0, info.Max)
	assert.True(t, info.Log)

	info = QualityHistInfo([]float64{3.1})
	assert.Equal(t, 2*geom.BadRadiusRatio, info.Max)
}
