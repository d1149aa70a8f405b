package render

import (
	"fmt"
	"math"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/brakepad/microgen/geom"
	"github.com/brakepad/microgen/io"
)

// QualityBins is the number of bins used by PlotQuality.
const QualityBins = 40

// RadiusRatios returns the radius ratios of every non-degenerate element,
// along with the number of degenerate ones.
func RadiusRatios(rows []io.QualityRow) (ratios []float64, degenerate int) {
	ratios = make([]float64, 0, len(rows))
	for i := range rows {
		if rows[i].Degenerate || math.IsInf(rows[i].RadiusRatio, 0) ||
			math.IsNaN(rows[i].RadiusRatio) {
			degenerate++
			continue
		}
		ratios = append(ratios, rows[i].RadiusRatio)
	}
	return ratios, degenerate
}

// QualityHistInfo picks logarithmic bins running from the smallest possible
// radius ratio, 3, to the largest ratio in the mesh.
func QualityHistInfo(ratios []float64) HistInfo {
	max := 2 * geom.BadRadiusRatio
	for _, r := range ratios {
		if r > max {
			max = r
		}
	}
	return HistInfo{Min: 3, Max: max, Bins: QualityBins, Log: true}
}

// PlotQuality queues a histogram of element radius ratios, with the bad
// element threshold marked, to be saved to fname. Nothing is drawn until
// plt.Execute() is called.
func PlotQuality(rows []io.QualityRow, fname string) {
	ratios, degenerate := RadiusRatios(rows)
	info := QualityHistInfo(ratios)
	centers, counts := Histogram(ratios, info)

	ns := make([]float64, len(counts))
	nMax := 1.0
	for i := range counts {
		ns[i] = float64(counts[i])
		if ns[i] > nMax {
			nMax = ns[i]
		}
	}

	bad := 0
	for i := range rows {
		if rows[i].Bad {
			bad++
		}
	}

	plt.Figure()
	plt.Plot(centers, ns, "k", plt.LW(2))
	plt.Plot(
		[]float64{geom.BadRadiusRatio, geom.BadRadiusRatio},
		[]float64{0, 1.1 * nMax}, "r", plt.LW(2),
	)

	plt.Title(fmt.Sprintf(
		"%d elements: %d bad, %d degenerate", len(rows), bad, degenerate,
	))
	plt.XLabel(`$R_{\rm circ}/R_{\rm in}$`, plt.FontSize(16))
	plt.YLabel(`$N$`, plt.FontSize(16))
	plt.XScale("log")
	plt.YLim(0, 1.1*nMax)

	plt.Grid(plt.Axis("y"))
	plt.Grid(plt.Axis("x"), plt.Which("both"))
	plt.SaveFig(fname)
}
