package chart

import (
	"errors"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned by raster renderers when there is nothing to plot.
var ErrNoData = errors.New("chart: no data to plot")

// The dashboard axis always shows at least the full grading scale.
const (
	scaleBest  = 1.0
	scaleWorst = 5.0
)

// RasterizeTrend writes the dashboard GWA trend as a PNG. The y axis runs
// from the best grade at the top to the worst at the bottom.
func RasterizeTrend(timeline Timeline, spec Spec, w io.Writer) error {
	spec = spec.withDefaults(DefaultLineSpec)

	ys := finiteValues(timeline)
	if len(ys) == 0 {
		return ErrNoData
	}
	xs := make([]float64, len(ys))
	for i := range ys {
		xs[i] = float64(i)
	}
	// go-chart rejects a zero-width x range.
	if len(xs) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
	}

	lo, hi := bounds(ys)
	lo = math.Min(lo, scaleBest)
	hi = math.Max(hi, scaleWorst)

	col := rasterColor(spec.Color)
	pad := int(spec.Padding / 2)

	graph := gochart.Chart{
		Width:  int(spec.Width),
		Height: int(spec.Height),
		Background: gochart.Style{
			Padding: gochart.Box{Top: pad, Left: pad, Right: pad, Bottom: pad},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi, Descending: true},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "GWA over time",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: col,
					StrokeWidth: lineWidth,
					FillColor:   drawing.Color{R: col.R, G: col.G, B: col.B, A: 25},
					DotColor:    col,
					DotWidth:    markerRadius - 1,
				},
			},
		},
	}
	return graph.Render(gochart.PNG, w)
}
