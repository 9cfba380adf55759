package chart

import "math"

const (
	NoHistory = "No history available"

	lineWidth    = 3
	markerRadius = 5
	markerFill   = "#fff"
)

// RenderLine plots a timeline as a connected line with a circle marker on
// each point. Points are spread evenly across the plot width in sequence
// order. The y axis is inverted against SVG space so that a higher value
// lands on a lower y coordinate. A flat timeline uses a range of 1 and a
// single point uses a spacing divisor of 1.
//
// A timeline with no finite values yields a placeholder drawing.
func RenderLine(timeline Timeline, spec Spec) Drawing {
	spec = spec.withDefaults(DefaultLineSpec)
	d := Drawing{Width: spec.Width, Height: spec.Height}

	values := finiteValues(timeline)
	if len(values) == 0 {
		d.Placeholder = NoHistory
		return d
	}

	plotW, plotH := spec.plotArea()
	lo, hi := bounds(values)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	divisor := float64(len(values) - 1)
	if divisor == 0 {
		divisor = 1
	}
	step := plotW / divisor

	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{
			X: spec.Padding + float64(i)*step,
			Y: spec.Padding + (1-(v-lo)/span)*plotH,
		}
	}

	d.Paths = []Path{{
		Points:      points,
		Stroke:      spec.Color,
		StrokeWidth: lineWidth,
		LineCap:     "round",
	}}
	d.Circles = make([]Circle, len(points))
	for i, p := range points {
		d.Circles[i] = Circle{
			CX:          p.X,
			CY:          p.Y,
			R:           markerRadius,
			Fill:        markerFill,
			Stroke:      spec.Color,
			StrokeWidth: lineWidth,
		}
	}
	return d
}

// finiteValues drops observations without a usable value, e.g. a GWA that
// could not be computed because no units were recorded yet.
func finiteValues(timeline Timeline) []float64 {
	out := make([]float64, 0, len(timeline))
	for _, p := range timeline {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		out = append(out, p.Value)
	}
	return out
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
