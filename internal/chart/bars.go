package chart

import "math"

const (
	barFill       = 0.7
	barRadius     = 4
	maxLabelRunes = 8
	labelFontSize = 10
	labelColor    = "#9ca3af"
	labelBaseline = 15
	minBarMax     = 0.001
)

// RenderBars lays out one bar per sample across the plot width. Each sample
// owns an equal slot and its bar fills 70% of the slot, centered. Heights
// scale linearly against the largest value (floored at 0.001). Labels are
// cut to 8 characters and centered under their bar.
//
// An empty series yields an empty drawing.
func RenderBars(series Series, spec Spec) Drawing {
	spec = spec.withDefaults(DefaultBarSpec)
	d := Drawing{Width: spec.Width, Height: spec.Height}
	if len(series) == 0 {
		return d
	}

	plotW, plotH := spec.plotArea()

	peak := minBarMax
	for _, s := range series {
		if v := barValue(s.Value); v > peak {
			peak = v
		}
	}

	slot := plotW / float64(len(series))
	barW := slot * barFill

	d.Rects = make([]Rect, 0, len(series))
	d.Labels = make([]Label, 0, len(series))
	for i, s := range series {
		x := spec.Padding + float64(i)*slot + (slot-barW)/2
		h := barValue(s.Value) / peak * plotH
		y := spec.Height - spec.Padding - h

		d.Rects = append(d.Rects, Rect{
			X:      x,
			Y:      y,
			Width:  barW,
			Height: h,
			Radius: barRadius,
			Fill:   spec.Color,
		})
		d.Labels = append(d.Labels, Label{
			X:        x + barW/2,
			Y:        spec.Height - labelBaseline,
			Text:     truncate(s.Label, maxLabelRunes),
			Anchor:   "middle",
			FontSize: labelFontSize,
			Fill:     labelColor,
		})
	}
	return d
}

// barValue maps values that cannot be drawn as a bar (NaN, infinities,
// negatives) to zero height.
func barValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
