package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBars(t *testing.T) {
	t.Run("empty series clears the drawing", func(t *testing.T) {
		d := RenderBars(nil, Spec{})

		assert.True(t, d.IsEmpty())
		assert.False(t, d.IsPlaceholder())
		assert.Equal(t, 420.0, d.Width)
		assert.Equal(t, 200.0, d.Height)
	})

	t.Run("geometry with default spec", func(t *testing.T) {
		d := RenderBars(Series{{Label: "COTE", Value: 1}, {Label: "COED", Value: 2}}, Spec{})

		require.Len(t, d.Rects, 2)
		require.Len(t, d.Labels, 2)

		// plot 340x120, slot 170, bar 119
		assert.InDelta(t, 65.5, d.Rects[0].X, 1e-9)
		assert.InDelta(t, 119.0, d.Rects[0].Width, 1e-9)
		assert.InDelta(t, 60.0, d.Rects[0].Height, 1e-9)
		assert.InDelta(t, 100.0, d.Rects[0].Y, 1e-9)

		assert.InDelta(t, 235.5, d.Rects[1].X, 1e-9)
		assert.InDelta(t, 120.0, d.Rects[1].Height, 1e-9)
		assert.InDelta(t, 40.0, d.Rects[1].Y, 1e-9)

		assert.InDelta(t, 125.0, d.Labels[0].X, 1e-9)
		assert.Equal(t, 185.0, d.Labels[0].Y)
		assert.Equal(t, "middle", d.Labels[0].Anchor)
		assert.Equal(t, "#3b82f6", d.Rects[0].Fill)
		assert.Equal(t, 4.0, d.Rects[0].Radius)
	})

	t.Run("bar count matches series length and heights stay in the plot", func(t *testing.T) {
		series := Series{
			{Label: "a", Value: 0.2},
			{Label: "b", Value: 0},
			{Label: "c", Value: 5},
			{Label: "d", Value: -3},
			{Label: "e", Value: math.NaN()},
			{Label: "f", Value: math.Inf(1)},
			{Label: "g", Value: 2.5},
		}
		spec := Spec{Width: 300, Height: 150, Padding: 20}
		_, plotH := spec.withDefaults(DefaultBarSpec).plotArea()

		d := RenderBars(series, spec)

		require.Len(t, d.Rects, len(series))
		for i, r := range d.Rects {
			assert.GreaterOrEqual(t, r.Height, 0.0, "bar %d", i)
			assert.LessOrEqual(t, r.Height, plotH, "bar %d", i)
			assert.InDelta(t, spec.Height-spec.Padding, r.Y+r.Height, 1e-9, "bar %d sits on the baseline", i)
		}
		assert.Equal(t, 0.0, d.Rects[3].Height)
		assert.Equal(t, 0.0, d.Rects[4].Height)
		assert.Equal(t, 0.0, d.Rects[5].Height)
		assert.InDelta(t, plotH, d.Rects[2].Height, 1e-9)
	})

	t.Run("equal values give equal full-height bars", func(t *testing.T) {
		d := RenderBars(Series{{Value: 2}, {Value: 2}, {Value: 2}}, Spec{})

		require.Len(t, d.Rects, 3)
		for _, r := range d.Rects {
			assert.InDelta(t, 120.0, r.Height, 1e-9)
		}
	})

	t.Run("all zero values do not divide by zero", func(t *testing.T) {
		d := RenderBars(Series{{Value: 0}, {Value: 0}}, Spec{})

		for _, r := range d.Rects {
			assert.Equal(t, 0.0, r.Height)
			assert.False(t, math.IsNaN(r.Y))
		}
	})

	t.Run("labels are truncated to eight characters", func(t *testing.T) {
		d := RenderBars(Series{{Label: "Mathematics in the Modern World", Value: 1}, {Label: "Café au lait", Value: 1}}, Spec{})

		assert.Equal(t, "Mathemat", d.Labels[0].Text)
		assert.Equal(t, "Café au ", d.Labels[1].Text)
	})

	t.Run("custom colour is normalised", func(t *testing.T) {
		d := RenderBars(Series{{Value: 1}}, Spec{Color: "#F87171"})
		assert.Equal(t, "#f87171", d.Rects[0].Fill)

		d = RenderBars(Series{{Value: 1}}, Spec{Color: "#abc"})
		assert.Equal(t, "#aabbcc", d.Rects[0].Fill)

		d = RenderBars(Series{{Value: 1}}, Spec{Color: "crimson"})
		assert.Equal(t, "crimson", d.Rects[0].Fill)
	})

	t.Run("rendering twice is structurally identical", func(t *testing.T) {
		series := Series{{Label: "x", Value: 0.4}, {Label: "y", Value: 0.1}}
		assert.Equal(t, RenderBars(series, Spec{}), RenderBars(series, Spec{}))
	})
}

func TestSpecWithDefaults(t *testing.T) {
	s := Spec{Width: 10, Height: 10, Padding: 40}.withDefaults(DefaultBarSpec)
	w, h := s.plotArea()

	assert.Equal(t, 0.0, w)
	assert.Equal(t, 0.0, h)

	s = Spec{Padding: -5}.withDefaults(DefaultLineSpec)
	assert.Equal(t, 40.0, s.Padding)
	assert.Equal(t, 520.0, s.Width)

	s = Spec{Width: math.Inf(1), Height: math.Inf(-1), Padding: math.NaN()}.withDefaults(DefaultBarSpec)
	assert.Equal(t, DefaultBarSpec.Width, s.Width)
	assert.Equal(t, DefaultBarSpec.Height, s.Height)
	assert.Equal(t, DefaultBarSpec.Padding, s.Padding)
}

func TestNonFiniteSpecKeepsGeometryFinite(t *testing.T) {
	spec := Spec{Width: math.NaN(), Height: math.Inf(1), Padding: math.NaN()}

	bars := RenderBars(Series{{Label: "a", Value: 1}}, spec)
	require.Len(t, bars.Rects, 1)
	r := bars.Rects[0]
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height, bars.Width, bars.Height} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "bar geometry %v", r)
	}
	assert.Equal(t, 120.0, r.Height, "full plot height for the only bar")
	assert.NotContains(t, Markup(bars), "NaN")

	line := RenderLine(Timeline{{Value: 2}, {Value: 1.5}}, spec)
	require.Len(t, line.Paths, 1)
	for _, p := range line.Paths[0].Points {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "line point %v", p)
	}
}
