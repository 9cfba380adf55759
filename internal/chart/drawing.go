// Package chart turns ordered numeric samples into resolution-independent
// drawing descriptions. Rendering is pure: nothing here touches a display
// surface until a caller mounts the result (see Surface) or encodes it
// (see Markup and RasterizeTrend).
package chart

import "time"

// Sample is one labelled value of a bar series.
type Sample struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered sequence of samples. Position is the only identity.
type Series []Sample

// TimelinePoint is one GWA observation in time.
type TimelinePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"gwa"`
}

// Timeline is an ordered sequence of observations, oldest first.
type Timeline []TimelinePoint

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"rx,omitempty"`
	Fill   string  `json:"fill"`
}

// Path is an open polyline drawn through Points in order.
type Path struct {
	Points      []Point `json:"points"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	LineCap     string  `json:"line_cap,omitempty"`
}

type Circle struct {
	CX          float64 `json:"cx"`
	CY          float64 `json:"cy"`
	R           float64 `json:"r"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
}

type Label struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	Anchor   string  `json:"anchor"`
	FontSize float64 `json:"font_size"`
	Fill     string  `json:"fill"`
}

// Drawing is a declarative vector description sized by its view box.
// Layers paint in a fixed order: paths, rects, circles, labels.
// A drawing with a Placeholder carries no shapes; the caller shows the
// placeholder text instead of a chart.
type Drawing struct {
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Rects       []Rect   `json:"rects,omitempty"`
	Paths       []Path   `json:"paths,omitempty"`
	Circles     []Circle `json:"circles,omitempty"`
	Labels      []Label  `json:"labels,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// IsPlaceholder reports whether d stands in for a chart that had no data.
func (d Drawing) IsPlaceholder() bool {
	return d.Placeholder != ""
}

// IsEmpty reports whether d is a cleared drawing: no shapes, no placeholder.
func (d Drawing) IsEmpty() bool {
	return len(d.Rects) == 0 && len(d.Paths) == 0 && len(d.Circles) == 0 &&
		len(d.Labels) == 0 && d.Placeholder == ""
}
