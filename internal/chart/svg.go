package chart

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

const svgNS = "http://www.w3.org/2000/svg"

// Markup encodes d as an inline SVG element scaled to its container through
// the view box. Placeholder drawings encode as a text block instead.
func Markup(d Drawing) string {
	if d.IsPlaceholder() {
		return `<div class="chart-placeholder">` + html.EscapeString(d.Placeholder) + `</div>`
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="%s" width="100%%" height="100%%" viewBox="0 0 %s %s" preserveAspectRatio="xMidYMid meet">`,
		svgNS, num(d.Width), num(d.Height))

	for _, p := range d.Paths {
		fmt.Fprintf(&sb, `<path d="%s" fill="none" stroke="%s" stroke-width="%s"`,
			pathData(p.Points), attr(p.Stroke), num(p.StrokeWidth))
		if p.LineCap != "" {
			fmt.Fprintf(&sb, ` stroke-linecap="%s"`, attr(p.LineCap))
		}
		sb.WriteString("/>")
	}
	for _, r := range d.Rects {
		fmt.Fprintf(&sb, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"`,
			num(r.X), num(r.Y), num(r.Width), num(r.Height), attr(r.Fill))
		if r.Radius > 0 {
			fmt.Fprintf(&sb, ` rx="%s"`, num(r.Radius))
		}
		sb.WriteString("/>")
	}
	for _, c := range d.Circles {
		fmt.Fprintf(&sb, `<circle cx="%s" cy="%s" r="%s" fill="%s"`,
			num(c.CX), num(c.CY), num(c.R), attr(c.Fill))
		if c.Stroke != "" {
			fmt.Fprintf(&sb, ` stroke="%s" stroke-width="%s"`, attr(c.Stroke), num(c.StrokeWidth))
		}
		sb.WriteString("/>")
	}
	for _, l := range d.Labels {
		fmt.Fprintf(&sb, `<text x="%s" y="%s" text-anchor="%s" font-size="%s" fill="%s">%s</text>`,
			num(l.X), num(l.Y), attr(l.Anchor), num(l.FontSize), attr(l.Fill), html.EscapeString(l.Text))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func pathData(points []Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		parts[i] = cmd + " " + num(p.X) + " " + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// num prints coordinates with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func attr(s string) string {
	return html.EscapeString(s)
}
