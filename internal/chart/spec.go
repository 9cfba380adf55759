package chart

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Spec holds the layout of a single render call. Zero fields take the
// defaults of the chart being drawn.
type Spec struct {
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Padding float64 `json:"padding,omitempty"`
	Color   string  `json:"color,omitempty"`
}

const defaultColor = "#3b82f6"

var (
	DefaultBarSpec  = Spec{Width: 420, Height: 200, Padding: 40, Color: defaultColor}
	DefaultLineSpec = Spec{Width: 520, Height: 200, Padding: 40, Color: defaultColor}
)

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// usable reports whether v can serve as a layout dimension.
func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func (s Spec) withDefaults(def Spec) Spec {
	if !usable(s.Width) {
		s.Width = def.Width
	}
	if !usable(s.Height) {
		s.Height = def.Height
	}
	if !usable(s.Padding) {
		s.Padding = def.Padding
	}
	s.Color = normalizeColor(s.Color, def.Color)
	return s
}

// plotArea is the drawable area inside the padding; never negative.
func (s Spec) plotArea() (w, h float64) {
	w = s.Width - s.Padding*2
	h = s.Height - s.Padding*2
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// normalizeColor canonicalises hex tokens to lower-case #rrggbb. Any other
// non-empty token (a CSS colour name, a variable) is passed through.
func normalizeColor(token, fallback string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return fallback
	}
	if !hexColor.MatchString(token) {
		return token
	}
	c := drawing.ColorFromHex(expandHex(token))
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// expandHex strips the leading # and widens the short #rgb form.
func expandHex(token string) string {
	hex := strings.TrimPrefix(token, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	return hex
}

// rasterColor resolves a colour token for the PNG renderer, which only
// understands hex values.
func rasterColor(token string) drawing.Color {
	token = normalizeColor(token, defaultColor)
	if !hexColor.MatchString(token) {
		token = defaultColor
	}
	return drawing.ColorFromHex(expandHex(token))
}
