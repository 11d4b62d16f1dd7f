package heatmap

import (
	"fmt"
	"log"
	"sort"
)

// ColorStop anchors a color at a position in [0, 1].
type ColorStop struct {
	Pos   float64
	Color string // #rrggbb
}

// Gradient is an ordered set of color stops from 0 to 1.
type Gradient []ColorStop

var gradients = map[string]Gradient{
	"default": {
		{0.0, "#0000ff"}, // blue
		{0.3, "#00ffff"}, // cyan
		{0.5, "#00ff00"}, // lime
		{0.7, "#ffff00"}, // yellow
		{1.0, "#ff0000"}, // red
	},
	"heat": {
		{0.0, "#000080"}, // navy
		{0.25, "#0000ff"},
		{0.5, "#ff0000"},
		{0.75, "#ffa500"}, // orange
		{1.0, "#ffff00"},
	},
	"purple": {
		{0.0, "#800080"},
		{0.5, "#ee82ee"}, // violet
		{1.0, "#ffc0cb"}, // pink
	},
	"green": {
		{0.0, "#006400"}, // dark green
		{0.5, "#00ff00"},
		{1.0, "#ffff00"},
	},
}

// SchemeNames lists the available color-scheme names, sorted.
func SchemeNames() []string {
	names := make([]string, 0, len(gradients))
	for name := range gradients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveScheme returns the gradient for a named color scheme. An
// unknown name logs a warning and falls back to the default scheme.
func ResolveScheme(name string) Gradient {
	if name == "" {
		return gradients["default"]
	}
	if g, ok := gradients[name]; ok {
		return g
	}
	log.Printf("unknown color scheme %q, using default (available: %v)", name, SchemeNames())
	return gradients["default"]
}

// At interpolates the gradient color at t in [0, 1], returning RGB
// components in [0, 1].
func (g Gradient) At(t float64) (r, gr, b float64) {
	if len(g) == 0 {
		return 0, 0, 0
	}
	if t <= g[0].Pos {
		return hexRGB(g[0].Color)
	}
	for i := 1; i < len(g); i++ {
		if t <= g[i].Pos {
			span := g[i].Pos - g[i-1].Pos
			frac := 0.0
			if span > 0 {
				frac = (t - g[i-1].Pos) / span
			}
			r0, g0, b0 := hexRGB(g[i-1].Color)
			r1, g1, b1 := hexRGB(g[i].Color)
			return r0 + (r1-r0)*frac, g0 + (g1-g0)*frac, b0 + (b1-b0)*frac
		}
	}
	return hexRGB(g[len(g)-1].Color)
}

// stopsJSON renders the gradient as the {pos: color} object the
// Leaflet heat layer expects.
func (g Gradient) stopsJSON() string {
	out := "{"
	for i, s := range g {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("\"%g\": %q", s.Pos, s.Color)
	}
	return out + "}"
}

func hexRGB(hex string) (r, g, b float64) {
	var ri, gi, bi int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 0, 0, 0
	}
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255
}
