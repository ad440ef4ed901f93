package visualizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// DefaultColormap is used by Heatmap when none is configured
const DefaultColormap = "coolwarm"

var namedColors = map[string]drawing.Color{
	"blue":   drawing.ColorFromHex("1f77b4"),
	"orange": drawing.ColorFromHex("ff7f0e"),
	"green":  drawing.ColorFromHex("2ca02c"),
	"red":    drawing.ColorFromHex("d62728"),
	"purple": drawing.ColorFromHex("9467bd"),
	"brown":  drawing.ColorFromHex("8c564b"),
	"pink":   drawing.ColorFromHex("e377c2"),
	"gray":   drawing.ColorFromHex("7f7f7f"),
	"grey":   drawing.ColorFromHex("7f7f7f"),
	"olive":  drawing.ColorFromHex("bcbd22"),
	"cyan":   drawing.ColorFromHex("17becf"),
	"black":  drawing.ColorBlack,
}

// parseColor accepts a color name or a #rrggbb hex value
func parseColor(s string) (drawing.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok && (len(hex) == 6 || len(hex) == 3) {
		return drawing.ColorFromHex(hex), nil
	}
	return drawing.Color{}, apperrors.NewRenderError(fmt.Sprintf("unknown color %q", s), nil)
}

// colormap maps [0, 1] onto evenly spaced color stops
type colormap []drawing.Color

var colormaps = map[string]colormap{
	"coolwarm": {
		drawing.ColorFromHex("3b4cc0"),
		drawing.ColorFromHex("8db0fe"),
		drawing.ColorFromHex("dddddd"),
		drawing.ColorFromHex("f49a7b"),
		drawing.ColorFromHex("b40426"),
	},
	"blues": {
		drawing.ColorFromHex("f7fbff"),
		drawing.ColorFromHex("9ecae1"),
		drawing.ColorFromHex("08306b"),
	},
	"reds": {
		drawing.ColorFromHex("fff5f0"),
		drawing.ColorFromHex("fc9272"),
		drawing.ColorFromHex("67000d"),
	},
	"greys": {
		drawing.ColorFromHex("ffffff"),
		drawing.ColorFromHex("969696"),
		drawing.ColorFromHex("000000"),
	},
	"viridis": {
		drawing.ColorFromHex("440154"),
		drawing.ColorFromHex("3b528b"),
		drawing.ColorFromHex("21918c"),
		drawing.ColorFromHex("5ec962"),
		drawing.ColorFromHex("fde725"),
	},
}

// Colormaps returns the names of the supported colormaps
func Colormaps() []string {
	return []string{"blues", "coolwarm", "greys", "reds", "viridis"}
}

func lookupColormap(name string) (colormap, error) {
	cm, ok := colormaps[strings.ToLower(name)]
	if !ok {
		return nil, apperrors.NewRenderError(
			fmt.Sprintf("unknown colormap %q (supported: %s)", name, strings.Join(Colormaps(), ", ")), nil)
	}
	return cm, nil
}

// at interpolates the color for f in [0, 1]
func (cm colormap) at(f float64) drawing.Color {
	f = math.Max(0, math.Min(1, f))
	pos := f * float64(len(cm)-1)
	i := int(math.Floor(pos))
	if i >= len(cm)-1 {
		return cm[len(cm)-1]
	}
	frac := pos - float64(i)
	a, b := cm[i], cm[i+1]
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac))
	}
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// luminance is the relative brightness of c in [0, 1]
func luminance(c drawing.Color) float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}
