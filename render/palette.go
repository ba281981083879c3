package render

import (
	"fmt"
	"strings"

	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// KeyBar colors the part of a bar no phase covers.
	KeyBar = "bar"
)

var (
	rowEven  = drawing.Color{R: 245, G: 245, B: 245, A: 255}
	rowOdd   = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	textInk  = drawing.Color{R: 34, G: 34, B: 34, A: 255}
	labelInk = drawing.Color{R: 110, G: 110, B: 110, A: 255}
)

var defaultColors = map[string]string{
	string(model.PhaseBlocked): "CD5C5C",
	string(model.PhaseDNS):     "87CEEB",
	string(model.PhaseConnect): "98FB98",
	string(model.PhaseSend):    "E9967A",
	string(model.PhaseWait):    "9370DB",
	string(model.PhaseReceive): "CDC9C9",
	KeyBar:                     "6469B4",
	motor.MarkerContentLoad:    "0000FF",
	motor.MarkerLoad:           "FF0000",
}

// Palette maps the layout's color keys to colors.
type Palette map[string]drawing.Color

// DefaultPalette is the classic devtools-like phase palette.
func DefaultPalette() Palette {
	p := make(Palette, len(defaultColors))
	for key, hex := range defaultColors {
		p[key] = drawing.ColorFromHex(hex)
	}
	return p
}

// NewPalette applies hex overrides ("#RRGGBB" or "RRGGBB") to the default palette.
func NewPalette(overrides map[string]string) (Palette, error) {
	p := DefaultPalette()
	for key, hex := range overrides {
		if _, ok := p[key]; !ok {
			return nil, fmt.Errorf("unknown color key '%s'", key)
		}
		hex = strings.TrimPrefix(hex, "#")
		if len(hex) != 6 {
			return nil, fmt.Errorf("color for '%s' must be six hex digits: '%s'", key, hex)
		}
		p[key] = drawing.ColorFromHex(hex)
	}
	return p, nil
}

// Color returns the color of a key, falling back to the bar color.
func (p Palette) Color(key string) drawing.Color {
	if c, ok := p[key]; ok {
		return c
	}
	return p[KeyBar]
}

// Hex renders a key's color as "#rrggbb".
func (p Palette) Hex(key string) string {
	c := p.Color(key)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
