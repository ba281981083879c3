package motor

import (
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// TextMeasurer reports how wide a string renders, in the same units as the
// layout budget. Renderers inject their own; the engine never assumes a font.
type TextMeasurer interface {
	MeasureText(s string) float64
}

// TextMeasurerFunc adapts a function to TextMeasurer.
type TextMeasurerFunc func(s string) float64

func (f TextMeasurerFunc) MeasureText(s string) float64 {
	return f(s)
}

// FontMeasurer measures text with a font face, in pixels.
type FontMeasurer struct {
	face font.Face
}

// NewFontMeasurer creates a measurer for the given face.
func NewFontMeasurer(face font.Face) *FontMeasurer {
	return &FontMeasurer{face: face}
}

// DefaultTextMeasurer measures with the 7x13 bitmap face used by the PNG renderer.
func DefaultTextMeasurer() TextMeasurer {
	return NewFontMeasurer(basicfont.Face7x13)
}

func (m *FontMeasurer) MeasureText(s string) float64 {
	return float64(font.MeasureString(m.face, s)) / 64
}

// MonospaceMeasurer measures text in fixed-width cells, for terminal output.
func MonospaceMeasurer(cellWidth float64) TextMeasurer {
	return TextMeasurerFunc(func(s string) float64 {
		return float64(utf8.RuneCountInString(s)) * cellWidth
	})
}
