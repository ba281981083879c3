package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/pb33f/harscope/motor"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	legendHeight  = 24
	legendSwatch  = 10
	legendSpacing = 80
	textPadding   = 4

	// MaxImagePixels bounds the canvas WaterfallImage will allocate.
	MaxImagePixels = 48_000_000
)

// ErrImageTooLarge is returned when a waterfall would need a canvas larger
// than MaxImagePixels.
var ErrImageTooLarge = errors.New("waterfall image too large")

// PNGOptions controls raster output. The waterfall must have been laid out
// in pixels, with a measurer matching Face.
type PNGOptions struct {
	Palette Palette
	Face    font.Face
}

// DefaultPNGOptions renders with the default palette and the 7x13 face the
// layout engine measures with by default.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Palette: DefaultPalette(), Face: basicfont.Face7x13}
}

// WaterfallImage paints a waterfall: zebra rows, labels, bars with their
// phase segments, milestone markers and a legend strip.
func WaterfallImage(wf *motor.Waterfall, opts PNGOptions) (*image.RGBA, error) {
	if wf == nil {
		return nil, fmt.Errorf("waterfall is nil")
	}
	if opts.Palette == nil {
		opts.Palette = DefaultPalette()
	}
	if opts.Face == nil {
		opts.Face = basicfont.Face7x13
	}

	width := int(math.Ceil(wf.Budget.TotalWidth))
	chartHeight := int(math.Ceil(wf.Budget.TotalHeight))
	if width <= 0 {
		return nil, fmt.Errorf("waterfall has no width")
	}
	if height := chartHeight + legendHeight; int64(width)*int64(height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, width, height, MaxImagePixels)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, chartHeight+legendHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(rowOdd), image.Point{}, draw.Src)

	ascent := opts.Face.Metrics().Ascent.Ceil()

	for i, e := range wf.Entries {
		top := int(math.Round(e.RowTop))
		bottom := int(math.Round(e.RowTop + e.RowHeight + wf.RowSpacing))
		if i%2 == 0 {
			fillRect(img, 0, top, width, bottom, rowEven)
		}

		baseline := top + (int(math.Round(e.RowHeight))+ascent)/2
		drawText(img, opts.Face, textPadding, baseline, e.URLLabel, textInk)
		drawText(img, opts.Face, int(math.Round(e.SizeLabelOffset)), baseline, e.SizeLabel, labelInk)

		barTop := top
		barBottom := int(math.Round(e.RowTop + e.RowHeight))
		x0 := int(math.Round(e.BarOffset))
		x1 := int(math.Round(e.BarOffset + e.BarWidth))
		if x1 == x0 {
			x1++
		}
		fillRect(img, x0, barTop, x1, barBottom, opts.Palette.Color(KeyBar))

		for _, s := range e.Segments {
			sx0 := int(math.Round(e.BarOffset + s.Offset))
			sx1 := int(math.Round(e.BarOffset + s.Offset + s.Width))
			fillRect(img, sx0, barTop, sx1, barBottom, opts.Palette.Color(s.ColorKey))
		}

		drawText(img, opts.Face, int(math.Round(e.DurationLabelOffset)), baseline, e.DurationLabel, labelInk)
	}

	for _, m := range wf.Markers {
		x := int(math.Round(m.X))
		fillRect(img, x, 0, x+1, chartHeight, opts.Palette.Color(m.Name))
	}

	drawLegend(img, opts, wf.Legend, chartHeight, ascent)
	return img, nil
}

// WritePNG encodes a waterfall image.
func WritePNG(w io.Writer, wf *motor.Waterfall, opts PNGOptions) error {
	img, err := WaterfallImage(wf, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func drawLegend(img *image.RGBA, opts PNGOptions, legend []motor.LegendItem, top, ascent int) {
	x := textPadding
	y := top + (legendHeight-legendSwatch)/2
	for _, item := range legend {
		fillRect(img, x, y, x+legendSwatch, y+legendSwatch, opts.Palette.Color(item.ColorKey))
		drawText(img, opts.Face, x+legendSwatch+textPadding, y+(legendSwatch+ascent)/2, item.Phase.String(), textInk)
		x += legendSpacing
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	rect := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

func drawText(img *image.RGBA, face font.Face, x, y int, text string, c color.Color) {
	if text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
