package motor

import (
	"math"
	"strings"

	"github.com/pb33f/harscope/motor/model"
)

const (
	// rows are separated by a quarter of their own height
	rowSpacingRatio = 0.25

	// minBarWidth keeps zero-length requests visible and clickable
	minBarWidth = 1.0

	// a 300 unit url area holds 33 characters of url
	urlCharsReferenceWidth = 300.0
	urlCharsAtReference    = 33.0

	sizeLabelGap     = 10.0
	durationLabelGap = 3.0

	MarkerContentLoad = "onContentLoad"
	MarkerLoad        = "onLoad"
)

// Budget is the space available to a waterfall, in proportional units. The
// caller maps units to pixels, cells or anything else.
type Budget struct {
	URLAreaWidth        float64 `json:"urlAreaWidth"`
	RightLabelAreaWidth float64 `json:"rightLabelAreaWidth"`
	TotalWidth          float64 `json:"totalWidth"`
	TotalHeight         float64 `json:"totalHeight"`
}

// DefaultBudget mirrors the classic report canvas: a 300 unit url column, a
// 50 unit label column and 27 units of height per entry.
func DefaultBudget(width float64, entries int) Budget {
	return Budget{
		URLAreaWidth:        300,
		RightLabelAreaWidth: 50,
		TotalWidth:          width,
		TotalHeight:         27 * float64(entries),
	}
}

// BarAreaWidth is the width left for bars once both label areas are taken.
func (b Budget) BarAreaWidth() float64 {
	return b.TotalWidth - b.URLAreaWidth - b.RightLabelAreaWidth
}

// MaxURLChars is how many url characters fit in the url area, never negative.
func (b Budget) MaxURLChars() int {
	return max(int(math.Round(b.URLAreaWidth/urlCharsReferenceWidth*urlCharsAtReference)), 0)
}

// Segment is one phase slice of an entry bar. Offset is relative to the bar start.
type Segment struct {
	Phase    model.Phase `json:"phase"`
	Offset   float64     `json:"offset"`
	Width    float64     `json:"width"`
	ColorKey string      `json:"colorKey"`
}

// EntryLayout is the geometry and label text of one waterfall row.
type EntryLayout struct {
	Index               int       `json:"index"`
	RowTop              float64   `json:"rowTop"`
	RowHeight           float64   `json:"rowHeight"`
	URLLabel            string    `json:"urlLabel"`
	SizeLabel           string    `json:"sizeLabel"`
	SizeLabelOffset     float64   `json:"sizeLabelOffset"`
	BarOffset           float64   `json:"barOffset"`
	BarWidth            float64   `json:"barWidth"`
	Segments            []Segment `json:"segments"`
	DurationLabel       string    `json:"durationLabel"`
	DurationLabelOffset float64   `json:"durationLabelOffset"`
}

// Marker is a vertical page milestone line.
type Marker struct {
	Name   string  `json:"name"`
	Millis float64 `json:"millis"`
	X      float64 `json:"x"`
}

// LegendItem names a phase and the key a renderer uses to pick its color.
type LegendItem struct {
	Phase    model.Phase `json:"phase"`
	ColorKey string      `json:"colorKey"`
}

// Waterfall is the complete, renderer independent layout of a capture.
type Waterfall struct {
	Domain       TimeDomain    `json:"domain"`
	Budget       Budget        `json:"budget"`
	BarAreaWidth float64       `json:"barAreaWidth"`
	RowHeight    float64       `json:"rowHeight"`
	RowSpacing   float64       `json:"rowSpacing"`
	Entries      []EntryLayout `json:"entries"`
	Markers      []Marker      `json:"markers"`
	Legend       []LegendItem  `json:"legend"`
}

// Scale maps a duration in milliseconds onto the bar area.
func (w *Waterfall) Scale(ms float64) float64 {
	return scale(ms, w.Domain.TotalTime, w.BarAreaWidth)
}

type layoutOptions struct {
	measurer TextMeasurer
}

// LayoutOption customises LayoutEntries.
type LayoutOption func(*layoutOptions)

// WithTextMeasurer sets how label widths are measured.
func WithTextMeasurer(m TextMeasurer) LayoutOption {
	return func(o *layoutOptions) {
		if m != nil {
			o.measurer = m
		}
	}
}

// Legend returns the phases in stacking order with their color keys.
func Legend() []LegendItem {
	items := make([]LegendItem, 0, len(model.Phases))
	for _, p := range model.Phases {
		items = append(items, LegendItem{Phase: p, ColorKey: colorKey(p)})
	}
	return items
}

// LayoutEntries lays out the first page of a capture within the budget.
//
// Every entry gets a row; its bar starts at its offset from the capture start
// and is as wide as its duration (at least one unit). Phases with a positive
// duration are stacked inside the bar in phase order. Any invalid entry aborts
// the whole layout, since a partial waterfall misrepresents the timing.
func LayoutEntries(capture *model.Capture, budget Budget, opts ...LayoutOption) (*Waterfall, error) {
	options := layoutOptions{measurer: DefaultTextMeasurer()}
	for _, opt := range opts {
		opt(&options)
	}

	barArea := budget.BarAreaWidth()
	if barArea <= 0 {
		return nil, &InsufficientWidthError{BarAreaWidth: barArea}
	}
	if budget.URLAreaWidth < 0 {
		return nil, &InsufficientWidthError{BarAreaWidth: barArea, Area: "url area", Width: budget.URLAreaWidth}
	}
	if budget.RightLabelAreaWidth < 0 {
		return nil, &InsufficientWidthError{BarAreaWidth: barArea, Area: "right label area", Width: budget.RightLabelAreaWidth}
	}

	wf := &Waterfall{
		Budget:       budget,
		BarAreaWidth: barArea,
		Entries:      []EntryLayout{},
		Markers:      []Marker{},
		Legend:       Legend(),
	}

	if capture == nil || len(capture.Log.Entries) == 0 {
		return wf, nil
	}

	domain, err := ComputeTimeDomain(capture)
	if err != nil {
		return nil, err
	}
	wf.Domain = domain

	n := float64(len(capture.Log.Entries))
	wf.RowHeight = 4 * budget.TotalHeight / (5*n - 1)
	wf.RowSpacing = wf.RowHeight * rowSpacingRatio

	maxChars := budget.MaxURLChars()
	sizeLabelOffset := options.measurer.MeasureText(strings.Repeat("a", maxChars)) + sizeLabelGap

	wf.Entries = make([]EntryLayout, 0, len(capture.Log.Entries))
	for i := range capture.Log.Entries {
		entry := &capture.Log.Entries[i]

		start, _, err := entrySpan(i, entry)
		if err != nil {
			return nil, err
		}

		barOffset := budget.URLAreaWidth + wf.Scale(domain.Offset(start))
		barWidth := math.Max(wf.Scale(entry.Time), minBarWidth)

		wf.Entries = append(wf.Entries, EntryLayout{
			Index:               i,
			RowTop:              float64(i) * (wf.RowHeight + wf.RowSpacing),
			RowHeight:           wf.RowHeight,
			URLLabel:            ShortenURL(entry.Request.URL, maxChars),
			SizeLabel:           formatSizeLabel(int64(entry.Response.BodySize)),
			SizeLabelOffset:     sizeLabelOffset,
			BarOffset:           barOffset,
			BarWidth:            barWidth,
			Segments:            stackSegments(wf, entry, barWidth),
			DurationLabel:       FormatDuration(entry.Time),
			DurationLabelOffset: barOffset + barWidth + durationLabelGap,
		})
	}

	wf.Markers = pageMarkers(wf, capture.FirstPage())
	return wf, nil
}

// stackSegments places each applicable phase after the previous one. Segments
// are clipped to the bar so inconsistent timings never overstep it.
func stackSegments(wf *Waterfall, entry *model.Entry, barWidth float64) []Segment {
	segments := make([]Segment, 0, len(model.Phases))
	offset := 0.0

	for _, phase := range model.Phases {
		duration := entry.PhaseDuration(phase)
		if duration <= 0 {
			continue
		}

		width := math.Min(wf.Scale(duration), barWidth-offset)
		if width <= 0 {
			break
		}

		segments = append(segments, Segment{
			Phase:    phase,
			Offset:   offset,
			Width:    width,
			ColorKey: colorKey(phase),
		})
		offset += width
	}

	return segments
}

func pageMarkers(wf *Waterfall, page *model.Page) []Marker {
	markers := []Marker{}
	if page == nil {
		return markers
	}

	milestones := []struct {
		name string
		ms   float64
	}{
		{MarkerContentLoad, page.PageTimings.OnContentLoad},
		{MarkerLoad, page.PageTimings.OnLoad},
	}

	for _, m := range milestones {
		if m.ms > 0 {
			markers = append(markers, Marker{
				Name:   m.name,
				Millis: m.ms,
				X:      wf.Budget.URLAreaWidth + wf.Scale(m.ms),
			})
		}
	}
	return markers
}

func scale(ms, totalTime, width float64) float64 {
	return ms / totalTime * width
}

func colorKey(p model.Phase) string {
	return string(p)
}
