package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/pb33f/harscope/motor/model"
	chart "github.com/wcharczuk/go-chart/v2"
)

// PhaseTotal is the time a capture spent in one phase, summed over entries.
type PhaseTotal struct {
	Phase  model.Phase `json:"phase"`
	Millis float64     `json:"millis"`
}

// PhaseTotals sums each phase over every entry, skipping non-applicable values.
func PhaseTotals(capture *model.Capture) []PhaseTotal {
	totals := make([]PhaseTotal, len(model.Phases))
	for i, phase := range model.Phases {
		totals[i].Phase = phase
	}
	for i := range capture.Log.Entries {
		for j, phase := range model.Phases {
			if d := capture.Log.Entries[i].PhaseDuration(phase); d > 0 {
				totals[j].Millis += d
			}
		}
	}
	return totals
}

// WritePhaseChart renders the phase totals of a capture as a PNG bar chart.
func WritePhaseChart(w io.Writer, capture *model.Capture, palette Palette, width, height int) error {
	if palette == nil {
		palette = DefaultPalette()
	}

	totals := PhaseTotals(capture)
	bars := make([]chart.Value, 0, len(totals))
	charted := false
	for _, t := range totals {
		if t.Millis > 0 {
			charted = true
		}
		c := palette.Color(string(t.Phase))
		bars = append(bars, chart.Value{
			Label: t.Phase.String(),
			Value: t.Millis,
			Style: chart.Style{FillColor: c, StrokeColor: c},
		})
	}
	if !charted {
		return errors.New("capture has no phase timings to chart")
	}

	bc := chart.BarChart{
		Title:      "Time per phase (ms)",
		Width:      width,
		Height:     height,
		BarWidth:   max(width/(2*len(bars)), 10),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 28}},
		Bars:       bars,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render phase chart: %w", err)
	}
	return nil
}
