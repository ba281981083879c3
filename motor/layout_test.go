package motor

import (
	"encoding/json"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/pb33f/harscope/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// budget with a 1000 unit bar area
func testBudget(entries int) Budget {
	return DefaultBudget(1350, entries)
}

func withPhases(entry model.Entry, phases map[model.Phase]float64) model.Entry {
	for _, p := range model.Phases {
		p.SetDuration(&entry.Timings, -1)
	}
	for p, d := range phases {
		p.SetDuration(&entry.Timings, d)
	}
	return entry
}

func TestLayoutEntries_SegmentsSumToScaledPhases(t *testing.T) {
	entry := withPhases(testEntry("https://example.com/", 0, 50, 2048),
		map[model.Phase]float64{model.PhaseDNS: 10, model.PhaseWait: 40})
	capture := testCapture(0, 400, entry)

	wf, err := LayoutEntries(capture, testBudget(1))
	require.NoError(t, err)
	require.Len(t, wf.Entries, 1)

	segments := wf.Entries[0].Segments
	require.Len(t, segments, 2)
	assert.Equal(t, model.PhaseDNS, segments[0].Phase)
	assert.Equal(t, model.PhaseWait, segments[1].Phase)
	assert.InDelta(t, 0, segments[0].Offset, 1e-9)
	assert.InDelta(t, segments[0].Width, segments[1].Offset, 1e-9)
	assert.InDelta(t, wf.Scale(50), segments[0].Width+segments[1].Width, 1e-9)
	assert.InDelta(t, 125, wf.Entries[0].BarWidth, 1e-9)
}

func TestLayoutEntries_ZeroDurationEntry(t *testing.T) {
	capture := testCapture(0, 100,
		testEntry("https://example.com/", 0, 100, 1),
		testEntry("https://example.com/cached.js", 50, 0, 1),
	)

	wf, err := LayoutEntries(capture, testBudget(2))
	require.NoError(t, err)

	cached := wf.Entries[1]
	assert.GreaterOrEqual(t, cached.BarWidth, minBarWidth)
	assert.Empty(t, cached.Segments)
	assert.Equal(t, "0ms", cached.DurationLabel)
}

func TestLayoutEntries_Geometry(t *testing.T) {
	capture := testCapture(150, 400,
		testEntry("https://example.com/", 0, 50, 1024),
		testEntry("https://example.com/a.js", 100, 80, -1),
		testEntry("https://example.com/b.css", 250, 30, 0),
	)
	budget := testBudget(3)

	wf, err := LayoutEntries(capture, budget)
	require.NoError(t, err)

	assert.InDelta(t, 1000, wf.BarAreaWidth, 1e-9)
	assert.InDelta(t, 400, wf.Domain.TotalTime, 1e-9)

	// n rows of h plus n-1 gaps of h/4 fill the height exactly
	n := float64(len(wf.Entries))
	assert.InDelta(t, budget.TotalHeight, n*wf.RowHeight+(n-1)*wf.RowSpacing, 1e-9)
	assert.InDelta(t, wf.RowHeight/4, wf.RowSpacing, 1e-9)

	for i, e := range wf.Entries {
		assert.Equal(t, i, e.Index)
		assert.InDelta(t, float64(i)*(wf.RowHeight+wf.RowSpacing), e.RowTop, 1e-9)
		assert.GreaterOrEqual(t, e.BarOffset, budget.URLAreaWidth)
		assert.LessOrEqual(t, e.BarOffset+e.BarWidth, budget.URLAreaWidth+wf.BarAreaWidth+1e-9)
	}

	assert.InDelta(t, 300+250, wf.Entries[1].BarOffset, 1e-9)
	assert.InDelta(t, 300+625, wf.Entries[2].BarOffset, 1e-9)
	assert.Equal(t, "1.0KB", wf.Entries[0].SizeLabel)
	assert.Equal(t, "?", wf.Entries[1].SizeLabel)
	assert.Equal(t, "0B", wf.Entries[2].SizeLabel)
	assert.Equal(t, "80ms", wf.Entries[1].DurationLabel)
	assert.InDelta(t, wf.Entries[1].BarOffset+wf.Entries[1].BarWidth+durationLabelGap, wf.Entries[1].DurationLabelOffset, 1e-9)

	require.Len(t, wf.Markers, 2)
	assert.Equal(t, MarkerContentLoad, wf.Markers[0].Name)
	assert.InDelta(t, 300+375, wf.Markers[0].X, 1e-9)
	assert.Equal(t, MarkerLoad, wf.Markers[1].Name)
	assert.InDelta(t, 300+1000, wf.Markers[1].X, 1e-9)
}

func TestLayoutEntries_SegmentsMonotonicAndBounded(t *testing.T) {
	for _, capture := range generateCaptures(t, 40, 3, 11) {
		wf, err := LayoutEntries(capture, DefaultBudget(1200, len(capture.Log.Entries)))
		require.NoError(t, err)

		for _, e := range wf.Entries {
			prevEnd := 0.0
			for _, s := range e.Segments {
				assert.GreaterOrEqual(t, s.Offset, prevEnd-1e-9)
				assert.Greater(t, s.Width, 0.0)
				prevEnd = s.Offset + s.Width
			}
			assert.LessOrEqual(t, prevEnd, e.BarWidth+1e-9)
			assert.LessOrEqual(t, utf8.RuneCountInString(e.URLLabel), wf.Budget.MaxURLChars())
		}
	}
}

func TestLayoutEntries_InconsistentPhasesClipped(t *testing.T) {
	// phases add up to more than the recorded time
	entry := withPhases(testEntry("https://example.com/", 0, 20, 1),
		map[model.Phase]float64{model.PhaseWait: 30, model.PhaseReceive: 30})

	wf, err := LayoutEntries(testCapture(0, 0, entry), testBudget(1))
	require.NoError(t, err)

	e := wf.Entries[0]
	total := 0.0
	for _, s := range e.Segments {
		total += s.Width
	}
	assert.InDelta(t, e.BarWidth, total, 1e-9)
	require.Len(t, e.Segments, 1)
	assert.Equal(t, model.PhaseWait, e.Segments[0].Phase)
}

func TestLayoutEntries_InsufficientWidth(t *testing.T) {
	capture := testCapture(0, 100, testEntry("https://example.com/", 0, 100, 1))

	_, err := LayoutEntries(capture, DefaultBudget(350, 1))

	var widthErr *InsufficientWidthError
	require.True(t, errors.As(err, &widthErr))
	assert.Equal(t, 0.0, widthErr.BarAreaWidth)
}

func TestLayoutEntries_NegativeLabelArea(t *testing.T) {
	capture := testCapture(0, 300,
		testEntry("https://example.com/", 0, 100, 1),
		testEntry("https://example.com/app.js", 100, 100, 2),
		testEntry("https://example.com/app.css", 200, 100, 3))

	budgets := map[string]Budget{
		"url area":         {URLAreaWidth: -100, TotalWidth: 500, TotalHeight: 30},
		"right label area": {URLAreaWidth: 100, RightLabelAreaWidth: -50, TotalWidth: 500, TotalHeight: 30},
	}
	for area, budget := range budgets {
		var wf *Waterfall
		var err error
		require.NotPanics(t, func() { wf, err = LayoutEntries(capture, budget) }, area)
		assert.Nil(t, wf, area)

		var widthErr *InsufficientWidthError
		require.True(t, errors.As(err, &widthErr), area)
		assert.Equal(t, area, widthErr.Area)
		assert.Negative(t, widthErr.Width)
		assert.Contains(t, err.Error(), area)
	}
}

func TestLayoutEntries_EmptyCapture(t *testing.T) {
	wf, err := LayoutEntries(testCapture(0, 0), testBudget(0))
	require.NoError(t, err)
	assert.Empty(t, wf.Entries)
	assert.Empty(t, wf.Markers)
	assert.Len(t, wf.Legend, len(model.Phases))
}

func TestLayoutEntries_MissingTimeNamesEntry(t *testing.T) {
	raw := `{"log":{"version":"1.2","creator":{"name":"t","version":"1"},"entries":[
		{"startedDateTime":"2024-01-01T12:00:00.000Z","time":10,"request":{"method":"GET","url":"https://a/"},"response":{"status":200}},
		{"startedDateTime":"2024-01-01T12:00:00.100Z","request":{"method":"GET","url":"https://a/b"},"response":{"status":200}}
	]}}`
	var capture model.Capture
	require.NoError(t, json.Unmarshal([]byte(raw), &capture))

	wf, err := LayoutEntries(&capture, testBudget(2))
	assert.Nil(t, wf)

	var entryErr *InvalidEntryError
	require.True(t, errors.As(err, &entryErr))
	assert.Equal(t, 1, entryErr.Index)
	assert.Equal(t, model.FieldTime, entryErr.Field)
}

func TestLayoutEntries_TextMeasurer(t *testing.T) {
	capture := testCapture(0, 100, testEntry("https://example.com/", 0, 100, 1))

	wf, err := LayoutEntries(capture, testBudget(1), WithTextMeasurer(MonospaceMeasurer(2)))
	require.NoError(t, err)

	// 33 characters of 2 units plus the gap
	assert.InDelta(t, 76, wf.Entries[0].SizeLabelOffset, 1e-9)
}

func TestLegend_PhaseOrder(t *testing.T) {
	legend := Legend()
	require.Len(t, legend, len(model.Phases))
	for i, item := range legend {
		assert.Equal(t, model.Phases[i], item.Phase)
		assert.Equal(t, string(model.Phases[i]), item.ColorKey)
	}
}

func TestBudget_MaxURLChars(t *testing.T) {
	assert.Equal(t, 33, DefaultBudget(1200, 1).MaxURLChars())
	assert.Equal(t, 66, Budget{URLAreaWidth: 600}.MaxURLChars())
	assert.Equal(t, 0, Budget{URLAreaWidth: -100}.MaxURLChars())
}
