package motor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/pb33f/harhar"
	"github.com/pb33f/harscope/motor/model"
)

// MergeByAverage combines repeated captures of the same page load into one.
//
// Entries, page timings and DOM statistics come from the capture with the
// median onLoad, so the merged waterfall is one that actually happened. CSS,
// event and memory statistics are averaged over the captures that recorded
// them, except the max* memory fields and the CSS rules, which take the
// largest. All captures must come from the same device and creator.
func MergeByAverage(captures []*model.Capture) (*model.Capture, error) {
	if len(captures) == 0 {
		return nil, errors.New("no captures to merge")
	}

	first := captures[0]
	for i, c := range captures {
		if c == nil {
			return nil, fmt.Errorf("capture %d is nil", i)
		}
		if len(c.Log.Pages) == 0 {
			return nil, fmt.Errorf("capture %d has no pages", i)
		}
		if !sameDevice(first, c) {
			return nil, fmt.Errorf("capture %d was recorded on a different device or creator", i)
		}
	}

	sorted := slices.Clone(captures)
	slices.SortStableFunc(sorted, func(a, b *model.Capture) int {
		return compareFloat(a.Log.Pages[0].PageTimings.OnLoad, b.Log.Pages[0].PageTimings.OnLoad)
	})
	median := sorted[len(sorted)/2]
	medianPage := median.Log.Pages[0]

	pages := make([]*model.Page, len(captures))
	for i, c := range captures {
		pages[i] = &c.Log.Pages[0]
	}

	merged := &model.Capture{
		Log: model.Log{
			Version: first.Log.Version,
			Creator: first.Log.Creator,
			Browser: first.Log.Browser,
			OS:      first.Log.OS,
			Entries: slices.Clone(median.Log.Entries),
			Pages: []model.Page{{
				Page:         medianPage.Page,
				Name:         medianPage.Name,
				DOMNodeStats: medianPage.DOMNodeStats,
				CSSStats:     mergeCSSStats(pages),
				EventStats:   mergeEventStats(pages),
				MemoryStats:  mergeMemoryStats(pages),
			}},
		},
	}
	return merged, nil
}

func sameDevice(a, b *model.Capture) bool {
	if a.Log.Creator != b.Log.Creator {
		return false
	}
	if !sameCreator(a.Log.Browser, b.Log.Browser) {
		return false
	}
	switch {
	case a.Log.OS == nil || b.Log.OS == nil:
		return a.Log.OS == b.Log.OS
	default:
		return *a.Log.OS == *b.Log.OS
	}
}

func sameCreator(a, b *harhar.Creator) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func mergeCSSStats(pages []*model.Page) *model.CSSStats {
	var totals []*float64
	var merged model.CSSStats
	recorded := false

	for _, p := range pages {
		if p.CSSStats == nil {
			continue
		}
		recorded = true
		totals = append(totals, p.CSSStats.TotalTime)

		if r := p.CSSStats.MostTimeConsumingRule; r != nil {
			if merged.MostTimeConsumingRule == nil || r.Time > merged.MostTimeConsumingRule.Time {
				merged.MostTimeConsumingRule = r
			}
		}
		if r := p.CSSStats.MostMissesRule; r != nil {
			if merged.MostMissesRule == nil || r.Misses() > merged.MostMissesRule.Misses() {
				merged.MostMissesRule = r
			}
		}
	}
	if !recorded {
		return nil
	}
	merged.TotalTime = average(totals)
	return &merged
}

func mergeEventStats(pages []*model.Page) *model.EventStats {
	var recalcs, paints, gcs []*float64
	for _, p := range pages {
		if p.EventStats == nil {
			continue
		}
		recalcs = append(recalcs, p.EventStats.StyleRecalculates)
		paints = append(paints, p.EventStats.Paints)
		gcs = append(gcs, p.EventStats.GCEvents)
	}
	if recalcs == nil {
		return nil
	}
	return &model.EventStats{
		StyleRecalculates: average(recalcs),
		Paints:            average(paints),
		GCEvents:          average(gcs),
	}
}

func mergeMemoryStats(pages []*model.Page) *model.MemoryStats {
	var stats []*model.MemoryStats
	for _, p := range pages {
		if p.MemoryStats != nil {
			stats = append(stats, p.MemoryStats)
		}
	}
	if stats == nil {
		return nil
	}

	field := func(get func(*model.MemoryStats) *float64) []*float64 {
		values := make([]*float64, len(stats))
		for i, s := range stats {
			values[i] = get(s)
		}
		return values
	}

	return &model.MemoryStats{
		InitialTotalHeapSize: average(field(func(s *model.MemoryStats) *float64 { return s.InitialTotalHeapSize })),
		MaxTotalHeapSize:     maximum(field(func(s *model.MemoryStats) *float64 { return s.MaxTotalHeapSize })),
		InitialUsedHeapSize:  average(field(func(s *model.MemoryStats) *float64 { return s.InitialUsedHeapSize })),
		MaxUsedHeapSize:      maximum(field(func(s *model.MemoryStats) *float64 { return s.MaxUsedHeapSize })),
		AvgUsedHeapSize:      average(field(func(s *model.MemoryStats) *float64 { return s.AvgUsedHeapSize })),
		MaxJSEventListeners:  maximum(field(func(s *model.MemoryStats) *float64 { return s.MaxJSEventListeners })),
		MaxNodes:             maximum(field(func(s *model.MemoryStats) *float64 { return s.MaxNodes })),
		MaxDocuments:         maximum(field(func(s *model.MemoryStats) *float64 { return s.MaxDocuments })),
	}
}

// average ignores unrecorded values; nil when none were recorded.
func average(values []*float64) *float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return model.Float(sum / float64(n))
}

func maximum(values []*float64) *float64 {
	var result *float64
	for _, v := range values {
		if v != nil && (result == nil || *v > *result) {
			result = model.Float(*v)
		}
	}
	return result
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
