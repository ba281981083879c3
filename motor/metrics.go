package motor

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/pb33f/harscope/motor/model"
)

const (
	// NotAvailable is how a statistic the capture did not record is displayed.
	NotAvailable = "n/a"

	pageKeyMaxLength = 15
)

// Metric is an optional statistic. Available is false when the capture did not
// record it at all, which is not the same as a recorded zero.
type Metric struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

func metricOf(v *float64) Metric {
	if v == nil {
		return Metric{}
	}
	return Metric{Value: *v, Available: true}
}

func (m Metric) String() string {
	if !m.Available {
		return NotAvailable
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// Bytes renders the metric as a byte size.
func (m Metric) Bytes() string {
	if !m.Available {
		return NotAvailable
	}
	s, err := FormatByteSize(int64(m.Value))
	if err != nil {
		return NotAvailable
	}
	return s
}

// Millis renders the metric as a duration label.
func (m Metric) Millis() string {
	if !m.Available {
		return NotAvailable
	}
	return FormatDuration(m.Value)
}

// PageMetrics summarises one page of a capture.
type PageMetrics struct {
	PageIndex int    `json:"pageIndex"`
	PageName  string `json:"pageName"`
	PageKey   string `json:"pageKey"`

	OnContentLoad float64 `json:"onContentLoad"`
	OnLoad        float64 `json:"onLoad"`

	// TotalPageWeight sums response body sizes, skipping unknown (negative) sizes.
	TotalPageWeight          int64  `json:"totalPageWeight"`
	FormattedTotalPageWeight string `json:"formattedTotalPageWeight"`

	// NodeCount sums the DOM groups; zero when the capture has none.
	NodeCount int64 `json:"nodeCount"`

	StyleRecalculates Metric `json:"styleRecalculates"`
	Paints            Metric `json:"paints"`
	GCEvents          Metric `json:"gcEvents"`
	MaxUsedHeapSize   Metric `json:"maxUsedHeapSize"`
	AvgUsedHeapSize   Metric `json:"avgUsedHeapSize"`
	CSSTotalTime      Metric `json:"cssTotalTime"`
}

// DeviceInfo identifies the device a capture was recorded on.
type DeviceInfo struct {
	OSName         string `json:"osName"`
	OSVersion      string `json:"osVersion"`
	BrowserName    string `json:"browserName"`
	BrowserVersion string `json:"browserVersion"`
}

// AggregatePageMetrics derives the summary statistics of one page.
func AggregatePageMetrics(capture *model.Capture, pageIndex int) (PageMetrics, error) {
	if capture == nil {
		return PageMetrics{}, fmt.Errorf("capture is nil")
	}
	if pageIndex < 0 || pageIndex >= len(capture.Log.Pages) {
		return PageMetrics{}, fmt.Errorf("page index %d out of range [0, %d)", pageIndex, len(capture.Log.Pages))
	}

	page := &capture.Log.Pages[pageIndex]
	weight := TotalPageWeight(capture)

	metrics := PageMetrics{
		PageIndex:                pageIndex,
		PageName:                 page.Name,
		PageKey:                  PageKey(page),
		OnContentLoad:            page.PageTimings.OnContentLoad,
		OnLoad:                   page.PageTimings.OnLoad,
		TotalPageWeight:          weight,
		FormattedTotalPageWeight: formatSizeLabel(weight),
		NodeCount:                nodeCount(page.DOMNodeStats),
	}

	if stats := page.EventStats; stats != nil {
		metrics.StyleRecalculates = metricOf(stats.StyleRecalculates)
		metrics.Paints = metricOf(stats.Paints)
		metrics.GCEvents = metricOf(stats.GCEvents)
	}
	if stats := page.MemoryStats; stats != nil {
		metrics.MaxUsedHeapSize = metricOf(stats.MaxUsedHeapSize)
		metrics.AvgUsedHeapSize = metricOf(stats.AvgUsedHeapSize)
	}
	if stats := page.CSSStats; stats != nil {
		metrics.CSSTotalTime = metricOf(stats.TotalTime)
	}

	return metrics, nil
}

// TotalPageWeight sums the known response body sizes of every entry.
func TotalPageWeight(capture *model.Capture) int64 {
	var total int64
	for i := range capture.Log.Entries {
		if size := capture.Log.Entries[i].Response.BodySize; size > 0 {
			total += int64(size)
		}
	}
	return total
}

// DescribeDevice reads the device identification from the capture root.
func DescribeDevice(capture *model.Capture) DeviceInfo {
	var info DeviceInfo
	if capture == nil {
		return info
	}
	if os := capture.Log.OS; os != nil {
		info.OSName = os.Name
		info.OSVersion = os.Version
	}
	if browser := capture.Log.Browser; browser != nil {
		info.BrowserName = browser.Name
		info.BrowserVersion = browser.Version
	}
	return info
}

// PageKey is the short display name of a page: its name, falling back to its
// title, cut to 15 characters.
func PageKey(page *model.Page) string {
	if page == nil {
		return ""
	}
	name := page.Name
	if name == "" {
		name = page.Title
	}
	if utf8.RuneCountInString(name) > pageKeyMaxLength {
		return clip(name, pageKeyMaxLength) + ellipsis
	}
	return name
}

func nodeCount(stats *model.DOMNodeStats) int64 {
	if stats == nil {
		return 0
	}
	var total int64
	for _, group := range stats.DOMGroups {
		total += group.Size
	}
	return total
}
