package motor

import (
	"fmt"
	"strconv"

	"github.com/pb33f/harscope/motor/model"
)

const (
	TableDevice           = "device"
	TablePageTiming       = "timing"
	TablePageMetrics      = "metrics"
	TableMemoryMetrics    = "memory"
	TableWaterfallSummary = "waterfall-summary"
	TableWaterfallDetails = "waterfall-details"
)

// TableRow is what a column extractor reads. Capture rows carry the metrics of
// the capture's first page (nil when it has none); entry rows also carry Entry.
type TableRow struct {
	Index   int
	Capture *model.Capture
	Metrics *PageMetrics
	Entry   *model.Entry
}

// Column is a named extractor applied uniformly to every row.
type Column struct {
	Name    string
	Extract func(TableRow) string
}

// Table is a fixed, ordered set of columns plus an optional trailing column.
type Table struct {
	Name      string
	Title     string
	Columns   []Column
	Trailing  *Column
	FirstOnly bool
}

// WithTrailing returns a copy of the table with an extra last column.
func (t Table) WithTrailing(col Column) Table {
	t.Trailing = &col
	return t
}

// Header returns the column names in order.
func (t Table) Header() []string {
	header := make([]string, 0, len(t.Columns)+1)
	for _, col := range t.Columns {
		header = append(header, col.Name)
	}
	if t.Trailing != nil {
		header = append(header, t.Trailing.Name)
	}
	return header
}

// Rows applies every column to every capture, one row per capture.
func (t Table) Rows(captures []*model.Capture) [][]string {
	if t.FirstOnly && len(captures) > 1 {
		captures = captures[:1]
	}

	rows := make([][]string, 0, len(captures))
	for i, capture := range captures {
		row := TableRow{Index: i, Capture: capture}
		if metrics, err := AggregatePageMetrics(capture, 0); err == nil {
			row.Metrics = &metrics
		}
		rows = append(rows, t.extract(row))
	}
	return rows
}

// EntryRows applies every column to every entry of one capture.
func (t Table) EntryRows(capture *model.Capture) [][]string {
	rows := make([][]string, 0, len(capture.Log.Entries))
	for i := range capture.Log.Entries {
		rows = append(rows, t.extract(TableRow{Index: i, Capture: capture, Entry: &capture.Log.Entries[i]}))
	}
	return rows
}

func (t Table) extract(row TableRow) []string {
	cells := make([]string, 0, len(t.Columns)+1)
	for _, col := range t.Columns {
		cells = append(cells, col.Extract(row))
	}
	if t.Trailing != nil {
		cells = append(cells, t.Trailing.Extract(row))
	}
	return cells
}

// LinkColumn builds the trailing "Link to Waterfall" column.
func LinkColumn(href func(TableRow) string) Column {
	return Column{Name: "Link to Waterfall", Extract: href}
}

// WaterfallAnchor is the default link target of a capture's waterfall.
func WaterfallAnchor(row TableRow) string {
	return fmt.Sprintf("#waterfall-%d", row.Index)
}

// DeviceInfoTable describes the device of the first capture.
func DeviceInfoTable() Table {
	device := func(extract func(DeviceInfo) string) func(TableRow) string {
		return func(row TableRow) string {
			return extract(DescribeDevice(row.Capture))
		}
	}
	return Table{
		Name:      TableDevice,
		Title:     "Device Information",
		FirstOnly: true,
		Columns: []Column{
			{"OS Name", device(func(d DeviceInfo) string { return d.OSName })},
			{"OS Version", device(func(d DeviceInfo) string { return d.OSVersion })},
			{"Browser Name", device(func(d DeviceInfo) string { return d.BrowserName })},
			{"Browser Version", device(func(d DeviceInfo) string { return d.BrowserVersion })},
		},
	}
}

// PageTimingTable lists page milestones and CSS cost per capture.
func PageTimingTable() Table {
	return Table{
		Name:  TablePageTiming,
		Title: "Page Timing",
		Columns: []Column{
			{"Page Key", pageKeyColumn},
			{"OnContentLoad Time", metricsColumn(func(m *PageMetrics) string { return FormatDuration(m.OnContentLoad) })},
			{"OnLoad Time", metricsColumn(func(m *PageMetrics) string { return FormatDuration(m.OnLoad) })},
			{"Total CSS Time", metricsColumn(func(m *PageMetrics) string { return m.CSSTotalTime.String() })},
		},
	}.WithTrailing(LinkColumn(WaterfallAnchor))
}

// PageMetricsTable lists rendering work and page weight per capture.
func PageMetricsTable() Table {
	return Table{
		Name:  TablePageMetrics,
		Title: "Page Metrics",
		Columns: []Column{
			{"Page Key", pageKeyColumn},
			{"Number of Style Recalculates", metricsColumn(func(m *PageMetrics) string { return m.StyleRecalculates.String() })},
			{"Number of Paints", metricsColumn(func(m *PageMetrics) string { return m.Paints.String() })},
			{"Total Page Weight", func(row TableRow) string { return formatSizeLabel(TotalPageWeight(row.Capture)) }},
		},
	}.WithTrailing(LinkColumn(WaterfallAnchor))
}

// MemoryMetricsTable lists heap usage, DOM size and garbage collection per capture.
func MemoryMetricsTable() Table {
	return Table{
		Name:  TableMemoryMetrics,
		Title: "Memory Metrics",
		Columns: []Column{
			{"Page Key", pageKeyColumn},
			{"Maximum Used Heap", metricsColumn(func(m *PageMetrics) string { return m.MaxUsedHeapSize.Bytes() })},
			{"Average Used Heap", metricsColumn(func(m *PageMetrics) string { return m.AvgUsedHeapSize.Bytes() })},
			{"Number of Nodes", metricsColumn(func(m *PageMetrics) string { return strconv.FormatInt(m.NodeCount, 10) })},
			{"Number of GC Events", metricsColumn(func(m *PageMetrics) string { return m.GCEvents.String() })},
		},
	}.WithTrailing(LinkColumn(WaterfallAnchor))
}

// WaterfallSummaryTable totals load time, request count and size per capture.
func WaterfallSummaryTable() Table {
	return Table{
		Name:  TableWaterfallSummary,
		Title: "Waterfall Summary",
		Columns: []Column{
			{"Total Resource Load Time", func(row TableRow) string {
				domain, err := resourceDomain(row.Capture)
				if err != nil {
					return NotAvailable
				}
				return FormatDuration(domain)
			}},
			{"Number of Resources", func(row TableRow) string { return strconv.Itoa(len(row.Capture.Log.Entries)) }},
			{"Total Resource Size", func(row TableRow) string { return strconv.FormatInt(TotalPageWeight(row.Capture), 10) }},
		},
	}
}

// WaterfallDetailsTable lists every resource of a capture; use EntryRows.
func WaterfallDetailsTable() Table {
	return Table{
		Name:  TableWaterfallDetails,
		Title: "Waterfall Details",
		Columns: []Column{
			{"Resource Name", func(row TableRow) string { return row.Entry.Request.URL }},
			{"Resource Load Time", func(row TableRow) string { return FormatDuration(row.Entry.Time) }},
			{"Resource Size", func(row TableRow) string { return strconv.Itoa(row.Entry.Response.BodySize) }},
		},
	}
}

// SummaryTables are the per-capture tables of a report, in report order.
func SummaryTables() []Table {
	return []Table{
		DeviceInfoTable(),
		PageTimingTable(),
		PageMetricsTable(),
		MemoryMetricsTable(),
		WaterfallSummaryTable(),
	}
}

// TableByName finds one of the summary tables.
func TableByName(name string) (Table, bool) {
	for _, t := range SummaryTables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

func pageKeyColumn(row TableRow) string {
	if row.Metrics == nil {
		return NotAvailable
	}
	return row.Metrics.PageKey
}

func metricsColumn(extract func(*PageMetrics) string) func(TableRow) string {
	return func(row TableRow) string {
		if row.Metrics == nil {
			return NotAvailable
		}
		return extract(row.Metrics)
	}
}

// resourceDomain is the span of the network activity alone, ignoring page milestones.
func resourceDomain(capture *model.Capture) (float64, error) {
	if len(capture.Log.Entries) == 0 {
		return 0, &InvalidDomainError{Reason: "capture has no entries"}
	}
	first, end, err := entrySpan(0, &capture.Log.Entries[0])
	if err != nil {
		return 0, err
	}
	for i := 1; i < len(capture.Log.Entries); i++ {
		_, entryEnd, err := entrySpan(i, &capture.Log.Entries[i])
		if err != nil {
			return 0, err
		}
		if entryEnd.After(end) {
			end = entryEnd
		}
	}
	return model.ToMillis(end.Sub(first)), nil
}
