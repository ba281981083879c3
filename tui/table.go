package tui

import (
	"net/url"
	"strconv"

	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
)

func entryColumns() []table.Column {
	return []table.Column{
		{Title: "Method", Width: methodColumnWidth},
		{Title: "URL", Width: minURLColumnWidth},
		{Title: "Status", Width: statusColumnWidth},
		{Title: "Size", Width: sizeColumnWidth},
		{Title: "Duration", Width: durationColumnWidth},
	}
}

func buildEntryRows(capture *model.Capture, terminalWidth int) []table.Row {
	if capture == nil {
		return []table.Row{}
	}

	rows := make([]table.Row, 0, len(capture.Log.Entries))
	for i := range capture.Log.Entries {
		rows = append(rows, formatEntryRow(&capture.Log.Entries[i], terminalWidth))
	}
	return rows
}

func formatEntryRow(entry *model.Entry, terminalWidth int) table.Row {
	return table.Row{
		formatMethod(entry.Request.Method),
		formatURL(entry.Request.URL, urlColumnWidth(terminalWidth)),
		formatStatus(entry.Response.StatusCode),
		formatSize(entry.Response.BodySize),
		formatDuration(entry.Time),
	}
}

func urlColumnWidth(terminalWidth int) int {
	width := terminalWidth - methodColumnWidth - statusColumnWidth - sizeColumnWidth - durationColumnWidth - borderPadding
	return min(max(width, minURLColumnWidth), maxURLColumnWidth)
}

func formatMethod(method string) string {
	if method == "" {
		method = "GET"
	}
	if len(method) > 7 {
		return method[:7]
	}
	return method
}

// formatURL keeps the path and query of a url, shortened from the left the
// way the waterfall labels are.
func formatURL(fullURL string, width int) string {
	if fullURL == "" {
		return "/"
	}

	path := fullURL
	if u, err := url.Parse(fullURL); err == nil && u.Host != "" {
		path = u.EscapedPath()
		if path == "" {
			path = "/"
		}
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
	}

	return motor.ShortenURL(path, width)
}

func formatStatus(code int) string {
	if code == 0 {
		return "---"
	}
	return strconv.Itoa(code)
}

func formatSize(bytes int) string {
	s, err := motor.FormatByteSize(int64(bytes))
	if err != nil {
		return "?"
	}
	return s
}

func formatDuration(ms float64) string {
	if ms <= 0 {
		return "---"
	}
	return motor.FormatDuration(ms)
}
