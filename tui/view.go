package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

func (m *CaptureViewModel) render() string {
	var builder strings.Builder

	builder.WriteString(m.renderTitle())
	builder.WriteString("\n")

	if m.viewMode == ViewModeWaterfall {
		builder.WriteString(m.waterfallViewport.View())
	} else {
		builder.WriteString(m.table.View())
		builder.WriteString("\n")
		builder.WriteString(m.renderDetailPanel())
	}

	builder.WriteString("\n")
	builder.WriteString(m.renderStatusBar())

	return builder.String()
}

func (m *CaptureViewModel) renderTitle() string {
	titleStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		Padding(0, 1).
		Width(m.width).
		BorderForeground(RGBBlue).
		BorderTop(false).BorderLeft(false).BorderRight(false).BorderBottom(true)

	title := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("harscope: %s | ", m.fileName))

	info := fmt.Sprintf("capture %d/%d, %d entries", m.captureIndex+1, len(m.set.Captures), len(m.rows))
	if page := m.Capture().FirstPage(); page != nil && page.Title != "" {
		info = page.Title + " | " + info
	}
	if m.loadTime > 0 {
		info += fmt.Sprintf(", loaded in %v", m.loadTime.Round(time.Millisecond))
	}
	if m.opts.Filter != "" {
		info += fmt.Sprintf(", filter %q", m.opts.Filter)
	}

	return titleStyle.Render(title + HelpStyle.Render("("+info+")"))
}

func (m *CaptureViewModel) renderStatusBar() string {
	var parts []string

	if m.viewMode == ViewModeTable {
		parts = append(parts, "↑/↓: Navigate", "w: Waterfall", "Esc: Hide Details")
	} else {
		parts = append(parts, "↑/↓: Scroll", "w/Esc: Entries")
	}
	if m.set != nil && len(m.set.Captures) > 1 {
		parts = append(parts, "n/p: Next/Previous Capture")
	}
	parts = append(parts, "q: Quit")

	if len(m.rows) > 0 && m.selectedIndex >= 0 && m.selectedIndex < len(m.rows) {
		parts = append(parts, fmt.Sprintf("Entry %d/%d", m.selectedIndex+1, len(m.rows)))
	}

	return HelpStyle.Render(strings.Join(parts, " | "))
}

func (m *CaptureViewModel) renderDetailPanel() string {
	if m.detailIndex < 0 {
		return m.renderEmptyPanel()
	}

	left := panelBorderStyle.Width(m.entryViewport.Width()).Render(m.entryViewport.View())
	right := panelBorderStyle.Width(m.phaseViewport.Width()).Render(m.phaseViewport.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m *CaptureViewModel) renderEmptyPanel() string {
	_, _, panelHeight := m.dimensions()
	emptyStyle := lipgloss.NewStyle().
		Faint(true).
		Align(lipgloss.Center, lipgloss.Center).
		Width(m.width).
		Height(panelHeight + detailPanelPadding)

	if len(m.rows) == 0 {
		return emptyStyle.Render("No entries")
	}
	return emptyStyle.Render("Rest on an entry to see its details")
}
