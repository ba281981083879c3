package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
)

const (
	barGlyph     = "█"
	segmentGlyph = "▇"
	markerGlyph  = "│"
)

var (
	tableTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("201")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("201"))
	faintStyle       = lipgloss.NewStyle().Faint(true)
)

// TextTable renders one summary table for a terminal.
func TextTable(t motor.Table, rows [][]string) string {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(t.Header()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	return tableTitleStyle.Render(t.Title) + "\n" + tbl.String()
}

// TextReport renders every summary table of a capture set.
func TextReport(captures []*model.Capture) string {
	var b strings.Builder
	for _, t := range motor.SummaryTables() {
		b.WriteString(TextTable(t, t.Rows(captures)))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// cellUnits is the width of one terminal cell in layout units, chosen so a
// url area of n cells holds n url characters.
const cellUnits = 300.0 / 33.0

// sizeColumnWidth is the leading column that holds size labels in text output.
const sizeColumnWidth = 9

// TextBudget lays a waterfall out for a terminal of the given width: 30% for
// urls, a duration column on the right and one line per entry.
func TextBudget(width, entries int) motor.Budget {
	cells := max(width-sizeColumnWidth, 0)
	urlCells := math.Max(math.Round(float64(cells)*0.3), float64(motor.MinURLBudget))
	return motor.Budget{
		URLAreaWidth:        urlCells * cellUnits,
		RightLabelAreaWidth: 10 * cellUnits,
		TotalWidth:          float64(cells) * cellUnits,
		TotalHeight:         float64(entries),
	}
}

// TextLayoutOptions measures labels in cells.
func TextLayoutOptions() []motor.LayoutOption {
	return []motor.LayoutOption{motor.WithTextMeasurer(motor.MonospaceMeasurer(cellUnits))}
}

// TextWaterfall draws a waterfall laid out with TextBudget and TextLayoutOptions.
func TextWaterfall(wf *motor.Waterfall, palette Palette) string {
	if palette == nil {
		palette = DefaultPalette()
	}

	width := toCell(wf.Budget.TotalWidth)
	var b strings.Builder

	for _, e := range wf.Entries {
		b.WriteString(faintStyle.Render(fmt.Sprintf("%*s ", sizeColumnWidth-1, e.SizeLabel)))
		b.WriteString(textRow(wf, e, palette, width))
		b.WriteByte('\n')
	}
	b.WriteString(textLegend(wf.Legend, palette))
	return b.String()
}

func toCell(units float64) int {
	return int(math.Round(units / cellUnits))
}

func textRow(wf *motor.Waterfall, e motor.EntryLayout, palette Palette, width int) string {
	cells := make([]string, width)
	for i := range cells {
		cells[i] = " "
	}
	// put styles a whole label at once and empties the cells it spans
	put := func(x int, s string, style lipgloss.Style) {
		runes := []rune(s)
		if x < 0 || x >= width {
			return
		}
		runes = runes[:min(len(runes), width-x)]
		cells[x] = style.Render(string(runes))
		for i := 1; i < len(runes); i++ {
			cells[x+i] = ""
		}
	}

	put(0, e.URLLabel, lipgloss.NewStyle())

	for _, m := range wf.Markers {
		put(toCell(m.X), markerGlyph, lipgloss.NewStyle().Foreground(palette.Color(m.Name)))
	}

	x0 := toCell(e.BarOffset)
	x1 := max(toCell(e.BarOffset+e.BarWidth), x0+1)
	bar := lipgloss.NewStyle().Foreground(palette.Color(KeyBar))
	for x := x0; x < x1; x++ {
		put(x, barGlyph, bar)
	}
	for _, s := range e.Segments {
		style := lipgloss.NewStyle().Foreground(palette.Color(s.ColorKey))
		for x := toCell(e.BarOffset + s.Offset); x < toCell(e.BarOffset+s.Offset+s.Width); x++ {
			put(x, segmentGlyph, style)
		}
	}

	put(x1+1, e.DurationLabel, faintStyle)
	return strings.Join(cells, "")
}

func textLegend(legend []motor.LegendItem, palette Palette) string {
	parts := make([]string, 0, len(legend))
	for _, item := range legend {
		swatch := lipgloss.NewStyle().Foreground(palette.Color(item.ColorKey)).Render(segmentGlyph)
		parts = append(parts, fmt.Sprintf("%s %s", swatch, item.Phase))
	}
	return strings.Join(parts, "  ")
}
