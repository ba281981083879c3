package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
	"github.com/pb33f/harscope/render"
)

// pre-computed styles, the detail panel re-renders on every selection
var (
	keyStyleBase = lipgloss.NewStyle().
			Foreground(RGBGrey).
			Align(lipgloss.Right)

	sectionHeaderStyleBase = lipgloss.NewStyle().
				Bold(true).
				Foreground(RGBPink)

	emptyValueText = lipgloss.NewStyle().Faint(true).Render("(empty)")
)

// KeyValuePair is one row of the detail panel.
type KeyValuePair struct {
	Key   string
	Value string
	Style *lipgloss.Style
}

// Section groups rows under a title.
type Section struct {
	Title string
	Pairs []KeyValuePair
}

// RenderOptions configures key-value rendering
type RenderOptions struct {
	Width    int  // total available width
	Truncate bool // whether to truncate long values
	KeyWidth int  // key column width (0 = auto-calculate)
}

func renderSections(sections []Section, opts RenderOptions) string {
	if len(sections) == 0 {
		return ""
	}

	keyWidth := opts.KeyWidth
	if keyWidth == 0 {
		keyWidth = min(max(opts.Width*3/10, minKeyWidth), maxKeyWidth)
	}
	valueWidth := opts.Width - keyWidth - 2

	var output strings.Builder
	for i, section := range sections {
		if section.Title != "" {
			output.WriteString(sectionHeaderStyleBase.Width(opts.Width).Render(section.Title))
			output.WriteString("\n")
		}

		for _, pair := range section.Pairs {
			output.WriteString(renderKeyValueRow(pair, keyWidth, valueWidth, opts.Truncate))
			output.WriteString("\n")
		}

		if i < len(sections)-1 {
			output.WriteString("\n")
		}
	}

	return output.String()
}

func renderKeyValueRow(pair KeyValuePair, keyWidth, valueWidth int, truncate bool) string {
	keyStyle := keyStyleBase.Width(keyWidth)
	if pair.Style != nil {
		keyStyle = pair.Style.Width(keyWidth).Align(lipgloss.Right)
	}

	value := pair.Value
	switch {
	case value == "":
		value = emptyValueText
	case truncate && valueWidth > 3 && len(value) > valueWidth:
		value = motor.ShortenURL(value, valueWidth)
	}

	return keyStyle.Render(pair.Key) + "  " + value
}

// buildResourceSection lists what the entry fetched, in tooltip order.
func buildResourceSection(entry *model.Entry) Section {
	fields := motor.DescribeEntry(entry)
	pairs := make([]KeyValuePair, 0, len(fields))
	for _, f := range fields {
		pair := KeyValuePair{Key: f.Label, Value: f.Value}
		if f.Label == motor.LabelHTTPResponse {
			pair.Value = StatusStyle(entry.Response.StatusCode).Render(f.Value)
		}
		pairs = append(pairs, pair)
	}
	return Section{Title: "Resource", Pairs: pairs}
}

// buildPhaseSection lists every phase, keyed in its waterfall colour.
func buildPhaseSection(entry *model.Entry, palette render.Palette) Section {
	phases := motor.DescribePhases(entry)
	pairs := make([]KeyValuePair, 0, len(phases))
	for _, pv := range phases {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(pv.ColorKey)))
		value := pv.Value
		if pv.Applicable {
			value = motor.FormatDuration(pv.Duration)
		}
		pairs = append(pairs, KeyValuePair{Key: pv.Phase.String(), Value: value, Style: &style})
	}
	return Section{Title: "Timings", Pairs: pairs}
}
