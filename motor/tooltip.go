package motor

import (
	"strconv"
	"strings"

	"github.com/pb33f/harscope/motor/model"
)

const (
	LabelURL           = "URL"
	LabelResourceSize  = "Resource Size"
	LabelRequestMethod = "Request Method"
	LabelHTTPResponse  = "HTTP Response"

	NotApplicable = "not applicable"

	unknownSize = "?"
)

// Field is one labelled value of a tooltip.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PhaseValue is the duration of one phase as a tooltip shows it.
type PhaseValue struct {
	Phase      model.Phase `json:"phase"`
	ColorKey   string      `json:"colorKey"`
	Duration   float64     `json:"duration"`
	Applicable bool        `json:"applicable"`
	Value      string      `json:"value"`
}

// DescribeEntry lists the resource details of an entry in display order.
func DescribeEntry(entry *model.Entry) []Field {
	status := strings.TrimSpace(strconv.Itoa(entry.Response.StatusCode) + " " + entry.Response.StatusText)
	return []Field{
		{Label: LabelURL, Value: entry.Request.URL},
		{Label: LabelResourceSize, Value: formatSizeLabel(int64(entry.Response.BodySize))},
		{Label: LabelRequestMethod, Value: entry.Request.Method},
		{Label: LabelHTTPResponse, Value: status},
	}
}

// DescribePhases lists every phase of an entry in stacking order. Phases that
// were skipped by the layout read "not applicable".
func DescribePhases(entry *model.Entry) []PhaseValue {
	values := make([]PhaseValue, 0, len(model.Phases))
	for _, phase := range model.Phases {
		duration := entry.PhaseDuration(phase)
		pv := PhaseValue{
			Phase:      phase,
			ColorKey:   colorKey(phase),
			Duration:   duration,
			Applicable: duration > 0,
			Value:      NotApplicable,
		}
		if pv.Applicable {
			pv.Value = strconv.FormatFloat(duration, 'f', -1, 64)
		}
		values = append(values, pv)
	}
	return values
}
