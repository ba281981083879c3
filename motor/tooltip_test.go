package motor

import (
	"testing"

	"github.com/pb33f/harscope/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeEntry(t *testing.T) {
	entry := testEntry("https://example.com/app.js", 0, 10, 1536)
	entry.Response.StatusCode = 404
	entry.Response.StatusText = "Not Found"

	fields := DescribeEntry(&entry)
	assert.Equal(t, []Field{
		{Label: LabelURL, Value: "https://example.com/app.js"},
		{Label: LabelResourceSize, Value: "1.5KB"},
		{Label: LabelRequestMethod, Value: "GET"},
		{Label: LabelHTTPResponse, Value: "404 Not Found"},
	}, fields)
}

func TestDescribeEntry_UnknownSize(t *testing.T) {
	entry := testEntry("https://example.com/", 0, 10, -1)
	entry.Response.StatusText = ""

	fields := DescribeEntry(&entry)
	assert.Equal(t, "?", fields[1].Value)
	assert.Equal(t, "200", fields[3].Value)
}

func TestDescribePhases(t *testing.T) {
	entry := withPhases(testEntry("https://example.com/", 0, 50, 1),
		map[model.Phase]float64{model.PhaseDNS: 10, model.PhaseWait: 40, model.PhaseSend: 0})

	values := DescribePhases(&entry)
	require.Len(t, values, len(model.Phases))

	for i, v := range values {
		assert.Equal(t, model.Phases[i], v.Phase)
	}

	assert.Equal(t, NotApplicable, values[0].Value) // blocked -1
	assert.Equal(t, "10", values[1].Value)
	assert.True(t, values[1].Applicable)
	assert.Equal(t, NotApplicable, values[3].Value) // send 0
	assert.Equal(t, "40", values[4].Value)
	assert.Equal(t, 40.0, values[4].Duration)
}
