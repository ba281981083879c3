package motor

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/pb33f/harhar"
	"github.com/pb33f/harscope/hargen"
	"github.com/pb33f/harscope/motor/model"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// testEntry builds an entry starting offsetMs after testEpoch
func testEntry(url string, offsetMs, duration float64, size int) model.Entry {
	return model.Entry{Entry: harhar.Entry{
		Start:    testEpoch.Add(model.Millis(offsetMs)).Format(time.RFC3339Nano),
		Time:     duration,
		Request:  harhar.Request{Method: "GET", URL: url},
		Response: harhar.Response{StatusCode: 200, StatusText: "OK", BodySize: size},
	}}
}

// testCapture wraps entries and one page with the given milestones
func testCapture(onContentLoad, onLoad float64, entries ...model.Entry) *model.Capture {
	capture := model.NewCapture("test", "1.0")
	var page model.Page
	page.ID = "page_1"
	page.Name = "test page"
	page.PageTimings.OnContentLoad = onContentLoad
	page.PageTimings.OnLoad = onLoad
	capture.Log.Pages = []model.Page{page}
	capture.Log.Entries = entries
	return capture
}

// generateCaptures generates seeded captures in memory
func generateCaptures(t *testing.T, entries, runs int, seed int64) []*model.Capture {
	t.Helper()
	captures, err := hargen.GenerateInMemory(hargen.GenerateOptions{
		EntryCount: entries,
		Runs:       runs,
		Seed:       seed,
	})
	require.NoError(t, err)
	return captures
}

// generateTestHAR writes a seeded capture file and returns its path and a cleanup function
func generateTestHAR(entries, runs int, seed int64) (string, func(), error) {
	result, err := hargen.Generate(hargen.GenerateOptions{
		EntryCount: entries,
		Runs:       runs,
		Seed:       seed,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate test HAR: %w", err)
	}

	cleanup := func() {
		os.Remove(result.HARFilePath)
	}
	return result.HARFilePath, cleanup, nil
}
