package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pb33f/harscope/config"
	"github.com/pb33f/harscope/hargen"
	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) (*Server, *motor.CaptureSet) {
	t.Helper()
	captures, err := hargen.GenerateInMemory(hargen.GenerateOptions{EntryCount: 8, Runs: 2, Seed: 13})
	require.NoError(t, err)

	// a third capture whose only entry has a negative duration
	broken := model.NewCapture("test", "1")
	broken.Log.Entries = []model.Entry{captures[0].Log.Entries[0]}
	broken.Log.Entries[0].Time = -1
	captures = append(captures, broken)

	set := &motor.CaptureSet{FilePath: "test.har", FileHash: "abc123", Captures: captures}
	srv, err := New(set, config.Default(), nil)
	require.NoError(t, err)
	return srv, set
}

func get(t *testing.T, srv http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)
	rec := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("ETag"))
}

func TestListCaptures(t *testing.T) {
	srv, _ := testServer(t)
	rec := get(t, srv, "/api/captures")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"abc123"`, rec.Header().Get("ETag"))

	var list captureList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Captures, 3)
	assert.Equal(t, 8, list.Captures[0].Entries)
	assert.NotNil(t, list.Captures[0].Metrics)
	assert.Nil(t, list.Captures[2].Metrics)
}

func TestETagNotModified(t *testing.T) {
	srv, _ := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/captures", nil)
	req.Header.Set("If-None-Match", `"abc123"`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestGetLayout(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"default budget", "/api/captures/0/layout", http.StatusOK},
		{"custom width", "/api/captures/1/layout?width=1600&height=400", http.StatusOK},
		{"bad id", "/api/captures/x/layout", http.StatusBadRequest},
		{"missing capture", "/api/captures/9/layout", http.StatusNotFound},
		{"bad width", "/api/captures/0/layout?width=abc", http.StatusBadRequest},
		{"insufficient width", "/api/captures/0/layout?width=100", http.StatusBadRequest},
		{"invalid entry", "/api/captures/2/layout", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.path)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusOK {
				var wf motor.Waterfall
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wf))
				assert.Len(t, wf.Entries, 8)
				assert.Greater(t, wf.Domain.TotalTime, 0.0)
			} else {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestGetMetrics(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/api/captures/0/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	var metrics motor.PageMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Greater(t, metrics.OnLoad, 0.0)
	assert.True(t, metrics.Paints.Available)

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/captures/0/metrics?page=4").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/captures/0/metrics?page=x").Code)
}

func TestGetTooltip(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/api/captures/0/entries/1/tooltip")
	require.Equal(t, http.StatusOK, rec.Code)

	var tip tooltip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tip))
	assert.Equal(t, 1, tip.Index)
	require.Len(t, tip.Fields, 4)
	assert.Equal(t, motor.LabelURL, tip.Fields[0].Label)
	assert.Len(t, tip.Phases, len(model.Phases))

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/captures/0/entries/99/tooltip").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/captures/0/entries/x/tooltip").Code)
}

func TestGetTable(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/api/tables/"+motor.TablePageTiming)
	require.Equal(t, http.StatusOK, rec.Code)

	var table tableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	assert.Equal(t, "Page Timing", table.Title)
	assert.Len(t, table.Rows, 3)
	assert.Equal(t, "Link to Waterfall", table.Header[len(table.Header)-1])

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/tables/nope").Code)
}

func TestGetImages(t *testing.T) {
	srv, _ := testServer(t)

	rec := get(t, srv, "/api/captures/0/waterfall.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = get(t, srv, "/api/captures/0/phases.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusUnprocessableEntity, get(t, srv, "/api/captures/2/waterfall.png").Code)
}

func TestGetWaterfallPNG_RejectsOversizedCanvas(t *testing.T) {
	srv, _ := testServer(t)

	for _, query := range []string{
		"width=20000&height=200000",
		"width=4001",
		"height=10001",
	} {
		rec := get(t, srv, "/api/captures/0/waterfall.png?"+query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Contains(t, rec.Body.String(), "image too large", query)
	}

	// the json layout keeps the wider limits
	assert.Equal(t, http.StatusOK, get(t, srv, "/api/captures/0/layout?width=20000&height=200000").Code)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Palette = map[string]string{"nope": "#000000"}
	_, err = New(&motor.CaptureSet{}, cfg, nil)
	assert.Error(t, err)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	srv, _ := testServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, srv.ListenAndServe(ctx, "127.0.0.1:0"))
}
