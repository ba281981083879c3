package tui

import (
	"testing"

	"github.com/pb33f/harhar"
	"github.com/pb33f/harscope/motor/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatEntryRow(t *testing.T) {
	entry := &model.Entry{Entry: harhar.Entry{
		Time:     12.5,
		Request:  harhar.Request{Method: "OPTIONS-LONG", URL: "https://example.com/static/app.js?v=2"},
		Response: harhar.Response{StatusCode: 200, BodySize: 1536},
	}}

	row := formatEntryRow(entry, 120)
	assert.Equal(t, "OPTIONS", row[0])
	assert.Equal(t, "/static/app.js?v=2", row[1])
	assert.Equal(t, "200", row[2])
	assert.Equal(t, "1.5KB", row[3])
	assert.Equal(t, "12.5ms", row[4])
}

func TestFormatEntryRow_Unknowns(t *testing.T) {
	entry := &model.Entry{Entry: harhar.Entry{
		Time:     -1,
		Response: harhar.Response{BodySize: -1},
	}}

	row := formatEntryRow(entry, 120)
	assert.Equal(t, "GET", row[0])
	assert.Equal(t, "/", row[1])
	assert.Equal(t, "---", row[2])
	assert.Equal(t, "?", row[3])
	assert.Equal(t, "---", row[4])
}

func TestFormatURL_Shortens(t *testing.T) {
	got := formatURL("https://example.com/a/b/c/d/e/very_long_file_name.css", 30)
	assert.Equal(t, ".../e/very_long_file_name.css", got)
}

func TestURLColumnWidth_Bounds(t *testing.T) {
	assert.Equal(t, minURLColumnWidth, urlColumnWidth(40))
	assert.Equal(t, maxURLColumnWidth, urlColumnWidth(400))
	assert.Equal(t, 120-methodColumnWidth-statusColumnWidth-sizeColumnWidth-durationColumnWidth-borderPadding, urlColumnWidth(120))
}

func TestStatusStyle(t *testing.T) {
	assert.Equal(t, statusOKStyle.Render("x"), StatusStyle(200).Render("x"))
	assert.Equal(t, statusWarningStyle.Render("x"), StatusStyle(404).Render("x"))
	assert.Equal(t, statusErrorStyle.Render("x"), StatusStyle(503).Render("x"))
}
