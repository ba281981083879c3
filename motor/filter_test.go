package motor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern_PlainText(t *testing.T) {
	pattern, err := compilePattern("testword", PlainText)
	require.NoError(t, err)
	assert.Equal(t, PlainText, pattern.mode)
	assert.Equal(t, "testword", pattern.plainText)
	assert.Nil(t, pattern.regex)
}

func TestCompilePattern_InvalidRegex(t *testing.T) {
	_, err := compilePattern("[invalid(", Regex)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex pattern")
}

func TestMatches(t *testing.T) {
	plain, _ := compilePattern("api", PlainText)
	assert.True(t, matches("https://api.example.com", plain))
	assert.False(t, matches("https://API.example.com", plain))

	regex, _ := compilePattern(`\.(js|css)$`, Regex)
	assert.True(t, matches("https://example.com/app.js", regex))
	assert.True(t, matches("https://example.com/site.css", regex))
	assert.False(t, matches("https://example.com/logo.png", regex))
}

func TestFilterEntries(t *testing.T) {
	capture := testCapture(0, 400,
		testEntry("https://example.com/", 0, 50, 1),
		testEntry("https://example.com/app.js", 100, 80, 1),
		testEntry("https://cdn.example.com/site.css", 250, 30, 1),
	)

	filtered, err := FilterEntries(capture, `\.(js|css)$`, Regex)
	require.NoError(t, err)
	require.Len(t, filtered.Log.Entries, 2)
	assert.Equal(t, "https://example.com/app.js", filtered.Log.Entries[0].Request.URL)
	assert.Len(t, filtered.Log.Pages, 1)

	// the source capture is untouched
	assert.Len(t, capture.Log.Entries, 3)

	same, err := FilterEntries(capture, "", PlainText)
	require.NoError(t, err)
	assert.Same(t, capture, same)

	_, err = FilterEntries(capture, "(", Regex)
	assert.Error(t, err)
}
