package motor

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatByteSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0B"},
		{1, "1.0B"},
		{500, "500.0B"},
		{1023, "1023.0B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{1024 * 1024, "1.0MB"},
		{5 * 1024 * 1024 * 1024, "5.0GB"},
		{1024 * 1024 * 1024 * 1024, "1.0TB"},
		{3 * 1024 * 1024 * 1024 * 1024 * 1024, "3072.0TB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := FormatByteSize(tt.bytes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatByteSize_Negative(t *testing.T) {
	_, err := FormatByteSize(-1)
	require.Error(t, err)

	var sizeErr *InvalidSizeError
	require.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, int64(-1), sizeErr.Bytes)
}

func TestShortenURL_KeepsMostSpecificSegments(t *testing.T) {
	got := ShortenURL("http://google.com/asdf/f/d/as/df/a/f/your_profile.html", 33)
	assert.Equal(t, ".../d/as/df/a/f/your_profile.html", got)
}

func TestShortenURL_FitsUnchanged(t *testing.T) {
	url := "https://example.com/app.js"
	assert.Equal(t, url, ShortenURL(url, len(url)))
	assert.Equal(t, url, ShortenURL(url, 100))
}

func TestShortenURL_LongFilename(t *testing.T) {
	url := "https://cdn.example.com/" + strings.Repeat("x", 60) + ".js"
	got := ShortenURL(url, 20)

	assert.Len(t, got, 20)
	assert.True(t, strings.HasPrefix(got, ".../xxx"))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestShortenURL_DataURI(t *testing.T) {
	url := "data:image/png;base64," + strings.Repeat("A", 200)
	got := ShortenURL(url, 30)

	assert.Len(t, got, 30)
	assert.True(t, strings.HasPrefix(got, "data:image/png"))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestShortenURL_NeverExceedsBudget(t *testing.T) {
	urls := []string{
		"http://google.com/asdf/f/d/as/df/a/f/your_profile.html",
		"https://a.b/" + strings.Repeat("segment/", 30) + "file.css",
		"https://example.com/" + strings.Repeat("z", 500),
		"https://example.com/a/b/c/?q=" + strings.Repeat("1", 90),
		"data:text/plain," + strings.Repeat("q", 90),
	}

	for _, url := range urls {
		for n := MinURLBudget; n <= 80; n++ {
			got := ShortenURL(url, n)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), n, "url %q budget %d", url, n)
		}
	}
}

func TestShortenURL_MultibyteURL(t *testing.T) {
	url := "http://example.com/" + strings.Repeat("é", 12) + "/каталог/файл-документ.html"

	for n := MinURLBudget; n <= 40; n++ {
		got := ShortenURL(url, n)
		assert.True(t, utf8.ValidString(got), "budget %d produced %q", n, got)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), n, "budget %d produced %q", n, got)
	}

	assert.Equal(t, ".../каталог/файл-документ.html", ShortenURL(url, 30))
	assert.Equal(t, url, ShortenURL(url, utf8.RuneCountInString(url)))
}

func TestShortenURL_ZeroBudget(t *testing.T) {
	assert.Equal(t, "", ShortenURL("https://example.com/", 0))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0ms", FormatDuration(0))
	assert.Equal(t, "12.5ms", FormatDuration(12.5))
	assert.Equal(t, "400ms", FormatDuration(400))
}
