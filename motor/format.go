package motor

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	ellipsis      = "..."
	urlSeparator  = "/"
	dataURIPrefix = "data:"

	// MinURLBudget is the smallest label budget for which ShortenURL still
	// keeps a readable tail of the URL.
	MinURLBudget = 8
)

var sizeUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

// FormatByteSize renders a byte count in base 1024 with one decimal, e.g.
// 1536 -> "1.5KB". Unknown sizes must be filtered out by the caller; a
// negative count is an *InvalidSizeError.
func FormatByteSize(bytes int64) (string, error) {
	if bytes < 0 {
		return "", &InvalidSizeError{Bytes: bytes}
	}
	if bytes == 0 {
		return "0B", nil
	}

	// divide instead of taking log1024, which misses exact powers by an ulp
	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + sizeUnits[unit], nil
}

// ShortenURL fits a URL into maxChars characters (runes), keeping the most specific path segments.
//
//	"http://google.com/asdf/f/d/as/df/a/f/your_profile.html", 33
//	  -> ".../d/as/df/a/f/your_profile.html"
//
// A URL that already fits is returned unchanged. data: URIs keep their prefix.
// The result never exceeds maxChars.
func ShortenURL(url string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	if utf8.RuneCountInString(url) <= maxChars {
		return url
	}

	if strings.HasPrefix(url, dataURIPrefix) {
		return clip(clip(url, maxChars-len(ellipsis))+ellipsis, maxChars)
	}

	budget := maxChars - len(ellipsis)
	parts := strings.Split(url, urlSeparator)
	shortened := ""

	for i := len(parts) - 1; i >= 0; i-- {
		part := parts[i]
		if utf8.RuneCountInString(part)+len(urlSeparator)+utf8.RuneCountInString(shortened) > budget {
			if shortened == "" {
				shortened = urlSeparator + clip(part, maxChars-7) + ellipsis
			}
			break
		}
		shortened = urlSeparator + part + shortened
	}

	return clip(ellipsis+shortened, maxChars)
}

// FormatDuration renders a millisecond duration as a label, e.g. 12.5 -> "12.5ms".
func FormatDuration(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
}

// formatSizeLabel is FormatByteSize for display, where unknown sizes show as "?".
func formatSizeLabel(bytes int64) string {
	s, err := FormatByteSize(bytes)
	if err != nil {
		return unknownSize
	}
	return s
}

// clip keeps the first n characters of s, never splitting a rune.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for pos := range s {
		if count == n {
			return s[:pos]
		}
		count++
	}
	return s
}
