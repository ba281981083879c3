package motor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pb33f/harscope/motor/model"
)

// SearchMode defines how a filter pattern is matched
type SearchMode int

const (
	PlainText SearchMode = iota
	Regex
)

// compiledPattern holds a compiled search pattern
type compiledPattern struct {
	mode      SearchMode
	plainText string
	regex     *regexp.Regexp
}

func compilePattern(pattern string, mode SearchMode) (compiledPattern, error) {
	cp := compiledPattern{mode: mode}

	if mode == Regex {
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return cp, fmt.Errorf("invalid regex pattern: %w", err)
		}
		cp.regex = regex
	} else {
		cp.plainText = pattern
	}

	return cp, nil
}

func matches(haystack string, pattern compiledPattern) bool {
	if pattern.mode == Regex {
		return pattern.regex.MatchString(haystack)
	}
	return strings.Contains(haystack, pattern.plainText)
}

// FilterEntries returns a copy of the capture keeping only entries whose url
// matches. Pages and device information are kept as they are. An empty
// pattern keeps everything.
func FilterEntries(capture *model.Capture, pattern string, mode SearchMode) (*model.Capture, error) {
	if capture == nil {
		return nil, fmt.Errorf("capture is nil")
	}
	if pattern == "" {
		return capture, nil
	}

	cp, err := compilePattern(pattern, mode)
	if err != nil {
		return nil, err
	}

	filtered := *capture
	filtered.Log.Entries = make([]model.Entry, 0, len(capture.Log.Entries))
	for _, entry := range capture.Log.Entries {
		if matches(entry.Request.URL, cp) {
			filtered.Log.Entries = append(filtered.Log.Entries, entry)
		}
	}
	return &filtered, nil
}
