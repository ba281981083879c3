package hargen

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"strings"
)

// fallback word list for when /usr/share/dict/words doesn't exist (windows, containers)
var fallbackWords = []string{
	"assets", "static", "media", "images", "scripts", "styles", "fonts",
	"vendor", "bundle", "chunk", "main", "app", "runtime", "polyfills",
	"analytics", "tracking", "pixel", "beacon", "widget", "embed",
	"profile", "account", "search", "results", "product", "catalog",
	"cart", "checkout", "banner", "hero", "thumbnail", "avatar", "logo",
	"sprite", "icons", "theme", "layout", "header", "footer", "sidebar",
	"article", "comments", "feed", "timeline", "gallery", "video",
	"player", "config", "manifest", "locale", "translations", "session",
}

// Dictionary is the pool of words url path segments are drawn from.
type Dictionary struct {
	words []string
}

const (
	minSegmentLength = 3
	maxSegmentLength = 15
)

// LoadDictionary reads a word list, one word per line, keeping the lower-cased
// words that make readable path segments. A missing file yields the built in
// list so generation works on hosts without /usr/share/dict.
func LoadDictionary(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Dictionary{words: fallbackWords}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	seen := make(map[string]struct{})
	words := make([]string, 0, 1024)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word, ok := pathSegment(scanner.Text())
		if !ok {
			continue
		}
		// dictionaries list proper nouns next to their lower-case forms
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("dictionary %s has no usable words", path)
	}
	return &Dictionary{words: words}, nil
}

// pathSegment normalises a dictionary line into a url segment.
func pathSegment(line string) (string, bool) {
	word := strings.ToLower(strings.TrimSpace(line))
	if len(word) < minSegmentLength || len(word) > maxSegmentLength {
		return "", false
	}
	for _, r := range word {
		if r < 'a' || r > 'z' {
			return "", false
		}
	}
	return word, true
}

// RandomWord returns a random word from the dictionary
func (d *Dictionary) RandomWord(rng *rand.Rand) string {
	if len(d.words) == 0 {
		return "word"
	}
	return d.words[rng.Intn(len(d.words))]
}

// RandomPath joins depth random words into a url path, without a leading slash
func (d *Dictionary) RandomPath(depth int, rng *rand.Rand) string {
	if depth <= 0 {
		return ""
	}
	parts := make([]string, depth)
	for i := range parts {
		parts[i] = d.RandomWord(rng)
	}
	return strings.Join(parts, "/")
}

// Size returns the number of words in the dictionary
func (d *Dictionary) Size() int {
	return len(d.words)
}
