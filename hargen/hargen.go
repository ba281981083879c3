package hargen

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pb33f/harhar"
	"github.com/pb33f/harscope/motor/model"
)

const (
	creatorName    = "hargen"
	creatorVersion = "1.0.0"
)

// GenerateOptions configures capture generation
type GenerateOptions struct {
	EntryCount     int       // number of entries, including the root document
	Runs           int       // captures of the same page to generate (default: 1)
	Host           string    // host every url points at (default: www.example.com)
	PageName       string    // _pageName of the page (default: host)
	Start          time.Time // start of the first run (zero = fixed epoch when seeded, now otherwise)
	DictionaryPath string    // path to word dictionary (default: /usr/share/dict/words)
	Seed           int64     // random seed for reproducibility (0 = use time)
	NoStats        bool      // leave out the profiler statistics
}

// DefaultGenerateOptions provides sensible defaults
var DefaultGenerateOptions = GenerateOptions{
	EntryCount:     10,
	Runs:           1,
	Host:           "www.example.com",
	DictionaryPath: "/usr/share/dict/words",
}

// seededEpoch keeps seeded captures byte for byte reproducible
var seededEpoch = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

// GenerateResult contains the path of a generated capture file
type GenerateResult struct {
	HARFilePath  string // path to generated har file
	Runs         int    // number of captures in the file
	TotalEntries int    // number of entries across all captures
}

func applyDefaults(opts GenerateOptions) GenerateOptions {
	if opts.DictionaryPath == "" {
		opts.DictionaryPath = DefaultGenerateOptions.DictionaryPath
	}
	if opts.Runs < 1 {
		opts.Runs = DefaultGenerateOptions.Runs
	}
	if opts.Host == "" {
		opts.Host = DefaultGenerateOptions.Host
	}
	if opts.PageName == "" {
		opts.PageName = opts.Host
	}
	if opts.Start.IsZero() {
		if opts.Seed != 0 {
			opts.Start = seededEpoch
		} else {
			opts.Start = time.Now().UTC()
		}
	}
	return opts
}

// GenerateInMemory creates opts.Runs captures of the same page load
func GenerateInMemory(opts GenerateOptions) ([]*model.Capture, error) {
	opts = applyDefaults(opts)

	// local rng, never the global one
	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	dict, err := LoadDictionary(opts.DictionaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	captures := make([]*model.Capture, 0, opts.Runs)
	for run := 0; run < opts.Runs; run++ {
		start := opts.Start.Add(time.Duration(run) * time.Minute)
		captures = append(captures, generateCapture(opts, dict, start, rng))
	}
	return captures, nil
}

func generateCapture(opts GenerateOptions, dict *Dictionary, start time.Time, rng *rand.Rand) *model.Capture {
	capture := model.NewCapture(creatorName, creatorVersion)
	capture.Log.Browser = &harhar.Creator{Name: "Chrome", Version: "124.0.6367.91"}
	capture.Log.OS = &model.OSInfo{Name: "Linux", Version: "6.8"}

	const pageRef = "page_1"
	entryGen := NewEntryGenerator(dict, opts.Host, start, rng)

	entries := make([]model.Entry, 0, opts.EntryCount)
	for i := 0; i < opts.EntryCount; i++ {
		if i == 0 {
			entries = append(entries, entryGen.GenerateDocument(pageRef))
			continue
		}
		entries = append(entries, entryGen.GenerateEntry(pageRef))
	}
	capture.Log.Entries = entries

	var page model.Page
	page.ID = pageRef
	page.Title = "https://" + opts.Host + "/"
	page.Start = start.Format(startedDateTimeLayout)
	page.Name = opts.PageName

	if len(entries) > 0 {
		// onLoad fires a little after the last resource, sometimes well after
		loaded := model.ToMillis(entryGen.End(entries).Sub(start))
		page.PageTimings.OnLoad = loaded + float64(rng.Intn(150))
		page.PageTimings.OnContentLoad = page.PageTimings.OnLoad * (0.5 + rng.Float64()*0.4)
	}

	if !opts.NoStats {
		page.CSSStats = generateCSSStats(dict, rng)
		page.EventStats = &model.EventStats{
			StyleRecalculates: model.Float(float64(rng.Intn(40) + 1)),
			Paints:            model.Float(float64(rng.Intn(60) + 1)),
			GCEvents:          model.Float(float64(rng.Intn(10))),
		}
		page.MemoryStats = generateMemoryStats(rng)
		page.DOMNodeStats = &model.DOMNodeStats{DOMGroups: generateDOMGroups(rng)}
	}

	capture.Log.Pages = []model.Page{page}
	return capture
}

func generateCSSStats(dict *Dictionary, rng *rand.Rand) *model.CSSStats {
	rule := func() *model.CSSRule {
		hits := int64(rng.Intn(5000) + 1)
		return &model.CSSRule{
			Selector:   "." + dict.RandomWord(rng) + " ." + dict.RandomWord(rng),
			Time:       rng.Float64() * 5,
			HitCount:   hits,
			MatchCount: rng.Int63n(hits + 1),
		}
	}
	return &model.CSSStats{
		TotalTime:             model.Float(rng.Float64() * 60),
		MostTimeConsumingRule: rule(),
		MostMissesRule:        rule(),
	}
}

func generateMemoryStats(rng *rand.Rand) *model.MemoryStats {
	const mb = 1 << 20
	initialUsed := float64(rng.Intn(4*mb) + mb)
	maxUsed := initialUsed + float64(rng.Intn(20*mb))
	return &model.MemoryStats{
		InitialTotalHeapSize: model.Float(initialUsed * 1.5),
		MaxTotalHeapSize:     model.Float(maxUsed * 1.5),
		InitialUsedHeapSize:  model.Float(initialUsed),
		MaxUsedHeapSize:      model.Float(maxUsed),
		AvgUsedHeapSize:      model.Float((initialUsed + maxUsed) / 2),
		MaxJSEventListeners:  model.Float(float64(rng.Intn(500))),
		MaxNodes:             model.Float(float64(rng.Intn(5000) + 100)),
		MaxDocuments:         model.Float(float64(rng.Intn(4) + 1)),
	}
}

func generateDOMGroups(rng *rand.Rand) []model.DOMGroup {
	groups := make([]model.DOMGroup, rng.Intn(4)+1)
	for i := range groups {
		groups[i].Size = int64(rng.Intn(800) + 1)
	}
	return groups
}

// Generate writes generated captures to a temp file. A single run is written
// as one object, several runs as an array.
func Generate(opts GenerateOptions) (*GenerateResult, error) {
	captures, err := GenerateInMemory(opts)
	if err != nil {
		return nil, err
	}

	tmpFile, err := os.CreateTemp("", "hargen-*.har")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmpFile.Close()

	if err := encodeCaptures(tmpFile, captures); err != nil {
		os.Remove(tmpFile.Name())
		return nil, err
	}

	return newResult(tmpFile.Name(), captures), nil
}

// GenerateToFile generates captures and writes them to a specific file path
func GenerateToFile(path string, opts GenerateOptions) (*GenerateResult, error) {
	captures, err := GenerateInMemory(opts)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := encodeCaptures(file, captures); err != nil {
		return nil, err
	}

	return newResult(path, captures), nil
}

func encodeCaptures(file *os.File, captures []*model.Capture) error {
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	var v any = captures
	if len(captures) == 1 {
		v = captures[0]
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write har: %w", err)
	}
	return nil
}

func newResult(path string, captures []*model.Capture) *GenerateResult {
	total := 0
	for _, c := range captures {
		total += len(c.Log.Entries)
	}
	return &GenerateResult{
		HARFilePath:  path,
		Runs:         len(captures),
		TotalEntries: total,
	}
}
