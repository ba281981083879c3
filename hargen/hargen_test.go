package hargen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pb33f/harscope/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInMemory_ConsistentTimings(t *testing.T) {
	captures, err := GenerateInMemory(GenerateOptions{EntryCount: 25, Seed: 7})
	require.NoError(t, err)
	require.Len(t, captures, 1)

	capture := captures[0]
	require.Len(t, capture.Log.Entries, 25)
	require.Len(t, capture.Log.Pages, 1)

	prev, err := capture.Log.Entries[0].StartTime()
	require.NoError(t, err)

	for i := range capture.Log.Entries {
		entry := &capture.Log.Entries[i]
		start, err := entry.StartTime()
		require.NoError(t, err)
		assert.False(t, start.Before(prev), "entry %d starts before its predecessor", i)
		prev = start

		sum := 0.0
		for _, phase := range model.Phases {
			if d := entry.PhaseDuration(phase); d > 0 {
				sum += d
			}
		}
		assert.InDelta(t, sum, entry.Time, 1e-9, "entry %d", i)
		assert.Equal(t, "page_1", entry.PageRef)
	}

	page := capture.FirstPage()
	assert.Greater(t, page.PageTimings.OnLoad, page.PageTimings.OnContentLoad)
	assert.NotNil(t, page.CSSStats)
	assert.NotNil(t, page.EventStats)
	assert.NotNil(t, page.MemoryStats)
	assert.NotEmpty(t, page.DOMNodeStats.DOMGroups)
}

func TestGenerateInMemory_Reproducible(t *testing.T) {
	a, err := GenerateInMemory(GenerateOptions{EntryCount: 10, Seed: 42})
	require.NoError(t, err)
	b, err := GenerateInMemory(GenerateOptions{EntryCount: 10, Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateInMemory_Runs(t *testing.T) {
	captures, err := GenerateInMemory(GenerateOptions{EntryCount: 5, Runs: 3, Seed: 1, PageName: "home"})
	require.NoError(t, err)
	require.Len(t, captures, 3)

	for _, c := range captures {
		assert.Equal(t, "home", c.FirstPage().Name)
		assert.Equal(t, *captures[0].Log.OS, *c.Log.OS)
		assert.Equal(t, *captures[0].Log.Browser, *c.Log.Browser)
	}
}

func TestGenerateInMemory_NoStats(t *testing.T) {
	captures, err := GenerateInMemory(GenerateOptions{EntryCount: 3, Seed: 3, NoStats: true})
	require.NoError(t, err)

	page := captures[0].FirstPage()
	assert.Nil(t, page.CSSStats)
	assert.Nil(t, page.EventStats)
	assert.Nil(t, page.MemoryStats)
	assert.Nil(t, page.DOMNodeStats)
}

func TestGenerateInMemory_Empty(t *testing.T) {
	captures, err := GenerateInMemory(GenerateOptions{EntryCount: 0, Seed: 3})
	require.NoError(t, err)
	assert.Empty(t, captures[0].Log.Entries)
	assert.Zero(t, captures[0].FirstPage().PageTimings.OnLoad)
}

func TestGenerateToFile(t *testing.T) {
	path := t.TempDir() + "/nested/capture.har"

	result, err := GenerateToFile(path, GenerateOptions{EntryCount: 4, Runs: 2, Seed: 9})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Runs)
	assert.Equal(t, 8, result.TotalEntries)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('['), content[0])
}

func TestGenerate_TempFile(t *testing.T) {
	result, err := Generate(GenerateOptions{EntryCount: 2, Seed: 5})
	require.NoError(t, err)
	defer os.Remove(result.HARFilePath)

	content, err := os.ReadFile(result.HARFilePath)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), content[0])
}

func TestLoadDictionary_Fallback(t *testing.T) {
	dict, err := LoadDictionary("/nonexistent/words")
	require.NoError(t, err)
	assert.Equal(t, len(fallbackWords), dict.Size())
}

func TestLoadDictionary_FiltersAndDedupes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words")
	require.NoError(t, os.WriteFile(path, []byte("Paris\nparis\nab\nit's\nthumbnail\nextraordinarilylong\n"), 0o644))

	dict, err := LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"paris", "thumbnail"}, dict.words)
}

func TestLoadDictionary_NoUsableWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	_, err := LoadDictionary(path)
	assert.Error(t, err)
}
