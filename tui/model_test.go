package tui

import (
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/pb33f/harscope/hargen"
	"github.com/pb33f/harscope/motor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// messageSink collects what the scheduler sends to the program.
type messageSink struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *messageSink) send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *messageSink) received() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tea.Msg(nil), s.msgs...)
}

func loadedModel(t *testing.T, runs int, opts ViewerOptions) *CaptureViewModel {
	t.Helper()

	captures, err := hargen.GenerateInMemory(hargen.GenerateOptions{EntryCount: 12, Runs: runs, Seed: 7})
	require.NoError(t, err)

	m, err := NewCaptureViewModel("capture.har", opts)
	require.NoError(t, err)

	m.Update(loadCompleteMsg{set: &motor.CaptureSet{FilePath: "capture.har", Captures: captures}, duration: time.Millisecond})
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	require.True(t, m.ready)
	return m
}

func TestNewCaptureViewModel_RequiresFile(t *testing.T) {
	_, err := NewCaptureViewModel("", ViewerOptions{})
	assert.Error(t, err)
}

func TestCaptureViewModel_WaitsForSize(t *testing.T) {
	m, err := NewCaptureViewModel("capture.har", ViewerOptions{})
	require.NoError(t, err)

	captures, err := hargen.GenerateInMemory(hargen.GenerateOptions{EntryCount: 5, Seed: 3})
	require.NoError(t, err)

	m.Update(loadCompleteMsg{set: &motor.CaptureSet{Captures: captures}})
	assert.Equal(t, LoadStateLoaded, m.loadState)
	assert.False(t, m.ready)
	assert.Equal(t, "Initializing...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.True(t, m.ready)
	assert.Len(t, m.rows, 5)
}

func TestCaptureViewModel_LoadError(t *testing.T) {
	m, err := NewCaptureViewModel("missing.har", ViewerOptions{})
	require.NoError(t, err)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(loadErrorMsg{err: errors.New("boom")})

	assert.Equal(t, LoadStateError, m.loadState)
	assert.Contains(t, m.View(), "boom")
}

func TestCaptureViewModel_ShowsDetailsImmediatelyWithoutSender(t *testing.T) {
	m := loadedModel(t, 1, ViewerOptions{})

	assert.Equal(t, 0, m.detailIndex)
	view := m.View()
	assert.Contains(t, view, "harscope: capture.har")
	assert.Contains(t, view, motor.LabelResourceSize)
	assert.Contains(t, view, "dns")
}

func TestCaptureViewModel_DebouncesDetails(t *testing.T) {
	sink := &messageSink{}
	m := loadedModel(t, 1, ViewerOptions{Delay: 20 * time.Millisecond})
	m.SetSender(sink.send)

	m.selectEntry(1)
	m.selectEntry(2)
	m.selectEntry(3)
	assert.Equal(t, -1, m.detailIndex)

	require.Eventually(t, func() bool { return len(sink.received()) > 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	msgs := sink.received()
	require.Len(t, msgs, 1, "superseded selections must not fire")

	msg, ok := msgs[0].(detailMsg)
	require.True(t, ok)
	assert.Equal(t, 3, msg.index)

	m.Update(msg)
	assert.Equal(t, 3, m.detailIndex)
	assert.Contains(t, m.View(), motor.LabelHTTPResponse)
}

func TestCaptureViewModel_IgnoresStaleDetail(t *testing.T) {
	m := loadedModel(t, 1, ViewerOptions{Delay: time.Hour})
	m.SetSender(func(tea.Msg) {})

	m.selectEntry(1)
	stale := detailMsg{seq: m.detailSeq, index: 1}
	m.selectEntry(2)

	m.Update(stale)
	assert.Equal(t, -1, m.detailIndex)

	m.Update(detailMsg{seq: m.detailSeq, index: 2})
	assert.Equal(t, 2, m.detailIndex)
	require.NoError(t, m.Cleanup())
}

func TestCaptureViewModel_EscHidesDetails(t *testing.T) {
	m := loadedModel(t, 1, ViewerOptions{})
	require.Equal(t, 0, m.detailIndex)

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, -1, m.detailIndex)
	assert.Nil(t, m.scheduler.Pending())
}

func TestCaptureViewModel_ToggleWaterfall(t *testing.T) {
	m := loadedModel(t, 1, ViewerOptions{})
	require.NotNil(t, m.waterfall)
	require.NoError(t, m.layoutErr)
	assert.Len(t, m.waterfall.Entries, 12)

	m.Update(tea.KeyPressMsg{Code: 'w', Text: "w"})
	assert.Equal(t, ViewModeWaterfall, m.viewMode)
	view := m.View()
	assert.Contains(t, view, "wait")
	assert.Contains(t, view, "receive")

	m.Update(tea.KeyPressMsg{Code: 'w', Text: "w"})
	assert.Equal(t, ViewModeTable, m.viewMode)
}

func TestCaptureViewModel_NarrowTerminalReportsLayoutError(t *testing.T) {
	m := loadedModel(t, 1, ViewerOptions{})

	m.Update(tea.WindowSizeMsg{Width: 12, Height: 20})

	var widthErr *motor.InsufficientWidthError
	assert.ErrorAs(t, m.layoutErr, &widthErr)
}

func TestCaptureViewModel_SwitchCapture(t *testing.T) {
	m := loadedModel(t, 3, ViewerOptions{})
	first := m.waterfall

	m.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	assert.Equal(t, 1, m.captureIndex)
	assert.Equal(t, 0, m.selectedIndex)
	assert.NotSame(t, first, m.waterfall)

	m.Update(tea.KeyPressMsg{Code: 'p', Text: "p"})
	m.Update(tea.KeyPressMsg{Code: 'p', Text: "p"})
	assert.Equal(t, 2, m.captureIndex)
	assert.Contains(t, m.View(), "capture 3/3")
}

func TestCaptureViewModel_Quit(t *testing.T) {
	m := loadedModel(t, 1, ViewerOptions{})

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestFilterCaptureSet(t *testing.T) {
	captures, err := hargen.GenerateInMemory(hargen.GenerateOptions{EntryCount: 8, Runs: 2, Seed: 11})
	require.NoError(t, err)
	set := &motor.CaptureSet{Captures: captures}
	document := captures[0].Log.Entries[0].Request.URL

	require.NoError(t, filterCaptureSet(set, document, motor.PlainText))
	for _, c := range set.Captures {
		for _, e := range c.Log.Entries {
			assert.Contains(t, e.Request.URL, document)
		}
	}

	assert.Error(t, filterCaptureSet(set, "([", motor.Regex))
}
