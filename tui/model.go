package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
	"github.com/pb33f/harscope/render"
)

// ViewMode represents the different view states
type ViewMode int

const (
	ViewModeTable ViewMode = iota
	ViewModeWaterfall
)

// ViewerOptions configures the capture viewer.
type ViewerOptions struct {
	Filter  string
	Mode    motor.SearchMode
	Delay   time.Duration
	Palette render.Palette
	Logger  *slog.Logger
}

// detailMsg asks for the detail panel of one entry once the cursor has settled.
type detailMsg struct {
	seq   int
	index int
}

type CaptureViewModel struct {
	table   table.Model
	columns []table.Column
	rows    []table.Row

	set          *motor.CaptureSet
	captureIndex int
	waterfall    *motor.Waterfall
	layoutErr    error

	opts      ViewerOptions
	scheduler *motor.Scheduler
	send      func(tea.Msg)
	detailSeq int

	// detailIndex is the entry shown in the detail panel, -1 when hidden
	detailIndex   int
	selectedIndex int

	viewMode ViewMode
	width    int
	height   int
	ready    bool
	quitting bool

	waterfallViewport viewport.Model
	entryViewport     viewport.Model
	phaseViewport     viewport.Model

	fileName string

	loadState      LoadState
	loadingSpinner spinner.Model
	loadingMessage string
	loadTime       time.Duration

	err error
}

func NewCaptureViewModel(fileName string, opts ViewerOptions) (*CaptureViewModel, error) {
	if fileName == "" {
		return nil, fmt.Errorf("capture file path is required")
	}
	if opts.Delay <= 0 {
		opts.Delay = defaultDetailDelay
	}
	if opts.Palette == nil {
		opts.Palette = render.DefaultPalette()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return &CaptureViewModel{
		fileName:       fileName,
		opts:           opts,
		columns:        entryColumns(),
		scheduler:      motor.NewScheduler(),
		detailIndex:    -1,
		viewMode:       ViewModeTable,
		loadState:      LoadStateLoading,
		loadingSpinner: createLoadingSpinner(),
		loadingMessage: "Reading captures...",
	}, nil
}

// SetSender wires the program's Send, which delivers debounced detail
// requests from the scheduler's timer goroutine.
func (m *CaptureViewModel) SetSender(send func(tea.Msg)) {
	m.send = send
}

// Cleanup cancels any pending detail display.
func (m *CaptureViewModel) Cleanup() error {
	m.scheduler.Cancel()
	return nil
}

func (m *CaptureViewModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadingSpinner.Tick,
		m.startLoading(),
	)
}

func (m *CaptureViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if m.loadState == LoadStateLoading {
		m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case loadCompleteMsg:
		m.loadState = LoadStateLoaded
		m.set = msg.set
		m.loadTime = msg.duration
		m.opts.Logger.Debug("captures loaded",
			"captures", len(msg.set.Captures),
			"entries", msg.set.TotalEntries(),
			"file_hash", msg.set.FileHash)

		if m.width > 0 && m.height > 0 {
			m.initialize()
		}
		return m, nil

	case loadErrorMsg:
		m.loadState = LoadStateError
		m.err = msg.err
		return m, nil

	case detailMsg:
		// a newer selection superseded this one
		if msg.seq != m.detailSeq || msg.index != m.selectedIndex {
			return m, nil
		}
		m.showDetail(msg.index)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if m.loadState == LoadStateLoaded {
			if !m.ready {
				m.initialize()
			} else {
				m.resize()
			}
		}

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.scheduler.Cancel()
			return m, tea.Quit

		case "w":
			if m.ready {
				m.toggleWaterfall()
			}
			return m, nil

		case "n", "tab":
			if m.ready {
				m.switchCapture(1)
			}
			return m, nil

		case "p", "shift+tab":
			if m.ready {
				m.switchCapture(-1)
			}
			return m, nil

		case "esc":
			if m.viewMode == ViewModeWaterfall {
				m.toggleWaterfall()
			} else {
				m.hideDetail()
			}
			return m, nil
		}
	}

	if m.ready {
		if m.viewMode == ViewModeWaterfall {
			m.waterfallViewport, cmd = m.waterfallViewport.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)

			if m.table.Cursor() != m.selectedIndex {
				m.selectEntry(m.table.Cursor())
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *CaptureViewModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.loadState {
	case LoadStateLoading:
		return m.renderLoadingView()
	case LoadStateError:
		return m.renderErrorView()
	case LoadStateLoaded:
		if !m.ready {
			return "Initializing..."
		}
		return m.render()
	default:
		return "Unknown state"
	}
}

// Capture returns the capture on screen.
func (m *CaptureViewModel) Capture() *model.Capture {
	if m.set == nil || m.captureIndex >= len(m.set.Captures) {
		return nil
	}
	return m.set.Captures[m.captureIndex]
}

func (m *CaptureViewModel) initialize() {
	tableHeight, panelWidth, panelHeight := m.dimensions()

	m.rows = buildEntryRows(m.Capture(), m.width)
	m.table = table.New(
		table.WithColumns(m.columns),
		table.WithRows(m.rows),
		table.WithFocused(true),
		table.WithHeight(tableHeight),
		table.WithWidth(m.width),
	)
	m.table = ApplyTableStyles(m.table)
	m.adjustColumnWidths()

	m.entryViewport = viewport.New(viewport.WithWidth(panelWidth), viewport.WithHeight(panelHeight))
	m.phaseViewport = viewport.New(viewport.WithWidth(panelWidth), viewport.WithHeight(panelHeight))
	m.waterfallViewport = viewport.New(viewport.WithWidth(m.width), viewport.WithHeight(m.height-tableVerticalPadding))

	m.layoutWaterfall()
	m.ready = true
	m.selectEntry(0)
}

func (m *CaptureViewModel) resize() {
	tableHeight, panelWidth, panelHeight := m.dimensions()

	m.table.SetHeight(tableHeight)
	m.table.SetWidth(m.width)
	m.rows = buildEntryRows(m.Capture(), m.width)
	m.table.SetRows(m.rows)
	m.adjustColumnWidths()

	m.entryViewport.SetWidth(panelWidth)
	m.entryViewport.SetHeight(panelHeight)
	m.phaseViewport.SetWidth(panelWidth)
	m.phaseViewport.SetHeight(panelHeight)
	m.waterfallViewport.SetWidth(m.width)
	m.waterfallViewport.SetHeight(m.height - tableVerticalPadding)

	m.layoutWaterfall()
	if m.detailIndex >= 0 {
		m.showDetail(m.detailIndex)
	}
}

// dimensions splits the screen between the entry table and the detail panels.
func (m *CaptureViewModel) dimensions() (tableHeight, panelWidth, panelHeight int) {
	usable := max(m.height-tableVerticalPadding, 2)
	tableHeight = usable / 2
	panelHeight = max(usable-tableHeight-detailPanelPadding, 1)
	panelWidth = max(m.width/2-detailPanelPadding, 1)
	return tableHeight, panelWidth, panelHeight
}

func (m *CaptureViewModel) adjustColumnWidths() {
	m.columns[1].Width = urlColumnWidth(m.width)
	m.table.SetColumns(m.columns)
}

// layoutWaterfall lays the capture out for the current terminal width.
func (m *CaptureViewModel) layoutWaterfall() {
	capture := m.Capture()
	entries := 0
	if capture != nil {
		entries = len(capture.Log.Entries)
	}

	m.waterfall, m.layoutErr = motor.LayoutEntries(capture, render.TextBudget(m.width, entries), render.TextLayoutOptions()...)
	if m.layoutErr != nil {
		m.opts.Logger.Debug("waterfall layout failed", "capture", m.captureIndex, "error", m.layoutErr)
		m.waterfallViewport.SetContent(ErrorStyle.Render(fmt.Sprintf("Cannot draw waterfall: %v", m.layoutErr)))
		return
	}
	m.waterfallViewport.SetContent(render.TextWaterfall(m.waterfall, m.opts.Palette))
}

func (m *CaptureViewModel) toggleWaterfall() {
	if m.viewMode == ViewModeTable {
		m.viewMode = ViewModeWaterfall
		m.hideDetail()
	} else {
		m.viewMode = ViewModeTable
	}
}

func (m *CaptureViewModel) switchCapture(step int) {
	if m.set == nil || len(m.set.Captures) < 2 {
		return
	}
	count := len(m.set.Captures)
	m.captureIndex = (m.captureIndex + step + count) % count

	m.rows = buildEntryRows(m.Capture(), m.width)
	m.table.SetRows(m.rows)
	m.table.SetCursor(0)
	m.layoutWaterfall()
	m.selectedIndex = -1
	m.selectEntry(0)
}

// selectEntry hides the detail panel and schedules it for the new entry, so
// scrolling through the table does not render every row it passes.
func (m *CaptureViewModel) selectEntry(index int) {
	m.selectedIndex = index
	m.hideDetail()

	capture := m.Capture()
	if capture == nil || index < 0 || index >= len(capture.Log.Entries) {
		return
	}

	m.detailSeq++
	if m.send == nil {
		m.showDetail(index)
		return
	}

	msg := detailMsg{seq: m.detailSeq, index: index}
	send := m.send
	token := m.scheduler.Schedule(m.opts.Delay, func() { send(msg) })
	m.opts.Logger.Debug("detail scheduled", "token", token.ID(), "entry", index)
}

func (m *CaptureViewModel) hideDetail() {
	m.scheduler.Cancel()
	m.detailIndex = -1
}

func (m *CaptureViewModel) showDetail(index int) {
	capture := m.Capture()
	if capture == nil || index < 0 || index >= len(capture.Log.Entries) {
		return
	}
	entry := &capture.Log.Entries[index]

	m.detailIndex = index
	m.entryViewport.SetContent(renderSections([]Section{buildResourceSection(entry)}, RenderOptions{
		Width:    m.entryViewport.Width(),
		Truncate: true,
	}))
	m.phaseViewport.SetContent(renderSections([]Section{buildPhaseSection(entry, m.opts.Palette)}, RenderOptions{
		Width: m.phaseViewport.Width(),
	}))
}
