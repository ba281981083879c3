package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/harscope/motor"
)

type LoadState int

const (
	LoadStateLoading LoadState = iota
	LoadStateLoaded
	LoadStateError
)

type loadCompleteMsg struct {
	set      *motor.CaptureSet
	duration time.Duration
}

type loadErrorMsg struct {
	err error
}

func (m *CaptureViewModel) startLoading() tea.Cmd {
	fileName := m.fileName
	pattern, mode := m.opts.Filter, m.opts.Mode

	return func() tea.Msg {
		start := time.Now()

		set, err := motor.LoadCaptures(context.Background(), fileName)
		if err != nil {
			return loadErrorMsg{err: err}
		}

		if err := filterCaptureSet(set, pattern, mode); err != nil {
			return loadErrorMsg{err: err}
		}

		return loadCompleteMsg{
			set:      set,
			duration: time.Since(start),
		}
	}
}

// filterCaptureSet narrows every capture of the set to the entries matching pattern.
func filterCaptureSet(set *motor.CaptureSet, pattern string, mode motor.SearchMode) error {
	if pattern == "" {
		return nil
	}
	for i, capture := range set.Captures {
		filtered, err := motor.FilterEntries(capture, pattern, mode)
		if err != nil {
			return fmt.Errorf("failed to filter capture %d: %w", i, err)
		}
		set.Captures[i] = filtered
	}
	return nil
}

func (m *CaptureViewModel) renderLoadingView() string {
	spinnerStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	fileInfoStyle := lipgloss.NewStyle().
		Foreground(RGBGrey)

	title := TitleStyle.Render("Loading captures")
	fileInfo := fileInfoStyle.Render(fmt.Sprintf("\n%s", m.fileName))

	spinnerText := fmt.Sprintf("%s %s%s", m.loadingSpinner.View(), title, fileInfo)

	if m.loadingMessage != "" {
		messageStyle := lipgloss.NewStyle().
			Foreground(RGBBlue).
			MarginTop(2)
		spinnerText += "\n\n" + messageStyle.Render(m.loadingMessage)
	}

	return spinnerStyle.Render(spinnerText)
}

func (m *CaptureViewModel) renderErrorView() string {
	errorStyle := ErrorStyle.
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center)

	return errorStyle.Render(fmt.Sprintf("Error loading captures\n\n%v\n\nPress 'q' to quit", m.err))
}

func createLoadingSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(RGBPink)
	return s
}
