package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/pb33f/harscope/config"
	"github.com/pb33f/harscope/render"
	"github.com/pb33f/harscope/tui"
)

// LaunchTUI opens the interactive viewer on a capture file.
func LaunchTUI(harFile string, cfg *config.Config) error {
	palette, err := render.NewPalette(cfg.Palette)
	if err != nil {
		return fmt.Errorf("invalid palette: %w", err)
	}

	model, err := tui.NewCaptureViewModel(harFile, tui.ViewerOptions{
		Filter:  filterPattern,
		Mode:    searchMode(),
		Delay:   cfg.Tooltip.Delay,
		Palette: palette,
		Logger:  GetLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI model: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetSender(p.Send)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	// cleanup resources
	if m, ok := finalModel.(*tui.CaptureViewModel); ok {
		if err := m.Cleanup(); err != nil {
			return fmt.Errorf("cleanup error: %w", err)
		}
	}

	return nil
}
