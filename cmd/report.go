package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
	"github.com/pb33f/harscope/render"
	"github.com/pb33f/harscope/tui"
	"github.com/spf13/cobra"
)

var (
	reportWidth     int
	reportWaterfall bool
)

var reportCmd = &cobra.Command{
	Use:   "report <har-file>",
	Short: "Print the summary tables and text waterfalls of a capture file",
	Long: `Print the device, page timing, page metric and memory tables of every
capture in the file, followed by a text waterfall of each capture.`,
	Args: cobra.ExactArgs(1),
	Example: `  harscope report capture.har
  harscope report runs.json --width 160
  harscope report capture.har --waterfall=false`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVarP(&reportWidth, "width", "w", 120, "Width of the text waterfall in terminal cells")
	reportCmd.Flags().BoolVar(&reportWaterfall, "waterfall", true, "Print a text waterfall for each capture")
}

func runReport(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	palette, err := render.NewPalette(cfg.Palette)
	if err != nil {
		return fmt.Errorf("invalid palette: %w", err)
	}

	set, err := LoadCaptureSet(cmd.Context(), args[0], logger)
	if err != nil {
		return err
	}

	var out strings.Builder
	out.WriteString(render.TextReport(set.Captures))

	if reportWaterfall {
		opts := motor.DefaultBatchOptions()
		opts.Layout = render.TextLayoutOptions()
		opts.Logger = logger
		if cfg.Workers > 0 {
			opts.WorkerCount = cfg.Workers
		}

		budget := func(c *model.Capture) motor.Budget {
			return render.TextBudget(reportWidth, len(c.Log.Entries))
		}
		waterfalls, errs := motor.CollectLayouts(motor.LayoutAll(cmd.Context(), set.Captures, budget, opts), len(set.Captures))
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		heading := lipgloss.NewStyle().Bold(true).Foreground(tui.RGBPink)
		for i, wf := range waterfalls {
			out.WriteString("\n")
			out.WriteString(heading.Render(fmt.Sprintf("Waterfall %d: %s", i, motor.PageKey(set.Captures[i].FirstPage()))))
			out.WriteString("\n")
			if errs[i] != nil {
				out.WriteString(tui.ErrorStyle.Render(errs[i].Error()))
				out.WriteString("\n")
				logger.Warn("capture could not be laid out", "capture", i, "error", errs[i])
				continue
			}
			out.WriteString(render.TextWaterfall(wf, palette))
			out.WriteString("\n")
		}
	}

	fmt.Print(out.String())
	return nil
}
