package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/render"
	"github.com/spf13/cobra"
)

var (
	waterfallOutput string
	waterfallWidth  int
	waterfallChart  string
	waterfallAll    bool
	waterfallIndex  int
)

var waterfallCmd = &cobra.Command{
	Use:   "waterfall <har-file>",
	Short: "Render a capture as a PNG waterfall",
	Long: `Lay out a capture on a shared timeline and render it as a PNG image, with
one bar per request, phase segments inside each bar and the page's
OnContentLoad and OnLoad milestones. Optionally render a bar chart of the
total time spent in each phase.`,
	Args: cobra.ExactArgs(1),
	Example: `  harscope waterfall capture.har -o waterfall.png
  harscope waterfall runs.json --all -o run.png
  harscope waterfall capture.har --width 1600 --chart phases.png`,
	RunE: runWaterfall,
}

func init() {
	rootCmd.AddCommand(waterfallCmd)
	waterfallCmd.Flags().StringVarP(&waterfallOutput, "output", "o", "waterfall.png", "Output PNG path")
	waterfallCmd.Flags().IntVarP(&waterfallWidth, "width", "w", 0, "Image width in pixels (default: layout.width from config)")
	waterfallCmd.Flags().StringVar(&waterfallChart, "chart", "", "Also write a phase breakdown chart to this PNG path")
	waterfallCmd.Flags().BoolVar(&waterfallAll, "all", false, "Render every capture, suffixing the output name with its index")
	waterfallCmd.Flags().IntVar(&waterfallIndex, "capture", 0, "Index of the capture to render")
}

func runWaterfall(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if waterfallWidth > 0 {
		cfg.Layout.Width = float64(waterfallWidth)
	}
	palette, err := render.NewPalette(cfg.Palette)
	if err != nil {
		return fmt.Errorf("invalid palette: %w", err)
	}

	set, err := LoadCaptureSet(cmd.Context(), args[0], logger)
	if err != nil {
		return err
	}

	indexes := []int{waterfallIndex}
	if waterfallAll {
		indexes = make([]int, len(set.Captures))
		for i := range indexes {
			indexes[i] = i
		}
	}

	pngOpts := render.DefaultPNGOptions()
	pngOpts.Palette = palette

	for _, idx := range indexes {
		capture, err := set.Capture(idx)
		if err != nil {
			return err
		}

		wf, err := motor.LayoutEntries(capture, cfg.CaptureBudget(capture))
		if err != nil {
			return fmt.Errorf("failed to lay out capture %d: %w", idx, err)
		}

		output := outputName(waterfallOutput, idx, waterfallAll)
		if err := writeFile(output, func(f *os.File) error { return render.WritePNG(f, wf, pngOpts) }); err != nil {
			return err
		}
		logger.Info("waterfall written", "capture", idx, "output", output, "entries", len(wf.Entries), "total_time_ms", wf.Domain.TotalTime)

		if waterfallChart != "" {
			chartOutput := outputName(waterfallChart, idx, waterfallAll)
			err := writeFile(chartOutput, func(f *os.File) error {
				return render.WritePhaseChart(f, capture, palette, int(cfg.Layout.Width), 400)
			})
			if err != nil {
				return err
			}
			logger.Info("phase chart written", "capture", idx, "output", chartOutput)
		}
	}

	return nil
}

// outputName suffixes the file name with the capture index when rendering many.
func outputName(path string, index int, indexed bool) string {
	if !indexed {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), index, ext)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
