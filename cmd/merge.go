package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pb33f/harscope/motor"
	"github.com/pb33f/harscope/motor/model"
	"github.com/spf13/cobra"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge <har-file>...",
	Short: "Merge repeated captures of the same page into one averaged capture",
	Long: `Merge several captures of the same page, recorded on the same device, into
a single capture. Entries, page timings and DOM statistics come from the run
with the median OnLoad time; CSS time, heap sizes and event counts are
averaged across runs, and peak heap sizes keep their maximum.`,
	Args: cobra.MinimumNArgs(1),
	Example: `  harscope merge run1.har run2.har run3.har -o merged.har
  harscope merge runs.json`,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output HAR path (default: stdout)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	var captures []*model.Capture
	for _, harFile := range args {
		set, err := LoadCaptureSet(cmd.Context(), harFile, logger)
		if err != nil {
			return err
		}
		captures = append(captures, set.Captures...)
	}

	merged, err := motor.MergeByAverage(captures)
	if err != nil {
		return fmt.Errorf("failed to merge captures: %w", err)
	}

	encode := func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(merged)
	}

	if mergeOutput == "" {
		return encode(os.Stdout)
	}
	if err := writeFile(mergeOutput, func(f *os.File) error { return encode(f) }); err != nil {
		return err
	}

	logger.Info("merged capture written",
		"output", mergeOutput,
		"runs", len(captures),
		"page", motor.PageKey(merged.FirstPage()),
		"entries", len(merged.Log.Entries))
	return nil
}
