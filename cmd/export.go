package cmd

import (
	"fmt"
	"os"

	"github.com/pb33f/harscope/render"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <har-file>",
	Short: "Export the summary tables of a capture file as CSV",
	Long: `Write every summary table, plus a waterfall summary and detail table per
capture, to a single CSV file. Each table is framed by ##BEGINTABLE and
##ENDTABLE records so reports from different runs can be diffed.`,
	Args: cobra.ExactArgs(1),
	Example: `  harscope export capture.har -o report.csv
  harscope export runs.json`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output CSV path (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	set, err := LoadCaptureSet(cmd.Context(), args[0], logger)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		if err := render.WriteCSV(os.Stdout, set.FilePath, set.Captures); err != nil {
			return fmt.Errorf("failed to export csv: %w", err)
		}
		return nil
	}

	if err := writeFile(exportOutput, func(f *os.File) error {
		return render.WriteCSV(f, set.FilePath, set.Captures)
	}); err != nil {
		return err
	}

	logger.Info("csv written", "output", exportOutput, "captures", len(set.Captures))
	return nil
}
