package cmd

import (
	"fmt"

	"github.com/pb33f/harscope/hargen"
	"github.com/spf13/cobra"
)

var (
	genEntryCount int
	genRuns       int
	genOutputFile string
	genHost       string
	genPageName   string
	genSeed       int64
	genDictPath   string
	genNoStats    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic page load captures",
	Long: `Generate HAR captures of a synthetic page load for testing and demos: a root
document followed by stylesheets, scripts, images and API calls with
realistic phase timings, page milestones and profiler statistics. Several
runs of the same page are written as a JSON array.

Examples:
  harscope generate -n 40 -o page.har
  harscope generate -n 25 --runs 5 -o runs.json --seed 42
  harscope generate --host shop.example.com --no-stats`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

// addGenerateFlags registers the generator flags, shared with the standalone hargen binary.
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&genEntryCount, "entries", "n", 10, "Number of entries per capture, including the root document")
	cmd.Flags().IntVarP(&genRuns, "runs", "r", 1, "Number of captures of the same page")
	cmd.Flags().StringVarP(&genOutputFile, "output", "o", "", "Output file path (default: hargen-{timestamp}.har)")
	cmd.Flags().StringVar(&genHost, "host", hargen.DefaultGenerateOptions.Host, "Host every request points at")
	cmd.Flags().StringVar(&genPageName, "page", "", "Page name (default: the host)")
	cmd.Flags().Int64VarP(&genSeed, "seed", "s", 0, "Random seed for reproducibility (0 = use current time)")
	cmd.Flags().StringVarP(&genDictPath, "dict", "d", hargen.DefaultGenerateOptions.DictionaryPath, "Dictionary file path")
	cmd.Flags().BoolVar(&genNoStats, "no-stats", false, "Leave out CSS, memory, event and DOM statistics")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := hargen.GenerateOptions{
		EntryCount:     genEntryCount,
		Runs:           genRuns,
		Host:           genHost,
		PageName:       genPageName,
		DictionaryPath: genDictPath,
		Seed:           genSeed,
		NoStats:        genNoStats,
	}

	fmt.Printf("Generating %d capture(s) with %d entries each...\n", genRuns, genEntryCount)

	var result *hargen.GenerateResult
	var err error
	if genOutputFile != "" {
		result, err = hargen.GenerateToFile(genOutputFile, opts)
	} else {
		result, err = hargen.Generate(opts)
	}
	if err != nil {
		return fmt.Errorf("failed to generate HAR: %w", err)
	}

	fmt.Printf("\n✓ Generated HAR file: %s\n", result.HARFilePath)
	fmt.Printf("  Captures:      %d\n", result.Runs)
	fmt.Printf("  Total entries: %d\n", result.TotalEntries)
	return nil
}

// NewGenerateCommand builds a root command that only generates captures.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hargen",
		Short: generateCmd.Short,
		Long:  generateCmd.Long,
		RunE:  runGenerate,
	}
	addGenerateFlags(cmd)
	return cmd
}
