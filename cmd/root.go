package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pb33f/harscope/config"
	"github.com/pb33f/harscope/motor"
	"github.com/spf13/cobra"
)

var (
	verbose       bool
	configPath    string
	filterPattern string
	filterRegex   bool
	Logger        *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "harscope <har-file>",
		Short: "Waterfall timelines and page metrics for browser performance captures",
		Long: `harscope reads browser performance captures (HAR files, or a JSON array of
them) and lays every request out on a shared timeline. Browse the waterfall
in the terminal, print the summary tables, export them as CSV, render PNG
waterfalls, or serve layouts to another renderer over HTTP.`,
		Args: cobra.ExactArgs(1),
		Example: `  harscope capture.har
  harscope capture.har --filter /static/
  harscope capture.har --filter '\.js$' --regex -v`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger()
		},
		RunE: runHarscope,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a harscope.yaml configuration file")
	rootCmd.PersistentFlags().StringVarP(&filterPattern, "filter", "f", "", "Only keep entries whose URL matches this pattern")
	rootCmd.PersistentFlags().BoolVar(&filterRegex, "regex", false, "Treat --filter as a regular expression")

	// will be reconfigured in PersistentPreRun based on flags
	setupLogger()
}

func runHarscope(cmd *cobra.Command, args []string) error {
	harFile := args[0]

	if err := ValidateHARFile(harFile); err != nil {
		return fmt.Errorf("invalid HAR file: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := LaunchTUI(harFile, cfg); err != nil {
		return fmt.Errorf("failed to launch TUI: %w", err)
	}
	return nil
}

// setupLogger configures the global slog logger based on the verbose flag
func setupLogger() {
	var opts *slog.HandlerOptions

	if verbose {
		opts = &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}
	} else {
		opts = &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	if verbose {
		Logger.Debug("verbose logging enabled",
			"level", slog.LevelDebug.String(),
			"pid", os.Getpid())
	}
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	if Logger == nil {
		setupLogger()
	}
	return Logger
}

// ValidateHARFile checks that the capture file exists and is not a directory.
func ValidateHARFile(harFile string) error {
	if harFile == "" {
		return fmt.Errorf("HAR file path is required")
	}

	info, err := os.Stat(harFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("HAR file does not exist: %s", harFile)
		}
		return fmt.Errorf("error accessing HAR file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("provided path is a directory, not a file: %s", harFile)
	}

	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if configPath != "" {
		GetLogger().Debug("config loaded", "path", configPath)
	}
	return cfg, nil
}

func searchMode() motor.SearchMode {
	if filterRegex {
		return motor.Regex
	}
	return motor.PlainText
}

// LoadCaptureSet reads a capture file and applies the --filter flag to every capture.
func LoadCaptureSet(ctx context.Context, harFile string, logger *slog.Logger) (*motor.CaptureSet, error) {
	if err := ValidateHARFile(harFile); err != nil {
		return nil, err
	}

	logger.Debug("reading captures...", "har_file", harFile)
	set, err := motor.LoadCaptures(ctx, harFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load captures: %w", err)
	}

	if filterPattern != "" {
		for i, capture := range set.Captures {
			filtered, err := motor.FilterEntries(capture, filterPattern, searchMode())
			if err != nil {
				return nil, fmt.Errorf("failed to filter capture %d: %w", i, err)
			}
			set.Captures[i] = filtered
		}
		logger.Debug("filter applied", "pattern", filterPattern, "regex", filterRegex)
	}

	logger.Info("captures loaded",
		"har_file", harFile,
		"captures", len(set.Captures),
		"entries", set.TotalEntries(),
		"file_size_kb", set.FileSize/1024,
		"file_hash", set.FileHash,
		"load_time", set.LoadTime)

	for i, capture := range set.Captures {
		device := motor.DescribeDevice(capture)
		logger.Debug("capture",
			"index", i,
			"page", motor.PageKey(capture.FirstPage()),
			"entries", len(capture.Log.Entries),
			"browser", device.BrowserName+" "+device.BrowserVersion)
	}

	return set, nil
}
