package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pb33f/harscope/server"
	"github.com/spf13/cobra"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve <har-file>",
	Short: "Serve waterfall layouts and page metrics over HTTP",
	Long: `Start an HTTP server that exposes the captures of a file as JSON: waterfall
layouts for any width, page metrics, summary tables and entry tooltips, plus
PNG renderings of each waterfall. Every response carries the file's
fingerprint as its ETag.`,
	Args: cobra.ExactArgs(1),
	Example: `  harscope serve capture.har
  harscope serve capture.har --port 9090
  harscope serve runs.json -p 3000 -v`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default: server.port from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	set, err := LoadCaptureSet(ctx, args[0], logger)
	if err != nil {
		return err
	}

	srv, err := server.New(set, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server starting", "address", fmt.Sprintf("http://localhost:%d", cfg.Server.Port))

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
