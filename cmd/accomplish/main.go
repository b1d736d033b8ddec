// Command accomplish serves the project and activity reporting API.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ganot/accomplish/internal/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "accomplish",
	Short:         "Track projects and their reported activities",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, mcpCmd, importCmd, exportCmd, apikeyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger. Logs go to stderr
// unless a log file is configured, keeping stdout free for stdio MCP and
// exports.
func setup() (config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("config error: %w", err)
	}

	cleanup := func() {}
	logWriter := io.Writer(os.Stderr)
	if cfg.Log.File != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			cleanup = func() { file.Close() }
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return cfg, logger, cleanup, nil
}
