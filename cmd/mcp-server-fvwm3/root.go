package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var (
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "mcp-server-fvwm3",
		Short: "MCP server exposing the FVWM3 window manager to LLM clients",
		Long: `mcp-server-fvwm3 speaks the Model Context Protocol over stdio and gives
a connected language model structured access to a running FVWM3 session:
configuration files and reference docs as resources, window manager
control as tools, and configuration-writing prompts.

Running with no subcommand is equivalent to "serve".`,
		Version: version,
		RunE:    runServe,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./fvwm-mcp.toml, or $FVWM_MCP_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return os.Getenv("FVWM_MCP_CONFIG")
}

// stderrLogger builds the process logger. Stdout carries the protocol
// stream, so diagnostics must stay on stderr.
func stderrLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(logLevel)}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
