package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	fvwm "github.com/elsanchez/mcp-server-fvwm3"
	"github.com/elsanchez/mcp-server-fvwm3/internal/config"
	"github.com/elsanchez/mcp-server-fvwm3/mcp"
	"github.com/elsanchez/mcp-server-fvwm3/observer"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP protocol on stdio",
	Long: `Serve reads JSON-RPC messages from stdin and writes responses to
stdout, one message per line. Point an MCP client's server command at
this binary.`,
	Example: `  # Serve with defaults (FvwmCommand on PATH, ~/.fvwm)
  mcp-server-fvwm3 serve

  # Serve with an explicit config file
  mcp-server-fvwm3 serve --config /etc/fvwm-mcp.toml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	logger := stderrLogger()
	router, err := buildRouter(cfg, logger)
	if err != nil {
		return err
	}

	var dispatcher fvwm.Dispatcher = router
	if cfg.Observer.Enabled {
		inst, shutdown, err := observer.Init(ctx)
		if err != nil {
			return fmt.Errorf("init observer: %w", err)
		}
		defer func() {
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shCtx); err != nil {
				log.Printf("observer shutdown: %v", err)
			}
		}()
		dispatcher = observer.WrapDispatcher(router, inst)
	}

	srv := mcp.New(cfg.Server.Name, version, dispatcher)
	log.Printf("serving MCP for %s on stdio (base dir %s)", cfg.Server.Name, cfg.Fvwm.BaseDir)
	return srv.Serve(ctx)
}

func buildRouter(cfg config.Config, logger *slog.Logger) (*fvwm.Router, error) {
	files := fvwm.NewFiles(cfg.Fvwm.BaseDir, 0)
	runner := fvwm.NewRunner(fvwm.RunnerConfig{
		Bin:       cfg.Fvwm.CommandBin,
		InfoFlag:  cfg.Fvwm.InfoFlag,
		XpropBin:  cfg.Fvwm.XpropBin,
		XrandrBin: cfg.Fvwm.XrandrBin,
		Timeout:   time.Duration(cfg.Exec.TimeoutSeconds) * time.Second,
		MaxOutput: cfg.Exec.MaxOutputKB << 10,
	})
	guard := fvwm.NewGuard(fvwm.GuardPhrases(cfg.Exec.Blocked...), fvwm.GuardLogger(logger))

	catalog, err := fvwm.BuildCatalog(fvwm.Environment{
		ConfigFile: cfg.Fvwm.ConfigFile,
		LogFile:    cfg.Fvwm.LogFile,
		Monitors:   cfg.Fvwm.Monitors,
		Desktops:   cfg.Fvwm.Desktops,
		LogTail:    cfg.Fvwm.LogTailKB << 10,
	}, fvwm.Deps{Files: files, Runner: runner, Guard: guard})
	if err != nil {
		return nil, err
	}
	return fvwm.NewRouter(catalog, fvwm.WithLogger(logger)), nil
}
