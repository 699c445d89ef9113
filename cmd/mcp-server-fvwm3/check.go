package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/elsanchez/mcp-server-fvwm3/internal/config"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configuration and host environment",
	Long: `Check loads the configuration, then verifies that the base directory
and main config file exist and that the helper binaries are on PATH.
Exits non-zero when anything is missing.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	var problems []string

	if _, err := os.Stat(cfg.Fvwm.BaseDir); err != nil {
		problems = append(problems, fmt.Sprintf("base dir: %v", err))
	}
	if _, err := os.Stat(filepath.Join(cfg.Fvwm.BaseDir, cfg.Fvwm.ConfigFile)); err != nil {
		problems = append(problems, fmt.Sprintf("config file: %v", err))
	}
	for _, bin := range []string{cfg.Fvwm.CommandBin, cfg.Fvwm.XpropBin, cfg.Fvwm.XrandrBin} {
		if _, err := exec.LookPath(bin); err != nil {
			problems = append(problems, fmt.Sprintf("binary %s not on PATH", bin))
		}
	}

	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(os.Stderr, "problem:", p)
		}
		return fmt.Errorf("%d problem(s) found", len(problems))
	}

	fmt.Println("configuration ok")
	fmt.Printf("  base dir: %s\n", cfg.Fvwm.BaseDir)
	fmt.Printf("  command:  %s\n", cfg.Fvwm.CommandBin)
	fmt.Printf("  desktops: %d\n", cfg.Fvwm.Desktops)
	if len(cfg.Fvwm.Monitors) > 0 {
		fmt.Printf("  monitors: %v\n", cfg.Fvwm.Monitors)
	}
	return nil
}
