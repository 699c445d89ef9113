package main

import (
	"encoding/json"
	"os"

	"github.com/elsanchez/mcp-server-fvwm3/internal/config"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the capability catalog as JSON",
	Long: `Catalog builds the resource, tool and prompt catalog from the current
configuration and prints the descriptors as JSON. Useful for inspecting
what a connected client will see without speaking the protocol.`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}
	router, err := buildRouter(cfg, stderrLogger())
	if err != nil {
		return err
	}

	out := map[string]any{
		"resources": router.ListResources(),
		"tools":     router.ListTools(),
		"prompts":   router.ListPrompts(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
