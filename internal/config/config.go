package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Fvwm     FvwmConfig     `toml:"fvwm"`
	Exec     ExecConfig     `toml:"exec"`
	Observer ObserverConfig `toml:"observer"`
}

type ServerConfig struct {
	Name string `toml:"name"`
}

type FvwmConfig struct {
	BaseDir    string   `toml:"base_dir"`
	ConfigFile string   `toml:"config_file"`
	LogFile    string   `toml:"log_file"`
	LogTailKB  int      `toml:"log_tail_kb"`
	CommandBin string   `toml:"command_bin"`
	InfoFlag   string   `toml:"info_flag"`
	XpropBin   string   `toml:"xprop_bin"`
	XrandrBin  string   `toml:"xrandr_bin"`
	Monitors   []string `toml:"monitors"`
	Desktops   int      `toml:"desktops"`
}

type ExecConfig struct {
	TimeoutSeconds int      `toml:"timeout_seconds"`
	MaxOutputKB    int      `toml:"max_output_kb"`
	Blocked        []string `toml:"blocked"`
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	home, _ := os.UserHomeDir()
	if home == "" {
		home = "/tmp"
	}
	return Config{
		Server: ServerConfig{Name: "fvwm3"},
		Fvwm: FvwmConfig{
			BaseDir:    filepath.Join(home, ".fvwm"),
			ConfigFile: "config",
			LogFile:    "fvwm3.log",
			LogTailKB:  32,
			CommandBin: "FvwmCommand",
			InfoFlag:   "-i2",
			XpropBin:   "xprop",
			XrandrBin:  "xrandr",
			Desktops:   4,
		},
		Exec: ExecConfig{TimeoutSeconds: 10, MaxOutputKB: 64},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins). A
// missing file at the default path is fine; a path the caller asked for
// must exist, and a file that exists must parse.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = "fvwm-mcp.toml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// Env overrides
	if v := os.Getenv("FVWM_MCP_BASE_DIR"); v != "" {
		cfg.Fvwm.BaseDir = v
	}
	if v := os.Getenv("FVWM_MCP_COMMAND_BIN"); v != "" {
		cfg.Fvwm.CommandBin = v
	}
	if v := os.Getenv("FVWM_MCP_MONITORS"); v != "" {
		cfg.Fvwm.Monitors = splitList(v)
	}
	if v := os.Getenv("FVWM_MCP_DESKTOPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fvwm.Desktops = n
		}
	}
	if os.Getenv("FVWM_MCP_OBSERVER_ENABLED") == "true" || os.Getenv("FVWM_MCP_OBSERVER_ENABLED") == "1" {
		cfg.Observer.Enabled = true
	}

	cfg.Fvwm.BaseDir = expandHome(cfg.Fvwm.BaseDir)

	var monitors []string
	for _, m := range cfg.Fvwm.Monitors {
		if m = strings.TrimSpace(m); m != "" {
			monitors = append(monitors, m)
		}
	}
	cfg.Fvwm.Monitors = monitors

	// Clamps
	if cfg.Fvwm.Desktops < 1 {
		cfg.Fvwm.Desktops = 1
	}
	if cfg.Fvwm.LogTailKB < 1 {
		cfg.Fvwm.LogTailKB = 1
	}
	if cfg.Exec.TimeoutSeconds < 1 {
		cfg.Exec.TimeoutSeconds = 1
	}
	if cfg.Exec.TimeoutSeconds > 120 {
		cfg.Exec.TimeoutSeconds = 120
	}
	if cfg.Exec.MaxOutputKB < 1 {
		cfg.Exec.MaxOutputKB = 1
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
