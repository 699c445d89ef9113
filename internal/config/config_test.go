package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Server.Name != "fvwm3" {
		t.Errorf("expected fvwm3, got %s", cfg.Server.Name)
	}
	if cfg.Fvwm.CommandBin != "FvwmCommand" {
		t.Errorf("expected FvwmCommand, got %s", cfg.Fvwm.CommandBin)
	}
	if cfg.Fvwm.InfoFlag != "-i2" {
		t.Errorf("expected -i2, got %s", cfg.Fvwm.InfoFlag)
	}
	if cfg.Fvwm.Desktops != 4 {
		t.Errorf("expected 4 desktops, got %d", cfg.Fvwm.Desktops)
	}
	if !strings.HasSuffix(cfg.Fvwm.BaseDir, ".fvwm") {
		t.Errorf("expected base dir under .fvwm, got %s", cfg.Fvwm.BaseDir)
	}
	if cfg.Exec.TimeoutSeconds != 10 {
		t.Errorf("expected timeout 10, got %d", cfg.Exec.TimeoutSeconds)
	}
	if cfg.Observer.Enabled {
		t.Error("observer should be off by default")
	}
}

func TestLoadFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.toml")
	os.WriteFile(path, []byte(`
[server]
name = "fvwm3-dev"

[fvwm]
base_dir = "/var/lib/fvwm"
monitors = ["HDMI-1", "DP-2"]
desktops = 6

[exec]
blocked = ["xkill"]
`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Name != "fvwm3-dev" {
		t.Errorf("expected fvwm3-dev, got %s", cfg.Server.Name)
	}
	if cfg.Fvwm.BaseDir != "/var/lib/fvwm" {
		t.Errorf("expected /var/lib/fvwm, got %s", cfg.Fvwm.BaseDir)
	}
	if len(cfg.Fvwm.Monitors) != 2 || cfg.Fvwm.Monitors[1] != "DP-2" {
		t.Errorf("unexpected monitors: %v", cfg.Fvwm.Monitors)
	}
	if cfg.Fvwm.Desktops != 6 {
		t.Errorf("expected 6 desktops, got %d", cfg.Fvwm.Desktops)
	}
	if len(cfg.Exec.Blocked) != 1 || cfg.Exec.Blocked[0] != "xkill" {
		t.Errorf("unexpected blocked list: %v", cfg.Exec.Blocked)
	}
	// Defaults preserved
	if cfg.Fvwm.CommandBin != "FvwmCommand" {
		t.Errorf("default should be preserved, got %s", cfg.Fvwm.CommandBin)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit path")
	}
}

func TestLoadMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("[fvwm\ndesktops = "), 0644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.toml")
	os.WriteFile(path, []byte(`
[fvwm]
base_dir = "/from/file"
desktops = 2
`), 0644)

	t.Setenv("FVWM_MCP_BASE_DIR", "/from/env")
	t.Setenv("FVWM_MCP_MONITORS", "eDP-1, HDMI-1,")
	t.Setenv("FVWM_MCP_DESKTOPS", "8")
	t.Setenv("FVWM_MCP_OBSERVER_ENABLED", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fvwm.BaseDir != "/from/env" {
		t.Errorf("expected /from/env, got %s", cfg.Fvwm.BaseDir)
	}
	if len(cfg.Fvwm.Monitors) != 2 || cfg.Fvwm.Monitors[0] != "eDP-1" || cfg.Fvwm.Monitors[1] != "HDMI-1" {
		t.Errorf("unexpected monitors: %v", cfg.Fvwm.Monitors)
	}
	if cfg.Fvwm.Desktops != 8 {
		t.Errorf("expected 8 desktops, got %d", cfg.Fvwm.Desktops)
	}
	if !cfg.Observer.Enabled {
		t.Error("expected observer enabled")
	}
}

func TestClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.toml")
	os.WriteFile(path, []byte(`
[fvwm]
desktops = 0
log_tail_kb = -5

[exec]
timeout_seconds = 999
max_output_kb = 0
`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fvwm.Desktops != 1 {
		t.Errorf("expected desktops clamped to 1, got %d", cfg.Fvwm.Desktops)
	}
	if cfg.Fvwm.LogTailKB != 1 {
		t.Errorf("expected log tail clamped to 1, got %d", cfg.Fvwm.LogTailKB)
	}
	if cfg.Exec.TimeoutSeconds != 120 {
		t.Errorf("expected timeout clamped to 120, got %d", cfg.Exec.TimeoutSeconds)
	}
	if cfg.Exec.MaxOutputKB != 1 {
		t.Errorf("expected max output clamped to 1, got %d", cfg.Exec.MaxOutputKB)
	}
}

func TestBlankMonitorsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.toml")
	os.WriteFile(path, []byte(`
[fvwm]
monitors = ["DP-1", "", "  ", " HDMI-1 "]
`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"DP-1", "HDMI-1"}
	if len(cfg.Fvwm.Monitors) != len(want) {
		t.Fatalf("expected %d monitors, got %v", len(want), cfg.Fvwm.Monitors)
	}
	for i, m := range want {
		if cfg.Fvwm.Monitors[i] != m {
			t.Errorf("monitor %d: expected %q, got %q", i, m, cfg.Fvwm.Monitors[i])
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "test.toml")
	os.WriteFile(path, []byte(`
[fvwm]
base_dir = "~/fvwm-test"
`), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(home, "fvwm-test"); cfg.Fvwm.BaseDir != want {
		t.Errorf("expected %s, got %s", want, cfg.Fvwm.BaseDir)
	}
}
