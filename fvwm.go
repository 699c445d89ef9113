package fvwm

import (
	"fmt"

	"github.com/elsanchez/mcp-server-fvwm3/docs"
)

// Environment describes the window manager installation the catalog is
// built for. Paths are relative to the file adapter's base directory.
type Environment struct {
	// ConfigFile is the main configuration file.
	ConfigFile string
	// LogFile receives the window manager's log output.
	LogFile string
	// Monitors lists the output names move_window_to_monitor accepts.
	// Empty means the tool reports that no monitors are configured.
	Monitors []string
	// Desktops is the number of virtual desktops; valid desk numbers are
	// 0 through Desktops-1.
	Desktops int
	// LogTail caps how many bytes of the log the logs resource serves.
	LogTail int
}

func (e Environment) withDefaults() Environment {
	if e.ConfigFile == "" {
		e.ConfigFile = "config"
	}
	if e.LogFile == "" {
		e.LogFile = "fvwm3.log"
	}
	if e.Desktops <= 0 {
		e.Desktops = 4
	}
	if e.LogTail <= 0 {
		e.LogTail = 32 << 10
	}
	return e
}

// Deps holds the adapters the catalog entries close over.
type Deps struct {
	Files  *Files
	Runner *Runner
	Guard  *Guard
}

// BuildCatalog assembles the full capability catalog for the given
// environment: configuration and state resources, control tools, and the
// configuration-writing prompts. The returned catalog is immutable in
// practice; build it once at startup and share it.
func BuildCatalog(env Environment, deps Deps) (*Catalog, error) {
	if deps.Files == nil || deps.Runner == nil || deps.Guard == nil {
		return nil, fmt.Errorf("catalog: files, runner and guard are all required")
	}
	env = env.withDefaults()

	idx, err := docs.NewIndex()
	if err != nil {
		return nil, fmt.Errorf("catalog: load docs: %w", err)
	}

	c := NewCatalog()
	if err := registerResources(c, env, deps, idx); err != nil {
		return nil, err
	}
	if err := registerTools(c, env, deps, idx); err != nil {
		return nil, err
	}
	if err := registerPrompts(c); err != nil {
		return nil, err
	}
	return c, nil
}
