package fvwm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	defaultCommandBin = "FvwmCommand"
	defaultInfoFlag   = "-i2"
	defaultXpropBin   = "xprop"
	defaultXrandrBin  = "xrandr"
	defaultRunTimeout = 10 * time.Second
	defaultMaxOutput  = 64 << 10
)

// RunnerConfig configures the process runner. Zero values fall back to the
// defaults above.
type RunnerConfig struct {
	// Bin is the command pipe client used to talk to the running window
	// manager.
	Bin string
	// InfoFlag switches Bin into query mode so module output is echoed
	// back instead of discarded.
	InfoFlag string
	// XpropBin reads root window properties for desktop state.
	XpropBin string
	// XrandrBin lists active monitors.
	XrandrBin string
	// Timeout bounds every subprocess.
	Timeout time.Duration
	// MaxOutput caps captured output in bytes; longer output is truncated
	// with a marker.
	MaxOutput int
}

// Runner executes the external binaries that expose live window manager
// state. All methods respect the context and the configured timeout.
type Runner struct {
	bin       string
	infoFlag  string
	xpropBin  string
	xrandrBin string
	timeout   time.Duration
	maxOutput int
}

// NewRunner creates a runner, filling unset config fields with defaults.
func NewRunner(cfg RunnerConfig) *Runner {
	r := &Runner{
		bin:       cfg.Bin,
		infoFlag:  cfg.InfoFlag,
		xpropBin:  cfg.XpropBin,
		xrandrBin: cfg.XrandrBin,
		timeout:   cfg.Timeout,
		maxOutput: cfg.MaxOutput,
	}
	if r.bin == "" {
		r.bin = defaultCommandBin
	}
	if r.infoFlag == "" {
		r.infoFlag = defaultInfoFlag
	}
	if r.xpropBin == "" {
		r.xpropBin = defaultXpropBin
	}
	if r.xrandrBin == "" {
		r.xrandrBin = defaultXrandrBin
	}
	if r.timeout <= 0 {
		r.timeout = defaultRunTimeout
	}
	if r.maxOutput <= 0 {
		r.maxOutput = defaultMaxOutput
	}
	return r
}

// Send dispatches a command to the window manager without waiting for
// module output.
func (r *Runner) Send(ctx context.Context, command string) (string, error) {
	return r.run(ctx, r.bin, command)
}

// Query dispatches a command in info mode and returns the echoed output.
func (r *Runner) Query(ctx context.Context, query string) (string, error) {
	return r.run(ctx, r.bin, r.infoFlag, query)
}

// DesktopProps reads the root window properties describing desktops.
func (r *Runner) DesktopProps(ctx context.Context) (string, error) {
	return r.run(ctx, r.xpropBin, "-root",
		"_NET_NUMBER_OF_DESKTOPS", "_NET_CURRENT_DESKTOP", "_NET_DESKTOP_NAMES")
}

// ActiveMonitors lists the active monitors as reported by the display
// server.
func (r *Runner) ActiveMonitors(ctx context.Context) (string, error) {
	return r.run(ctx, r.xrandrBin, "--listactivemonitors")
}

func (r *Runner) run(ctx context.Context, bin string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%s timed out after %s", bin, r.timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = strings.TrimSpace(stdout.String())
			}
			return "", fmt.Errorf("%s exited with code %d: %s", bin, exitErr.ExitCode(), detail)
		}
		return "", fmt.Errorf("run %s: %w", bin, err)
	}

	out := stdout.String()
	if s := strings.TrimSpace(stderr.String()); s != "" {
		out += "\n--- stderr ---\n" + s
	}
	return r.truncate(out), nil
}

func (r *Runner) truncate(s string) string {
	if len(s) <= r.maxOutput {
		return s
	}
	return s[:r.maxOutput] + "\n... (truncated)"
}
