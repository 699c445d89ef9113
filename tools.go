package fvwm

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/elsanchez/mcp-server-fvwm3/docs"
)

// registerTools declares every callable tool. Registration order is the
// order clients see when they list.
func registerTools(c *Catalog, env Environment, deps Deps, idx *docs.Index) error {
	entries := []ToolEntry{
		newTool("fvwm_execute",
			"Send a raw command to the running window manager. Destructive commands are refused.",
			map[string]any{
				"command": stringProp("Command line to dispatch, e.g. 'Beep' or 'All (xterm) Iconify'."),
			},
			[]string{"command"},
			func(ctx context.Context, args map[string]any) (string, error) {
				cmd, err := stringArg(args, "command")
				if err != nil {
					return "", err
				}
				if err := deps.Guard.Check(cmd); err != nil {
					return "", err
				}
				out, err := deps.Runner.Send(ctx, cmd)
				if err != nil {
					return "", err
				}
				if strings.TrimSpace(out) == "" {
					return "dispatched: " + cmd, nil
				}
				return out, nil
			}),

		newTool("fvwm_query",
			"Run a query command and return the window manager's reply, e.g. 'Send_WindowList'.",
			map[string]any{
				"query": stringProp("Query command whose module output should be captured."),
			},
			[]string{"query"},
			func(ctx context.Context, args map[string]any) (string, error) {
				q, err := stringArg(args, "query")
				if err != nil {
					return "", err
				}
				if err := deps.Guard.Check(q); err != nil {
					return "", err
				}
				out, err := deps.Runner.Query(ctx, q)
				if err != nil {
					return "", err
				}
				if strings.TrimSpace(out) == "" {
					return "(no output)", nil
				}
				return out, nil
			}),

		newTool("list_windows",
			"List managed windows with their geometry and desk placement.",
			map[string]any{},
			nil,
			func(ctx context.Context, _ map[string]any) (string, error) {
				return deps.Runner.Query(ctx, "Send_WindowList")
			}),

		newTool("focus_window",
			"Focus the next window whose name, class or resource matches the pattern.",
			map[string]any{
				"window": stringProp("Window name pattern, wildcards allowed, e.g. '*irefox'."),
			},
			[]string{"window"},
			func(ctx context.Context, args map[string]any) (string, error) {
				pat, err := windowArg(args, "window")
				if err != nil {
					return "", err
				}
				out, err := deps.Runner.Send(ctx, fmt.Sprintf("Next (%q) FlipFocus", pat))
				if err != nil {
					return "", err
				}
				if strings.TrimSpace(out) == "" {
					return fmt.Sprintf("focus dispatched for %q", pat), nil
				}
				return out, nil
			}),

		newTool("goto_desk",
			"Switch to a virtual desktop by number.",
			map[string]any{
				"desk": intProp("Desktop number, starting at 0."),
			},
			[]string{"desk"},
			func(ctx context.Context, args map[string]any) (string, error) {
				n, err := intArg(args, "desk")
				if err != nil {
					return "", err
				}
				if n < 0 || n >= env.Desktops {
					return "", fmt.Errorf("desk %d out of range 0..%d", n, env.Desktops-1)
				}
				out, err := deps.Runner.Send(ctx, fmt.Sprintf("GotoDesk 0 %d", n))
				if err != nil {
					return "", err
				}
				if strings.TrimSpace(out) == "" {
					return fmt.Sprintf("switched to desk %d", n), nil
				}
				return out, nil
			}),

		newTool("move_window_to_desk",
			"Move the next window matching the pattern to a desktop.",
			map[string]any{
				"window": stringProp("Window name pattern, wildcards allowed."),
				"desk":   intProp("Destination desktop number, starting at 0."),
			},
			[]string{"window", "desk"},
			func(ctx context.Context, args map[string]any) (string, error) {
				pat, err := windowArg(args, "window")
				if err != nil {
					return "", err
				}
				n, err := intArg(args, "desk")
				if err != nil {
					return "", err
				}
				if n < 0 || n >= env.Desktops {
					return "", fmt.Errorf("desk %d out of range 0..%d", n, env.Desktops-1)
				}
				out, err := deps.Runner.Send(ctx, fmt.Sprintf("Next (%q) MoveToDesk 0 %d", pat, n))
				if err != nil {
					return "", err
				}
				if strings.TrimSpace(out) == "" {
					return fmt.Sprintf("moved %q to desk %d", pat, n), nil
				}
				return out, nil
			}),

		newTool("move_window_to_monitor",
			"Move the next window matching the pattern to a configured monitor.",
			map[string]any{
				"window":  stringProp("Window name pattern, wildcards allowed."),
				"monitor": stringProp("Monitor output name, e.g. 'HDMI-1'."),
			},
			[]string{"window", "monitor"},
			func(ctx context.Context, args map[string]any) (string, error) {
				pat, err := windowArg(args, "window")
				if err != nil {
					return "", err
				}
				mon, err := stringArg(args, "monitor")
				if err != nil {
					return "", err
				}
				if len(env.Monitors) == 0 {
					return "", fmt.Errorf("no monitors configured")
				}
				name := ""
				for _, m := range env.Monitors {
					if strings.EqualFold(m, strings.TrimSpace(mon)) {
						name = m
						break
					}
				}
				if name == "" {
					return "", fmt.Errorf("unknown monitor %q (configured: %s)",
						mon, strings.Join(env.Monitors, ", "))
				}
				out, err := deps.Runner.Send(ctx, fmt.Sprintf("Next (%q) MoveToScreen %s", pat, name))
				if err != nil {
					return "", err
				}
				if strings.TrimSpace(out) == "" {
					return fmt.Sprintf("moved %q to %s", pat, name), nil
				}
				return out, nil
			}),

		newTool("restart_fvwm",
			"Restart the window manager, reloading its configuration. Running applications survive.",
			map[string]any{},
			nil,
			func(ctx context.Context, _ map[string]any) (string, error) {
				out, err := deps.Runner.Send(ctx, "Restart")
				if err != nil {
					return "", err
				}
				if strings.TrimSpace(out) == "" {
					return "restart dispatched", nil
				}
				return out, nil
			}),

		newTool("clear_tile_state",
			"Forget the saved window positions the tiling script restores from.",
			map[string]any{},
			nil,
			func(_ context.Context, _ map[string]any) (string, error) {
				if err := deps.Files.Clear("state/tiles.json"); err != nil {
					return "", err
				}
				return "tiling state cleared", nil
			}),

		newTool("search_docs",
			"Search the bundled reference notes by keyword.",
			map[string]any{
				"query": stringProp("Keyword or phrase to search for."),
			},
			[]string{"query"},
			func(_ context.Context, args map[string]any) (string, error) {
				q, err := stringArg(args, "query")
				if err != nil {
					return "", err
				}
				matches := idx.Search(q, 5)
				if len(matches) == 0 {
					return fmt.Sprintf("No results found for %q. Try a different keyword.", q), nil
				}
				sections := make([]string, len(matches))
				for i, m := range matches {
					sections[i] = fmt.Sprintf("## %s (fvwm://docs/%s)\n\n%s", m.Title, m.Slug, m.Snippet)
				}
				return fmt.Sprintf("Found %d matching document(s):\n\n%s",
					len(matches), strings.Join(sections, "\n\n===\n\n")), nil
			}),
	}

	for _, e := range entries {
		if err := c.AddTool(e); err != nil {
			return err
		}
	}
	return nil
}

func newTool(name, desc string, props map[string]any, required []string, call ToolHandler) ToolEntry {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return ToolEntry{
		Descriptor: ToolDescriptor{Name: name, Description: desc, InputSchema: schema},
		Required:   required,
		Call:       call,
	}
}

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func intProp(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

// stringArg coerces a string argument, rejecting blanks.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", fmt.Errorf("argument %q is missing", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", name)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("argument %q is empty", name)
	}
	return s, nil
}

// intArg coerces an integer argument. JSON numbers arrive as float64;
// integral values are accepted, fractional ones rejected.
func intArg(args map[string]any, name string) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("argument %q is missing", name)
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("argument %q must be an integer, got %v", name, n)
		}
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("argument %q must be an integer", name)
	}
}

// windowArg reads a window pattern and strips the characters that would
// break out of a conditional command.
func windowArg(args map[string]any, name string) (string, error) {
	s, err := stringArg(args, name)
	if err != nil {
		return "", err
	}
	pat := windowPatternSanitizer.Replace(s)
	pat = strings.TrimSpace(pat)
	if pat == "" {
		return "", fmt.Errorf("argument %q is empty", name)
	}
	return pat, nil
}

var windowPatternSanitizer = strings.NewReplacer(
	`"`, "",
	"\n", " ",
	"\r", " ",
	"(", "",
	")", "",
)
