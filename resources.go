package fvwm

import (
	"context"

	"github.com/elsanchez/mcp-server-fvwm3/docs"
)

// registerResources declares every readable resource. Registration order
// is the order clients see when they list.
func registerResources(c *Catalog, env Environment, deps Deps, idx *docs.Index) error {
	entries := []ResourceEntry{
		{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://config/main",
				Name:        "Main configuration",
				Description: "The main configuration file the window manager reads at startup.",
				MimeType:    "text/plain",
			},
			Read: func(context.Context) (string, error) {
				return deps.Files.Read(env.ConfigFile)
			},
		},
		{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://config/bindings",
				Name:        "Key and mouse bindings",
				Description: "Key, mouse and stroke bindings sourced from the main configuration.",
				MimeType:    "text/plain",
			},
			Read: func(context.Context) (string, error) {
				return deps.Files.Read("bindings")
			},
		},
		{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://config/menus",
				Name:        "Menu definitions",
				Description: "Root and window operation menus sourced from the main configuration.",
				MimeType:    "text/plain",
			},
			Read: func(context.Context) (string, error) {
				return deps.Files.Read("menus")
			},
		},
		{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://config/decor",
				Name:        "Decor and styles",
				Description: "Window decoration, colorsets and style rules sourced from the main configuration.",
				MimeType:    "text/plain",
			},
			Read: func(context.Context) (string, error) {
				return deps.Files.Read("decor")
			},
		},
	}

	for _, p := range idx.Pages() {
		entries = append(entries, ResourceEntry{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://docs/" + p.Slug,
				Name:        p.Title,
				Description: "Reference notes: " + p.Title + ".",
				MimeType:    "text/markdown",
			},
			Read: func(context.Context) (string, error) {
				return p.Content, nil
			},
		})
	}

	entries = append(entries,
		ResourceEntry{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://scripts/tiling",
				Name:        "Tiling script",
				Description: "Helper script that arranges windows into tiled layouts.",
				MimeType:    "text/x-shellscript",
			},
			Read: func(context.Context) (string, error) {
				return deps.Files.Read("scripts/tiling.sh")
			},
		},
		ResourceEntry{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://scripts/wallpaper",
				Name:        "Wallpaper script",
				Description: "Helper script that rotates the desktop wallpaper.",
				MimeType:    "text/x-shellscript",
			},
			Read: func(context.Context) (string, error) {
				return deps.Files.Read("scripts/wallpaper.sh")
			},
		},
		ResourceEntry{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://state/windows",
				Name:        "Window list",
				Description: "Live list of managed windows with geometry and desk placement.",
				MimeType:    "text/plain",
			},
			Read: func(ctx context.Context) (string, error) {
				return deps.Runner.Query(ctx, "Send_WindowList")
			},
		},
		ResourceEntry{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://state/desktops",
				Name:        "Desktop state",
				Description: "Desktop count, current desktop and desktop names from the root window.",
				MimeType:    "text/plain",
			},
			Read: func(ctx context.Context) (string, error) {
				return deps.Runner.DesktopProps(ctx)
			},
		},
		ResourceEntry{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://state/monitors",
				Name:        "Active monitors",
				Description: "Monitors currently active on the display with resolution and position.",
				MimeType:    "text/plain",
			},
			Read: func(ctx context.Context) (string, error) {
				return deps.Runner.ActiveMonitors(ctx)
			},
		},
		ResourceEntry{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://state/tiles",
				Name:        "Tiling state",
				Description: "Saved window positions the tiling script restores from.",
				MimeType:    "application/json",
			},
			Read: func(context.Context) (string, error) {
				return deps.Files.Read("state/tiles.json")
			},
		},
		ResourceEntry{
			Descriptor: ResourceDescriptor{
				URI:         "fvwm://logs/fvwm",
				Name:        "Window manager log",
				Description: "Tail of the window manager's log file.",
				MimeType:    "text/plain",
			},
			Read: func(context.Context) (string, error) {
				return deps.Files.Tail(env.LogFile, env.LogTail)
			},
		},
	)

	for _, e := range entries {
		if err := c.AddResource(e); err != nil {
			return err
		}
	}
	return nil
}
