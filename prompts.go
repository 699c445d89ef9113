package fvwm

// registerPrompts declares every prompt template. Registration order is
// the order clients see when they list; templates are validated here so a
// stray placeholder fails startup instead of a request.
func registerPrompts(c *Catalog) error {
	templates := []*Template{
		{
			Name:        "create-menu",
			Description: "Generate an AddToMenu block for a new menu.",
			Args: []TemplateArg{
				{Name: "menu_name", Description: "Name of the menu to create.", Required: true},
				{Name: "menu_items", Description: "Comma separated list of menu entries, in order.", Required: true, List: true},
			},
			Body: `Create a menu named "{menu_name}" for the FVWM window manager.

Menu items to include, in order:
{menu_items}

Write the configuration as one AddToMenu block:
- Start with: AddToMenu {menu_name} "{menu_name}" Title
- Add one entry per item on a + "label" continuation line, choosing a
  sensible action for each (Exec for applications, a window manager
  command otherwise).
- After the block, show how to open the menu, for example
  Mouse 1 R A Menu {menu_name}.

Reply with the finished configuration only, ready to paste into the
config file.`,
		},
		{
			Name:        "create-keybinding",
			Description: "Generate a Key directive binding a key to an action.",
			Args: []TemplateArg{
				{Name: "key", Description: "Key name, e.g. 'F2' or 'T'.", Required: true},
				{Name: "action", Description: "Command the key should run.", Required: true},
				{Name: "modifiers", Description: "Modifier string, e.g. '4' for Super or 'CM' for Ctrl+Alt. Defaults to none.", Default: "N"},
			},
			Body: `Create a key binding for the FVWM window manager.

Key: {key}
Modifiers: {modifiers}
Action: {action}

Write a single Key directive of the form:
Key {key} A {modifiers} {action}

Verify the action against the command reference before answering, then
reply with the directive followed by a one line comment describing what
it does.`,
		},
		{
			Name:        "tile-windows",
			Description: "Plan the commands that tile the windows on one monitor.",
			Args: []TemplateArg{
				{Name: "monitor", Description: "Monitor output name the layout applies to.", Required: true},
				{Name: "layout", Description: "Layout shape: grid, columns or main-stack. Defaults to grid.", Default: "grid"},
			},
			Body: `Arrange the windows on monitor {monitor} into a {layout} layout.

Read fvwm://state/windows for the candidate windows and their geometry,
and fvwm://state/monitors for the monitor's dimensions. Skip iconified
and sticky windows.

Then produce the command sequence that tiles the remaining windows, one
command per line, using pixel geometry on the target monitor, for
example:
Next (xterm) ResizeMove 960p 540p 0p 0p

Reply with the command list only, in the order they should run.`,
		},
		{
			Name:        "style-window",
			Description: "Generate Style rules for a window class.",
			Args: []TemplateArg{
				{Name: "window_class", Description: "Window class the rules target, e.g. 'Firefox'.", Required: true},
				{Name: "style_options", Description: "Comma separated list of style options to apply.", Required: true, List: true},
			},
			Body: `Write Style rules for windows of class "{window_class}".

Options to apply:
{style_options}

Produce one line per option of the form:
Style "{window_class}" <option>

Use exact option spellings from the configuration reference. Reply with
the Style lines and a short note on where they belong in the config
file.`,
		},
		{
			Name:        "debug-issue",
			Description: "Walk through diagnosing a window manager problem.",
			Args: []TemplateArg{
				{Name: "symptom", Description: "What is going wrong, in the user's words.", Required: true},
			},
			Body: `Diagnose this window manager problem: {symptom}

Work through it in order:
1. Read fvwm://logs/fvwm and look for errors or warnings near the end.
2. Read fvwm://state/windows and fvwm://state/desktops and compare the
   live state with what the symptom describes.
3. Read the relevant part of fvwm://config/main.
4. Propose the smallest configuration change that fixes the problem,
   plus the command that verifies the fix.

Reply with the diagnosis first, then the fix.`,
		},
	}

	for _, t := range templates {
		if err := c.AddPrompt(t); err != nil {
			return err
		}
	}
	return nil
}
