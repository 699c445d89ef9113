package fvwm

import (
	"fmt"
	"regexp"
	"strings"
)

// TemplateArg declares one named argument of a prompt template.
type TemplateArg struct {
	Name        string
	Description string
	Required    bool
	// List marks a comma separated argument. Its rendered form is a
	// numbered line per item instead of the raw value.
	List bool
	// Default substitutes for an optional argument the caller omitted.
	Default string
}

// Template is a prompt with named placeholders. The body references
// arguments as {name}; every placeholder must be declared in Args.
type Template struct {
	Name        string
	Description string
	Args        []TemplateArg
	Body        string
}

var placeholderRe = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// Validate checks that every placeholder in the body names a declared
// argument. Catalogs call this at registration so a defective template
// never reaches a caller.
func (t *Template) Validate() error {
	declared := make(map[string]bool, len(t.Args))
	for _, a := range t.Args {
		declared[a.Name] = true
	}
	for _, m := range placeholderRe.FindAllStringSubmatch(t.Body, -1) {
		if !declared[m[1]] {
			return &RenderError{Template: t.Name, Placeholder: m[1]}
		}
	}
	return nil
}

// Descriptor derives the wire descriptor from the declared arguments.
func (t *Template) Descriptor() PromptDescriptor {
	args := make([]PromptArgument, len(t.Args))
	for i, a := range t.Args {
		args[i] = PromptArgument{Name: a.Name, Description: a.Description, Required: a.Required}
	}
	return PromptDescriptor{Name: t.Name, Description: t.Description, Arguments: args}
}

// Render substitutes the supplied arguments into the body. A required
// argument that is absent or blank fails with MissingArgumentError before
// any substitution happens. List arguments are split on commas and
// rendered as numbered lines.
func (t *Template) Render(args map[string]string) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	pairs := make([]string, 0, len(t.Args)*2)
	for _, a := range t.Args {
		raw, ok := args[a.Name]
		if !ok || strings.TrimSpace(raw) == "" {
			if a.Required {
				return "", &MissingArgumentError{Target: t.Name, Argument: a.Name}
			}
			raw = a.Default
		}
		val := raw
		if a.List {
			val = enumerate(raw)
		}
		pairs = append(pairs, "{"+a.Name+"}", val)
	}
	return strings.NewReplacer(pairs...).Replace(t.Body), nil
}

// enumerate turns "a, b, c" into numbered lines. Blank items between
// commas are dropped and do not consume a number.
func enumerate(raw string) string {
	var b strings.Builder
	n := 0
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		n++
		if n > 1 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", n, item)
	}
	return b.String()
}
