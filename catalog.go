package fvwm

import "fmt"

// ResourceEntry binds a resource descriptor to its read capability.
type ResourceEntry struct {
	Descriptor ResourceDescriptor
	Read       ResourceHandler
}

// ToolEntry binds a tool descriptor to its call capability. Required lists
// the argument names the router checks for presence before invoking Call.
type ToolEntry struct {
	Descriptor ToolDescriptor
	Required   []string
	Call       ToolHandler
}

// PromptEntry binds a prompt descriptor to its template.
type PromptEntry struct {
	Descriptor PromptDescriptor
	Template   *Template
}

// Catalog is the static registry of everything a server declares. Entries
// keep declaration order. Register everything before serving; lookups and
// list accessors are read-only and safe to share across requests.
type Catalog struct {
	resources []ResourceEntry
	tools     []ToolEntry
	prompts   []PromptEntry

	resourceIdx map[string]int
	toolIdx     map[string]int
	promptIdx   map[string]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		resourceIdx: make(map[string]int),
		toolIdx:     make(map[string]int),
		promptIdx:   make(map[string]int),
	}
}

// AddResource registers a resource. The URI must be unique within the
// catalog and the entry must carry a read handler.
func (c *Catalog) AddResource(e ResourceEntry) error {
	uri := e.Descriptor.URI
	if uri == "" {
		return fmt.Errorf("catalog: resource with empty uri")
	}
	if _, dup := c.resourceIdx[uri]; dup {
		return fmt.Errorf("catalog: duplicate resource uri %q", uri)
	}
	if e.Read == nil {
		return fmt.Errorf("catalog: resource %q has no read handler", uri)
	}
	c.resourceIdx[uri] = len(c.resources)
	c.resources = append(c.resources, e)
	return nil
}

// AddTool registers a tool. The name must be unique within the catalog and
// the entry must carry a call handler.
func (c *Catalog) AddTool(e ToolEntry) error {
	name := e.Descriptor.Name
	if name == "" {
		return fmt.Errorf("catalog: tool with empty name")
	}
	if _, dup := c.toolIdx[name]; dup {
		return fmt.Errorf("catalog: duplicate tool name %q", name)
	}
	if e.Call == nil {
		return fmt.Errorf("catalog: tool %q has no call handler", name)
	}
	c.toolIdx[name] = len(c.tools)
	c.tools = append(c.tools, e)
	return nil
}

// AddPrompt registers a prompt template. The name must be unique and the
// template body must only reference declared arguments; a defective
// template is rejected here rather than discovered at render time.
func (c *Catalog) AddPrompt(t *Template) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("catalog: prompt with empty name")
	}
	if _, dup := c.promptIdx[t.Name]; dup {
		return fmt.Errorf("catalog: duplicate prompt name %q", t.Name)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	c.promptIdx[t.Name] = len(c.prompts)
	c.prompts = append(c.prompts, PromptEntry{Descriptor: t.Descriptor(), Template: t})
	return nil
}

// Resources returns the resource descriptors in declaration order.
func (c *Catalog) Resources() []ResourceDescriptor {
	out := make([]ResourceDescriptor, len(c.resources))
	for i, e := range c.resources {
		out[i] = e.Descriptor
	}
	return out
}

// Tools returns the tool descriptors in declaration order.
func (c *Catalog) Tools() []ToolDescriptor {
	out := make([]ToolDescriptor, len(c.tools))
	for i, e := range c.tools {
		out[i] = e.Descriptor
	}
	return out
}

// Prompts returns the prompt descriptors in declaration order.
func (c *Catalog) Prompts() []PromptDescriptor {
	out := make([]PromptDescriptor, len(c.prompts))
	for i, e := range c.prompts {
		out[i] = e.Descriptor
	}
	return out
}

func (c *Catalog) resource(uri string) (ResourceEntry, bool) {
	i, ok := c.resourceIdx[uri]
	if !ok {
		return ResourceEntry{}, false
	}
	return c.resources[i], true
}

func (c *Catalog) tool(name string) (ToolEntry, bool) {
	i, ok := c.toolIdx[name]
	if !ok {
		return ToolEntry{}, false
	}
	return c.tools[i], true
}

func (c *Catalog) prompt(name string) (PromptEntry, bool) {
	i, ok := c.promptIdx[name]
	if !ok {
		return PromptEntry{}, false
	}
	return c.prompts[i], true
}
