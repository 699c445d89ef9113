package fvwm

import (
	"context"
	"fmt"
	"log/slog"
)

// Dispatcher routes protocol operations to catalog entries. The transport
// layer depends on this interface so observability wrappers can interpose.
//
// CallTool deliberately returns no error: every failure inside a tool call,
// including an unknown tool name, comes back as a ToolResult with IsError
// set so the conversation can continue. Resource and prompt failures are
// protocol faults and propagate as errors.
type Dispatcher interface {
	ListResources() []ResourceDescriptor
	ReadResource(ctx context.Context, uri string) (ResourceContent, error)
	ListTools() []ToolDescriptor
	CallTool(ctx context.Context, name string, args map[string]any) ToolResult
	ListPrompts() []PromptDescriptor
	GetPrompt(ctx context.Context, name string, args map[string]string) (PromptResult, error)
}

// Router implements Dispatcher over a static catalog.
type Router struct {
	catalog *Catalog
	logger  *slog.Logger
}

var _ Dispatcher = (*Router)(nil)

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter creates a router over the given catalog.
func NewRouter(c *Catalog, opts ...RouterOption) *Router {
	r := &Router{catalog: c, logger: nopLogger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListResources returns the catalog's resource descriptors. Repeated calls
// observe the same ordering.
func (r *Router) ListResources() []ResourceDescriptor {
	return r.catalog.Resources()
}

// ReadResource resolves the URI and invokes its read handler. An unknown
// URI fails with UnknownIdentifierError before any handler runs; a handler
// failure is wrapped in AdapterError.
func (r *Router) ReadResource(ctx context.Context, uri string) (ResourceContent, error) {
	entry, ok := r.catalog.resource(uri)
	if !ok {
		return ResourceContent{}, &UnknownIdentifierError{Kind: "resource", Key: uri}
	}
	text, err := entry.Read(ctx)
	if err != nil {
		r.logger.Warn("resource read failed", "uri", uri, "request_id", RequestID(ctx), "error", err)
		return ResourceContent{}, &AdapterError{Op: "read " + uri, Err: err}
	}
	return ResourceContent{
		URI:      entry.Descriptor.URI,
		MimeType: entry.Descriptor.MimeType,
		Text:     text,
	}, nil
}

// ListTools returns the catalog's tool descriptors.
func (r *Router) ListTools() []ToolDescriptor {
	return r.catalog.Tools()
}

// CallTool invokes the named tool. Failures never escape as errors: an
// unknown name, a missing required argument, and a handler failure all
// produce an error-flagged result carrying the failure text.
func (r *Router) CallTool(ctx context.Context, name string, args map[string]any) ToolResult {
	entry, ok := r.catalog.tool(name)
	if !ok {
		return ErrorResult("unknown tool: " + name)
	}
	for _, req := range entry.Required {
		if v, present := args[req]; !present || v == nil {
			missing := &MissingArgumentError{Target: name, Argument: req}
			return ErrorResult(missing.Error())
		}
	}
	text, err := entry.Call(ctx, args)
	if err != nil {
		r.logger.Warn("tool call failed", "tool", name, "request_id", RequestID(ctx), "error", err)
		return ErrorResult(fmt.Sprintf("%s: %v", name, err))
	}
	return TextResult(text)
}

// ListPrompts returns the catalog's prompt descriptors.
func (r *Router) ListPrompts() []PromptDescriptor {
	return r.catalog.Prompts()
}

// GetPrompt resolves the named template and renders it with the supplied
// arguments. The rendered text is returned as a single user message.
func (r *Router) GetPrompt(ctx context.Context, name string, args map[string]string) (PromptResult, error) {
	entry, ok := r.catalog.prompt(name)
	if !ok {
		return PromptResult{}, &UnknownIdentifierError{Kind: "prompt", Key: name}
	}
	text, err := entry.Template.Render(args)
	if err != nil {
		r.logger.Warn("prompt render failed", "prompt", name, "request_id", RequestID(ctx), "error", err)
		return PromptResult{}, err
	}
	return PromptResult{
		Description: entry.Descriptor.Description,
		Messages: []PromptMessage{
			{Role: "user", Content: TextBlock(text)},
		},
	}, nil
}

var nopLogger = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }
