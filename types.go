package fvwm

import "context"

// --- Descriptors (catalog metadata, immutable after registration) ---

// ResourceDescriptor describes one readable resource. Identity is URI.
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ToolDescriptor describes one callable tool. InputSchema is a
// JSON-Schema-shaped object description of the accepted arguments.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// PromptArgument describes one argument a prompt template accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptDescriptor describes one prompt template. Arguments keep
// declaration order.
type PromptDescriptor struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// --- Response payloads ---

// ContentBlock is one piece of response content. Type is always "text".
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextBlock returns a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// ResourceContent is the payload of a successful resource read: the
// adapter's raw text tagged with the descriptor's mime type.
type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// ToolResult is the call-tool envelope. Failures set IsError and describe
// the failure in a text block; they are never raised as transport faults.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// TextResult creates a successful ToolResult with a single text block.
func TextResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{TextBlock(text)}}
}

// ErrorResult creates an error ToolResult with a single text block.
func ErrorResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{TextBlock(text)}, IsError: true}
}

// PromptMessage is one conversational message in a get-prompt result.
type PromptMessage struct {
	Role    string       `json:"role"`
	Content ContentBlock `json:"content"`
}

// PromptResult is the get-prompt payload.
type PromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// --- Handler capabilities ---

// ResourceHandler produces the raw text of one resource. An error means
// the underlying adapter (file read or process invocation) failed.
type ResourceHandler func(ctx context.Context) (string, error)

// ToolHandler runs one tool against validated-presence arguments and
// returns its output text. Errors are converted to error envelopes by the
// router, never propagated.
type ToolHandler func(ctx context.Context, args map[string]any) (string, error)
