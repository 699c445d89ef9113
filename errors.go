package fvwm

import "fmt"

// UnknownIdentifierError reports a request target with no catalog entry.
// On the resource and prompt paths it propagates to the transport as an
// invalid-params fault; the tool path converts it into an error envelope.
type UnknownIdentifierError struct {
	Kind string // "resource", "tool", or "prompt"
	Key  string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.Key)
}

// MissingArgumentError reports a required argument absent from a call-tool
// or get-prompt request. Caller input error, detected before any adapter
// or template runs.
type MissingArgumentError struct {
	Target   string // tool or prompt name
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: missing required argument %q", e.Target, e.Argument)
}

// AdapterError reports a failed file or process collaborator. Wraps the
// underlying error.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// RenderError reports a prompt template whose body references an argument
// it never declared. Caught at catalog build time so a defective template
// cannot be served.
type RenderError struct {
	Template    string
	Placeholder string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("template %s: undeclared placeholder {%s}", e.Template, e.Placeholder)
}
