package observer

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for dispatch spans and metrics.
var (
	AttrToolName   = attribute.Key("mcp.tool.name")
	AttrToolStatus = attribute.Key("mcp.tool.status")

	AttrResourceURI    = attribute.Key("mcp.resource.uri")
	AttrResourceStatus = attribute.Key("mcp.resource.status")

	AttrPromptName   = attribute.Key("mcp.prompt.name")
	AttrPromptStatus = attribute.Key("mcp.prompt.status")

	AttrResultLength = attribute.Key("mcp.result_length")
	AttrRequestID    = attribute.Key("mcp.request_id")
)
