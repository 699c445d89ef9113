package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	fvwm "github.com/elsanchez/mcp-server-fvwm3"
)

// Server speaks MCP over stdio and forwards every operation to a
// dispatcher. Tool call failures come back inside the result envelope;
// resource and prompt failures become JSON-RPC errors.
type Server struct {
	name       string
	version    string
	dispatcher fvwm.Dispatcher

	// reader/writer can be overridden for testing (defaults to stdin/stdout).
	reader io.Reader
	writer io.Writer
	mu     sync.Mutex // protects writes
}

// New creates an MCP server serving the given dispatcher.
func New(name, version string, d fvwm.Dispatcher) *Server {
	return &Server{
		name:       name,
		version:    version,
		dispatcher: d,
		reader:     os.Stdin,
		writer:     os.Stdout,
	}
}

// Serve reads JSON-RPC messages from stdin and writes responses to
// stdout. Blocks until stdin is closed or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 0, 10<<20), 10<<20) // 10MB max message

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		s.handleMessage(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("mcp: read stdin: %w", err)
	}
	return nil
}

// handleMessage parses a single JSON-RPC message (or batch) and dispatches it.
func (s *Server) handleMessage(ctx context.Context, data []byte) {
	// Check for batch (JSON array).
	if len(data) > 0 && data[0] == '[' {
		s.handleBatch(ctx, data)
		return
	}

	ctx = fvwm.WithRequestID(ctx, fvwm.NewID())
	if resp := s.handleSingleMessage(ctx, data); resp != nil {
		s.writeMessage(ctx, *resp)
	}
}

// handleBatch answers a JSON array of requests with one JSON array of
// responses. An empty batch is invalid per JSON-RPC 2.0; a batch holding
// only notifications gets no reply at all.
func (s *Server) handleBatch(ctx context.Context, data []byte) {
	var batch []json.RawMessage
	if err := json.Unmarshal(data, &batch); err != nil {
		s.writeMessage(ctx, response{
			JSONRPC: "2.0",
			ID:      json.RawMessage("null"),
			Error:   &rpcError{Code: errCodeParse, Message: "parse error"},
		})
		return
	}
	if len(batch) == 0 {
		s.writeMessage(ctx, response{
			JSONRPC: "2.0",
			ID:      json.RawMessage("null"),
			Error:   &rpcError{Code: errCodeInvalidRequest, Message: "empty batch"},
		})
		return
	}

	responses := make([]response, 0, len(batch))
	for _, raw := range batch {
		elem := fvwm.WithRequestID(ctx, fvwm.NewID())
		if resp := s.handleSingleMessage(elem, raw); resp != nil {
			responses = append(responses, *resp)
		}
	}
	if len(responses) == 0 {
		return
	}
	s.writeMessage(ctx, responses)
}

// handleSingleMessage parses and dispatches one JSON-RPC request. Returns
// nil for notifications.
func (s *Server) handleSingleMessage(ctx context.Context, data []byte) *response {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		return &response{
			JSONRPC: "2.0",
			ID:      json.RawMessage("null"),
			Error:   &rpcError{Code: errCodeParse, Message: "parse error"},
		}
	}
	return s.dispatch(ctx, &req)
}

// dispatch routes a request to the appropriate handler. Returns nil for notifications.
func (s *Server) dispatch(ctx context.Context, req *request) *response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil // notification, no response
	case "notifications/cancelled":
		return nil
	case "ping":
		return s.respond(req.ID, struct{}{})
	case "tools/list":
		return s.respond(req.ID, toolsListResult{Tools: s.dispatcher.ListTools()})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return s.respond(req.ID, resourcesListResult{Resources: s.dispatcher.ListResources()})
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	case "prompts/list":
		return s.respond(req.ID, promptsListResult{Prompts: s.dispatcher.ListPrompts()})
	case "prompts/get":
		return s.handlePromptsGet(ctx, req)
	default:
		if req.isNotification() {
			return nil
		}
		return s.respondError(req.ID, errCodeMethodNotFound, "method not found: "+req.Method)
	}
}

// --- handlers ---

func (s *Server) handleInitialize(req *request) *response {
	caps := serverCapabilities{}
	if len(s.dispatcher.ListTools()) > 0 {
		caps.Tools = &capability{}
	}
	if len(s.dispatcher.ListResources()) > 0 {
		caps.Resources = &capability{}
	}
	if len(s.dispatcher.ListPrompts()) > 0 {
		caps.Prompts = &capability{}
	}

	return s.respond(req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    caps,
		ServerInfo:      serverInfo{Name: s.name, Version: s.version},
	})
}

func (s *Server) handleToolsCall(ctx context.Context, req *request) *response {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.respondError(req.ID, errCodeInvalidParams, "invalid params: "+err.Error())
	}

	result := s.dispatcher.CallTool(ctx, params.Name, params.Arguments)
	return s.respond(req.ID, result)
}

func (s *Server) handleResourcesRead(ctx context.Context, req *request) *response {
	var params resourceReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.respondError(req.ID, errCodeInvalidParams, "invalid params: "+err.Error())
	}

	content, err := s.dispatcher.ReadResource(ctx, params.URI)
	if err != nil {
		return s.respondDispatchError(req.ID, err)
	}
	return s.respond(req.ID, resourceReadResult{
		Contents: []fvwm.ResourceContent{content},
	})
}

func (s *Server) handlePromptsGet(ctx context.Context, req *request) *response {
	var params promptGetParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.respondError(req.ID, errCodeInvalidParams, "invalid params: "+err.Error())
	}

	result, err := s.dispatcher.GetPrompt(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.respondDispatchError(req.ID, err)
	}
	return s.respond(req.ID, result)
}

// --- response helpers ---

func (s *Server) respond(id json.RawMessage, result any) *response {
	return &response{JSONRPC: "2.0", ID: id, Result: result}
}

func (s *Server) respondError(id json.RawMessage, code int, message string) *response {
	return &response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

// respondDispatchError maps dispatcher failures onto JSON-RPC codes. A
// request naming something the catalog does not have, or omitting a
// required argument, is the caller's fault; everything else is internal.
func (s *Server) respondDispatchError(id json.RawMessage, err error) *response {
	var unknown *fvwm.UnknownIdentifierError
	var missing *fvwm.MissingArgumentError
	if errors.As(err, &unknown) || errors.As(err, &missing) {
		return s.respondError(id, errCodeInvalidParams, err.Error())
	}
	return s.respondError(id, errCodeInternal, err.Error())
}

// writeMessage marshals a response (or a batch reply slice) onto one
// NDJSON line.
func (s *Server) writeMessage(ctx context.Context, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf(" [mcp] marshal response%s: %v", logID(ctx), err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data = append(data, '\n')
	if _, err := s.writer.Write(data); err != nil {
		log.Printf(" [mcp] write response%s: %v", logID(ctx), err)
	}
}

// logID formats the correlation id for transport log lines. Empty when the
// message spans several requests (batch replies).
func logID(ctx context.Context) string {
	if id := fvwm.RequestID(ctx); id != "" {
		return " (request " + id + ")"
	}
	return ""
}
