package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"testing"

	fvwm "github.com/elsanchez/mcp-server-fvwm3"
)

// testDispatcher builds a small catalog with one of everything plus
// deliberately failing entries.
func testDispatcher(t *testing.T) fvwm.Dispatcher {
	t.Helper()
	c := fvwm.NewCatalog()

	err := c.AddTool(fvwm.ToolEntry{
		Descriptor: fvwm.ToolDescriptor{
			Name:        "echo",
			Description: "Echo input",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{"text": map[string]any{"type": "string"}},
				"required":   []string{"text"},
			},
		},
		Required: []string{"text"},
		Call: func(_ context.Context, args map[string]any) (string, error) {
			s, _ := args["text"].(string)
			return "echo: " + s, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = c.AddTool(fvwm.ToolEntry{
		Descriptor: fvwm.ToolDescriptor{Name: "fail", Description: "Always fails"},
		Call: func(context.Context, map[string]any) (string, error) {
			return "", fmt.Errorf("command pipe closed")
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = c.AddResource(fvwm.ResourceEntry{
		Descriptor: fvwm.ResourceDescriptor{
			URI: "fvwm://docs/test", Name: "Test Doc", MimeType: "text/markdown",
		},
		Read: func(context.Context) (string, error) {
			return "# Test\nHello world", nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = c.AddResource(fvwm.ResourceEntry{
		Descriptor: fvwm.ResourceDescriptor{
			URI: "fvwm://state/broken", Name: "Broken", MimeType: "text/plain",
		},
		Read: func(context.Context) (string, error) {
			return "", fmt.Errorf("xprop missing")
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = c.AddPrompt(&fvwm.Template{
		Name:        "greet",
		Description: "Greeting prompt",
		Args: []fvwm.TemplateArg{
			{Name: "who", Description: "whom to greet", Required: true},
		},
		Body: "Say hello to {who}.",
	})
	if err != nil {
		t.Fatal(err)
	}

	return fvwm.NewRouter(c)
}

// testServer creates a Server wired to in-memory reader/writer for testing.
func testServer(t *testing.T, d fvwm.Dispatcher) (*Server, *bytes.Buffer) {
	t.Helper()
	srv := New("test-server", "1.0.0", d)
	var out bytes.Buffer
	srv.writer = &out
	return srv, &out
}

// sendAndReceive writes a JSON-RPC message to the server and returns the response.
func sendAndReceive(t *testing.T, srv *Server, out *bytes.Buffer, msg string) response {
	t.Helper()
	out.Reset()
	srv.reader = strings.NewReader(msg + "\n")
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	var resp response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v (raw: %s)", err, out.String())
	}
	return resp
}

func unmarshalResult(t *testing.T, resp response, into any) {
	t.Helper()
	raw, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
}

func TestInitializeHandshake(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	var result initializeResult
	unmarshalResult(t, resp, &result)

	if result.ProtocolVersion != protocolVersion {
		t.Errorf("protocolVersion = %q, want %q", result.ProtocolVersion, protocolVersion)
	}
	if result.ServerInfo.Name != "test-server" {
		t.Errorf("serverInfo.name = %q, want %q", result.ServerInfo.Name, "test-server")
	}
	if result.Capabilities.Tools == nil {
		t.Error("expected tools capability to be set")
	}
	if result.Capabilities.Resources == nil {
		t.Error("expected resources capability to be set")
	}
	if result.Capabilities.Prompts == nil {
		t.Error("expected prompts capability to be set")
	}
}

func TestInitializeEmptyCatalog(t *testing.T) {
	srv, out := testServer(t, fvwm.NewRouter(fvwm.NewCatalog()))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`)

	var result initializeResult
	unmarshalResult(t, resp, &result)

	if result.Capabilities.Tools != nil {
		t.Error("expected tools capability to be nil for an empty catalog")
	}
	if result.Capabilities.Resources != nil {
		t.Error("expected resources capability to be nil for an empty catalog")
	}
	if result.Capabilities.Prompts != nil {
		t.Error("expected prompts capability to be nil for an empty catalog")
	}
}

func TestPing(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))
	resp := sendAndReceive(t, srv, out, `{"jsonrpc":"2.0","id":42,"method":"ping"}`)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if string(resp.ID) != "42" {
		t.Errorf("id = %s, want 42", resp.ID)
	}
}

func TestToolsList(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	var result toolsListResult
	unmarshalResult(t, resp, &result)

	if len(result.Tools) != 2 {
		t.Fatalf("got %d tools, want 2", len(result.Tools))
	}
	if result.Tools[0].Name != "echo" {
		t.Errorf("tool name = %q, want %q", result.Tools[0].Name, "echo")
	}
	if result.Tools[0].InputSchema["type"] != "object" {
		t.Errorf("schema lost: %+v", result.Tools[0].InputSchema)
	}
}

func TestToolsCall(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hello"}}}`)

	var result fvwm.ToolResult
	unmarshalResult(t, resp, &result)

	if result.IsError {
		t.Error("expected isError=false")
	}
	if len(result.Content) != 1 || result.Content[0].Text != "echo: hello" {
		t.Errorf("unexpected content: %+v", result.Content)
	}
}

func TestToolsCallUnknown(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nonexistent","arguments":{}}}`)

	if resp.Error != nil {
		t.Fatalf("unknown tool leaked into a protocol error: %v", resp.Error)
	}
	var result fvwm.ToolResult
	unmarshalResult(t, resp, &result)

	if !result.IsError {
		t.Error("expected isError=true for unknown tool")
	}
	if !strings.Contains(result.Content[0].Text, "nonexistent") {
		t.Errorf("error text does not name the tool: %q", result.Content[0].Text)
	}
}

func TestToolsCallMissingArgument(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{}}}`)

	if resp.Error != nil {
		t.Fatalf("missing argument leaked into a protocol error: %v", resp.Error)
	}
	var result fvwm.ToolResult
	unmarshalResult(t, resp, &result)

	if !result.IsError {
		t.Error("expected isError=true for missing argument")
	}
	if !strings.Contains(result.Content[0].Text, `"text"`) {
		t.Errorf("error text does not name the argument: %q", result.Content[0].Text)
	}
}

func TestToolsCallFailureStaysInEnvelope(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"fail","arguments":{}}}`)

	if resp.Error != nil {
		t.Fatalf("tool failure leaked into a protocol error: %v", resp.Error)
	}
	var result fvwm.ToolResult
	unmarshalResult(t, resp, &result)

	if !result.IsError {
		t.Error("expected isError=true for failing tool")
	}
	if !strings.Contains(result.Content[0].Text, "command pipe closed") {
		t.Errorf("cause lost: %q", result.Content[0].Text)
	}
}

func TestResourcesList(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out, `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`)

	var result resourcesListResult
	unmarshalResult(t, resp, &result)

	if len(result.Resources) != 2 {
		t.Fatalf("got %d resources, want 2", len(result.Resources))
	}
	if result.Resources[0].URI != "fvwm://docs/test" {
		t.Errorf("uri = %q, want %q", result.Resources[0].URI, "fvwm://docs/test")
	}
}

func TestResourcesRead(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"fvwm://docs/test"}}`)

	var result resourceReadResult
	unmarshalResult(t, resp, &result)

	if len(result.Contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(result.Contents))
	}
	got := result.Contents[0]
	if got.Text != "# Test\nHello world" {
		t.Errorf("text = %q", got.Text)
	}
	if got.URI != "fvwm://docs/test" {
		t.Errorf("uri = %q", got.URI)
	}
	if got.MimeType != "text/markdown" {
		t.Errorf("mimeType = %q", got.MimeType)
	}
}

func TestResourcesReadNotFound(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"fvwm://nonexistent"}}`)

	if resp.Error == nil {
		t.Fatal("expected error for nonexistent resource")
	}
	if resp.Error.Code != errCodeInvalidParams {
		t.Errorf("error code = %d, want %d", resp.Error.Code, errCodeInvalidParams)
	}
	if !strings.Contains(resp.Error.Message, "fvwm://nonexistent") {
		t.Errorf("error message does not name the uri: %q", resp.Error.Message)
	}
}

func TestResourcesReadAdapterFailure(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"fvwm://state/broken"}}`)

	if resp.Error == nil {
		t.Fatal("expected error for failing adapter")
	}
	if resp.Error.Code != errCodeInternal {
		t.Errorf("error code = %d, want %d", resp.Error.Code, errCodeInternal)
	}
}

func TestPromptsList(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out, `{"jsonrpc":"2.0","id":1,"method":"prompts/list"}`)

	var result promptsListResult
	unmarshalResult(t, resp, &result)

	if len(result.Prompts) != 1 {
		t.Fatalf("got %d prompts, want 1", len(result.Prompts))
	}
	p := result.Prompts[0]
	if p.Name != "greet" {
		t.Errorf("name = %q", p.Name)
	}
	if len(p.Arguments) != 1 || p.Arguments[0].Name != "who" || !p.Arguments[0].Required {
		t.Errorf("arguments = %+v", p.Arguments)
	}
}

func TestPromptsGet(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"prompts/get","params":{"name":"greet","arguments":{"who":"the pager"}}}`)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	var result fvwm.PromptResult
	unmarshalResult(t, resp, &result)

	if len(result.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(result.Messages))
	}
	msg := result.Messages[0]
	if msg.Role != "user" {
		t.Errorf("role = %q, want %q", msg.Role, "user")
	}
	if msg.Content.Type != "text" || msg.Content.Text != "Say hello to the pager." {
		t.Errorf("content = %+v", msg.Content)
	}
}

func TestPromptsGetUnknown(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"prompts/get","params":{"name":"scold","arguments":{}}}`)

	if resp.Error == nil {
		t.Fatal("expected error for unknown prompt")
	}
	if resp.Error.Code != errCodeInvalidParams {
		t.Errorf("error code = %d, want %d", resp.Error.Code, errCodeInvalidParams)
	}
}

func TestPromptsGetMissingArgument(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"prompts/get","params":{"name":"greet","arguments":{}}}`)

	if resp.Error == nil {
		t.Fatal("expected error for missing argument")
	}
	if resp.Error.Code != errCodeInvalidParams {
		t.Errorf("error code = %d, want %d", resp.Error.Code, errCodeInvalidParams)
	}
	if !strings.Contains(resp.Error.Message, `"who"`) {
		t.Errorf("error message does not name the argument: %q", resp.Error.Message)
	}
}

func TestUnknownMethod(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out,
		`{"jsonrpc":"2.0","id":1,"method":"unknown/method"}`)

	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != errCodeMethodNotFound {
		t.Errorf("error code = %d, want %d", resp.Error.Code, errCodeMethodNotFound)
	}
}

func TestNotificationNoResponse(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))
	out.Reset()
	srv.reader = strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n")
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output for notification, got: %s", out.String())
	}
}

func TestBatchRequest(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))
	out.Reset()
	srv.reader = strings.NewReader(`[{"jsonrpc":"2.0","id":1,"method":"ping"},{"jsonrpc":"2.0","id":2,"method":"ping"}]` + "\n")
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	// A batch is answered with one JSON array on a single line.
	raw := strings.TrimSpace(out.String())
	if !strings.HasPrefix(raw, "[") {
		t.Fatalf("batch reply is not a JSON array: %s", raw)
	}
	if strings.Contains(raw, "\n") {
		t.Errorf("batch reply spans multiple lines: %q", raw)
	}

	var resps []response
	if err := json.Unmarshal([]byte(raw), &resps); err != nil {
		t.Fatalf("unmarshal batch reply: %v (raw: %s)", err, raw)
	}
	if len(resps) != 2 {
		t.Fatalf("got %d responses, want 2", len(resps))
	}
	for i, resp := range resps {
		if resp.Error != nil {
			t.Errorf("response %d: unexpected error: %v", i, resp.Error)
		}
		if want := fmt.Sprintf("%d", i+1); string(resp.ID) != want {
			t.Errorf("response %d: id = %s, want %s", i, resp.ID, want)
		}
	}
}

func TestBatchSkipsNotifications(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))
	out.Reset()
	srv.reader = strings.NewReader(`[{"jsonrpc":"2.0","method":"notifications/initialized"},{"jsonrpc":"2.0","id":7,"method":"ping"}]` + "\n")
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	var resps []response
	if err := json.Unmarshal(out.Bytes(), &resps); err != nil {
		t.Fatalf("unmarshal batch reply: %v (raw: %s)", err, out.String())
	}
	if len(resps) != 1 {
		t.Fatalf("got %d responses, want 1", len(resps))
	}
	if string(resps[0].ID) != "7" {
		t.Errorf("id = %s, want 7", resps[0].ID)
	}
}

func TestBatchOfOnlyNotificationsIsSilent(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))
	out.Reset()
	srv.reader = strings.NewReader(`[{"jsonrpc":"2.0","method":"notifications/initialized"}]` + "\n")
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got: %s", out.String())
	}
}

func TestEmptyBatch(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))

	resp := sendAndReceive(t, srv, out, `[]`)

	if resp.Error == nil {
		t.Fatal("expected error for empty batch")
	}
	if resp.Error.Code != errCodeInvalidRequest {
		t.Errorf("error code = %d, want %d", resp.Error.Code, errCodeInvalidRequest)
	}
}

func TestParseError(t *testing.T) {
	srv, out := testServer(t, testDispatcher(t))
	out.Reset()
	srv.reader = strings.NewReader("not-json\n")
	srv.Serve(context.Background())

	var resp response
	json.Unmarshal(out.Bytes(), &resp)

	if resp.Error == nil {
		t.Fatal("expected parse error")
	}
	if resp.Error.Code != errCodeParse {
		t.Errorf("error code = %d, want %d", resp.Error.Code, errCodeParse)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("stdout closed") }

func TestWriteFailureLogsRequestID(t *testing.T) {
	var logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	defer log.SetOutput(prev)

	srv := New("test-server", "1.0.0", testDispatcher(t))
	srv.writer = failingWriter{}
	srv.reader = strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}

	out := logs.String()
	if !strings.Contains(out, "write response (request ") {
		t.Errorf("log line does not carry a request id: %q", out)
	}
	if strings.Contains(out, "(request )") {
		t.Errorf("request id is empty: %q", out)
	}
}
