package tool

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	contractx "github.com/wanderkit/concierge/agent/contract"
)

func newEchoServer() *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer("EchoServer", "test",
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	srv.AddTool(mcp.NewTool("echo",
		mcp.WithDescription("Echo the message back."),
		mcp.WithString("message", mcp.Required(), mcp.Description("Text to echo")),
		mcp.WithString("tone", mcp.Description("Optional tone")),
	), func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("echo: " + req.GetString("message", "")), nil
	})
	srv.AddTool(mcp.NewTool("always_fails",
		mcp.WithDescription("Always returns an error result."),
	), func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("deliberate failure"), nil
	})
	return srv
}

func connect(t *testing.T, name string) *Gateway {
	t.Helper()
	g := NewGateway("gateway-test", "0.0.0")
	t.Cleanup(g.Close)
	if err := g.ConnectInProcess(context.Background(), name, newEchoServer()); err != nil {
		t.Fatalf("ConnectInProcess: %v", err)
	}
	return g
}

func TestGatewayAdaptsSchemasToStrictMode(t *testing.T) {
	g := connect(t, "echo")

	defs := g.Tools("echo")
	if len(defs) != 2 {
		t.Fatalf("tools = %d, want 2", len(defs))
	}

	var echoDef *contractx.ToolDef
	for i := range defs {
		if defs[i].Name == "echo" {
			echoDef = &defs[i]
		}
	}
	if echoDef == nil {
		t.Fatal("echo tool missing")
	}

	if echoDef.Schema["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v", echoDef.Schema["additionalProperties"])
	}
	// Optional parameters become required under strict mode.
	want := []string{"message", "tone"}
	if got, ok := echoDef.Schema["required"].([]string); !ok || !reflect.DeepEqual(got, want) {
		t.Errorf("required = %v, want %v", echoDef.Schema["required"], want)
	}
}

func TestGatewayInvokeRoundTrip(t *testing.T) {
	g := connect(t, "echo")

	defs := g.Tools("echo")
	var invoke contractx.ToolFunc
	for _, d := range defs {
		if d.Name == "echo" {
			invoke = d.Invoke
		}
	}

	res, err := invoke(context.Background(), map[string]any{"message": "hello"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if res.IsError {
		t.Errorf("IsError = true, content %q", res.Content)
	}
	if res.Content != "echo: hello" {
		t.Errorf("Content = %q", res.Content)
	}
}

func TestGatewayPropagatesErrorResults(t *testing.T) {
	g := connect(t, "echo")

	var invoke contractx.ToolFunc
	for _, d := range g.Tools("echo") {
		if d.Name == "always_fails" {
			invoke = d.Invoke
		}
	}

	res, err := invoke(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !res.IsError {
		t.Error("IsError = false, want true")
	}
	if res.Content != "deliberate failure" {
		t.Errorf("Content = %q", res.Content)
	}
}

func TestGatewayUnknownServer(t *testing.T) {
	g := NewGateway("gateway-test", "0.0.0")
	if defs := g.Tools("ghost"); defs != nil {
		t.Errorf("Tools(ghost) = %v, want nil", defs)
	}
	_, err := g.call(context.Background(), "ghost", "echo", nil)
	if !errors.Is(err, contractx.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestSplitCommandLine(t *testing.T) {
	cases := []struct {
		in   string
		want []string
		err  bool
	}{
		{in: "go run ./cmd/flight-server", want: []string{"go", "run", "./cmd/flight-server"}},
		{in: `python "my server.py" --port 8080`, want: []string{"python", "my server.py", "--port", "8080"}},
		{in: "cmd 'single quoted arg'", want: []string{"cmd", "single quoted arg"}},
		{in: `cmd escaped\ space`, want: []string{"cmd", "escaped space"}},
		{in: "  spaced   out  ", want: []string{"spaced", "out"}},
		{in: `cmd "unterminated`, err: true},
		{in: `cmd trailing\`, err: true},
	}
	for _, tc := range cases {
		got, err := splitCommandLine(tc.in)
		if tc.err {
			if err == nil {
				t.Errorf("splitCommandLine(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitCommandLine(%q): %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCommandLine(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
