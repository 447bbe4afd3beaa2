// Package tool binds MCP tool servers into the agent runtime. Each connected
// server contributes a set of ToolDefs whose input schemas have already been
// rewritten to strict mode; tool calls are forwarded verbatim.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	contractx "github.com/wanderkit/concierge/agent/contract"
	schemax "github.com/wanderkit/concierge/agent/schema"
)

type Gateway struct {
	clientName    string
	clientVersion string

	mu    sync.Mutex
	conns map[string]*conn
}

type conn struct {
	client *mcpclient.Client
	defs   []contractx.ToolDef
}

func NewGateway(clientName, clientVersion string) *Gateway {
	return &Gateway{
		clientName:    clientName,
		clientVersion: clientVersion,
		conns:         make(map[string]*conn),
	}
}

// ConnectStdio launches the server command and registers its tools under the
// given name.
func (g *Gateway) ConnectStdio(ctx context.Context, name, command string, env []string) error {
	parts, err := splitCommandLine(command)
	if err != nil {
		return fmt.Errorf("%w: parse server command %q: %v", contractx.ErrValidation, command, err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("%w: server command is empty", contractx.ErrValidation)
	}

	c, err := mcpclient.NewStdioMCPClient(parts[0], env, parts[1:]...)
	if err != nil {
		return fmt.Errorf("%w: start server %s: %v", contractx.ErrUpstream, name, err)
	}
	return g.register(ctx, name, c)
}

// ConnectSSE attaches to an already-running server over server-sent events.
func (g *Gateway) ConnectSSE(ctx context.Context, name, url string) error {
	c, err := mcpclient.NewSSEMCPClient(url)
	if err != nil {
		return fmt.Errorf("%w: sse client for %s: %v", contractx.ErrUpstream, name, err)
	}
	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("%w: connect to %s: %v", contractx.ErrUpstream, name, err)
	}
	return g.register(ctx, name, c)
}

// ConnectInProcess registers a server living in the same process. Used by
// tests; production wiring is stdio or SSE.
func (g *Gateway) ConnectInProcess(ctx context.Context, name string, srv *mcpserver.MCPServer) error {
	c, err := mcpclient.NewInProcessClient(srv)
	if err != nil {
		return fmt.Errorf("%w: in-process client for %s: %v", contractx.ErrUpstream, name, err)
	}
	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("%w: start in-process client for %s: %v", contractx.ErrUpstream, name, err)
	}
	return g.register(ctx, name, c)
}

func (g *Gateway) register(ctx context.Context, name string, c *mcpclient.Client) error {
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: g.clientName, Version: g.clientVersion}

	if _, err := c.Initialize(ctx, initReq); err != nil {
		c.Close()
		return fmt.Errorf("%w: initialize %s: %v", contractx.ErrUpstream, name, err)
	}

	listed, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		c.Close()
		return fmt.Errorf("%w: list tools on %s: %v", contractx.ErrUpstream, name, err)
	}

	defs := make([]contractx.ToolDef, 0, len(listed.Tools))
	for _, t := range listed.Tools {
		toolName := t.Name
		defs = append(defs, contractx.ToolDef{
			Name:        toolName,
			Description: t.Description,
			Schema:      schemax.Strict(inputSchemaMap(t)),
			Invoke: func(ctx context.Context, args map[string]any) (contractx.ToolResult, error) {
				return g.call(ctx, name, toolName, args)
			},
		})
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if old, ok := g.conns[name]; ok {
		old.client.Close()
	}
	g.conns[name] = &conn{client: c, defs: defs}
	log.Debug().Str("server", name).Int("tools", len(defs)).Msg("tool server connected")
	return nil
}

// Tools returns the adapted tool definitions of one connected server.
func (g *Gateway) Tools(name string) []contractx.ToolDef {
	g.mu.Lock()
	defer g.mu.Unlock()
	cn, ok := g.conns[name]
	if !ok {
		return nil
	}
	return cn.defs
}

func (g *Gateway) call(ctx context.Context, server, tool string, args map[string]any) (contractx.ToolResult, error) {
	g.mu.Lock()
	cn, ok := g.conns[server]
	g.mu.Unlock()
	if !ok {
		return contractx.ToolResult{}, fmt.Errorf("%w: server %s is not connected", contractx.ErrValidation, server)
	}

	callReq := mcp.CallToolRequest{}
	callReq.Params.Name = tool
	callReq.Params.Arguments = args

	res, err := cn.client.CallTool(ctx, callReq)
	if err != nil {
		return contractx.ToolResult{}, fmt.Errorf("%w: call %s on %s: %v", contractx.ErrUpstream, tool, server, err)
	}

	return contractx.ToolResult{
		Tool:    tool,
		Content: textContent(res),
		IsError: res.IsError,
	}, nil
}

// Close shuts every connection down; stdio servers exit with their pipe.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for name, cn := range g.conns {
		if err := cn.client.Close(); err != nil {
			log.Warn().Err(err).Str("server", name).Msg("close tool server")
		}
	}
	g.conns = make(map[string]*conn)
}

func inputSchemaMap(t mcp.Tool) map[string]any {
	raw, err := json.Marshal(t)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var wire struct {
		InputSchema map[string]any `json:"inputSchema"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil || wire.InputSchema == nil {
		return map[string]any{"type": "object"}
	}
	return wire.InputSchema
}

func textContent(res *mcp.CallToolResult) string {
	var sb strings.Builder
	for _, item := range res.Content {
		if tc, ok := item.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

// splitCommandLine splits a configured server command into argv, honoring
// quotes and backslash escapes.
func splitCommandLine(input string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		escape  bool
	)
	for _, r := range input {
		switch {
		case escape:
			current.WriteRune(r)
			escape = false
		case r == '\\':
			escape = true
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
		case r == ' ' || r == '\t' || r == '\n':
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if escape {
		return nil, fmt.Errorf("unterminated escape sequence")
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args, nil
}
