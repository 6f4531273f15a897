package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const statusURI = "spire://status"

// Agent is the read-only view of a running agent exposed over MCP.
type Agent interface {
	Status() domain.Status
	History(topic domain.Topic) ([]domain.Message, error)
	SharedValue(ctx context.Context, key string) (any, error)
	SharedKeys(ctx context.Context) ([]string, error)
}

// HistoryArgs are the arguments of get_history.
type HistoryArgs struct {
	Topic string `json:"topic"`
}

// Server exposes an agent as an MCP server.
type Server struct {
	agent     Agent
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(agent Agent, version string) *Server {
	s := &Server{
		agent:     agent,
		mcpServer: server.NewMCPServer("spire-mcp", strings.TrimSpace(version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on Stdin/Stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_status",
		mcp.WithDescription("Current state, tick count, last fault and selected map node of the agent."),
		mcp.WithOutputSchema[domain.Status](),
	), mcp.NewStructuredToolHandler(s.handleStatus))

	s.mcpServer.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Conversation history the agent keeps for a topic."),
		mcp.WithString("topic", mcp.Required(), mcp.Description("History topic: map or combat"), mcp.Enum("map", "combat")),
	), mcp.NewTypedToolHandler(s.handleHistory))

	s.mcpServer.AddTool(mcp.NewTool("get_scratch",
		mcp.WithDescription("Read a value from the shared scratch space. Without a key, lists the stored keys."),
		mcp.WithString("key", mcp.Description("Scratch key (optional)")),
	), s.handleScratch)
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Status, error) {
	return s.agent.Status(), nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest, args HistoryArgs) (*mcp.CallToolResult, error) {
	history, err := s.agent.History(domain.Topic(args.Topic))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if history == nil {
		history = []domain.Message{}
	}
	return jsonResult(history)
}

func (s *Server) handleScratch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := request.GetString("key", "")
	if key == "" {
		keys, err := s.agent.SharedKeys(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list keys failed: %v", err)), nil
		}
		if keys == nil {
			keys = []string{}
		}
		return jsonResult(keys)
	}

	value, err := s.agent.SharedValue(ctx, key)
	if errors.Is(err, domain.ErrScratchMiss) {
		return mcp.NewToolResultError(fmt.Sprintf("no scratch value for %q", key)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read failed: %v", err)), nil
	}
	return jsonResult(value)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(statusURI, "Agent Status",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.agent.Status())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      statusURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
