package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/internal/presentation/graph"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/input"
	"github.com/aretw0/tendril/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource exposing the Mermaid diagram of the agent graph.
const GraphURI = "tendril://graph"

// ChatResponse is the structured result of the chat tool.
type ChatResponse struct {
	ThreadID string           `json:"thread_id" jsonschema_description:"Thread the message was appended to"`
	Reply    string           `json:"reply" jsonschema_description:"Content of the last assistant message"`
	Appended []domain.Message `json:"appended" jsonschema_description:"Messages added by this turn"`
}

// Agent defines what the MCP server needs from *tendril.Agent.
type Agent interface {
	Turn(ctx context.Context, threadID string, seed ...domain.Message) (*domain.State, []domain.Message, error)
	Graph() *domain.Graph
}

// Server exposes the registry tools and a chat tool over MCP.
type Server struct {
	agent     Agent
	registry  *registry.Registry
	sanitizer *input.Sanitizer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSanitizer configures how chat input is cleaned.
func WithSanitizer(san *input.Sanitizer) Option {
	return func(s *Server) {
		s.sanitizer = san
	}
}

// NewServer creates a new MCP Server instance.
// A nil registry exposes only the chat tool.
func NewServer(agent Agent, reg *registry.Registry, opts ...Option) *Server {
	s := &Server{
		agent:    agent,
		registry: reg,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sanitizer == nil {
		s.sanitizer = input.NewSanitizer(0)
	}
	s.mcpServer = server.NewMCPServer("tendril-mcp", tendril.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	chatTool := mcp.NewTool("chat",
		mcp.WithDescription("Send a user message to a thread and run the agent until it answers."),
		mcp.WithString("thread_id", mcp.Required(), mcp.Description("Conversation thread to append to")),
		mcp.WithString("message", mcp.Required(), mcp.Description("User message")),
		mcp.WithOutputSchema[ChatResponse](),
	)
	s.mcpServer.AddTool(chatTool, mcp.NewStructuredToolHandler(s.handleChat))

	if s.registry == nil {
		return
	}
	for _, t := range s.registry.Definitions() {
		schema, err := json.Marshal(t.Parameters.JSONSchema())
		if err != nil {
			s.logger.Error("MCP: Tool schema encode failed", "tool", t.Name, "err", err)
			continue
		}
		s.mcpServer.AddTool(mcp.NewToolWithRawSchema(t.Name, t.Description, schema), s.toolHandler(t.Name))
	}
}

// toolHandler runs a registry tool directly, bypassing the model.
func (s *Server) toolHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := s.registry.Execute(ctx, name, request.GetArguments())
		if err != nil {
			return nil, err
		}
		if res.Failed {
			return mcp.NewToolResultError(res.Output), nil
		}
		return mcp.NewToolResultText(res.Output), nil
	}
}

func (s *Server) handleChat(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (ChatResponse, error) {
	threadID, _ := args["thread_id"].(string)
	message, _ := args["message"].(string)
	if threadID == "" {
		return ChatResponse{}, domain.ErrThreadIDRequired
	}

	clean, err := s.sanitizer.SanitizeMessage(message)
	if err != nil {
		s.logger.Warn("MCP Chat: Input rejected", "err", err, "size", len(message))
		return ChatResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	_, appended, err := s.agent.Turn(ctx, threadID, domain.UserMessage(clean))
	if err != nil {
		return ChatResponse{}, fmt.Errorf("chat failed: %w", err)
	}

	resp := ChatResponse{ThreadID: threadID, Appended: appended}
	for i := len(appended) - 1; i >= 0; i-- {
		if appended[i].Role == domain.RoleAssistant {
			resp.Reply = appended[i].Content
			break
		}
	}
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Agent Graph",
		mcp.WithResourceDescription("Mermaid flowchart of the agent graph"),
		mcp.WithMIMEType("text/plain"),
	), s.readGraph)
}

func (s *Server) readGraph(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.agent.Graph(), nil),
		},
	}, nil
}
