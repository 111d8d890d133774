// Package http exposes an agent over a JSON REST API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/internal/presentation/graph"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/input"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

// Agent is the part of *tendril.Agent the server needs.
type Agent interface {
	Turn(ctx context.Context, threadID string, seed ...domain.Message) (*domain.State, []domain.Message, error)
	History(ctx context.Context, threadID string) (*domain.State, error)
	Reset(ctx context.Context, threadID string) error
	Threads(ctx context.Context) ([]string, error)
	Graph() *domain.Graph
}

// Server implements the REST handlers.
type Server struct {
	agent     Agent
	tools     []domain.Tool
	metrics   http.Handler
	sanitizer *input.Sanitizer
	streams   *StreamManager
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithTools lists the tools reported by GET /tools.
func WithTools(tools []domain.Tool) Option {
	return func(s *Server) {
		s.tools = tools
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithSanitizer configures the input sanitizer.
func WithSanitizer(san *input.Sanitizer) Option {
	return func(s *Server) {
		s.sanitizer = san
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates the handler set for agent.
func NewServer(agent Agent, opts ...Option) *Server {
	s := &Server{
		agent:  agent,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sanitizer == nil {
		s.sanitizer = input.NewSanitizer(0)
	}
	s.streams = NewStreamManager(s.logger)
	return s
}

// Streams returns the SSE fan-out used by the server.
func (s *Server) Streams() *StreamManager {
	return s.streams
}

// NewHandler creates the HTTP handler for agent. Requests are validated
// against the embedded OpenAPI document.
func NewHandler(agent Agent, opts ...Option) (http.Handler, error) {
	return NewServer(agent, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() (http.Handler, error) {
	doc, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(validate)

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(Spec())
	})
	r.Get("/tools", s.ListTools)
	r.Get("/graph", s.GetGraph)
	r.Get("/threads", s.ListThreads)
	r.Get("/threads/{thread_id}", s.GetThread)
	r.Delete("/threads/{thread_id}", s.DeleteThread)
	r.Post("/threads/{thread_id}/invoke", s.Invoke)
	r.Get("/threads/{thread_id}/events", s.SubscribeEvents)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r, nil
}

func threadIDParam(r *http.Request) (string, error) {
	var threadID string
	err := runtime.BindStyledParameterWithOptions("simple", "thread_id", chi.URLParam(r, "thread_id"), &threadID,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrThreadIDRequired, err)
	}
	if threadID == "" {
		return "", domain.ErrThreadIDRequired
	}
	return threadID, nil
}

type inputMessage struct {
	Role    domain.Role `json:"role"`
	Content string      `json:"content"`
}

type invokeRequest struct {
	Input    string         `json:"input,omitempty"`
	Messages []inputMessage `json:"messages,omitempty"`
}

type invokeResponse struct {
	ThreadID string           `json:"thread_id"`
	Messages []domain.Message `json:"messages"`
	Appended []domain.Message `json:"appended"`
}

// seeds turns the request body into sanitized user messages.
func (s *Server) seeds(body invokeRequest) ([]domain.Message, error) {
	var raw []string
	if body.Input != "" {
		raw = append(raw, body.Input)
	}
	for _, m := range body.Messages {
		raw = append(raw, m.Content)
	}
	if len(raw) == 0 {
		return nil, input.ErrEmptyInput
	}

	out := make([]domain.Message, 0, len(raw))
	for _, text := range raw {
		clean, err := s.sanitizer.SanitizeMessage(text)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.UserMessage(clean))
	}
	return out, nil
}

// Invoke handles POST /threads/{thread_id}/invoke.
func (s *Server) Invoke(w http.ResponseWriter, r *http.Request) {
	threadID, err := threadIDParam(r)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}

	var body invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid request body: %w", err))
		return
	}
	seeds, err := s.seeds(body)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}

	state, appended, err := s.agent.Turn(r.Context(), threadID, seeds...)
	s.broadcast(threadID, appended)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, invokeResponse{
		ThreadID: threadID,
		Messages: state.Messages,
		Appended: appended,
	})
}

func (s *Server) broadcast(threadID string, appended []domain.Message) {
	if len(appended) == 0 || s.streams.Subscribers(threadID) == 0 {
		return
	}
	payload, err := json.Marshal(domain.StateDiff{SessionID: threadID, Appended: appended})
	if err != nil {
		s.logger.Error("Diff encode failed", "thread_id", threadID, "err", err)
		return
	}
	s.streams.Broadcast(threadID, string(payload))
}

// GetThread handles GET /threads/{thread_id}.
func (s *Server) GetThread(w http.ResponseWriter, r *http.Request) {
	threadID, err := threadIDParam(r)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	state, err := s.agent.History(r.Context(), threadID)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// DeleteThread handles DELETE /threads/{thread_id}.
func (s *Server) DeleteThread(w http.ResponseWriter, r *http.Request) {
	threadID, err := threadIDParam(r)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	if err := s.agent.Reset(r.Context(), threadID); err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListThreads handles GET /threads.
func (s *Server) ListThreads(w http.ResponseWriter, r *http.Request) {
	ids, err := s.agent.Threads(r.Context())
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"threads": ids})
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ListTools handles GET /tools.
func (s *Server) ListTools(w http.ResponseWriter, _ *http.Request) {
	out := make([]toolInfo, 0, len(s.tools))
	for _, t := range s.tools {
		out = append(out, toolInfo{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters.JSONSchema(),
		})
	}
	writeJSON(w, http.StatusOK, map[string][]toolInfo{"tools": out})
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.agent.Graph(), nil)))
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SubscribeEvents handles GET /threads/{thread_id}/events (SSE).
// Each event carries the domain.StateDiff of one invocation.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	threadID, err := threadIDParam(r)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal", errors.New("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(threadID)
	defer cancel()
	s.logger.Debug("SSE: Subscribed", "thread_id", threadID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE: Client disconnected", "thread_id", threadID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
