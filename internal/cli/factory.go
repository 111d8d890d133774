// Package cli wires configuration into a ready-to-run agent and implements
// the interactive commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/config"
	"github.com/aretw0/tendril/internal/logging"
	"github.com/aretw0/tendril/pkg/adapters/duckduckgo"
	"github.com/aretw0/tendril/pkg/adapters/loam"
	"github.com/aretw0/tendril/pkg/adapters/openai"
	"github.com/aretw0/tendril/pkg/agent"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/input"
	"github.com/aretw0/tendril/pkg/observability"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/registry"
	"github.com/aretw0/tendril/pkg/tools"
)

// ErrModelUnavailable is returned by the placeholder model used by commands
// that never talk to the model.
var ErrModelUnavailable = errors.New("model not configured for this command")

// App holds everything a command needs.
type App struct {
	Config    config.Config
	Mode      string
	Agent     *tendril.Agent
	Registry  *registry.Registry
	Metrics   *observability.Metrics
	Store     ports.StateStore
	Sanitizer *input.Sanitizer
	Logger    *slog.Logger

	closers []io.Closer
}

// Options adjusts Build.
type Options struct {
	// Mode overrides cfg.Agent.Mode.
	Mode string
	// Model replaces the OpenAI model. Tests and offline commands use it.
	Model ports.ChatModel
	// Searcher replaces the DuckDuckGo searcher.
	Searcher ports.Searcher
	// Logger replaces the logger built from cfg.Log.
	Logger *slog.Logger
}

// NewLogger builds the application logger from the log section.
func NewLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(w, level, cfg.JSON), nil
}

// Build assembles the agent described by cfg. Without opts.Model the OpenAI
// credential is mandatory.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode := cfg.Agent.Mode
	if opts.Mode != "" {
		mode = opts.Mode
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	app := &App{
		Config:    cfg,
		Mode:      mode,
		Metrics:   observability.NewMetrics(),
		Sanitizer: input.NewSanitizer(cfg.Agent.MaxInputSize),
		Logger:    logger,
	}

	prompt, err := resolvePrompt(ctx, cfg.Agent, mode)
	if err != nil {
		return nil, err
	}

	model := opts.Model
	if model == nil {
		if model, err = newModel(cfg, mode, prompt, logger); err != nil {
			return nil, err
		}
	}

	searcher := opts.Searcher
	if searcher == nil {
		searcher = newSearcher(cfg.Search)
	}
	app.Registry, err = tools.NewRegistry(searcher, registry.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var graphOpts []agent.GraphOption
	if prompt != nil {
		graphOpts = append(graphOpts, agent.WithInstruction(prompt.Instruction))
	}
	var graph *domain.Graph
	switch mode {
	case config.ModeChat:
		graph, err = agent.NewConversationGraph(model, graphOpts...)
	case config.ModeTools:
		graph, err = agent.NewToolGraph(model, app.Registry, graphOpts...)
	default:
		err = fmt.Errorf("unknown agent mode %q", mode)
	}
	if err != nil {
		return nil, err
	}

	stores, err := NewStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	app.Store = stores.Store
	if stores.Closer != nil {
		app.closers = append(app.closers, stores.Closer)
	}

	agentOpts := []tendril.Option{
		tendril.WithStore(stores.Store),
		tendril.WithLogger(logger),
		tendril.WithLifecycleHooks(observability.Combine(
			observability.LoggingHooks(logger),
			app.Metrics.Hooks(),
		)),
		tendril.WithMaxRounds(cfg.Agent.MaxRounds),
	}
	if stores.Locker != nil {
		agentOpts = append(agentOpts,
			tendril.WithLocker(stores.Locker),
			tendril.WithLockTTL(cfg.Store.Redis.LockTTL),
		)
	}

	app.Agent, err = tendril.New(graph, agentOpts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	logger.Debug("Agent ready", "mode", mode, "store", cfg.Store.Driver, "tools", len(app.Registry.Definitions()))
	return app, nil
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OfflineModel fails every call. Commands that only inspect threads or the
// graph build the agent with it so no credential is needed.
func OfflineModel() ports.ChatModel {
	return ports.ChatModelFunc(func(context.Context, []domain.Message, []domain.Tool) (domain.Message, error) {
		return domain.Message{}, ErrModelUnavailable
	})
}

func newModel(cfg config.Config, mode string, prompt *domain.Prompt, logger *slog.Logger) (ports.ChatModel, error) {
	if err := cfg.RequireCredential(); err != nil {
		return nil, err
	}

	name := cfg.Model.Name
	temperature := cfg.Temperature(mode)
	if prompt != nil {
		if prompt.Model != "" {
			name = prompt.Model
		}
		if prompt.Temperature != nil {
			temperature = *prompt.Temperature
		}
	}

	opts := []openai.Option{
		openai.WithModel(name),
		openai.WithTemperature(temperature),
		openai.WithLogger(logger),
	}
	if cfg.Model.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Model.BaseURL))
	}
	return openai.New(cfg.Model.APIKey, opts...), nil
}

func newSearcher(cfg config.SearchConfig) ports.Searcher {
	var opts []duckduckgo.Option
	if cfg.Endpoint != "" {
		opts = append(opts, duckduckgo.WithEndpoint(cfg.Endpoint))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, duckduckgo.WithTimeout(cfg.Timeout))
	}
	return duckduckgo.New(opts...)
}

// resolvePrompt loads the instruction override from the prompt library.
// Without a prompt_dir the built-in instruction is used. With one, the
// prompt named agent.prompt, or the mode name, is looked up; a missing
// mode-named prompt falls back to the built-in instruction.
func resolvePrompt(ctx context.Context, cfg config.AgentConfig, mode string) (*domain.Prompt, error) {
	if cfg.PromptDir == "" {
		return nil, nil
	}
	loader, err := loam.Open(cfg.PromptDir)
	if err != nil {
		return nil, err
	}

	name := cfg.Prompt
	if name == "" {
		name = mode
	}
	p, err := loader.GetPrompt(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrPromptNotFound) && cfg.Prompt == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load prompt %q: %w", name, err)
	}
	return &p, nil
}
