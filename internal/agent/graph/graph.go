package graph

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/graph/conversations"
	"github.com/netops-assistant/server/internal/agent/graph/nodes"
	"github.com/netops-assistant/server/internal/agent/graph/observers"
	"github.com/netops-assistant/server/internal/agent/graph/tools"
	"github.com/netops-assistant/server/internal/agent/model"
	"github.com/netops-assistant/server/internal/observability"
	logx "github.com/netops-assistant/server/pkg/logger"
)

// LimitFallback is returned when the model ends a turn without any text.
const LimitFallback = "I could not finish this request within the allowed number of tool calls. Please narrow it down and try again."

// Runner is a thin wrapper to execute the compiled graph with the public QueryInput.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
	Reset(ctx context.Context, conversationID string) error
}

// Config holds everything needed to compose the full response graph end-to-end.
type Config struct {
	ChatModel        einomodel.ChatModel
	ModelName        string
	ResponsePrompt   model.ResponsePromptConfig
	Conversation     model.ConversationConfig
	ConversationRepo model.ConversationRepository
	Tools            *tools.Registry
	Metrics          *observability.Collector
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModel            einomodel.ChatModel
	ModelName            string
	MessagesManager      *conversations.MessagesManager
	ResponsePromptConfig *model.ResponsePromptConfig
	Tools                []tool.BaseTool
	ToolMaxCalls         int
}

// GraphBuilder handles the construction of the agent conversation graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable  compose.Runnable[model.QueryInput, *schema.Message]
	mm        *conversations.MessagesManager
	metrics   *observability.Collector
	modelName string
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		ConversationID: in.ConversationID,
		Query:          in.Query,
	}, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		r.metrics.ObserveChatTurn(observability.OutcomeFailed)
		return "", err
	}
	r.metrics.ObserveChatTurn(observability.OutcomeOK)
	if out == nil {
		return LimitFallback, nil
	}

	if cost, ok := out.Extra[model.ExtraTurnCostUSD].(float64); ok {
		r.metrics.ObserveCost(r.modelName, cost)
		logx.Debug().Str("conversation_id", in.ConversationID).Float64("total_cost_usd", cost).Msg("Turn cost")
	}

	if strings.TrimSpace(out.Content) == "" {
		return LimitFallback, nil
	}
	return out.Content, nil
}

func (r *graphRunner) Reset(ctx context.Context, conversationID string) error {
	return r.mm.ClearConversation(ctx, conversationID)
}

// BuildResponseGraph binds the tools, builds the graph, and returns a Runner.
func BuildResponseGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("tool registry is nil")
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModel:            cfg.ChatModel,
		ModelName:            cfg.ModelName,
		MessagesManager:      mm,
		ResponsePromptConfig: &cfg.ResponsePrompt,
		Tools:                cfg.Tools.Tools(),
		ToolMaxCalls:         cfg.Conversation.Tools.MaxCalls,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Response graph built successfully")
	return &graphRunner{runnable: runnable, mm: mm, metrics: cfg.Metrics, modelName: cfg.ModelName}, nil
}

// BuildGraph constructs and returns the compiled agent graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModel == nil {
		return nil, fmt.Errorf("chat model is not initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.ResponsePromptConfig == nil {
		return nil, fmt.Errorf("response prompt config is nil")
	}
	if len(config.Tools) == 0 {
		return nil, fmt.Errorf("no tools configured")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}
	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// setupTools binds the tools to the response model and adds the tools node
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	toolInfos, err := tools.GetToolInfos(ctx, b.config.Tools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return fmt.Errorf("failed to get tool infos: %w", err)
	}

	if err := nodes.BindTools(ctx, b.config.ChatModel, toolInfos); err != nil {
		return fmt.Errorf("failed to bind tools to response model: %w", err)
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:                b.config.Tools,
		ExecuteSequentially:  true,
		UnknownToolsHandler:  unknownToolHandler,
		ToolArgumentsHandler: tools.SanitizeArguments,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}

	return b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.ToolMaxCalls)),
	)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	if err := b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.MessagesManager, b.config.ResponsePromptConfig),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeInputConverter, err)
	}

	if err := b.graph.AddChatModelNode(nodes.NodeResponseChatModel,
		b.config.ChatModel,
		compose.WithStatePreHandler(nodes.NewResponseChatModelPreHandler(b.config.ToolMaxCalls)),
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(b.config.MessagesManager, b.config.ModelName)),
	); err != nil {
		return fmt.Errorf("add %s: %w", nodes.NodeResponseChatModel, err)
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeResponseChatModel},
		{nodes.NodeToolExecutor, nodes.NodeResponseChatModel},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeResponseChatModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Limit total run steps to avoid infinite loops in branching or tool retries
	maxSteps := 10 + nodes.DefaultMaxToolCalls*2
	if b.config.ToolMaxCalls > 0 {
		maxSteps = 10 + b.config.ToolMaxCalls*2
	}
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

// unknownToolHandler answers hallucinated or malformed tool calls with a
// structured result the model can recover from.
func unknownToolHandler(ctx context.Context, name, input string) (string, error) {
	logx.Warn().
		Str("tool_name", name).
		Str("arguments", input).
		Msg("Unknown or invalid tool call; returning fallback result")
	return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
}
