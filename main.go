package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/netops-assistant/server/internal/agent/graph"
	"github.com/netops-assistant/server/internal/agent/graph/nodes"
	"github.com/netops-assistant/server/internal/agent/graph/tools"
	"github.com/netops-assistant/server/internal/agent/model"
	"github.com/netops-assistant/server/internal/agent/repo"
	"github.com/netops-assistant/server/internal/api"
	"github.com/netops-assistant/server/internal/core"
	"github.com/netops-assistant/server/internal/loganalysis"
	"github.com/netops-assistant/server/internal/netsim"
	"github.com/netops-assistant/server/internal/observability"
	"github.com/netops-assistant/server/internal/rag"
	logx "github.com/netops-assistant/server/pkg/logger"
	"github.com/netops-assistant/server/pkg/ping"
	pkgredis "github.com/netops-assistant/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the assistant,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	HTTPAddr    string `envconfig:"HTTP_ADDR"`
	LogsPath    string `envconfig:"LOGS_PATH" default:"./logs/logs.json"`

	// Infrastructure
	Redis pkgredis.Config
	Ping  ping.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Response     model.ResponseModelConfig
	Analysis     model.AnalysisModelConfig
	Prompt       model.ResponsePromptConfig
	Conversation model.ConversationConfig
	RAG          model.RAGConfig
}

var demoQueries = []struct {
	description string
	query       string
}{
	{"Resolve a device name", "What is the IP address of asw1?"},
	{"Inspect a port", "Which VLAN is port Gi0/5 on that switch in?"},
	{"Change a VLAN", "Move Gi0/5 on asw1 to VLAN 20."},
	{"Reject an unsupported VLAN", "Now put it in VLAN 99."},
	{"Check reachability", "Is dsw1 reachable?"},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to process environment config: %v\n", err)
		os.Exit(1)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	conversationRepo, closeRepo := newConversationRepo(ctx, envCfg)
	defer closeRepo()

	models, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:         envCfg.APIKey,
		BaseURL:        envCfg.BaseURL,
		RespConfig:     &envCfg.Response,
		AnalysisConfig: &envCfg.Analysis,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat models")
	}

	docs, err := newDocsIndex(ctx, models, envCfg.RAG)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create knowledge base")
	}

	metrics, err := observability.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to register metrics")
	}

	network := netsim.DefaultNetwork()
	registry, err := tools.NewRegistry(tools.Deps{
		Network: network,
		Prober:  ping.New(envCfg.Ping, nil),
		Docs:    docs,
		Metrics: metrics,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build tool registry")
	}

	runner, err := graph.BuildResponseGraph(ctx, graph.Config{
		ChatModel:        models.Response,
		ModelName:        models.ResponseModelName,
		ResponsePrompt:   envCfg.Prompt,
		Conversation:     envCfg.Conversation,
		ConversationRepo: conversationRepo,
		Tools:            registry,
		Metrics:          metrics,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build graph")
	}

	if envCfg.HTTPAddr == "" {
		runDemo(ctx, runner)
		return
	}

	analyzer, err := loganalysis.NewAnalyzer(models.Analysis)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create log analyzer")
	}

	e := api.NewServer(api.Deps{
		Runner:   runner,
		Network:  network,
		Tools:    registry,
		Docs:     docs,
		DocsPath: envCfg.RAG.DocsPath,
		Logs:     analyzer,
		LogsPath: envCfg.LogsPath,
		Metrics:  metrics,
	})

	go func() {
		logx.Info().Str("addr", envCfg.HTTPAddr).Msg("HTTP server listening")
		if err := e.Start(envCfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("HTTP server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}

// newConversationRepo keeps history in Redis when REDIS_URL is set, in memory otherwise.
func newConversationRepo(ctx context.Context, envCfg AppConfig) (model.ConversationRepository, func()) {
	if !envCfg.Redis.Enabled() {
		logx.Info().Msg("REDIS_URL not set; conversation history kept in memory")
		return repo.NewMemoryConversationRepository(), func() {}
	}

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		logx.Fatal().Err(err).Str("ttl", envCfg.Conversation.TTL).Msg("Invalid CONVERSATION_TTL")
	}

	rdb, err := envCfg.Redis.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
	}
	logx.Info().Msg("Connected to Redis successfully")

	return repo.NewRedisConversationRepository(rdb, ttl), func() { _ = rdb.Close() }
}

// newDocsIndex builds the documentation index. A missing or empty docs
// directory leaves the index unloaded; lookup_docs then reports so.
func newDocsIndex(ctx context.Context, models *nodes.ChatModels, cfg model.RAGConfig) (*rag.Index, error) {
	embedder, err := rag.NewEmbedder(ctx, models.Client, cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}
	splitter, err := rag.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	index := rag.NewIndex(embedder, splitter, cfg.TopK)
	n, err := index.IndexDir(ctx, cfg.DocsPath)
	if err != nil {
		logx.Warn().Err(err).Str("path", cfg.DocsPath).Msg("Knowledge base not indexed")
		return index, nil
	}
	logx.Info().Str("path", cfg.DocsPath).Int("chunks", n).Msg("Knowledge base indexed")
	return index, nil
}

func runDemo(ctx context.Context, runner graph.Runner) {
	conversationID := fmt.Sprintf("demo-%d", time.Now().Unix())
	defer func() {
		if err := runner.Reset(context.Background(), conversationID); err != nil {
			logx.Warn().Err(err).Msg("Failed to clear demo conversation")
		}
	}()

	for i, test := range demoQueries {
		if ctx.Err() != nil {
			return
		}
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)

		response, err := runner.Invoke(ctx, model.QueryInput{
			ConversationID: conversationID,
			Query:          test.query,
		})
		if err != nil {
			logx.Error().Err(err).Int("test", i+1).Msg("Failed to invoke graph")
			continue
		}
		fmt.Printf("Response %d: %s\n", i+1, response)
		fmt.Println("---------------------------------------------")
	}
}
