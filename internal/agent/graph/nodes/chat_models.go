package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/netops-assistant/server/internal/agent/model"
	logx "github.com/netops-assistant/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey         string
	BaseURL        string
	RespConfig     *model.ResponseModelConfig
	AnalysisConfig *model.AnalysisModelConfig
}

// ChatModels holds the tool-calling response model and the log analysis model.
type ChatModels struct {
	Client            *genai.Client
	Response          *gemini.ChatModel
	Analysis          *gemini.ChatModel
	ResponseModelName string
	AnalysisModelName string
}

// NewGenAIClient creates the Gemini API client shared by chat models and embeddings.
func NewGenAIClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

// NewChatModels creates the response and analysis chat models with the given configuration
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.RespConfig == nil || config.AnalysisConfig == nil {
		return nil, fmt.Errorf("chat model config is incomplete")
	}

	client, err := NewGenAIClient(ctx, config.APIKey, config.BaseURL)
	if err != nil {
		return nil, err
	}

	chatModelResponse, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.RespConfig.Model,
		Temperature: &config.RespConfig.Temperature,
		MaxTokens:   &config.RespConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Response model")
		return nil, fmt.Errorf("error creating Response model: %w", err)
	}

	// severity answers are short JSON; thinking only adds latency
	chatModelAnalysis, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.AnalysisConfig.Model,
		Temperature: &config.AnalysisConfig.Temperature,
		MaxTokens:   &config.AnalysisConfig.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Analysis model")
		return nil, fmt.Errorf("error creating Analysis model: %w", err)
	}

	return &ChatModels{
		Client:            client,
		Response:          chatModelResponse,
		Analysis:          chatModelAnalysis,
		ResponseModelName: config.RespConfig.Model,
		AnalysisModelName: config.AnalysisConfig.Model,
	}, nil
}

// BindTools binds tools to a tool-calling chat model
func BindTools(ctx context.Context, cm einomodel.ChatModel, tools []*schema.ToolInfo) error {
	if err := cm.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Int("tools", len(tools)).Msg("Successfully bound tools to response model")
	return nil
}
