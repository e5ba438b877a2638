package model

// ================ Config ================
type ConversationConfig struct {
	TTL       string `envconfig:"CONVERSATION_TTL" default:"30m"`
	MaxTurns  int    `envconfig:"CONVERSATION_MAX_TURNS" default:"20"`
	MaxTokens int    `envconfig:"CONVERSATION_MAX_TOKENS" default:"2000"`
	Tools     struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"10"`
	}
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.3"`
}

// AnalysisModelConfig configures the model used by log analysis.
type AnalysisModelConfig struct {
	Model       string  `envconfig:"ANALYSIS_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"ANALYSIS_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"ANALYSIS_TEMPERATURE" default:"0.3"`
}

type ResponsePromptConfig struct {
	AssistantRole string `envconfig:"PROMPT_ASSISTANT_ROLE" default:"assistant in a corporate IT infrastructure"`
	Language      string `envconfig:"PROMPT_LANGUAGE" default:"English"`
}

type RAGConfig struct {
	DocsPath       string `envconfig:"RAG_DOCS_PATH" default:"./docs"`
	ChunkSize      int    `envconfig:"RAG_CHUNK_SIZE" default:"500"`
	ChunkOverlap   int    `envconfig:"RAG_CHUNK_OVERLAP" default:"100"`
	TopK           int    `envconfig:"RAG_TOP_K" default:"2"`
	EmbeddingModel string `envconfig:"RAG_EMBEDDING_MODEL" default:"text-embedding-004"`
}
