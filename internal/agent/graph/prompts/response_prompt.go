package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/graph/tools"
	"github.com/netops-assistant/server/internal/agent/model"
)

//go:embed template/response_prompt.txt
var coreSystemPrompt string

// RenderResponseSystem renders the assistant system prompt and triggers prompt callbacks.
func RenderResponseSystem(ctx context.Context, config model.ResponsePromptConfig) (string, error) {
	language := config.Language
	if language == "" {
		language = "English"
	}
	role := config.AssistantRole
	if role == "" {
		role = "assistant in a corporate IT infrastructure"
	}

	// Render via Eino prompt component (Go template) to both format and emit callbacks
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(coreSystemPrompt),
	)
	vars := map[string]any{
		"AssistantRole":        role,
		"Language":             language,
		"PingTool":             tools.ToolPing,
		"CMDBTool":             tools.ToolCMDB,
		"ShowVLANPortTool":     tools.ToolShowVLANPort,
		"ShowVLANPortsAllTool": tools.ToolShowVLANPortsAll,
		"ChangeVLANTool":       tools.ToolChangeVLAN,
		"DocsTool":             tools.ToolLookupDocs,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("response prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("response prompt render: empty result")
	}
	return msgs[0].Content, nil
}
