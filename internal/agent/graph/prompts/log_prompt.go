package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/log_severity.txt
var logSeverityPrompt string

//go:embed template/log_explain.txt
var logExplainPrompt string

// RenderLogSeverity builds the messages asking the model to rate one log event.
func RenderLogSeverity(ctx context.Context, event string) ([]*schema.Message, error) {
	return renderLogMessages(ctx, logSeverityPrompt, event)
}

// RenderLogExplain builds the messages asking the model to explain one log event.
func RenderLogExplain(ctx context.Context, event string) ([]*schema.Message, error) {
	return renderLogMessages(ctx, logExplainPrompt, event)
}

func renderLogMessages(ctx context.Context, system, event string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(system),
		schema.UserMessage("{{.Event}}"),
	)
	msgs, err := tpl.Format(ctx, map[string]any{"Event": event})
	if err != nil {
		return nil, fmt.Errorf("log prompt render: %w", err)
	}
	if len(msgs) != 2 {
		return nil, fmt.Errorf("log prompt render: got %d messages", len(msgs))
	}
	return msgs, nil
}
