package loganalysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/netops-assistant/server/internal/agent/graph/prompts"
	logx "github.com/netops-assistant/server/pkg/logger"
)

// Analyzer asks a chat model to rate and explain events.
type Analyzer struct {
	chat einomodel.BaseChatModel
}

func NewAnalyzer(chat einomodel.BaseChatModel) (*Analyzer, error) {
	if chat == nil {
		return nil, fmt.Errorf("analysis chat model is nil")
	}
	return &Analyzer{chat: chat}, nil
}

type severityAnswer struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ClassifySeverity returns a copy of events with Severity set. Events the
// model could not rate get SeverityUnknown; one failure does not stop the rest.
func (a *Analyzer) ClassifySeverity(ctx context.Context, events []Event) []Event {
	out := append([]Event(nil), events...)
	for i := range out {
		sev, err := a.Rate(ctx, out[i])
		if err != nil {
			logx.Warn().Str("event_type", out[i].EventType).Err(err).Msg("Severity rating failed")
			sev = SeverityUnknown
		}
		out[i].Severity = sev
		if ctx.Err() != nil {
			for j := i + 1; j < len(out); j++ {
				out[j].Severity = SeverityUnknown
			}
			break
		}
	}
	return out
}

// Rate asks the model for the severity of a single event.
func (a *Analyzer) Rate(ctx context.Context, ev Event) (Severity, error) {
	msgs, err := prompts.RenderLogSeverity(ctx, ev.Describe())
	if err != nil {
		return SeverityUnknown, err
	}
	resp, err := a.chat.Generate(ctx, msgs)
	if err != nil {
		return SeverityUnknown, fmt.Errorf("generate: %w", err)
	}
	if resp == nil {
		return SeverityUnknown, fmt.Errorf("generate: empty response")
	}
	return parseSeverityAnswer(resp.Content)
}

// Explain asks the model what the event means and what to do about it.
func (a *Analyzer) Explain(ctx context.Context, ev Event) (string, error) {
	msgs, err := prompts.RenderLogExplain(ctx, ev.Describe())
	if err != nil {
		return "", err
	}
	resp, err := a.chat.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("generate: empty response")
	}
	return strings.TrimSpace(resp.Content), nil
}

// parseSeverityAnswer extracts the JSON object from the answer, tolerating
// code fences and surrounding prose.
func parseSeverityAnswer(content string) (Severity, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return SeverityUnknown, fmt.Errorf("no JSON object in answer %q", content)
	}
	var ans severityAnswer
	if err := json.Unmarshal([]byte(content[start:end+1]), &ans); err != nil {
		return SeverityUnknown, fmt.Errorf("decode answer: %w", err)
	}
	sev, ok := ParseSeverity(ans.Severity)
	if !ok {
		return SeverityUnknown, fmt.Errorf("unexpected severity %q", ans.Severity)
	}
	return sev, nil
}
