package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/model"
	errx "github.com/netops-assistant/server/internal/core/error"
	"github.com/netops-assistant/server/internal/observability"
	logx "github.com/netops-assistant/server/pkg/logger"
)

// ToolFailedCode marks a tool result that carries an error instead of data.
const ToolFailedCode = "tool_failed"

// definition is a tool plus the parameter table its schema was built from.
type definition struct {
	name   string
	params map[string]*schema.ParameterInfo
	tool   tool.InvokableTool
}

func (d definition) required() []string {
	var req []string
	for k, p := range d.params {
		if p.Required {
			req = append(req, k)
		}
	}
	sort.Strings(req)
	return req
}

// guardedTool checks required arguments, turns errors into a failure payload
// for the model and records metrics.
type guardedTool struct {
	name     string
	required []string
	inner    tool.InvokableTool
	metrics  *observability.Collector
}

func guard(d definition, metrics *observability.Collector) *guardedTool {
	return &guardedTool{
		name:     d.name,
		required: d.required(),
		inner:    d.tool,
		metrics:  metrics,
	}
}

func (g *guardedTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return g.inner.Info(ctx)
}

func (g *guardedTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	start := time.Now()
	out, err := g.run(ctx, argumentsInJSON, opts...)
	outcome := observability.OutcomeOK
	if err != nil {
		outcome = observability.OutcomeFailed
		logx.Warn().
			Str("tool_name", g.name).
			Str("arguments", argumentsInJSON).
			Int("status", errx.StatusOf(err)).
			Err(err).
			Msg("Tool call failed")
		out = FailureJSON(g.name, err)
	}
	g.metrics.ObserveTool(g.name, outcome, time.Since(start).Seconds())
	return out, nil
}

func (g *guardedTool) run(ctx context.Context, args string, opts ...tool.Option) (string, error) {
	if err := checkRequired(args, g.required); err != nil {
		return "", err
	}
	return g.inner.InvokableRun(ctx, args, opts...)
}

func checkRequired(args string, required []string) error {
	if strings.TrimSpace(args) == "" {
		args = "{}"
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(args), &m); err != nil {
		return errx.InvalidArgument(fmt.Errorf("arguments are not a JSON object: %w", err))
	}
	for _, k := range required {
		v, ok := m[k]
		if !ok || v == nil {
			return errx.InvalidArgument(fmt.Errorf("missing required argument %q", k))
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return errx.InvalidArgument(fmt.Errorf("argument %q is empty", k))
		}
	}
	return nil
}

// FailureJSON renders the payload returned to the model when a tool fails.
func FailureJSON(name string, err error) string {
	b, mErr := json.Marshal(model.ToolFailure{
		Error:   ToolFailedCode,
		Tool:    name,
		Message: err.Error(),
	})
	if mErr != nil {
		return fmt.Sprintf(`{"error":%q,"tool":%q}`, ToolFailedCode, name)
	}
	return string(b)
}
