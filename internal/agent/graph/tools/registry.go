package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/netsim"
	"github.com/netops-assistant/server/internal/observability"
)

const (
	ToolPing             = "ping"
	ToolCMDB             = "cmdb"
	ToolShowVLANPort     = "show_vlan_port"
	ToolShowVLANPortsAll = "show_vlan_ports_all"
	ToolChangeVLAN       = "change_vlan"
	ToolLookupDocs       = "lookup_docs"
)

// Prober reports whether a host answers.
type Prober interface {
	Reachable(ctx context.Context, host string) bool
}

// Deps are the collaborators the tools call into. Docs and Metrics may be nil.
type Deps struct {
	Network *netsim.Network
	Prober  Prober
	Docs    retriever.Retriever
	Metrics *observability.Collector
}

// Registry is the fixed set of tools exposed to the model, keyed by name.
type Registry struct {
	tools  []tool.InvokableTool
	byName map[string]tool.InvokableTool
}

// NewRegistry builds every tool and wraps it in a guard.
func NewRegistry(deps Deps) (*Registry, error) {
	if deps.Network == nil {
		return nil, fmt.Errorf("tools: network is nil")
	}
	if deps.Prober == nil {
		return nil, fmt.Errorf("tools: prober is nil")
	}

	defs := []definition{
		pingTool(deps.Prober),
		cmdbTool(deps.Network),
		showVLANPortTool(deps.Network),
		showVLANPortsAllTool(deps.Network),
		changeVLANTool(deps.Network),
		lookupDocsTool(deps.Docs),
	}

	r := &Registry{byName: make(map[string]tool.InvokableTool, len(defs))}
	for _, d := range defs {
		g := guard(d, deps.Metrics)
		r.tools = append(r.tools, g)
		r.byName[d.name] = g
	}
	return r, nil
}

// Tools returns the guarded tools in registration order.
func (r *Registry) Tools() []tool.BaseTool {
	out := make([]tool.BaseTool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	return out
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (tool.InvokableTool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Names lists registered tool names alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Infos returns the schema of every registered tool.
func (r *Registry) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	return GetToolInfos(ctx, r.Tools())
}

// GetToolInfos collects Info from each tool, for binding to a chat model.
func GetToolInfos(ctx context.Context, tools []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
