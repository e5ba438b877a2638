package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/model"
	"github.com/netops-assistant/server/internal/netsim"
)

func pingTool(p Prober) definition {
	params := map[string]*schema.ParameterInfo{
		"ip": ipParam("IPv4 address to probe."),
	}
	return definition{
		name:   ToolPing,
		params: params,
		tool: utils.NewTool(
			&schema.ToolInfo{
				Name:        ToolPing,
				Desc:        "Check whether a host answers ICMP echo. Returns reachable=true or false.",
				ParamsOneOf: schema.NewParamsOneOfByParams(params),
			},
			func(ctx context.Context, in *model.PingInput) (*model.PingOutput, error) {
				// only literals reach the ping binary
				if err := netsim.ValidateIPv4(in.IP); err != nil {
					return nil, err
				}
				return &model.PingOutput{IP: in.IP, Reachable: p.Reachable(ctx, in.IP)}, nil
			},
		),
	}
}
