package tools

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/netops-assistant/server/internal/agent/model"
	errx "github.com/netops-assistant/server/internal/core/error"
	"github.com/netops-assistant/server/internal/netsim"
)

// ===================================
// Network inventory and VLAN tools
// ===================================

func ipParam(desc string) *schema.ParameterInfo {
	return &schema.ParameterInfo{Type: schema.String, Desc: desc, Required: true}
}

func portParam() *schema.ParameterInfo {
	return &schema.ParameterInfo{
		Type:     schema.String,
		Desc:     "Switch port identifier exactly as the device names it, e.g. Gi0/5, Gi1/0/12, Ten0/1.",
		Required: true,
	}
}

func cmdbTool(n *netsim.Network) definition {
	params := map[string]*schema.ParameterInfo{
		"name": {
			Type:     schema.String,
			Desc:     "Device hostname as recorded in the CMDB, e.g. asw1, core1, fw1.",
			Required: true,
		},
	}
	return definition{
		name:   ToolCMDB,
		params: params,
		tool: utils.NewTool(
			&schema.ToolInfo{
				Name:        ToolCMDB,
				Desc:        "Look up the management IPv4 address of a network device by its name in the CMDB. Call this before any tool that needs an IP when the user only gave a device name.",
				ParamsOneOf: schema.NewParamsOneOfByParams(params),
			},
			func(ctx context.Context, in *model.CMDBInput) (*model.CMDBOutput, error) {
				ip, ok := n.Inventory().Lookup(in.Name)
				if !ok {
					return nil, errx.NotFound(errors.New(n.CMDB(in.Name)))
				}
				return &model.CMDBOutput{Name: in.Name, IP: ip}, nil
			},
		),
	}
}

func showVLANPortTool(n *netsim.Network) definition {
	params := map[string]*schema.ParameterInfo{
		"ip":   ipParam("IPv4 address of the switch, e.g. 192.168.1.10."),
		"port": portParam(),
	}
	return definition{
		name:   ToolShowVLANPort,
		params: params,
		tool: utils.NewTool(
			&schema.ToolInfo{
				Name:        ToolShowVLANPort,
				Desc:        "Show which VLAN a single port of a switch is assigned to.",
				ParamsOneOf: schema.NewParamsOneOfByParams(params),
			},
			func(ctx context.Context, in *model.ShowVLANPortInput) (*model.TextOutput, error) {
				if err := netsim.ValidateIPv4(in.IP); err != nil {
					return nil, err
				}
				return &model.TextOutput{Result: n.ShowVLANPort(in.IP, in.Port)}, nil
			},
		),
	}
}

func showVLANPortsAllTool(n *netsim.Network) definition {
	params := map[string]*schema.ParameterInfo{
		"ip": ipParam("IPv4 address of the switch, e.g. 192.168.1.10."),
	}
	return definition{
		name:   ToolShowVLANPortsAll,
		params: params,
		tool: utils.NewTool(
			&schema.ToolInfo{
				Name:        ToolShowVLANPortsAll,
				Desc:        "List every port of a switch together with its VLAN.",
				ParamsOneOf: schema.NewParamsOneOfByParams(params),
			},
			func(ctx context.Context, in *model.ShowVLANPortsAllInput) (*model.TextOutput, error) {
				if err := netsim.ValidateIPv4(in.IP); err != nil {
					return nil, err
				}
				return &model.TextOutput{Result: n.ShowVLANPortsAll(in.IP)}, nil
			},
		),
	}
}

func changeVLANTool(n *netsim.Network) definition {
	params := map[string]*schema.ParameterInfo{
		"ip":   ipParam("IPv4 address of the switch to reconfigure."),
		"port": portParam(),
		"vlan": {
			Type:     schema.Integer,
			Desc:     "Target VLAN id. Must be supported by the device.",
			Required: true,
		},
	}
	return definition{
		name:   ToolChangeVLAN,
		params: params,
		tool: utils.NewTool(
			&schema.ToolInfo{
				Name:        ToolChangeVLAN,
				Desc:        "Move a switch port to another VLAN. Only ports and VLANs the device supports are accepted.",
				ParamsOneOf: schema.NewParamsOneOfByParams(params),
			},
			func(ctx context.Context, in *model.ChangeVLANInput) (*model.TextOutput, error) {
				res, err := n.ChangeVLAN(in.IP, in.Port, in.VLAN)
				if err != nil {
					return nil, err
				}
				return &model.TextOutput{Result: res}, nil
			},
		),
	}
}
