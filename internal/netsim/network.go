// Package netsim simulates the CMDB and switch VLAN state the assistant's
// tools operate on. All tables are read-only after construction.
package netsim

import (
	"fmt"
	"strings"
)

// Network bundles the tables the operations read from.
type Network struct {
	inventory *Inventory
	vlans     *VLANTable
	switches  *SwitchTable
}

// NewNetwork builds a Network over the given tables.
func NewNetwork(inventory *Inventory, vlans *VLANTable, switches *SwitchTable) *Network {
	return &Network{
		inventory: inventory,
		vlans:     vlans,
		switches:  switches,
	}
}

// Inventory exposes the CMDB.
func (n *Network) Inventory() *Inventory { return n.inventory }

// VLANs exposes the port → VLAN table.
func (n *Network) VLANs() *VLANTable { return n.vlans }

// Switches exposes the capability table.
func (n *Network) Switches() *SwitchTable { return n.switches }

// CMDB returns the IP of device name, or a not-found message.
func (n *Network) CMDB(name string) string {
	if ip, ok := n.inventory.Lookup(name); ok {
		return ip
	}
	return fmt.Sprintf("Device with name %s not found.", name)
}

// ShowVLANPort describes the VLAN bound to one port. The caller is expected
// to have validated ip with ValidateIPv4.
func (n *Network) ShowVLANPort(ip, port string) string {
	vlan, deviceOK, portOK := n.vlans.VLAN(ip, port)
	if !deviceOK {
		return deviceNotInDatabase(ip)
	}
	if !portOK {
		return fmt.Sprintf("Port %s not found on device %s.", port, ip)
	}
	return fmt.Sprintf("Port %s on device %s is configured in VLAN %d.", port, ip, vlan)
}

// ShowVLANPortsAll renders every port of a device, one per line.
func (n *Network) ShowVLANPortsAll(ip string) string {
	ports, ok := n.vlans.Ports(ip)
	if !ok {
		return deviceNotInDatabase(ip)
	}
	lines := make([]string, 0, len(ports)+1)
	lines = append(lines, fmt.Sprintf("VLAN table for device %s:", ip))
	for _, p := range ports {
		lines = append(lines, fmt.Sprintf(" - Port %s → VLAN %d", p.Port, p.VLAN))
	}
	return strings.Join(lines, "\n")
}

// ChangeVLAN checks a VLAN change against the capability table and reports
// the outcome. A malformed ip is an error; every other rejection is a
// message. Accepted changes are not written back to the VLAN table.
func (n *Network) ChangeVLAN(ip, port string, vlan int) (string, error) {
	if err := ValidateIPv4(ip); err != nil {
		return "", err
	}
	name, ok := n.switches.Name(ip)
	if !ok {
		return fmt.Sprintf("Device with IP %s not found.", ip), nil
	}
	if !n.switches.ValidPort(ip, port) {
		return fmt.Sprintf("Port %s not found on device %s (%s).", port, name, ip), nil
	}
	if !n.switches.ValidVLAN(ip, vlan) {
		return fmt.Sprintf("VLAN %d is not supported on device %s (%s).", vlan, name, ip), nil
	}
	return fmt.Sprintf("VLAN on port %s of device %s (%s) successfully changed to VLAN %d.", port, name, ip, vlan), nil
}

func deviceNotInDatabase(ip string) string {
	return fmt.Sprintf("Device with IP %s not found in the database.", ip)
}
