package netsim

import "sort"

// PortVLAN is a single port → VLAN binding.
type PortVLAN struct {
	Port string `json:"port"`
	VLAN int    `json:"vlan"`
}

// VLANTable holds the current VLAN of every port, keyed by device IP.
type VLANTable struct {
	devices map[string]map[string]int
}

// NewVLANTable deep-copies state into a new VLANTable.
func NewVLANTable(state map[string]map[string]int) *VLANTable {
	devices := make(map[string]map[string]int, len(state))
	for ip, ports := range state {
		cp := make(map[string]int, len(ports))
		for port, vlan := range ports {
			cp[port] = vlan
		}
		devices[ip] = cp
	}
	return &VLANTable{devices: devices}
}

// HasDevice reports whether ip has a VLAN table.
func (t *VLANTable) HasDevice(ip string) bool {
	_, ok := t.devices[ip]
	return ok
}

// VLAN returns the VLAN bound to port on device ip. deviceOK is false when
// the device is unknown; portOK is false when the device has no such port.
func (t *VLANTable) VLAN(ip, port string) (vlan int, deviceOK, portOK bool) {
	ports, ok := t.devices[ip]
	if !ok {
		return 0, false, false
	}
	vlan, portOK = ports[port]
	return vlan, true, portOK
}

// Ports returns the bindings of device ip sorted by the raw port string, so
// "Gi0/10" sorts before "Gi0/2".
func (t *VLANTable) Ports(ip string) ([]PortVLAN, bool) {
	ports, ok := t.devices[ip]
	if !ok {
		return nil, false
	}
	out := make([]PortVLAN, 0, len(ports))
	for port, vlan := range ports {
		out = append(out, PortVLAN{Port: port, VLAN: vlan})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out, true
}
