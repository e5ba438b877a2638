package netsim

// SwitchSpec describes which ports and VLANs a switch accepts.
type SwitchSpec struct {
	Name  string
	Ports []string
	VLANs []int
}

type switchCaps struct {
	name  string
	ports []string
	port  map[string]struct{}
	vlan  map[int]struct{}
}

// SwitchTable is the capability table consulted by ChangeVLAN, keyed by IP.
type SwitchTable struct {
	switches map[string]*switchCaps
}

// NewSwitchTable indexes specs by IP. Port order is preserved.
func NewSwitchTable(specs map[string]SwitchSpec) *SwitchTable {
	switches := make(map[string]*switchCaps, len(specs))
	for ip, spec := range specs {
		caps := &switchCaps{
			name:  spec.Name,
			ports: append([]string(nil), spec.Ports...),
			port:  make(map[string]struct{}, len(spec.Ports)),
			vlan:  make(map[int]struct{}, len(spec.VLANs)),
		}
		for _, p := range spec.Ports {
			caps.port[p] = struct{}{}
		}
		for _, v := range spec.VLANs {
			caps.vlan[v] = struct{}{}
		}
		switches[ip] = caps
	}
	return &SwitchTable{switches: switches}
}

// Name returns the switch name for ip.
func (t *SwitchTable) Name(ip string) (string, bool) {
	caps, ok := t.switches[ip]
	if !ok {
		return "", false
	}
	return caps.name, true
}

// ValidPort reports whether port exists on switch ip.
func (t *SwitchTable) ValidPort(ip, port string) bool {
	caps, ok := t.switches[ip]
	if !ok {
		return false
	}
	_, ok = caps.port[port]
	return ok
}

// ValidVLAN reports whether vlan is configured on switch ip.
func (t *SwitchTable) ValidVLAN(ip string, vlan int) bool {
	caps, ok := t.switches[ip]
	if !ok {
		return false
	}
	_, ok = caps.vlan[vlan]
	return ok
}

// Ports returns the ordered port list of switch ip.
func (t *SwitchTable) Ports(ip string) []string {
	caps, ok := t.switches[ip]
	if !ok {
		return nil
	}
	return append([]string(nil), caps.ports...)
}
