package netsim

import "fmt"

// DefaultInventory returns the lab CMDB.
func DefaultInventory() *Inventory {
	return NewInventory(map[string]string{
		"asw1":     "192.168.1.10",   // access
		"asw2":     "192.168.1.11",   // access
		"asw3":     "192.168.1.12",   // access
		"dsw1":     "192.168.2.1",    // distribution
		"dsw2":     "192.168.2.2",    // distribution
		"core1":    "192.168.3.1",    // core
		"fw1":      "192.168.254.1",  // firewall
		"vpn-gw":   "192.168.100.1",  // VPN gateway
		"rtr-edge": "10.0.0.1",       // edge router
		"wlc1":     "192.168.200.10", // wireless LAN controller
	})
}

// DefaultVLANTable returns the lab port → VLAN state.
func DefaultVLANTable() *VLANTable {
	return NewVLANTable(map[string]map[string]int{
		"192.168.1.10": portRange("Gi0/", 1, 24, func(i int) int {
			switch {
			case i <= 8:
				return 10
			case i <= 16:
				return 20
			default:
				return 30
			}
		}),
		"192.168.1.11":  portRange("Gi0/", 1, 24, func(i int) int { return pick(i%2 == 0, 1, 40) }),
		"192.168.1.12":  portRange("Gi0/", 1, 24, func(i int) int { return pick(i <= 12, 50, 60) }),
		"192.168.2.1":   portRange("Gi1/0/", 1, 24, func(i int) int { return pick(i == 1 || i == 2, 99, 10) }),
		"192.168.2.2":   portRange("Gi1/0/", 1, 24, func(i int) int { return pick(i <= 12, 20, 30) }),
		"192.168.3.1":   portRange("Ten0/", 1, 8, func(i int) int { return pick(i == 1 || i == 4, 1, 99) }),
		"192.168.254.1": portRange("Gi0/", 0, 7, func(i int) int { return pick(i <= 4, 1, 100) }),
		"192.168.100.1": portRange("Gi0/", 0, 7, func(i int) int { return pick(i <= 4, 100, 1) }),
		"10.0.0.1":      portRange("Gi0/", 0, 7, func(i int) int { return pick(i%2 == 0, 1, 99) }),
		"10.0.0.2":      portRange("Gi0/", 0, 7, func(int) int { return 100 }),
	})
}

// DefaultSwitchTable returns the lab switch capabilities.
func DefaultSwitchTable() *SwitchTable {
	access := []int{10, 20, 30, 40, 50}
	distribution := []int{10, 20, 30, 100, 200}
	return NewSwitchTable(map[string]SwitchSpec{
		"192.168.1.10": {Name: "asw1", Ports: portNames("Gi0/", 1, 24), VLANs: access},
		"192.168.1.11": {Name: "asw2", Ports: portNames("Gi0/", 1, 24), VLANs: access},
		"192.168.1.12": {Name: "asw3", Ports: portNames("Gi0/", 1, 24), VLANs: access},
		"192.168.2.1":  {Name: "dsw1", Ports: portNames("Gi1/0/", 1, 24), VLANs: distribution},
		"192.168.2.2":  {Name: "dsw2", Ports: portNames("Gi1/0/", 1, 24), VLANs: distribution},
		"192.168.3.1":  {Name: "core1", Ports: portNames("Ten0/", 1, 8), VLANs: []int{10, 20, 30, 100, 200, 300}},
	})
}

// DefaultNetwork wires the three default tables together.
func DefaultNetwork() *Network {
	return NewNetwork(DefaultInventory(), DefaultVLANTable(), DefaultSwitchTable())
}

func portNames(prefix string, from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

func portRange(prefix string, from, to int, vlan func(int) int) map[string]int {
	out := make(map[string]int, to-from+1)
	for i := from; i <= to; i++ {
		out[fmt.Sprintf("%s%d", prefix, i)] = vlan(i)
	}
	return out
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}
