package netsim

import "sort"

// Device is a CMDB record.
type Device struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
}

// Inventory is the CMDB: a read-only name → IP directory.
type Inventory struct {
	byName map[string]string
}

// NewInventory copies entries into a new Inventory.
func NewInventory(entries map[string]string) *Inventory {
	byName := make(map[string]string, len(entries))
	for name, ip := range entries {
		byName[name] = ip
	}
	return &Inventory{byName: byName}
}

// Lookup returns the IP recorded for name.
func (inv *Inventory) Lookup(name string) (string, bool) {
	ip, ok := inv.byName[name]
	return ip, ok
}

// Devices lists every record ordered by name.
func (inv *Inventory) Devices() []Device {
	out := make([]Device, 0, len(inv.byName))
	for name, ip := range inv.byName {
		out = append(out, Device{Name: name, IP: ip})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of devices.
func (inv *Inventory) Len() int {
	return len(inv.byName)
}
