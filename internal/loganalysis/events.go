// Package loganalysis rates and explains aggregated network device log events.
package loganalysis

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

type Severity string

const (
	SeverityLow     Severity = "low"
	SeverityMid     Severity = "mid"
	SeverityHigh    Severity = "high"
	SeverityUnknown Severity = "n/a"
)

// ParseSeverity accepts low, mid or high in any case.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow, true
	case SeverityMid:
		return SeverityMid, true
	case SeverityHigh:
		return SeverityHigh, true
	}
	return SeverityUnknown, false
}

// rank orders high before mid before low; anything else sorts as mid.
func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityLow:
		return 2
	}
	return 1
}

// Item is one source device contributing to an event.
type Item struct {
	IP      string `json:"ip"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// Event is a log message type aggregated across devices.
type Event struct {
	EventType string   `json:"event_type"`
	Count     int      `json:"count"`
	Items     []Item   `json:"items"`
	Severity  Severity `json:"severity,omitempty"`
}

// Describe renders the event as the model sees it.
func (e Event) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event Type: %s\nTotal Count: %d\nItems:", e.EventType, e.Count)
	for _, it := range e.Items {
		fmt.Fprintf(&b, "\nIP: %s, Count: %d, Message: %s", it.IP, it.Count, it.Message)
	}
	return b.String()
}

// Example returns the first item message, or "" when there are no items.
func (e Event) Example() string {
	if len(e.Items) == 0 {
		return ""
	}
	return e.Items[0].Message
}

// Devices lists the distinct source IPs in first-seen order.
func (e Event) Devices() []string {
	seen := make(map[string]bool, len(e.Items))
	var out []string
	for _, it := range e.Items {
		if !seen[it.IP] {
			seen[it.IP] = true
			out = append(out, it.IP)
		}
	}
	return out
}

// LoadFile reads a JSON array of events.
func LoadFile(path string) ([]Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logs: %w", err)
	}
	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("decode logs %s: %w", path, err)
	}
	return events, nil
}

// SortByCount orders events by total count, most frequent first.
func SortByCount(events []Event) []Event {
	out := append([]Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// SortBySeverity orders events high, mid, low. Unrated events sort as mid.
func SortBySeverity(events []Event) []Event {
	out := append([]Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity.rank() < out[j].Severity.rank() })
	return out
}
