package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// stringArgs are coerced to trimmed strings.
var stringArgs = []string{"ip", "port", "name", "query"}

// SanitizeArguments trims string arguments and coerces vlan to an integer.
// It never fails: unparseable input is passed through for the guard to reject.
// Both the agent's tool node and the direct tool endpoint run it.
func SanitizeArguments(_ context.Context, _ string, arguments string) (string, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil {
		return arguments, nil
	}

	for _, k := range stringArgs {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch vv := v.(type) {
		case string:
			m[k] = strings.TrimSpace(vv)
		default:
			m[k] = strings.TrimSpace(fmt.Sprint(v))
		}
	}

	if v, ok := m["vlan"]; ok {
		switch vv := v.(type) {
		case float64:
			if vv == math.Trunc(vv) {
				m["vlan"] = int(vv)
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(vv)); err == nil {
				m["vlan"] = n
			}
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return arguments, nil
	}
	return string(b), nil
}
