package model

// Tool argument and result payloads. Field names are the JSON schema the
// model sees, so they must match the ParameterInfo keys in the tool registry.

type PingInput struct {
	IP string `json:"ip"`
}

type PingOutput struct {
	IP        string `json:"ip"`
	Reachable bool   `json:"reachable"`
}

type CMDBInput struct {
	Name string `json:"name"`
}

type CMDBOutput struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
}

type ShowVLANPortInput struct {
	IP   string `json:"ip"`
	Port string `json:"port"`
}

type ShowVLANPortsAllInput struct {
	IP string `json:"ip"`
}

type ChangeVLANInput struct {
	IP   string `json:"ip"`
	Port string `json:"port"`
	VLAN int    `json:"vlan"`
}

// TextOutput carries the human-readable result of a network operation.
type TextOutput struct {
	Result string `json:"result"`
}

type LookupDocsInput struct {
	Query string `json:"query"`
}

type DocSnippet struct {
	Source  string  `json:"source"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type LookupDocsOutput struct {
	Documents []DocSnippet `json:"documents"`
}

// ToolFailure is returned to the model in place of a result when a tool errors.
type ToolFailure struct {
	Error   string `json:"error"`
	Tool    string `json:"tool"`
	Message string `json:"message"`
}
