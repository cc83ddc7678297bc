package mcp

// ResponseEnvelope is the structured output of every tool.
type ResponseEnvelope struct {
	Data     any      `json:"data"`
	Warnings []string `json:"warnings,omitempty"`
	Charts   []string `json:"charts,omitempty"`
}

// WrapResponse builds an envelope, dropping empty charts.
func WrapResponse(data any, warnings []string, charts ...string) ResponseEnvelope {
	env := ResponseEnvelope{Data: data, Warnings: warnings}
	for _, c := range charts {
		if c != "" {
			env.Charts = append(env.Charts, c)
		}
	}
	return env
}
