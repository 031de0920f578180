package ports

import "context"

// AgentAnswer is the agent backend's reply to a question.
type AgentAnswer struct {
	Answer string `json:"answer"`
	Type   string `json:"type"`
}

// Agent forwards natural-language questions to the supply-chain agent backend.
type Agent interface {
	Ask(ctx context.Context, question string) (AgentAnswer, error)
}
