package config

import (
	"strings"
	"time"
)

// AgentConfig points at the supply-chain agent backend (AGENT_* variables).
type AgentConfig struct {
	APIURL  string        `env:"API_URL" envDefault:"http://localhost:5000"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

// Sanitize trims the URL and restores the default timeout when unset.
func (a *AgentConfig) Sanitize() {
	a.APIURL = strings.TrimRight(strings.TrimSpace(a.APIURL), "/")
	if a.Timeout <= 0 {
		a.Timeout = 60 * time.Second
	}
}
