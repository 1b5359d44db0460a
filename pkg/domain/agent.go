package domain

import "time"

// AgentStatus represents the availability of an execution agent.
type AgentStatus string

const (
	AgentStatusAvailable AgentStatus = "available"
	AgentStatusBusy      AgentStatus = "busy"
	AgentStatusOffline   AgentStatus = "offline"
)

// AgentInfo describes a registered execution agent. Capability tags are
// advisory: they are recorded and surfaced but not enforced during
// assignment.
type AgentInfo struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Capabilities []string    `json:"capabilities,omitempty"`
	Status       AgentStatus `json:"status"`
	LastSeen     time.Time   `json:"last_seen"`
}

// Available reports whether the agent can accept new work.
func (a AgentInfo) Available() bool {
	return a.Status == AgentStatusAvailable
}
