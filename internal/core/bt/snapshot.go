package bt

// NodeSnapshot is the read-only per-node view exported to external
// visualizers. It carries everything a debugger needs without the engine
// depending on any rendering technology.
type NodeSnapshot struct {
	ID     uint16 `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	// Active reports whether the node is on the current tick's active path.
	Active bool `json:"active"`
	// ServiceCountdown holds the ticks remaining until a service node fires
	// again; nil for non-service nodes.
	ServiceCountdown *uint32 `json:"service_countdown,omitempty"`
}

// Snapshot is one agent's full per-tick state export.
type Snapshot struct {
	AgentID string         `json:"agent_id"`
	Tree    string         `json:"tree"`
	Tick    uint64         `json:"tick"`
	Nodes   []NodeSnapshot `json:"nodes"`
}

// Snapshot exports the agent's current state. The result is a copy; holding
// it does not pin the agent.
func (a *Agent) Snapshot() Snapshot {
	s := Snapshot{
		AgentID: a.id,
		Tree:    a.def.name,
		Tick:    a.tick,
		Nodes:   make([]NodeSnapshot, len(a.def.nodes)),
	}
	for i := range a.def.nodes {
		n := &a.def.nodes[i]
		ns := NodeSnapshot{
			ID:     uint16(i),
			Name:   n.name,
			Kind:   n.kind.String(),
			Status: a.state.status[i].String(),
			Active: a.tick > 0 && a.state.visit[i] == a.tick,
		}
		if n.kind == NodeService {
			countdown := a.state.timers[n.serviceIndex]
			ns.ServiceCountdown = &countdown
		}
		s.Nodes[i] = ns
	}
	return s
}
