package bt

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tickmind/tickmind/internal/core/observability/log"
	"github.com/tickmind/tickmind/pkg/concurrent"
	"github.com/tickmind/tickmind/pkg/sequence"
)

// Manager drives a population of agents one simulation tick at a time.
// Agents update in spawn order, which every participant of a lockstep
// session reproduces identically. Each agent's seed derives from the shared
// simulation seed and the agent's spawn ordinal, so population-level draws
// are as deterministic as single-agent ones.
//
// The mutex guards only the manager's own registry (spawn/despawn versus
// update); individual agents stay lock-free because each is exclusively
// owned.
type Manager struct {
	mu      sync.RWMutex
	agents  map[string]*Agent
	order   []*Agent
	seed    uint64
	spawned uint64
	tick    uint64
	log     *log.Logger
}

// NewManager creates a manager for one simulation, keyed by the session's
// shared seed.
func NewManager(seed uint64, logger *log.Logger) *Manager {
	return &Manager{
		agents: make(map[string]*Agent),
		seed:   seed,
		log:    logger.With(zap.Uint64("seed", seed)),
	}
}

// Spawn creates an agent with a generated ID.
func (m *Manager) Spawn(def *Definition) (*Agent, error) {
	return m.SpawnWithID(uuid.NewString(), def)
}

// SpawnWithID creates an agent bound to def under the given ID. The ID must
// be unique within the manager.
func (m *Manager) SpawnWithID(id string, def *Definition) (*Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.agents[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAgentExists, id)
	}
	a := NewAgent(id, def, agentSeed(m.seed, m.spawned), m.log)
	m.spawned++
	m.agents[id] = a
	m.order = append(m.order, a)
	m.log.Info("agent spawned",
		zap.String("agent", id), zap.String("tree", def.Name()), zap.Int("nodes", def.Len()))
	return a, nil
}

// Agent looks up an agent by ID.
func (m *Manager) Agent(id string) (*Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[id]
	return a, ok
}

// Despawn frees an agent and removes it from the update order.
func (m *Manager) Despawn(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	a.Free()
	delete(m.agents, id)
	for i, o := range m.order {
		if o == a {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.log.Info("agent despawned", zap.String("agent", id))
	return nil
}

// Len returns the number of live agents.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.agents)
}

// Tick returns the last completed manager tick.
func (m *Manager) Tick() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tick
}

// Update advances every agent by one tick, in spawn order.
func (m *Manager) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick++
	for _, a := range m.order {
		a.Update()
	}
}

// UpdateParallel advances every agent by one tick with one goroutine per
// agent. Agents share no mutable state, so the end state is identical to a
// serial Update; only use this when tick throughput matters more than
// single-threaded simplicity.
func (m *Manager) UpdateParallel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick++
	return concurrent.Concurrent(sequence.From(m.order), func(a *Agent) error {
		a.Update()
		return nil
	})
}

// Snapshots exports every agent's per-tick state in spawn order, for the
// observability surface.
func (m *Manager) Snapshots() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Snapshot, 0, len(m.order))
	for _, a := range m.order {
		out = append(out, a.Snapshot())
	}
	return out
}
