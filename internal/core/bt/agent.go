package bt

import (
	"go.uber.org/zap"

	"github.com/tickmind/tickmind/internal/core/observability/log"
)

// Agent binds one simulated entity to a Definition: it owns the runtime slab,
// the blackboard and the tick cursor. All state is exclusively owned — the
// engine is single-threaded per agent, one Update per simulation tick, no
// blocking anywhere. Different agents may be updated concurrently because
// they share nothing mutable (the Definition is read-only).
type Agent struct {
	id    string
	def   *Definition
	state *runtimeState
	board *Blackboard
	seed  uint64
	tick  uint64

	// ctx is the scratch TickContext reused for every callback of this
	// agent, keeping the hot path allocation-free.
	ctx TickContext

	log *log.Logger
}

// NewAgent allocates and initializes an agent against a compiled definition.
// seed must derive from the simulation's shared seed so random draws stay
// identical across participants.
func NewAgent(id string, def *Definition, seed uint64, logger *log.Logger) *Agent {
	a := &Agent{
		id:    id,
		def:   def,
		state: newRuntimeState(def),
		board: NewBlackboard(),
		seed:  seed,
		log:   logger.With(zap.String("agent", id), zap.String("tree", def.Name())),
	}
	a.state.reset(def, seed)
	a.board.onChange = a.onValueChanged
	return a
}

func (a *Agent) ID() string              { return a.id }
func (a *Agent) Definition() *Definition { return a.def }
func (a *Agent) Board() *Blackboard      { return a.board }

// Tick returns the last completed simulation tick (0 before the first
// Update).
func (a *Agent) Tick() uint64 { return a.tick }

// Update runs one traversal from the root. This is the only externally
// driven entry point; everything else in the engine is invoked transitively.
func (a *Agent) Update() Status {
	a.tick++
	a.state.inTick = true
	st := a.evalNode(a.def.root)
	a.state.inTick = false
	a.applyPendingAborts()
	return st
}

// Reset reinitializes the agent: all statuses Inactive, slots zeroed, watch
// registrations dropped, tick cursor rewound. The blackboard values survive;
// call Board().Free() as well for a full wipe.
func (a *Agent) Reset() {
	a.board.watchers = make(map[KeyID][]NodeID)
	a.state.reset(a.def, a.seed)
	a.tick = 0
}

// Free releases the agent's blackboard and watcher registrations. Must be
// called before the agent is dropped so no watch registration can later
// dereference a destroyed agent.
func (a *Agent) Free() {
	a.board.Free()
	a.log.Debug("agent freed", zap.Uint64("tick", a.tick))
}

// callbackContext points the scratch context at one node.
func (a *Agent) callbackContext(id NodeID, n *node) *TickContext {
	a.ctx.Tick = a.tick
	a.ctx.Board = a.board
	a.ctx.Slots = a.state.slotView(n)
	a.ctx.Rand = Rand{state: &a.state.rng[id]}
	return &a.ctx
}
