package bt

// runtimeState is the per-agent mutable slab, allocated once when an agent is
// bound to a Definition and never resized afterwards. Every array is indexed
// by NodeID (or service index for timers), paralleling the definition arena.
type runtimeState struct {
	// status holds the last observed status of every node. Inactive means the
	// node was not reached by the current traversal.
	status []Status
	// visit is the active-path marker: the tick a node was last reached.
	visit []uint64
	// slots is the auxiliary data slab, laid out per the definition's slot
	// assignment.
	slots []Slot
	// timers holds ticks-remaining per service node.
	timers []uint32
	// rng holds the splitmix64 state per node.
	rng []uint64
	// activeChild tracks the drawn child index of random composites.
	activeChild []uint16

	// lpPending flags decorators whose LowerPriority abort fired and has not
	// yet been consumed by their owning composite.
	lpPending []bool
	// selfPending queues Self aborts raised while a traversal is in progress;
	// they are applied when the root tick unwinds, still within the same
	// Update call.
	selfPending []NodeID

	inTick bool
}

const noActiveChild uint16 = 0xffff

func newRuntimeState(def *Definition) *runtimeState {
	n := def.Len()
	return &runtimeState{
		status:      make([]Status, n),
		visit:       make([]uint64, n),
		slots:       make([]Slot, def.slots),
		timers:      make([]uint32, def.services),
		rng:         make([]uint64, n),
		activeChild: make([]uint16, n),
		lpPending:   make([]bool, n),
		selfPending: make([]NodeID, 0, 4),
	}
}

// reset returns the slab to its initial state: everything Inactive, slots
// zeroed, random streams re-derived from seed.
func (s *runtimeState) reset(def *Definition, seed uint64) {
	for i := range s.status {
		s.status[i] = StatusInactive
		s.visit[i] = 0
		s.rng[i] = streamSeed(seed, NodeID(i))
		s.activeChild[i] = noActiveChild
		s.lpPending[i] = false
	}
	for i := range s.slots {
		s.slots[i].Zero()
	}
	for i := range s.timers {
		s.timers[i] = 0
	}
	s.selfPending = s.selfPending[:0]
	s.inTick = false
}

// slotView returns the auxiliary slot window of one node.
func (s *runtimeState) slotView(n *node) []Slot {
	if n.slotCount == 0 {
		return nil
	}
	return s.slots[n.slotBase : n.slotBase+n.slotCount]
}
