package bt

// TickContext is passed to action, condition and service callbacks. It
// exposes exactly the state the authoring layer may touch: the node's
// auxiliary slots, the agent's blackboard, the current simulation tick and a
// deterministic random stream. The same struct instance is reused across
// calls within one agent; callbacks must not retain it.
type TickContext struct {
	// Tick is the current simulation tick (first Update is tick 1).
	Tick uint64
	// Board is the agent's blackboard.
	Board *Blackboard
	// Slots is the node's auxiliary slot view, sized to the slot count the
	// node declared at build time. Actions use it to persist state across
	// ticks; it survives interruption and is only zeroed on (re)Init.
	Slots []Slot
	// Rand is the node's deterministic random stream.
	Rand Rand
}

// Action is the multi-tick leaf callback. Returning StatusRunning requests
// continuation: the next traversal that reaches the same path resumes the
// action rather than restarting it, with resumption state kept in Slots.
type Action interface {
	Tick(t *TickContext) Status
}

// Interruptible is an optional Action extension. OnInterrupt is invoked when
// a Running action is forcibly deactivated (ancestor short-circuit, decorator
// condition flip or reactive abort). Interruption is structural: there is no
// signal or panic across the call stack.
type Interruptible interface {
	OnInterrupt(t *TickContext)
}

// Condition is the decorator predicate. Conditions must be side-effect-free
// with respect to agent runtime state; they may read the blackboard.
type Condition interface {
	Check(t *TickContext) bool
}

// ServiceFunc is the periodic callback of a service node. Services run on a
// tick cadence while their subtree is active and never participate in status
// propagation, so the callback returns nothing.
type ServiceFunc func(t *TickContext)

// ActionFunc adapts a plain function to Action.
type ActionFunc func(t *TickContext) Status

func (f ActionFunc) Tick(t *TickContext) Status { return f(t) }

// ConditionFunc adapts a plain function to Condition.
type ConditionFunc func(t *TickContext) bool

func (f ConditionFunc) Check(t *TickContext) bool { return f(t) }
