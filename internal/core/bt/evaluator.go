package bt

// evalNode is the single polymorphic tick function: a tagged switch over the
// node kind. It never mutates the Definition; all effects land in the runtime
// slab and the blackboard. Callers receive only Success, Failure or Running.
func (a *Agent) evalNode(id NodeID) Status {
	n := &a.def.nodes[id]
	entered := a.state.status[id] == StatusInactive
	a.state.visit[id] = a.tick

	var st Status
	switch n.kind {
	case NodeRoot:
		st = a.evalNode(n.child())
	case NodeComposite:
		st = a.evalComposite(id, n, entered)
	case NodeDecorator:
		st = a.evalDecorator(id, n, entered)
	case NodeLeaf:
		st = n.action.Tick(a.callbackContext(id, n))
		if st != StatusRunning && !st.Terminal() {
			// Inactive is never a valid action result.
			st = StatusFailure
		}
	case NodeService:
		st = a.evalService(id, n, entered)
	}
	a.state.status[id] = st
	return st
}

func (a *Agent) evalComposite(id NodeID, n *node, entered bool) Status {
	switch n.composite {
	case CompositeSequence:
		return a.evalSequence(id, n)
	case CompositeSelector:
		return a.evalSelector(id, n, entered)
	default:
		return a.evalRandom(id, n, entered)
	}
}

// evalSequence re-evaluates its children from the first every tick, so
// earlier stateless successes are confirmed before a Running child resumes.
// The first Failure or Running short-circuits; children past that point are
// deactivated.
func (a *Agent) evalSequence(id NodeID, n *node) Status {
	for i, ch := range n.children {
		st := a.evalNode(ch)
		if st == StatusSuccess {
			continue
		}
		a.deactivateFrom(n, i+1)
		return st
	}
	return StatusSuccess
}

// evalSelector implements priority selection. While a child is Running the
// selector resumes at that child's slot; higher-priority siblings keep their
// last observed status and their reactive watches so LowerPriority aborts can
// re-open them. A consumed LowerPriority abort restarts evaluation at the
// aborting decorator's branch.
func (a *Agent) evalSelector(id NodeID, n *node, entered bool) Status {
	start := 0
	if !entered {
		if ri := a.runningChildIndex(n); ri >= 0 {
			start = ri
			if lp := a.consumeLowerPriorityAbort(id, ri); lp >= 0 {
				start = lp
			}
		}
	}
	for i := start; i < len(n.children); i++ {
		st := a.evalNode(n.children[i])
		if st == StatusFailure {
			continue
		}
		a.deactivateFrom(n, i+1)
		return st
	}
	return StatusFailure
}

// evalRandom draws one child uniformly from the node's deterministic stream
// and sticks with it while it is Running; a re-draw happens only once the
// active child has left the Running state.
func (a *Agent) evalRandom(id NodeID, n *node, entered bool) Status {
	idx := a.state.activeChild[id]
	if entered || idx == noActiveChild || a.state.status[n.children[idx]] != StatusRunning {
		idx = uint16(Rand{state: &a.state.rng[id]}.Intn(len(n.children)))
		a.state.activeChild[id] = idx
	}
	for i, ch := range n.children {
		if uint16(i) != idx {
			a.deactivate(ch)
		}
	}
	return a.evalNode(n.children[idx])
}

// evalDecorator gates its child on the condition. The condition is evaluated
// when the decorator is entered or the child is not Running; over a Running
// child it stays latched unless the decorator sits in a dynamic region, in
// which case it is re-checked every tick and a flip to false interrupts the
// child immediately.
func (a *Agent) evalDecorator(id NodeID, n *node, entered bool) Status {
	if entered && n.abort != AbortNone {
		a.board.watch(n.watch, id)
	}
	child := n.child()
	childRunning := a.state.status[child] == StatusRunning
	if entered || !childRunning || n.recheck {
		if !n.condition.Check(a.callbackContext(id, n)) {
			// Interrupts a Running child, clears a terminal one. The
			// decorator itself stays on its composite's candidate list (and
			// keeps its watch) until the composite abandons it.
			a.deactivate(child)
			return StatusFailure
		}
	}
	return a.evalNode(child)
}

// evalService runs timer bookkeeping, fires the periodic callback when due,
// then passes the child's status through unchanged. Services never alter
// status propagation.
func (a *Agent) evalService(id NodeID, n *node, entered bool) Status {
	ti := n.serviceIndex
	if entered {
		a.state.timers[ti] = n.interval
		if n.runOnEnter {
			n.service(a.callbackContext(id, n))
		}
	} else {
		if a.state.timers[ti] > 0 {
			a.state.timers[ti]--
		}
		if a.state.timers[ti] == 0 {
			n.service(a.callbackContext(id, n))
			a.state.timers[ti] = n.interval
		}
	}
	return a.evalNode(n.child())
}

// runningChildIndex returns the index of the child currently holding a
// Running status, or -1.
func (a *Agent) runningChildIndex(n *node) int {
	for i, ch := range n.children {
		if a.state.status[ch] == StatusRunning {
			return i
		}
	}
	return -1
}

// deactivateFrom deactivates the children of n starting at index from.
func (a *Agent) deactivateFrom(n *node, from int) {
	for i := from; i < len(n.children); i++ {
		a.deactivate(n.children[i])
	}
}

// deactivate marks a subtree Inactive: Running leaves get their interruption
// hook, watching decorators are deregistered, random draws and pending abort
// flags are cleared, service timers rewound. Already-inactive subtrees are
// skipped (children of an Inactive node are Inactive by invariant).
func (a *Agent) deactivate(id NodeID) {
	if a.state.status[id] == StatusInactive {
		return
	}
	n := &a.def.nodes[id]
	for _, ch := range n.children {
		a.deactivate(ch)
	}
	switch n.kind {
	case NodeLeaf:
		if a.state.status[id] == StatusRunning {
			if h, ok := n.action.(Interruptible); ok {
				h.OnInterrupt(a.callbackContext(id, n))
			}
		}
	case NodeDecorator:
		if n.abort != AbortNone {
			a.board.unwatch(n.watch, id)
		}
		a.state.lpPending[id] = false
	case NodeComposite:
		a.state.activeChild[id] = noActiveChild
	case NodeService:
		a.state.timers[n.serviceIndex] = 0
	}
	a.state.status[id] = StatusInactive
}
