package bt

import "go.uber.org/zap"

// Reactive interruption. The blackboard invokes onValueChanged synchronously
// for every value-changing write; the fan-out below turns registered watches
// into Self and LowerPriority aborts.
//
// Timing is deterministic by construction:
//   - Self aborts apply immediately when the agent is between ticks, or when
//     the current root tick unwinds if the write came from inside a
//     traversal. Either way the Running descendant is Inactive before the
//     same Update call returns.
//   - LowerPriority aborts only flag the decorator; the owning composite
//     consumes the flag at its next evaluation. A traversal already past the
//     decorator's slot is never rewound mid-tick, so the outcome cannot
//     depend on where inside a tick the write happened.

func (a *Agent) onValueChanged(key KeyID) {
	for _, id := range a.board.watchers[key] {
		if a.state.status[id] == StatusInactive {
			// Dangling watch: the decorator left the active path without
			// deregistering. Defensively ignored, never propagated.
			a.log.Debug("ignoring watch for inactive decorator",
				zap.String("node", a.def.nodes[id].name), zap.Error(ErrStaleWatch))
			continue
		}
		mode := a.def.nodes[id].abort
		if mode.lowerPriority() {
			a.state.lpPending[id] = true
		}
		if mode.self() {
			a.state.selfPending = append(a.state.selfPending, id)
		}
	}
	if !a.state.inTick {
		a.applyPendingAborts()
	}
}

// applyPendingAborts drains the Self-abort queue in arrival order. Interrupt
// hooks may themselves write the blackboard and enqueue further aborts; the
// index loop picks those up in the same drain.
func (a *Agent) applyPendingAborts() {
	for i := 0; i < len(a.state.selfPending); i++ {
		a.applySelfAbort(a.state.selfPending[i])
	}
	a.state.selfPending = a.state.selfPending[:0]
}

// applySelfAbort discards any Running state under the decorator so the next
// traversal re-enters at the decorator itself. The decorator's own status and
// its ancestors are left untouched: they are what steer the next traversal
// back to this branch.
func (a *Agent) applySelfAbort(id NodeID) {
	if a.state.status[id] == StatusInactive {
		return
	}
	a.deactivate(a.def.nodes[id].child())
}

// consumeLowerPriorityAbort clears every pending LowerPriority flag owned by
// the composite and returns the highest-priority flagged branch that outranks
// the currently Running branch, or -1. Flags for branches at or below the
// running branch's priority are dropped: normal traversal reaches them
// anyway.
func (a *Agent) consumeLowerPriorityAbort(composite NodeID, runningBranch int) int {
	best := -1
	for _, w := range a.def.lpWatchers[composite] {
		if !a.state.lpPending[w.deco] {
			continue
		}
		a.state.lpPending[w.deco] = false
		if w.branch < runningBranch && best == -1 {
			best = w.branch
		}
	}
	return best
}
